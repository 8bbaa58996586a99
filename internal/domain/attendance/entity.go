package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
)

// Record is one attendance session. It is open while CheckOut is nil.
type Record struct {
	ID                string
	UserID            string
	WorkDate          string // YYYY-MM-DD, civil
	CheckIn           time.Time
	CheckInLatitude   *float64
	CheckInLongitude  *float64
	CheckInNote       string
	Status            Status
	LateMinutes       int
	CheckOut          *time.Time
	CheckOutLatitude  *float64
	CheckOutLongitude *float64
	CheckOutNote      *string
	OvertimeSyncedAt  *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (r Record) IsOpen() bool {
	return r.CheckOut == nil
}

// CheckOutUpdate closes an open record.
type CheckOutUpdate struct {
	ID        string
	CheckOut  time.Time
	Latitude  *float64
	Longitude *float64
	Note      string
}
