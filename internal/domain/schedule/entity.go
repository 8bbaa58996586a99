package schedule

// Shift is one scheduled working block for a user on a civil date.
// Times are local civil "HH:MM".
type Shift struct {
	ID        string
	UserID    string
	WorkDate  string
	StartTime string
	EndTime   string
}
