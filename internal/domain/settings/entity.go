package settings

import (
	"net/netip"
	"strings"

	"github.com/cmlabs-hris/auto-attendance/internal/pkg/geo"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/validator"
)

// Defaults applied when the stored document omits a field.
const (
	DefaultMaxDistanceMeters  = 100
	DefaultWorkStartTime      = "08:00"
	DefaultWorkEndTime        = "17:00"
	DefaultGracePeriodMinutes = 5
)

// WorkSettings is the company-wide attendance configuration snapshot.
type WorkSettings struct {
	OfficeLatitude    float64
	OfficeLongitude   float64
	MaxDistanceMeters float64
	TrustedIPs        []string // single addresses or CIDR ranges
	RequireGPSAndWiFi bool
	OffDays           []int // 0=Sunday..6=Saturday
	WorkStartTime     string
	WorkEndTime       string
	GracePeriod       bool
	GraceMinutes      int
}

// Defaults returns the settings used when nothing is stored.
func Defaults() WorkSettings {
	return WorkSettings{
		MaxDistanceMeters: DefaultMaxDistanceMeters,
		WorkStartTime:     DefaultWorkStartTime,
		WorkEndTime:       DefaultWorkEndTime,
		GraceMinutes:      DefaultGracePeriodMinutes,
	}
}

// Normalize replaces unusable values with their defaults. A non-positive
// MaxDistanceMeters is kept as stored; see AcceptsGPS.
func (s *WorkSettings) Normalize() {
	if !validator.IsValidTimeOfDay(s.WorkStartTime) {
		s.WorkStartTime = DefaultWorkStartTime
	}
	if !validator.IsValidTimeOfDay(s.WorkEndTime) {
		s.WorkEndTime = DefaultWorkEndTime
	}
	if s.GraceMinutes < 0 {
		s.GraceMinutes = DefaultGracePeriodMinutes
	}
	days := s.OffDays[:0]
	for _, d := range s.OffDays {
		if d >= 0 && d <= 6 {
			days = append(days, d)
		}
	}
	s.OffDays = days
}

// AcceptsGPS reports whether a GPS fix can ever place a user at the office.
// A radius of zero or less turns GPS verification off.
func (s WorkSettings) AcceptsGPS() bool {
	return s.MaxDistanceMeters > 0
}

func (s WorkSettings) Office() geo.Point {
	return geo.Point{Latitude: s.OfficeLatitude, Longitude: s.OfficeLongitude}
}

// IsOffDay reports whether weekday (0=Sunday) is a company day off.
func (s WorkSettings) IsOffDay(weekday int) bool {
	for _, d := range s.OffDays {
		if d == weekday {
			return true
		}
	}
	return false
}

// IPSet is a parsed set of trusted addresses and ranges.
type IPSet struct {
	prefixes []netip.Prefix
}

// ParseIPSet parses entries such as "203.0.113.7" or "10.0.0.0/24".
// Unparseable entries are ignored.
func ParseIPSet(entries []string) IPSet {
	var set IPSet
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if strings.Contains(e, "/") {
			if p, err := netip.ParsePrefix(e); err == nil {
				set.prefixes = append(set.prefixes, p.Masked())
			}
			continue
		}
		if a, err := netip.ParseAddr(e); err == nil {
			a = a.Unmap()
			set.prefixes = append(set.prefixes, netip.PrefixFrom(a, a.BitLen()))
		}
	}
	return set
}

func (s IPSet) Len() int { return len(s.prefixes) }

// Contains reports whether ip is a member of the set.
func (s IPSet) Contains(ip string) bool {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range s.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
