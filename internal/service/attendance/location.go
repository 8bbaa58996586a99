package attendance

import (
	"fmt"

	"github.com/cmlabs-hris/auto-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/auto-attendance/internal/domain/settings"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/geo"
)

type VerifyOutcome int

const (
	Verified VerifyOutcome = iota
	NeedMoreProof
	Rejected
)

// Verification is the location verdict for one attempt.
// Method is set when Verified, Reason otherwise.
type Verification struct {
	Outcome  VerifyOutcome
	Method   string
	Reason   string
	Distance *float64
}

// Result converts a non-verified outcome into its terminal attempt result.
func (v Verification) Result() attendance.Result {
	if v.Outcome == NeedMoreProof {
		return attendance.NeedGPS(v.Reason)
	}
	return attendance.Skipped(v.Reason)
}

// VerifyLocation applies the network and GPS trust policy. trusted is the set of
// office addresses; gps is nil when the caller supplied no fix.
func VerifyLocation(ip string, gps *geo.Point, ws settings.WorkSettings, trusted settings.IPSet) Verification {
	ipTrusted := ip != attendance.UnknownIP && trusted.Contains(ip)

	gpsTrusted := false
	var distance *float64
	if gps != nil {
		ok, d := geo.Within(*gps, ws.Office(), ws.MaxDistanceMeters)
		gpsTrusted = ok && ws.AcceptsGPS()
		distance = &d
	}

	if ws.RequireGPSAndWiFi {
		switch {
		case ipTrusted && gpsTrusted:
			return Verification{Outcome: Verified, Method: attendance.MethodGPSAndWiFi, Distance: distance}
		case !ipTrusted && !gpsTrusted && gps == nil:
			return needGPS(ip)
		default:
			return tooFar(distance)
		}
	}

	switch {
	case ipTrusted:
		return Verification{Outcome: Verified, Method: attendance.MethodOfficeWiFi, Distance: distance}
	case gpsTrusted:
		return Verification{Outcome: Verified, Method: attendance.MethodGPS, Distance: distance}
	case gps == nil:
		return needGPS(ip)
	default:
		return tooFar(distance)
	}
}

func needGPS(ip string) Verification {
	return Verification{Outcome: NeedMoreProof, Reason: attendance.ReasonIPFailedPrefix + ip}
}

// tooFar carries the measured distance when there was one to measure.
func tooFar(distance *float64) Verification {
	reason := attendance.ReasonTooFar
	if distance != nil {
		reason = fmt.Sprintf("%s|%.1fm", attendance.ReasonTooFar, *distance)
	}
	return Verification{Outcome: Rejected, Reason: reason, Distance: distance}
}
