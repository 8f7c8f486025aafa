// Package annofab bridges Annowork working-hour data to the annofabcli
// statistics tooling. Annofab runs fixed to Japan Standard Time, so every
// conversion here uses the +09:00 calendar.
package annofab

import (
	"time"
)

// TimezoneOffsetHours is Annofab's fixed UTC offset.
const TimezoneOffsetHours = 9

// Location returns the fixed +09:00 zone Annofab dates live in.
func Location() *time.Location {
	return time.FixedZone("+09:00", TimezoneOffsetHours*60*60)
}

// Labor is one row of the labor CSV consumed by `annofabcli statistics
// visualize`.
type Labor struct {
	Date               string
	AccountID          string
	ProjectID          string
	ActualWorktimeHour float64
}
