package domain

import "time"

// HourOfDay converts an epoch-millisecond timestamp into the wall-clock hour of
// day in loc as a fraction, e.g. 14:30:30 -> 14.508. Sub-second precision is
// dropped. A nil loc means time.Local.
func HourOfDay(epochMillis int64, loc *time.Location) float64 {
	if loc == nil {
		loc = time.Local
	}
	t := time.Unix(epochMillis/1000, 0).In(loc)
	return float64(t.Hour()) + (float64(t.Minute())+float64(t.Second())/60)/60
}
