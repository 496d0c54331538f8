package xl

import (
	"math"
	"time"
)

// Excel's epoch for serial date calculation is 1899-12-30
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// Excel incorrectly considers 1900-02-29 a valid date; serials before
// 1900-03-01 are one less than the day count from the epoch.
var excelLeapBugEnd = time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC)

const dayNanoSeconds = 24 * 60 * 60 * 1e9

// excelSerial converts the wall clock of t into an Excel serial date in the
// 1900 date system, rounded to the millisecond.
func excelSerial(t time.Time) float64 {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	serial := float64(wall.Unix()-excelEpoch.Unix())/86400 + float64(wall.Nanosecond())/dayNanoSeconds
	if wall.Before(excelLeapBugEnd) && serial >= 1 {
		serial--
	}
	return math.Round(serial*86400000) / 86400000
}

// hasClockTime reports whether the wall clock of t carries a time of day.
func hasClockTime(t time.Time) bool {
	return t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 || t.Nanosecond() != 0
}
