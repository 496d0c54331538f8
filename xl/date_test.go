package xl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExcelSerial(t *testing.T) {
	tests := []struct {
		name   string
		t      time.Time
		serial float64
	}{
		{"1900-01-01", time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC), 1},
		{"1900-02-28", time.Date(1900, 2, 28, 0, 0, 0, 0, time.UTC), 59},
		{"1900-03-01", time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC), 61},
		{"1970-01-01", time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), 25569},
		{"2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 45292},
		{"noon", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), 45292.5},
		{"six hours", time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC), 45292.25},
		{"9999-12-31", time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC), 2958465},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.serial, excelSerial(test.t))
		})
	}
}

func TestExcelSerialKeepsWallClock(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	local := time.Date(2024, 1, 1, 12, 0, 0, 0, tokyo)
	assert.Equal(t, 45292.5, excelSerial(local))
}

func TestExcelSerialMilliseconds(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 1, 500_000_000, time.UTC)
	assert.InDelta(t, 45292+1.5/86400, excelSerial(ts), 1e-9)
}

func TestHasClockTime(t *testing.T) {
	assert.False(t, hasClockTime(time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)))
	assert.True(t, hasClockTime(time.Date(2024, 5, 6, 0, 0, 1, 0, time.UTC)))
	assert.True(t, hasClockTime(time.Date(2024, 5, 6, 0, 0, 0, 1, time.UTC)))
}
