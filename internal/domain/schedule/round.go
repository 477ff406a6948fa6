package schedule

import (
	"time"

	"github.com/salonflow/salon-queue/internal/httperr"
)

const DefaultCutoff = "10:00"

// Cutoff is the wall-clock time that splits a day's check-ins into round 1
// (at or before) and round 2 (after). It is a per-facility setting; 10:00 is
// the historical default.
type Cutoff struct {
	Hour   int
	Minute int
}

func ParseCutoff(hm string) (Cutoff, error) {
	if hm == "" {
		hm = DefaultCutoff
	}
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return Cutoff{}, httperr.ErrBusiness("invalid_cutoff")
	}
	return Cutoff{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// At places the cutoff on the calendar day of t, in t's location.
func (c Cutoff) At(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), c.Hour, c.Minute, 0, 0, t.Location())
}

// RoundFor returns 1 for check-ins at or before the cutoff, 2 after.
func (c Cutoff) RoundFor(checkIn time.Time) int {
	if checkIn.After(c.At(checkIn)) {
		return 2
	}
	return 1
}
