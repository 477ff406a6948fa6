package schedule

import "time"

// Availability is the outcome of checking one employee for one time window.
// Unknown means the check itself failed; callers must treat it exactly like
// an unavailable employee, but tests and logs can tell the two apart.
type Availability string

const (
	Available  Availability = "available"
	Busy       Availability = "busy"
	OnBreak    Availability = "on_break"
	NotInQueue Availability = "not_in_queue"
	Unknown    Availability = "unknown"
)

func (a Availability) OK() bool {
	return a == Available
}

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

func NewWindow(start time.Time, duration time.Duration) Window {
	return Window{Start: start, End: start.Add(duration)}
}

// Overlaps reports whether two windows intersect: the new start falls inside
// the existing window, the new end falls inside it, or the existing window is
// fully contained in the new one.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && w.End.After(other.Start)
}
