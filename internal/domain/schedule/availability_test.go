package schedule

import (
	"testing"
	"time"
)

func TestWindowOverlaps(t *testing.T) {
	at := func(h int) time.Time {
		return time.Date(2025, 3, 14, h, 0, 0, 0, time.UTC)
	}
	base := Window{Start: at(10), End: at(11)}

	cases := []struct {
		name  string
		other Window
		want  bool
	}{
		{"identical", Window{at(10), at(11)}, true},
		{"starts inside", Window{at(10).Add(30 * time.Minute), at(12)}, true},
		{"ends inside", Window{at(9), at(10).Add(30 * time.Minute)}, true},
		{"contains", Window{at(9), at(12)}, true},
		{"contained", Window{at(10).Add(15 * time.Minute), at(10).Add(45 * time.Minute)}, true},
		{"before", Window{at(8), at(9)}, false},
		{"after", Window{at(12), at(13)}, false},
		{"abuts start", Window{at(9), at(10)}, false},
		{"abuts end", Window{at(11), at(12)}, false},
	}

	for _, tt := range cases {
		if got := base.Overlaps(tt.other); got != tt.want {
			t.Errorf("%s: Overlaps = %v, want %v", tt.name, got, tt.want)
		}
		// symmetry
		if got := tt.other.Overlaps(base); got != tt.want {
			t.Errorf("%s (reversed): Overlaps = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNewWindow(t *testing.T) {
	start := time.Date(2025, 3, 14, 13, 0, 0, 0, time.UTC)
	w := NewWindow(start, 45*time.Minute)
	if !w.Start.Equal(start) || !w.End.Equal(start.Add(45*time.Minute)) {
		t.Errorf("NewWindow = %+v", w)
	}
}
