package los

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// Window is a time-of-day range in seconds since midnight.
// Values outside [0, 86400) are accepted as given; there is no wraparound.
type Window struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ErrInvalidWindow is returned for windows that do not move forward.
var ErrInvalidWindow = errors.New("invalid window")

// DefaultWindow is the 7:00-9:00 morning peak.
var DefaultWindow = Window{Start: 7 * 3600, End: 9 * 3600}

// Length returns End-Start in seconds.
func (w Window) Length() int { return w.End - w.Start }

// Validate rejects windows that do not move forward in time.
func (w Window) Validate() error {
	if w.End <= w.Start {
		return fmt.Errorf("%w: end %d must be after start %d", ErrInvalidWindow, w.End, w.Start)
	}
	return nil
}

// Contains reports whether t lies in (Start, End].
func (w Window) Contains(t int) bool { return t > w.Start && t <= w.End }

// SelectDepartures returns the starts in (Start, End], ascending.
// The input is not modified and may be unsorted.
func SelectDepartures(starts []int, w Window) []int {
	out := make([]int, 0, len(starts))
	for _, s := range starts {
		if w.Contains(s) {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return out
}

// ComputeHeadway returns the average seconds between departures.
// Zero departures yields +Inf.
func ComputeHeadway(w Window, departures int) float64 {
	if departures <= 0 {
		return math.Inf(1)
	}
	return float64(w.Length()) / float64(departures)
}

// Classification is the LOS result for one trip group
type Classification struct {
	Departures []int
	Headway    float64
	Bucket     Bucket
}

// Classifier composes departure selection, headway and table lookup
type Classifier struct {
	table *Table
}

// NewClassifier creates a classifier over table; nil means DefaultTable.
func NewClassifier(table *Table) *Classifier {
	if table == nil {
		table = DefaultTable()
	}
	return &Classifier{table: table}
}

// Table returns the classifier's table.
func (c *Classifier) Table() *Table { return c.table }

// Classify selects qualifying departures and resolves the bucket.
func (c *Classifier) Classify(starts []int, w Window) (Classification, error) {
	deps := SelectDepartures(starts, w)
	headway := ComputeHeadway(w, len(deps))
	b, err := c.table.Classify(headway)
	if err != nil {
		if errors.Is(err, ErrUnclassifiable) {
			return Classification{}, fmt.Errorf("window %d-%d: %w", w.Start, w.End, err)
		}
		return Classification{}, err
	}
	return Classification{Departures: deps, Headway: headway, Bucket: b}, nil
}
