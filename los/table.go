package los

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrUnclassifiable is returned when a headway falls outside every bucket.
var ErrUnclassifiable = errors.New("headway outside LOS table")

// Bucket is one Level of Service level
type Bucket struct {
	Name         string
	Label        string
	MinExclusive float64
	MaxInclusive float64
	Color        string
	// Rank is the position in the table, 0 being the best service.
	Rank int
}

// Contains reports whether headway lies in (MinExclusive, MaxInclusive].
func (b Bucket) Contains(headway float64) bool {
	return headway > b.MinExclusive && headway <= b.MaxInclusive
}

// MarshalJSON writes an unbounded MaxInclusive as null.
func (b Bucket) MarshalJSON() ([]byte, error) {
	var upper *float64
	if !math.IsInf(b.MaxInclusive, 1) {
		upper = &b.MaxInclusive
	}
	return json.Marshal(struct {
		Name  string   `json:"name"`
		Label string   `json:"label"`
		Min   float64  `json:"min"`
		Max   *float64 `json:"max"`
		Color string   `json:"color"`
		Rank  int      `json:"rank"`
	}{b.Name, b.Label, b.MinExclusive, upper, b.Color, b.Rank})
}

// Table is an ordered, contiguous list of buckets from best to worst service
type Table struct {
	buckets []Bucket
	byName  map[string]int
}

// Colors: colorbrewer2.org, sequential blues, darkest for the best service.
var defaultPalette = []string{
	"#08519c",
	"#3182bd",
	"#6baed6",
	"#9ecae1",
	"#c6dbef",
	"#eff3ff",
}

// DefaultBuckets returns the standard A-F plus no-service levels.
func DefaultBuckets() []Bucket {
	return []Bucket{
		{Name: "A", Label: "A: 10 min", MinExclusive: -1, MaxInclusive: 600, Color: defaultPalette[0]},
		{Name: "B", Label: "B: 15 min", MinExclusive: 600, MaxInclusive: 900, Color: defaultPalette[1]},
		{Name: "C", Label: "C: 20 min", MinExclusive: 900, MaxInclusive: 1200, Color: defaultPalette[2]},
		{Name: "D", Label: "D: 30 min", MinExclusive: 1200, MaxInclusive: 1800, Color: defaultPalette[3]},
		{Name: "E", Label: "E: 60 min", MinExclusive: 1800, MaxInclusive: 3600, Color: defaultPalette[4]},
		{Name: "F", Label: "F: >60 min", MinExclusive: 3600, MaxInclusive: 7200, Color: defaultPalette[5]},
		{Name: " ", Label: "No service", MinExclusive: 7200, MaxInclusive: math.Inf(1), Color: "#ccc"},
	}
}

var defaultTable = MustNewTable(DefaultBuckets())

// DefaultTable returns the process-wide default table.
func DefaultTable() *Table { return defaultTable }

// NewTable validates buckets and builds a table. Buckets must be ordered
// best to worst, start below zero, end at +Inf and share their bounds.
func NewTable(buckets []Bucket) (*Table, error) {
	if len(buckets) == 0 {
		return nil, errors.New("los: table has no buckets")
	}
	t := &Table{
		buckets: make([]Bucket, len(buckets)),
		byName:  make(map[string]int, len(buckets)),
	}
	for i, b := range buckets {
		if math.IsNaN(b.MinExclusive) || math.IsNaN(b.MaxInclusive) {
			return nil, fmt.Errorf("los: bucket %q has NaN bounds", b.Name)
		}
		if b.MinExclusive >= b.MaxInclusive {
			return nil, fmt.Errorf("los: bucket %q is empty: (%g, %g]", b.Name, b.MinExclusive, b.MaxInclusive)
		}
		if _, dup := t.byName[b.Name]; dup {
			return nil, fmt.Errorf("los: duplicate bucket name %q", b.Name)
		}
		if i > 0 && buckets[i-1].MaxInclusive != b.MinExclusive {
			return nil, fmt.Errorf("los: bucket %q starts at %g but %q ends at %g",
				b.Name, b.MinExclusive, buckets[i-1].Name, buckets[i-1].MaxInclusive)
		}
		b.Rank = i
		t.buckets[i] = b
		t.byName[b.Name] = i
	}
	if first := t.buckets[0]; first.MinExclusive >= 0 {
		return nil, fmt.Errorf("los: first bucket %q must start below 0, got %g", first.Name, first.MinExclusive)
	}
	if last := t.buckets[len(t.buckets)-1]; !math.IsInf(last.MaxInclusive, 1) {
		return nil, fmt.Errorf("los: last bucket %q must end at +Inf, got %g", last.Name, last.MaxInclusive)
	}
	return t, nil
}

// MustNewTable is like NewTable but panics on a misconfigured table.
func MustNewTable(buckets []Bucket) *Table {
	t, err := NewTable(buckets)
	if err != nil {
		panic(err)
	}
	return t
}

// Classify returns the bucket whose interval contains headway.
// +Inf (no qualifying departures) resolves to the last bucket.
func (t *Table) Classify(headway float64) (Bucket, error) {
	for _, b := range t.buckets {
		if b.Contains(headway) {
			return b, nil
		}
	}
	return Bucket{}, fmt.Errorf("%w: %g", ErrUnclassifiable, headway)
}

// Buckets returns a copy of the table, best service first.
func (t *Table) Buckets() []Bucket {
	out := make([]Bucket, len(t.buckets))
	copy(out, t.buckets)
	return out
}

// NoService returns the worst bucket.
func (t *Table) NoService() Bucket { return t.buckets[len(t.buckets)-1] }

// Lookup finds a bucket by name.
func (t *Table) Lookup(name string) (Bucket, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Bucket{}, false
	}
	return t.buckets[i], true
}

// Len returns the number of buckets.
func (t *Table) Len() int { return len(t.buckets) }
