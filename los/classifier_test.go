package los

import (
	"math"
	"slices"
	"testing"
)

func TestSelectDepartures(t *testing.T) {
	w := Window{Start: 100, End: 200}
	starts := []int{200, 50, 100, 150, 201, 101}
	got := SelectDepartures(starts, w)
	want := []int{101, 150, 200}
	if !slices.Equal(got, want) {
		t.Errorf("SelectDepartures = %v, want %v", got, want)
	}
	if starts[0] != 200 || starts[1] != 50 {
		t.Error("input slice was modified")
	}
	if got := SelectDepartures(nil, w); len(got) != 0 {
		t.Errorf("nil starts should select nothing, got %v", got)
	}
}

func TestSelectDepartures_NoWraparound(t *testing.T) {
	w := Window{Start: 82800, End: 90000}
	got := SelectDepartures([]int{86000, 87000, 1000}, w)
	if !slices.Equal(got, []int{86000, 87000}) {
		t.Errorf("got %v", got)
	}
}

func TestComputeHeadway(t *testing.T) {
	windows := []Window{{0, 3600}, {25200, 32400}, {100, 107}, {-500, 500}}
	for _, w := range windows {
		for n := 1; n <= 13; n++ {
			h := ComputeHeadway(w, n)
			if math.Abs(h*float64(n)-float64(w.Length())) > 1e-9 {
				t.Errorf("window %v n=%d: headway %g * n != %d", w, n, h, w.Length())
			}
		}
	}
	if h := ComputeHeadway(DefaultWindow, 0); !math.IsInf(h, 1) {
		t.Errorf("zero departures headway = %g, want +Inf", h)
	}
}

func TestClassifier_Scenario(t *testing.T) {
	c := NewClassifier(nil)
	res, err := c.Classify([]int{25500, 26100, 28900, 29500, 30300}, Window{Start: 25200, End: 32400})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(res.Departures) != 5 {
		t.Errorf("departures = %d, want 5", len(res.Departures))
	}
	if res.Headway != 1440 {
		t.Errorf("headway = %g, want 1440", res.Headway)
	}
	if res.Bucket.Name != "D" {
		t.Errorf("bucket = %q, want D", res.Bucket.Name)
	}
}

func TestClassifier_NoService(t *testing.T) {
	c := NewClassifier(DefaultTable())
	windows := []Window{{0, 1}, DefaultWindow, {0, 86400}, {0, 1 << 30}}
	for _, w := range windows {
		res, err := c.Classify([]int{w.Start, w.End + 1}, w)
		if err != nil {
			t.Fatalf("Classify: %v", err)
		}
		if res.Bucket.Name != c.Table().NoService().Name {
			t.Errorf("window %v: bucket %q, want no service", w, res.Bucket.Name)
		}
	}
}

func TestWindow_Validate(t *testing.T) {
	if err := DefaultWindow.Validate(); err != nil {
		t.Errorf("default window invalid: %v", err)
	}
	for _, w := range []Window{{100, 100}, {200, 100}} {
		if err := w.Validate(); err == nil {
			t.Errorf("window %v should be invalid", w)
		}
	}
}
