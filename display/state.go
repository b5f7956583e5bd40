package display

import (
	"fmt"

	"github.com/theoremus-urban-solutions/transit-los/feature"
	"github.com/theoremus-urban-solutions/transit-los/grouping"
)

// TriState summarizes a route's visibility
type TriState int

const (
	None TriState = iota
	Mixed
	All
)

func (s TriState) String() string {
	switch s {
	case None:
		return "none"
	case Mixed:
		return "mixed"
	case All:
		return "all"
	}
	return fmt.Sprintf("TriState(%d)", int(s))
}

// MarshalText encodes the state as its name.
func (s TriState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText accepts the names written by MarshalText.
func (s *TriState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none":
		*s = None
	case "mixed":
		*s = Mixed
	case "all":
		*s = All
	default:
		return fmt.Errorf("display: unknown state %q", text)
	}
	return nil
}

// TripEvent reports a trip's new shown flag
type TripEvent struct {
	Trip  feature.ID
	Shown bool
}

// GroupEvent reports a route's new derived state
type GroupEvent struct {
	Group grouping.Key
	State TriState
}

// TripObserver receives trip visibility changes
type TripObserver interface {
	TripShownChanged(TripEvent)
}

// GroupObserver receives route tri-state changes
type GroupObserver interface {
	GroupStateChanged(GroupEvent)
}

// TripObserverFunc adapts a function to TripObserver.
type TripObserverFunc func(TripEvent)

func (f TripObserverFunc) TripShownChanged(e TripEvent) { f(e) }

// GroupObserverFunc adapts a function to GroupObserver.
type GroupObserverFunc func(GroupEvent)

func (f GroupObserverFunc) GroupStateChanged(e GroupEvent) { f(e) }
