package feature

import (
	"github.com/paulmach/orb"
)

// ID identifies a Feature within one session (ingestion order)
type ID int

// Direction splits a route's trips for the list panel
type Direction int

const (
	Inbound  Direction = 0
	Outbound Direction = 1
)

func (d Direction) String() string {
	if d == Outbound {
		return "outbound"
	}
	return "inbound"
}

// RailRouteTypeLimit is the GTFS route_type below which a route runs on
// rail or a dedicated guideway (tram, subway, rail).
const RailRouteTypeLimit = 3

// Feature is a trip group with geometry and schedule properties
type Feature struct {
	ID             ID
	Geometry       orb.Geometry
	RouteShortName string
	RouteLongName  string
	TripHeadsign   string
	DirectionID    int
	RouteType      int
	ShapeID        string
	AgencyID       string
	// TripStarts are seconds since midnight, in input order.
	TripStarts []int
}

// IsRail reports whether the trip needs the rail/guideway treatment.
func (f *Feature) IsRail() bool { return f.RouteType < RailRouteTypeLimit }

// Direction returns Outbound for direction_id 1, Inbound otherwise.
func (f *Feature) Direction() Direction {
	if f.DirectionID == 1 {
		return Outbound
	}
	return Inbound
}

// Bound returns the geographic extent; false when there is no geometry.
func (f *Feature) Bound() (orb.Bound, bool) {
	if f.Geometry == nil {
		return orb.Bound{}, false
	}
	b := f.Geometry.Bound()
	if b.IsEmpty() {
		return orb.Bound{}, false
	}
	return b, true
}

// Label is the text shown for the trip in the list panel.
func (f *Feature) Label() string {
	if f.TripHeadsign != "" {
		return f.TripHeadsign
	}
	if f.RouteLongName != "" {
		return f.RouteShortName + ": " + f.RouteLongName
	}
	return f.RouteShortName
}
