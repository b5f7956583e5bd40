package gtfs

import (
	"slices"
	"sort"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Index stores GTFS static data in memory for building trip features
type Index struct {
	agencyID   string
	routes     map[string]Route
	routeOrder []string            // route_ids in routes.txt order
	trips      map[string]Trip     // trip_id -> trip
	routeTrips map[string][]string // route_id -> trip_ids in trips.txt order
	stops      map[string]Stop
	stopOrder  []string
	stopTimes  map[string][]StopTime     // trip_id -> stop times by sequence
	shapes     map[string]orb.LineString // shape_id -> ordered points
	services   map[string]Service
}

func newIndex() *Index {
	return &Index{
		routes:     map[string]Route{},
		trips:      map[string]Trip{},
		routeTrips: map[string][]string{},
		stops:      map[string]Stop{},
		stopTimes:  map[string][]StopTime{},
		shapes:     map[string]orb.LineString{},
		services:   map[string]Service{},
	}
}

// Accessor methods
func (g *Index) AgencyID() string { return g.agencyID }

func (g *Index) Route(id string) (Route, bool) {
	r, ok := g.routes[id]
	return r, ok
}

func (g *Index) Trip(id string) (Trip, bool) {
	t, ok := g.trips[id]
	return t, ok
}

// RouteIDs returns route_ids in file order.
func (g *Index) RouteIDs() []string { return slices.Clone(g.routeOrder) }

// StopTimes returns a trip's stop times ordered by stop_sequence.
func (g *Index) StopTimes(tripID string) []StopTime { return slices.Clone(g.stopTimes[tripID]) }

// Shape returns the ordered shape points, nil when unknown.
func (g *Index) Shape(shapeID string) orb.LineString { return g.shapes[shapeID] }

// RunsOn reports whether a trip's service operates on day. Trips whose
// service is not listed in calendar.txt are assumed to run.
func (g *Index) RunsOn(t Trip, day time.Weekday) bool {
	svc, ok := g.services[t.ServiceID]
	if !ok {
		return true
	}
	return svc.RunsOn(day)
}

// FirstArrival returns the arrival at the trip's first stop, falling
// back to its departure. The bool is false when neither is set.
func (g *Index) FirstArrival(tripID string) (int, bool) {
	sts := g.stopTimes[tripID]
	if len(sts) == 0 {
		return 0, false
	}
	if sts[0].Arrival >= 0 {
		return sts[0].Arrival, true
	}
	if sts[0].Departure >= 0 {
		return sts[0].Departure, true
	}
	return 0, false
}

// LastArrival returns the arrival at the trip's last stop, falling back
// to its departure.
func (g *Index) LastArrival(tripID string) (int, bool) {
	sts := g.stopTimes[tripID]
	if len(sts) == 0 {
		return 0, false
	}
	last := sts[len(sts)-1]
	if last.Arrival >= 0 {
		return last.Arrival, true
	}
	if last.Departure >= 0 {
		return last.Departure, true
	}
	return 0, false
}

// Duration is the time from the trip's first to its last stop.
func (g *Index) Duration(tripID string) (int, bool) {
	start, ok := g.FirstArrival(tripID)
	if !ok {
		return 0, false
	}
	end, ok := g.LastArrival(tripID)
	if !ok || end < start {
		return 0, false
	}
	return end - start, true
}

type patternKey struct {
	shapeID   string
	direction int
}

type pattern struct {
	key   patternKey
	trips []string
	start map[string]int
}

// Features builds one LineString feature per route pattern, i.e. the
// route's service-day trips grouped by (shape_id, direction_id). Each
// feature's trip_starts are the first-stop arrivals, ascending.
func (g *Index) Features(opts Options) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, routeID := range g.routeOrder {
		if len(opts.Routes) > 0 && !slices.Contains(opts.Routes, routeID) {
			continue
		}
		if slices.Contains(opts.Exclude, routeID) {
			continue
		}
		route := g.routes[routeID]
		for _, p := range g.patterns(routeID, opts) {
			fc.Append(g.patternFeature(route, p))
		}
	}
	return fc
}

func (g *Index) patterns(routeID string, opts Options) []*pattern {
	var out []*pattern
	byKey := map[patternKey]*pattern{}
	for _, tripID := range g.routeTrips[routeID] {
		t := g.trips[tripID]
		if !g.RunsOn(t, opts.Weekday) {
			continue
		}
		start, ok := g.FirstArrival(tripID)
		if !ok {
			continue
		}
		key := patternKey{shapeID: t.ShapeID, direction: t.DirectionID}
		p, ok := byKey[key]
		if !ok {
			p = &pattern{key: key, start: map[string]int{}}
			byKey[key] = p
			out = append(out, p)
		}
		p.trips = append(p.trips, tripID)
		p.start[tripID] = start
	}
	for _, p := range out {
		sort.SliceStable(p.trips, func(i, j int) bool {
			return p.start[p.trips[i]] < p.start[p.trips[j]]
		})
	}
	return out
}

func (g *Index) patternFeature(route Route, p *pattern) *geojson.Feature {
	first := g.trips[p.trips[0]]
	starts := make([]int, len(p.trips))
	durations := make([]int, len(p.trips))
	for i, id := range p.trips {
		starts[i] = p.start[id]
		durations[i], _ = g.Duration(id)
	}

	gf := geojson.NewFeature(g.patternGeometry(first))
	shortName := route.ShortName
	if shortName == "" {
		shortName = route.ID
	}
	agency := route.AgencyID
	if agency == "" {
		agency = g.agencyID
	}
	gf.Properties["route_id"] = route.ID
	gf.Properties["route_short_name"] = shortName
	gf.Properties["route_long_name"] = route.LongName
	gf.Properties["route_type"] = route.Type
	gf.Properties["direction_id"] = p.key.direction
	gf.Properties["trip_starts"] = starts
	gf.Properties["trip_durations"] = durations
	if route.Desc != "" {
		gf.Properties["route_desc"] = route.Desc
	}
	if agency != "" {
		gf.Properties["agency_id"] = agency
	}
	if first.ShapeID != "" {
		gf.Properties["route_shape_id"] = first.ShapeID
	}
	if first.Headsign != "" {
		gf.Properties["trip_headsign"] = first.Headsign
	}
	return gf
}

// patternGeometry uses the shape when present, else the first trip's
// stop coordinates.
func (g *Index) patternGeometry(t Trip) orb.Geometry {
	if shape := g.shapes[t.ShapeID]; len(shape) > 0 {
		return slices.Clone(shape)
	}
	var line orb.LineString
	for _, st := range g.stopTimes[t.ID] {
		if s, ok := g.stops[st.StopID]; ok {
			line = append(line, orb.Point{s.Lon, s.Lat})
		}
	}
	return line
}

// StopFeatures returns one Point feature per stop, in stops.txt order.
func (g *Index) StopFeatures() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, id := range g.stopOrder {
		s := g.stops[id]
		gf := geojson.NewFeature(orb.Point{s.Lon, s.Lat})
		gf.Properties["stop_id"] = s.ID
		gf.Properties["name"] = s.Name
		fc.Append(gf)
	}
	return fc
}
