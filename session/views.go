package session

import (
	"fmt"

	"github.com/paulmach/orb/geojson"

	"github.com/theoremus-urban-solutions/transit-los/display"
	"github.com/theoremus-urban-solutions/transit-los/feature"
	"github.com/theoremus-urban-solutions/transit-los/grouping"
	"github.com/theoremus-urban-solutions/transit-los/los"
	"github.com/theoremus-urban-solutions/transit-los/utils"
)

// TripView is one row of a route's trip list.
type TripView struct {
	ID        feature.ID `json:"id"`
	Label     string     `json:"label"`
	Direction string     `json:"direction"`
	Shown     bool       `json:"shown"`
	Rail      bool       `json:"rail"`
	LOS       string     `json:"los"`
	LOSLabel  string     `json:"losLabel"`
	Color     string     `json:"color"`
	// Headway is nil when the trip has no departure in the window.
	Headway      *float64 `json:"headway"`
	Departures   int      `json:"departures"`
	ServiceHours string   `json:"serviceHours,omitempty"`
}

// RouteView is one route of the list panel.
type RouteView struct {
	Key       grouping.Key     `json:"key"`
	ShortName string           `json:"shortName"`
	LongName  string           `json:"longName,omitempty"`
	Name      string           `json:"name"`
	State     display.TriState `json:"state"`
	Inbound   []TripView       `json:"inbound"`
	Outbound  []TripView       `json:"outbound"`
}

// LegendEntry is one LOS level.
type LegendEntry struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Color string `json:"color"`
	Trips int    `json:"trips"`
}

// Routes returns the list panel model in route order.
func (s *Session) Routes() []RouteView {
	groups := s.groups.Groups()
	out := make([]RouteView, 0, len(groups))
	for _, g := range groups {
		out = append(out, s.routeView(g))
	}
	return out
}

// Route returns a single route's view.
func (s *Session) Route(key grouping.Key) (RouteView, error) {
	g, ok := s.groups.Lookup(key)
	if !ok {
		return RouteView{}, fmt.Errorf("route %q: %w", key, ErrUnknownRoute)
	}
	return s.routeView(g), nil
}

func (s *Session) routeView(g *grouping.Group) RouteView {
	return RouteView{
		Key:       g.Key,
		ShortName: g.ShortName,
		LongName:  g.LongName,
		Name:      g.Name(),
		State:     s.tree.GroupState(g.Key),
		Inbound:   s.tripViews(g.Inbound()),
		Outbound:  s.tripViews(g.Outbound()),
	}
}

func (s *Session) tripViews(trips []*feature.Feature) []TripView {
	out := make([]TripView, 0, len(trips))
	for _, f := range trips {
		out = append(out, s.tripView(f))
	}
	return out
}

func (s *Session) tripView(f *feature.Feature) TripView {
	result := s.results[f.ID]
	return TripView{
		ID:           f.ID,
		Label:        f.Label(),
		Direction:    f.Direction().String(),
		Shown:        s.tree.Shown(f.ID),
		Rail:         f.IsRail(),
		LOS:          result.Bucket.Name,
		LOSLabel:     result.Bucket.Label,
		Color:        result.Bucket.Color,
		Headway:      finite(result.Headway),
		Departures:   len(result.Departures),
		ServiceHours: utils.ServiceSpan(f.TripStarts),
	}
}

// Trip returns one trip's view.
func (s *Session) Trip(id feature.ID) (TripView, error) {
	f, ok := s.trips[id]
	if !ok {
		return TripView{}, fmt.Errorf("trip %d: %w", id, ErrUnknownTrip)
	}
	return s.tripView(f), nil
}

// Departures returns the trip's in-window departures as clock strings.
func (s *Session) Departures(id feature.ID) ([]string, error) {
	result, err := s.Classification(id)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(result.Departures))
	for i, t := range result.Departures {
		out[i] = utils.SecondsToClock(t)
	}
	return out, nil
}

// Legend lists the LOS levels best first with the number of trips
// currently in each.
func (s *Session) Legend() []LegendEntry {
	counts := map[string]int{}
	for _, result := range s.results {
		counts[result.Bucket.Name]++
	}
	return BuildLegend(s.classifier.Table(), counts)
}

// BuildLegend renders the legend of table. counts may be nil.
func BuildLegend(table *los.Table, counts map[string]int) []LegendEntry {
	buckets := table.Buckets()
	out := make([]LegendEntry, len(buckets))
	for i, b := range buckets {
		out[i] = LegendEntry{Name: b.Name, Label: b.Label, Color: b.Color, Trips: counts[b.Name]}
	}
	return out
}

// Layers renders the map in draw order, bottom to top. Each feature
// carries its decoded properties plus los, shown and style.
func (s *Session) Layers() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, id := range s.layers.DrawOrder() {
		f := s.trips[id]
		gf := feature.ToGeoJSON(f)
		bucket := s.layers.Bucket(id)
		gf.Properties["los"] = bucket.Name
		gf.Properties["los_label"] = bucket.Label
		gf.Properties["shown"] = s.tree.Shown(id)
		gf.Properties["style"] = s.layers.StyleFor(id)
		fc.Append(gf)
	}
	return fc
}
