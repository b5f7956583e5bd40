package feature

import (
	"errors"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const sampleCollection = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "id": "t1",
      "geometry": {"type": "LineString", "coordinates": [[-121.9, 37.3], [-121.8, 37.4]]},
      "properties": {
        "route_short_name": "22",
        "route_long_name": "Palo Alto - Eastridge",
        "trip_headsign": "22: Eastridge (0)",
        "direction_id": 0,
        "route_type": 3,
        "trip_starts": [25500, 26100, 28900]
      }
    },
    {
      "type": "Feature",
      "geometry": {"type": "LineString", "coordinates": [[-121.9, 37.3], [-121.85, 37.35]]},
      "properties": {
        "route_short_name": "901",
        "route_long_name": "Light Rail",
        "direction_id": 1,
        "route_type": 0
      }
    }
  ]
}`

func TestParseCollection_FromGeoJSON(t *testing.T) {
	fc, err := ParseCollection([]byte(sampleCollection))
	if err != nil {
		t.Fatalf("ParseCollection: %v", err)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("features = %d, want 2", len(fc.Features))
	}

	f, err := FromGeoJSON(fc.Features[0], 7, 0)
	if err != nil {
		t.Fatalf("FromGeoJSON: %v", err)
	}
	if f.ID != 7 || f.RouteShortName != "22" || f.DirectionID != 0 || f.RouteType != 3 {
		t.Errorf("unexpected feature %+v", f)
	}
	if len(f.TripStarts) != 3 || f.TripStarts[2] != 28900 {
		t.Errorf("trip starts = %v", f.TripStarts)
	}
	if f.IsRail() {
		t.Error("bus route should not be rail")
	}
	if f.Label() != "22: Eastridge (0)" {
		t.Errorf("label = %q", f.Label())
	}
	b, ok := f.Bound()
	if !ok || b.Min[0] != -121.9 || b.Max[1] != 37.4 {
		t.Errorf("bound = %v, %v", b, ok)
	}

	rail, err := FromGeoJSON(fc.Features[1], 8, 1)
	if err != nil {
		t.Fatalf("FromGeoJSON rail: %v", err)
	}
	if !rail.IsRail() {
		t.Error("route_type 0 should be rail")
	}
	if rail.Direction() != Outbound {
		t.Errorf("direction = %v, want outbound", rail.Direction())
	}
	if len(rail.TripStarts) != 0 {
		t.Errorf("absent trip_starts should be empty, got %v", rail.TripStarts)
	}
	if rail.Label() != "901: Light Rail" {
		t.Errorf("label = %q", rail.Label())
	}
}

func TestFromGeoJSON_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		props     geojson.Properties
		wantField string
	}{
		{"missing short name", geojson.Properties{"direction_id": 0, "route_type": 3}, "route_short_name"},
		{"empty short name", geojson.Properties{"route_short_name": "", "direction_id": 0, "route_type": 3}, "route_short_name"},
		{"missing direction", geojson.Properties{"route_short_name": "1", "route_type": 3}, "direction_id"},
		{"bad direction", geojson.Properties{"route_short_name": "1", "direction_id": 2, "route_type": 3}, "direction_id"},
		{"string direction", geojson.Properties{"route_short_name": "1", "direction_id": "0", "route_type": 3}, "direction_id"},
		{"missing route type", geojson.Properties{"route_short_name": "1", "direction_id": 1}, "route_type"},
		{"negative start", geojson.Properties{"route_short_name": "1", "direction_id": 1, "route_type": 3, "trip_starts": []int{-5}}, "trip_starts[0]"},
		{"fractional start", geojson.Properties{"route_short_name": "1", "direction_id": 1, "route_type": 3, "trip_starts": []float64{1.5}}, "trip_starts"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gf := geojson.NewFeature(orb.Point{1, 2})
			gf.Properties = tt.props
			_, err := FromGeoJSON(gf, ID(i), i)
			if err == nil {
				t.Fatal("expected rejection")
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("error should match ErrMalformed: %v", err)
			}
			var de *DataError
			if !errors.As(err, &de) {
				t.Fatalf("error should be *DataError: %T", err)
			}
			if de.Index != i {
				t.Errorf("index = %d, want %d", de.Index, i)
			}
			if !strings.HasPrefix(de.Field, tt.wantField) {
				t.Errorf("field = %q, want prefix %q", de.Field, tt.wantField)
			}
		})
	}
}

func TestFromGeoJSON_NoProperties(t *testing.T) {
	gf := &geojson.Feature{Type: "Feature", ID: "x", Geometry: orb.Point{0, 0}}
	_, err := FromGeoJSON(gf, 0, 3)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if !strings.Contains(err.Error(), "feature 3 (id x)") {
		t.Errorf("error lacks context: %v", err)
	}
}

func TestFeature_BoundWithoutGeometry(t *testing.T) {
	f := &Feature{}
	if _, ok := f.Bound(); ok {
		t.Error("nil geometry should have no bound")
	}
	f.Geometry = orb.LineString{}
	if _, ok := f.Bound(); ok {
		t.Error("empty line should have no bound")
	}
}

func TestToGeoJSON(t *testing.T) {
	f := &Feature{ID: 4, Geometry: orb.Point{1, 1}, RouteShortName: "M1", DirectionID: 1, RouteType: 3, TripStarts: []int{10}}
	gf := ToGeoJSON(f)
	back, err := FromGeoJSON(gf, 4, 0)
	if err != nil {
		t.Fatalf("FromGeoJSON: %v", err)
	}
	if back.RouteShortName != "M1" || back.DirectionID != 1 || back.TripStarts[0] != 10 {
		t.Errorf("unexpected %+v", back)
	}
}
