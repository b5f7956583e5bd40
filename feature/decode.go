package feature

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/paulmach/orb/geojson"
)

// ErrMalformed marks a feature rejected for missing or invalid properties.
var ErrMalformed = errors.New("malformed feature")

// DataError identifies a rejected feature
type DataError struct {
	// Index is the position in the incoming collection.
	Index int
	// FeatureID is the GeoJSON id member, if any.
	FeatureID any
	// RouteShortName is set when it could be read.
	RouteShortName string
	Field          string
	Err            error
}

func (e *DataError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "feature %d", e.Index)
	if e.FeatureID != nil {
		fmt.Fprintf(&b, " (id %v)", e.FeatureID)
	}
	if e.RouteShortName != "" {
		fmt.Fprintf(&b, " route %q", e.RouteShortName)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %s", e.Field)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *DataError) Unwrap() []error { return []error{ErrMalformed, e.Err} }

// properties mirrors the GeoJSON properties object
type properties struct {
	RouteShortName string `json:"route_short_name" validate:"required"`
	RouteLongName  string `json:"route_long_name"`
	TripHeadsign   string `json:"trip_headsign"`
	DirectionID    *int   `json:"direction_id" validate:"required,oneof=0 1"`
	RouteType      *int   `json:"route_type" validate:"required,gte=0"`
	ShapeID        string `json:"route_shape_id"`
	AgencyID       string `json:"agency_id"`
	TripStarts     []int  `json:"trip_starts" validate:"dive,gte=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FromGeoJSON validates gf and builds a Feature. index is the position
// in the source collection, used only for error context.
func FromGeoJSON(gf *geojson.Feature, id ID, index int) (*Feature, error) {
	if gf == nil {
		return nil, &DataError{Index: index, Err: errors.New("null feature")}
	}
	fail := func(field string, err error) error {
		return &DataError{
			Index:          index,
			FeatureID:      gf.ID,
			RouteShortName: gf.Properties.MustString("route_short_name", ""),
			Field:          field,
			Err:            err,
		}
	}
	if gf.Properties == nil {
		return nil, fail("", errors.New("missing properties"))
	}
	raw, err := json.Marshal(gf.Properties)
	if err != nil {
		return nil, fail("", err)
	}
	var p properties
	if err := json.Unmarshal(raw, &p); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fail(typeErr.Field, fmt.Errorf("cannot use %s as %s", typeErr.Value, typeErr.Type))
		}
		return nil, fail("", err)
	}
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return nil, fail(fe.Field(), fmt.Errorf("failed %q validation", fe.Tag()))
		}
		return nil, fail("", err)
	}
	starts := make([]int, len(p.TripStarts))
	copy(starts, p.TripStarts)
	return &Feature{
		ID:             id,
		Geometry:       gf.Geometry,
		RouteShortName: p.RouteShortName,
		RouteLongName:  p.RouteLongName,
		TripHeadsign:   p.TripHeadsign,
		DirectionID:    *p.DirectionID,
		RouteType:      *p.RouteType,
		ShapeID:        p.ShapeID,
		AgencyID:       p.AgencyID,
		TripStarts:     starts,
	}, nil
}

// ParseCollection decodes a GeoJSON FeatureCollection.
func ParseCollection(data []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse feature collection: %w", err)
	}
	return fc, nil
}

// ToGeoJSON renders f back into a GeoJSON feature with its properties.
func ToGeoJSON(f *Feature) *geojson.Feature {
	gf := geojson.NewFeature(f.Geometry)
	gf.ID = int(f.ID)
	gf.Properties["route_short_name"] = f.RouteShortName
	gf.Properties["route_long_name"] = f.RouteLongName
	gf.Properties["direction_id"] = f.DirectionID
	gf.Properties["route_type"] = f.RouteType
	gf.Properties["trip_starts"] = f.TripStarts
	if f.TripHeadsign != "" {
		gf.Properties["trip_headsign"] = f.TripHeadsign
	}
	if f.ShapeID != "" {
		gf.Properties["route_shape_id"] = f.ShapeID
	}
	if f.AgencyID != "" {
		gf.Properties["agency_id"] = f.AgencyID
	}
	return gf
}
