// Package feature defines the trip Feature value type and decodes it from
// GeoJSON.
//
// A Feature is one trip group (trips sharing a stop sequence) with its
// geometry and schedule properties. Features are immutable once decoded:
// visibility and LOS assignment live in the display and maplayer packages.
//
// Properties are validated on decode. A feature with a missing or
// malformed route_short_name, direction_id or route_type is rejected with
// a *DataError rather than grouped under an empty key.
package feature
