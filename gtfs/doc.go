/*
Package gtfs converts a GTFS static feed into the trip feature collection
consumed by sessions.

This package is data-source agnostic - it accepts raw zip bytes or a local
zip path and builds an in-memory index. Use loader.Fetcher to download.

# Basic Usage

	data, err := fetcher.Fetch(ctx, "https://example.com/gtfs.zip")
	if err != nil {
	    return err
	}
	index, err := gtfs.NewIndexFromBytes(data)
	if err != nil {
	    return err
	}
	fc := index.Features(gtfs.Options{Weekday: time.Monday})

# Route patterns

Features emits one LineString per route pattern. A pattern is the set of
a route's trips that share (shape_id, direction_id) and run on the
requested weekday according to calendar.txt. Trips whose service_id is
not in calendar.txt are kept. The feature carries:

- route_short_name (route_id when the short name is empty), route_long_name
- route_type, direction_id, agency_id, route_desc
- route_shape_id, trip_headsign (of the earliest trip)
- trip_starts: first-stop arrival of every trip, ascending, in seconds.
  GTFS times past midnight (25:10:00) stay above 86400.
- trip_durations: first to last stop, in seconds, aligned with trip_starts.

The geometry is the shape when shapes.txt has it, otherwise the stop
coordinates of the earliest trip in stop_sequence order.
*/
package gtfs
