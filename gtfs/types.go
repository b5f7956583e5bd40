package gtfs

import "time"

// Route is a row of routes.txt
type Route struct {
	ID        string
	AgencyID  string
	ShortName string
	LongName  string
	Desc      string
	Type      int
}

// Trip is a row of trips.txt
type Trip struct {
	ID          string
	RouteID     string
	ServiceID   string
	Headsign    string
	DirectionID int
	ShapeID     string
}

// Stop is a row of stops.txt
type Stop struct {
	ID   string
	Name string
	Lon  float64
	Lat  float64
}

// StopTime is a row of stop_times.txt; times are seconds since the
// start of the service day and may exceed 24h. -1 means unset.
type StopTime struct {
	StopID    string
	Sequence  int
	Arrival   int
	Departure int
}

// Service is a row of calendar.txt
type Service struct {
	ID   string
	Days [7]bool // indexed by time.Weekday
}

// RunsOn reports whether the service operates on day.
func (s Service) RunsOn(day time.Weekday) bool { return s.Days[day] }

// Options controls Features.
type Options struct {
	// Weekday filters trips by calendar.txt service days.
	Weekday time.Weekday
	// Routes, when set, keeps only these route_ids.
	Routes []string
	// Exclude drops these route_ids.
	Exclude []string
}
