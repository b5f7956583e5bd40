// Package transitlos serves transit level-of-service maps over HTTP.
//
// Each client opens a session from a configured feed or an uploaded
// GeoJSON feature collection, then reads the ordered route list, the
// styled map layers and their bounds, and toggles trip visibility or
// changes the classification window:
//
//	POST /api/sessions                         {"feed": "metro"}
//	GET  /api/sessions/{id}/routes
//	PUT  /api/sessions/{id}/window             {"startClock": "16:00", "endClock": "18:00"}
//	POST /api/sessions/{id}/routes/{route}/only
//	GET  /api/sessions/{id}/layers
//	GET  /api/sessions/{id}/bounds?shown=true
//
// Feeds are fetched and converted once, then shared by every session
// created from them.
package transitlos
