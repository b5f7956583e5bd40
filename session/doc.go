// Package session ties together the per-map services: route grouping,
// the display state tree, the map layer registry and the LOS classifier.
//
// A Session replaces any process-wide state. Each map (or HTTP client)
// gets its own:
//
//	s := session.New(session.Options{Logger: logger})
//	report := s.Ingest(fc)
//	s.ShowOnly("43")
//	if err := s.SetWindow(los.Window{Start: 16 * 3600, End: 18 * 3600}); err != nil {
//		return err
//	}
//	routes := s.Routes()
//
// Ingestion is synchronous and keeps input order. Malformed features are
// rejected with identifying context and the rest of the collection
// still loads. A Session is not safe for concurrent use.
package session
