// Package display tracks which trips are shown and derives the tri-state
// of each route.
//
// Each trip has a boolean shown flag. A route's state (All, Mixed, None)
// is computed from its members every time it is read and never stored.
//
// Changes are published synchronously to observers subscribed by entity
// identity: one TripEvent per trip flag that actually flips, and one
// GroupEvent whenever a route's derived state changes. Route-level
// operations are applied trip by trip, so per-trip observers (map layers)
// see every change.
package display
