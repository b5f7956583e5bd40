// Package grouping groups trip features into routes and keeps the routes
// in display order.
//
// Routes are ordered by a numeric sort key parsed from the short name
// ("M1" and "1" both sort as 1, "NX1" sorts as 0), then by short name.
// Lookup by route identity is a map; the display order is a separately
// maintained sorted slice updated by binary-search insertion.
package grouping
