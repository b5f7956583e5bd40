// Package maplayer assigns map styles to trips and keeps layer draw order.
//
// Every trip is one layer. Its color comes from its LOS bucket; rail and
// guideway trips (route_type < 3) are drawn wider and dashed. Hidden trips
// keep their layer with opacity 0, so showing them again is a restyle.
//
// Reorder sorts layers worst service first and brings each to the front
// in turn, leaving the most frequent routes painted on top. It is run
// after classification changes, not on visibility toggles.
package maplayer
