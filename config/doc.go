// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Every section is optional; unset values fall back to the built-in LOS
// table, the 7:00-9:00 window and the standard line styles. A custom LOS
// table is written best level first and must end at .inf:
//
//	window:
//	  start: "16:00"
//	  end: "18:00"
//	levels:
//	  - {name: A, label: "A: 10 min", min: -1, max: 600, color: "#08519c"}
//	  - {name: " ", label: "No service", min: 600, max: .inf, color: "#ccc"}
//	feeds:
//	  - name: metro
//	    gtfs: ./data/metro-gtfs.zip
//
// The package supports multiple feeds and allows feed selection by name.
package config
