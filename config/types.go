package config

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           int      `yaml:"port" validate:"gte=0,lte=65535"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// WindowConfig is the default classification window as clock times
// (HH:MM or H:MM:SS, hours may exceed 23).
type WindowConfig struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// LevelConfig is one LOS level. Max may be .inf for the last level.
type LevelConfig struct {
	Name  string  `yaml:"name" validate:"required"`
	Label string  `yaml:"label"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Color string  `yaml:"color" validate:"required"`
}

// StyleConfig overrides the line treatment; zero fields keep defaults.
type StyleConfig struct {
	Weight        float64 `yaml:"weight" validate:"gte=0"`
	Opacity       float64 `yaml:"opacity" validate:"gte=0,lte=1"`
	LineCap       string  `yaml:"lineCap" validate:"omitempty,oneof=butt round square"`
	RailWeight    float64 `yaml:"railWeight" validate:"gte=0"`
	RailDashArray string  `yaml:"railDashArray"`
	RailLineJoin  string  `yaml:"railLineJoin" validate:"omitempty,oneof=miter round bevel"`
}

// GroupingConfig selects the route identity
type GroupingConfig struct {
	KeyStrategy string `yaml:"keyStrategy" validate:"omitempty,oneof=shortName shortLongName"`
}

// GTFSConfig contains GTFS static conversion settings
type GTFSConfig struct {
	Weekday string `yaml:"weekday" validate:"omitempty,oneof=monday tuesday wednesday thursday friday saturday sunday"`
}

// LoaderConfig contains feature collection fetch settings
type LoaderConfig struct {
	TimeoutMS int `yaml:"timeoutMS" validate:"gte=0"`
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level       string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// Feed is a named data source: a GeoJSON feature collection or a GTFS
// static zip, as a URL or a local path.
type Feed struct {
	Name    string `yaml:"name" validate:"required"`
	GeoJSON string `yaml:"geojson" validate:"required_without=GTFS"`
	GTFS    string `yaml:"gtfs"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Window   WindowConfig   `yaml:"window"`
	Levels   []LevelConfig  `yaml:"levels" validate:"dive"`
	Style    StyleConfig    `yaml:"style"`
	Grouping GroupingConfig `yaml:"grouping"`
	GTFS     GTFSConfig     `yaml:"gtfs"`
	Loader   LoaderConfig   `yaml:"loader"`
	Logging  LoggingConfig  `yaml:"logging"`
	Feeds    []Feed         `yaml:"feeds" validate:"dive"`
}
