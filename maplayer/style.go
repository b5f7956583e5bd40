package maplayer

// Style is the drawing contract handed to the map surface
type Style struct {
	Color     string  `json:"color"`
	Weight    float64 `json:"weight"`
	Opacity   float64 `json:"opacity"`
	DashArray string  `json:"dashArray,omitempty"`
	LineCap   string  `json:"lineCap,omitempty"`
	LineJoin  string  `json:"lineJoin,omitempty"`
}

// StyleConfig holds the line treatment for standard and rail trips
type StyleConfig struct {
	Weight        float64 `yaml:"weight"`
	Opacity       float64 `yaml:"opacity"`
	LineCap       string  `yaml:"lineCap"`
	RailWeight    float64 `yaml:"railWeight"`
	RailDashArray string  `yaml:"railDashArray"`
	RailLineJoin  string  `yaml:"railLineJoin"`
}

// DefaultStyleConfig matches the original list/map look.
func DefaultStyleConfig() StyleConfig {
	return StyleConfig{
		Weight:        4,
		Opacity:       1,
		LineCap:       "butt",
		RailWeight:    10,
		RailDashArray: "2,5",
		RailLineJoin:  "miter",
	}
}

// withDefaults fills zero fields from DefaultStyleConfig.
func (c StyleConfig) withDefaults() StyleConfig {
	d := DefaultStyleConfig()
	if c.Weight <= 0 {
		c.Weight = d.Weight
	}
	if c.Opacity <= 0 {
		c.Opacity = d.Opacity
	}
	if c.LineCap == "" {
		c.LineCap = d.LineCap
	}
	if c.RailWeight <= 0 {
		c.RailWeight = d.RailWeight
	}
	if c.RailDashArray == "" {
		c.RailDashArray = d.RailDashArray
	}
	if c.RailLineJoin == "" {
		c.RailLineJoin = d.RailLineJoin
	}
	return c
}

func (c StyleConfig) styleFor(color string, rail, shown bool) Style {
	s := Style{
		Color:   color,
		Weight:  c.Weight,
		Opacity: c.Opacity,
		LineCap: c.LineCap,
	}
	if rail {
		s.Weight = c.RailWeight
		s.DashArray = c.RailDashArray
		s.LineJoin = c.RailLineJoin
	}
	if !shown {
		s.Opacity = 0
	}
	return s
}
