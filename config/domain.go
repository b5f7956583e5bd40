package config

import (
	"fmt"
	"time"

	"github.com/theoremus-urban-solutions/transit-los/grouping"
	"github.com/theoremus-urban-solutions/transit-los/los"
	"github.com/theoremus-urban-solutions/transit-los/maplayer"
	"github.com/theoremus-urban-solutions/transit-los/utils"
)

// Table builds the LOS table; no levels selects the default table.
func (c AppConfig) Table() (*los.Table, error) {
	if len(c.Levels) == 0 {
		return los.DefaultTable(), nil
	}
	buckets := make([]los.Bucket, len(c.Levels))
	for i, l := range c.Levels {
		label := l.Label
		if label == "" {
			label = l.Name
		}
		buckets[i] = los.Bucket{
			Name:         l.Name,
			Label:        label,
			MinExclusive: l.Min,
			MaxInclusive: l.Max,
			Color:        l.Color,
		}
	}
	table, err := los.NewTable(buckets)
	if err != nil {
		return nil, fmt.Errorf("levels: %w", err)
	}
	return table, nil
}

// DefaultWindow returns the configured window, or los.DefaultWindow.
func (c AppConfig) DefaultWindow() (los.Window, error) {
	if c.Window == (WindowConfig{}) {
		return los.DefaultWindow, nil
	}
	start, err := utils.ParseClock(c.Window.Start)
	if err != nil {
		return los.Window{}, fmt.Errorf("window.start: %w", err)
	}
	end, err := utils.ParseClock(c.Window.End)
	if err != nil {
		return los.Window{}, fmt.Errorf("window.end: %w", err)
	}
	w := los.Window{Start: start, End: end}
	if err := w.Validate(); err != nil {
		return los.Window{}, fmt.Errorf("window: %w", err)
	}
	return w, nil
}

// LineStyle returns the line style; zero fields keep the defaults.
func (c AppConfig) LineStyle() maplayer.StyleConfig {
	return maplayer.StyleConfig{
		Weight:        c.Style.Weight,
		Opacity:       c.Style.Opacity,
		LineCap:       c.Style.LineCap,
		RailWeight:    c.Style.RailWeight,
		RailDashArray: c.Style.RailDashArray,
		RailLineJoin:  c.Style.RailLineJoin,
	}
}

// KeyStrategy returns the route identity, ShortName when unset.
func (c AppConfig) KeyStrategy() grouping.KeyStrategy {
	if c.Grouping.KeyStrategy == "" {
		return grouping.ShortName
	}
	return grouping.KeyStrategy(c.Grouping.KeyStrategy)
}

// Weekday is the GTFS service day, Monday when unset.
func (c AppConfig) Weekday() time.Weekday {
	if d, ok := ParseWeekday(c.GTFS.Weekday); ok {
		return d
	}
	return time.Monday
}

// ParseWeekday maps a lower-case day name to its weekday.
func ParseWeekday(name string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if weekdayNames[d] == name {
			return d, true
		}
	}
	return time.Sunday, false
}

var weekdayNames = [...]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// LoaderTimeout is the fetch timeout, 0 for none.
func (c AppConfig) LoaderTimeout() time.Duration {
	return time.Duration(c.Loader.TimeoutMS) * time.Millisecond
}
