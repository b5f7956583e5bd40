package grouping

import (
	"cmp"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/transit-los/feature"
)

// Key is a route identity
type Key string

// KeyStrategy selects which properties make up the route identity
type KeyStrategy string

const (
	// ShortName groups by route_short_name only.
	ShortName KeyStrategy = "shortName"
	// ShortLongName groups by route_short_name and route_long_name.
	ShortLongName KeyStrategy = "shortLongName"
)

const keySeparator = "\x1f"

// KeyFor returns the route identity of f under strategy s.
func (s KeyStrategy) KeyFor(f *feature.Feature) Key {
	if s == ShortLongName {
		return Key(f.RouteShortName + keySeparator + f.RouteLongName)
	}
	return Key(f.RouteShortName)
}

// Valid reports whether s is a known strategy.
func (s KeyStrategy) Valid() bool { return s == ShortName || s == ShortLongName }

// Allow a single leading letter, e.g. NYC MTA M1 as 1,
// but only one, so AC Transit NX1 does not sort as 1.
var routeSortPattern = regexp.MustCompile(`^(\D)?(\d+)`)

// SortKey parses the numeric display key from a route short name.
// Digit runs too long for an int saturate at math.MaxInt so they still
// sort after every shorter number.
func SortKey(shortName string) int {
	m := routeSortPattern.FindStringSubmatch(shortName)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[2])
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt
	}
	if err != nil {
		return 0
	}
	return n
}

// Group is a route: the trips sharing one route identity
type Group struct {
	Key       Key
	ShortName string
	LongName  string
	SortKey   int
	members   []*feature.Feature
}

func newGroup(key Key, f *feature.Feature) *Group {
	return &Group{
		Key:       key,
		ShortName: f.RouteShortName,
		LongName:  f.RouteLongName,
		SortKey:   SortKey(f.RouteShortName),
	}
}

// Members returns the group's trips in insertion order.
func (g *Group) Members() []*feature.Feature {
	out := make([]*feature.Feature, len(g.members))
	copy(out, g.members)
	return out
}

// Len returns the number of trips.
func (g *Group) Len() int { return len(g.members) }

// Inbound returns trips with direction_id 0.
func (g *Group) Inbound() []*feature.Feature { return g.byDirection(feature.Inbound) }

// Outbound returns trips with direction_id 1.
func (g *Group) Outbound() []*feature.Feature { return g.byDirection(feature.Outbound) }

func (g *Group) byDirection(d feature.Direction) []*feature.Feature {
	var out []*feature.Feature
	for _, f := range g.members {
		if f.Direction() == d {
			out = append(out, f)
		}
	}
	return out
}

// Name is the display name, "short long".
func (g *Group) Name() string {
	return strings.TrimSpace(g.ShortName + " " + g.LongName)
}

// Compare orders groups by sort key, then short name, then long name.
func Compare(a, b *Group) int {
	if c := cmp.Compare(a.SortKey, b.SortKey); c != 0 {
		return c
	}
	if c := strings.Compare(a.ShortName, b.ShortName); c != 0 {
		return c
	}
	return strings.Compare(a.LongName, b.LongName)
}
