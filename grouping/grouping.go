package grouping

import (
	"fmt"
	"slices"

	"github.com/theoremus-urban-solutions/transit-los/feature"
)

// Grouping owns the route groups of one session
type Grouping struct {
	strategy KeyStrategy
	byKey    map[Key]*Group
	ordered  []*Group
	tripOf   map[feature.ID]*Group
}

// New creates an empty grouping; an invalid strategy falls back to ShortName.
func New(strategy KeyStrategy) *Grouping {
	if !strategy.Valid() {
		strategy = ShortName
	}
	return &Grouping{
		strategy: strategy,
		byKey:    map[Key]*Group{},
		tripOf:   map[feature.ID]*Group{},
	}
}

// Strategy returns the key strategy in use.
func (g *Grouping) Strategy() KeyStrategy { return g.strategy }

// Ingest adds f to its route group, creating and inserting the group in
// sort order if needed. The bool is true when the group is new.
func (g *Grouping) Ingest(f *feature.Feature) (*Group, bool) {
	if _, dup := g.tripOf[f.ID]; dup {
		panic(fmt.Sprintf("grouping: trip %d ingested twice", f.ID))
	}
	key := g.strategy.KeyFor(f)
	grp, ok := g.byKey[key]
	created := !ok
	if created {
		grp = newGroup(key, f)
		pos, found := slices.BinarySearchFunc(g.ordered, grp, Compare)
		if found {
			panic(fmt.Sprintf("grouping: route %q collides with %q in sort order", key, g.ordered[pos].Key))
		}
		g.ordered = slices.Insert(g.ordered, pos, grp)
		g.byKey[key] = grp
	}
	grp.members = append(grp.members, f)
	g.tripOf[f.ID] = grp
	return grp, created
}

// Groups returns all groups in display order.
func (g *Grouping) Groups() []*Group {
	out := make([]*Group, len(g.ordered))
	copy(out, g.ordered)
	return out
}

// Lookup finds a group by key.
func (g *Grouping) Lookup(key Key) (*Group, bool) {
	grp, ok := g.byKey[key]
	return grp, ok
}

// GroupOf returns the group owning trip id.
func (g *Grouping) GroupOf(id feature.ID) (*Group, bool) {
	grp, ok := g.tripOf[id]
	return grp, ok
}

// Position returns the display index of key, or -1.
func (g *Grouping) Position(key Key) int {
	grp, ok := g.byKey[key]
	if !ok {
		return -1
	}
	pos, _ := slices.BinarySearchFunc(g.ordered, grp, Compare)
	return pos
}

// Len returns the number of groups.
func (g *Grouping) Len() int { return len(g.ordered) }
