package display

import (
	"fmt"
	"slices"

	"github.com/theoremus-urban-solutions/transit-los/feature"
	"github.com/theoremus-urban-solutions/transit-los/grouping"
)

type subscription[T any] struct {
	id  int
	obs T
}

// Tree holds the shown flags of one session's trips. It is not safe for
// concurrent use.
type Tree struct {
	groups    *grouping.Grouping
	shown     map[feature.ID]bool
	tripSubs  map[feature.ID][]subscription[TripObserver]
	groupSubs map[grouping.Key][]subscription[GroupObserver]
	nextSub   int
}

// NewTree creates a tree over groups. Trips must be added with Add after
// they are ingested into groups.
func NewTree(groups *grouping.Grouping) *Tree {
	return &Tree{
		groups:    groups,
		shown:     map[feature.ID]bool{},
		tripSubs:  map[feature.ID][]subscription[TripObserver]{},
		groupSubs: map[grouping.Key][]subscription[GroupObserver]{},
	}
}

// Add registers an ingested trip as shown. If the trip changes its
// route's derived state, route observers are notified.
func (t *Tree) Add(f *feature.Feature) {
	grp := t.groupOf(f.ID)
	if _, dup := t.shown[f.ID]; dup {
		panic(fmt.Sprintf("display: trip %d added twice", f.ID))
	}
	before, hadMembers := t.stateIfAny(grp)
	t.shown[f.ID] = true
	if after := t.GroupState(grp.Key); !hadMembers || after != before {
		t.publishGroup(grp.Key, after)
	}
}

// Shown returns the trip's flag.
func (t *Tree) Shown(id feature.ID) bool {
	v, ok := t.shown[id]
	if !ok {
		panic(fmt.Sprintf("display: unknown trip %d", id))
	}
	return v
}

// GroupState derives the route's tri-state from its members.
func (t *Tree) GroupState(key grouping.Key) TriState {
	grp, ok := t.groups.Lookup(key)
	if !ok {
		panic(fmt.Sprintf("display: unknown route %q", key))
	}
	st, _ := t.stateIfAny(grp)
	return st
}

// stateIfAny computes the tri-state over members known to the tree; the
// bool is false when no member has been added yet.
func (t *Tree) stateIfAny(grp *grouping.Group) (TriState, bool) {
	total, shown := 0, 0
	for _, f := range grp.Members() {
		v, ok := t.shown[f.ID]
		if !ok {
			continue
		}
		total++
		if v {
			shown++
		}
	}
	switch {
	case total == 0:
		return None, false
	case shown == 0:
		return None, true
	case shown == total:
		return All, true
	}
	return Mixed, true
}

// SetTripShown sets one trip's flag and notifies trip and route observers.
func (t *Tree) SetTripShown(id feature.ID, value bool) {
	cur, ok := t.shown[id]
	if !ok {
		panic(fmt.Sprintf("display: unknown trip %d", id))
	}
	if cur == value {
		return
	}
	grp := t.groupOf(id)
	before := t.GroupState(grp.Key)
	t.shown[id] = value
	t.publishTrip(id, value)
	if after := t.GroupState(grp.Key); after != before {
		t.publishGroup(grp.Key, after)
	}
}

// SetGroupShown applies value to every trip of the route.
func (t *Tree) SetGroupShown(key grouping.Key, value bool) {
	grp, ok := t.groups.Lookup(key)
	if !ok {
		panic(fmt.Sprintf("display: unknown route %q", key))
	}
	for _, f := range grp.Members() {
		if _, known := t.shown[f.ID]; known {
			t.SetTripShown(f.ID, value)
		}
	}
}

// ShowOnly hides every other route, then shows key.
func (t *Tree) ShowOnly(key grouping.Key) {
	if _, ok := t.groups.Lookup(key); !ok {
		panic(fmt.Sprintf("display: unknown route %q", key))
	}
	for _, grp := range t.groups.Groups() {
		if grp.Key != key {
			t.SetGroupShown(grp.Key, false)
		}
	}
	t.SetGroupShown(key, true)
}

// ShowAll shows every route.
func (t *Tree) ShowAll() { t.setAll(true) }

// HideAll hides every route.
func (t *Tree) HideAll() { t.setAll(false) }

func (t *Tree) setAll(value bool) {
	for _, grp := range t.groups.Groups() {
		t.SetGroupShown(grp.Key, value)
	}
}

// ShownCount returns how many trips are shown.
func (t *Tree) ShownCount() int {
	n := 0
	for _, v := range t.shown {
		if v {
			n++
		}
	}
	return n
}

// SubscribeTrip registers obs for trip id. The returned func unsubscribes.
func (t *Tree) SubscribeTrip(id feature.ID, obs TripObserver) func() {
	if _, ok := t.shown[id]; !ok {
		panic(fmt.Sprintf("display: unknown trip %d", id))
	}
	t.nextSub++
	sid := t.nextSub
	t.tripSubs[id] = append(t.tripSubs[id], subscription[TripObserver]{id: sid, obs: obs})
	return func() { t.tripSubs[id] = remove(t.tripSubs[id], sid) }
}

// SubscribeGroup registers obs for route key. The returned func unsubscribes.
func (t *Tree) SubscribeGroup(key grouping.Key, obs GroupObserver) func() {
	if _, ok := t.groups.Lookup(key); !ok {
		panic(fmt.Sprintf("display: unknown route %q", key))
	}
	t.nextSub++
	sid := t.nextSub
	t.groupSubs[key] = append(t.groupSubs[key], subscription[GroupObserver]{id: sid, obs: obs})
	return func() { t.groupSubs[key] = remove(t.groupSubs[key], sid) }
}

func (t *Tree) publishTrip(id feature.ID, shown bool) {
	ev := TripEvent{Trip: id, Shown: shown}
	for _, s := range slices.Clone(t.tripSubs[id]) {
		s.obs.TripShownChanged(ev)
	}
}

func (t *Tree) publishGroup(key grouping.Key, st TriState) {
	ev := GroupEvent{Group: key, State: st}
	for _, s := range slices.Clone(t.groupSubs[key]) {
		s.obs.GroupStateChanged(ev)
	}
}

func (t *Tree) groupOf(id feature.ID) *grouping.Group {
	grp, ok := t.groups.GroupOf(id)
	if !ok {
		panic(fmt.Sprintf("display: trip %d is not in any route", id))
	}
	return grp
}

func remove[T any](subs []subscription[T], id int) []subscription[T] {
	out := subs[:0]
	for _, s := range subs {
		if s.id != id {
			out = append(out, s)
		}
	}
	return out
}
