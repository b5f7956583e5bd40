package display

import (
	"fmt"
	"testing"

	"github.com/theoremus-urban-solutions/transit-los/feature"
	"github.com/theoremus-urban-solutions/transit-los/grouping"
)

// buildTree creates routes with the given trip counts, all shown.
func buildTree(t *testing.T, routes map[string]int) (*Tree, *grouping.Grouping) {
	t.Helper()
	g := grouping.New(grouping.ShortName)
	tree := NewTree(g)
	id := 0
	for _, name := range []string{"X", "Y", "Z", "A", "B"} {
		n, ok := routes[name]
		if !ok {
			continue
		}
		for i := 0; i < n; i++ {
			f := &feature.Feature{ID: feature.ID(id), RouteShortName: name}
			g.Ingest(f)
			tree.Add(f)
			id++
		}
	}
	return tree, g
}

func members(g *grouping.Grouping, key string) []*feature.Feature {
	grp, _ := g.Lookup(grouping.Key(key))
	return grp.Members()
}

func TestTree_DefaultsToShown(t *testing.T) {
	tree, g := buildTree(t, map[string]int{"X": 2})
	for _, f := range members(g, "X") {
		if !tree.Shown(f.ID) {
			t.Errorf("trip %d should start shown", f.ID)
		}
	}
	if st := tree.GroupState("X"); st != All {
		t.Errorf("state = %v, want all", st)
	}
	if tree.ShownCount() != 2 {
		t.Errorf("ShownCount = %d", tree.ShownCount())
	}
}

func TestTree_MixedThenAll(t *testing.T) {
	tree, g := buildTree(t, map[string]int{"X": 3})
	trips := members(g, "X")
	tree.SetTripShown(trips[2].ID, false)
	if st := tree.GroupState("X"); st != Mixed {
		t.Fatalf("2 of 3 shown: state = %v, want mixed", st)
	}
	tree.SetTripShown(trips[2].ID, true)
	if st := tree.GroupState("X"); st != All {
		t.Errorf("state = %v, want all", st)
	}
	tree.SetGroupShown("X", false)
	if st := tree.GroupState("X"); st != None {
		t.Errorf("state = %v, want none", st)
	}
}

func TestTree_ShowOnly(t *testing.T) {
	tree, g := buildTree(t, map[string]int{"X": 2, "Y": 3, "Z": 1})
	tree.SetTripShown(members(g, "X")[0].ID, false)
	tree.ShowOnly("X")
	want := map[string]bool{"X": true, "Y": false, "Z": false}
	for name, shown := range want {
		for _, f := range members(g, name) {
			if tree.Shown(f.ID) != shown {
				t.Errorf("route %s trip %d shown = %v, want %v", name, f.ID, !shown, shown)
			}
		}
	}
	if tree.GroupState("X") != All || tree.GroupState("Y") != None || tree.GroupState("Z") != None {
		t.Errorf("states X=%v Y=%v Z=%v", tree.GroupState("X"), tree.GroupState("Y"), tree.GroupState("Z"))
	}
}

func TestTree_ShowAllHideAll(t *testing.T) {
	tree, _ := buildTree(t, map[string]int{"X": 2, "Y": 2})
	tree.HideAll()
	if tree.ShownCount() != 0 {
		t.Errorf("after HideAll ShownCount = %d", tree.ShownCount())
	}
	tree.ShowAll()
	if tree.ShownCount() != 4 {
		t.Errorf("after ShowAll ShownCount = %d", tree.ShownCount())
	}
}

func TestTree_Notifications(t *testing.T) {
	tree, g := buildTree(t, map[string]int{"X": 3, "Y": 1})
	var tripEvents []TripEvent
	var groupEvents []GroupEvent
	for _, f := range members(g, "X") {
		tree.SubscribeTrip(f.ID, TripObserverFunc(func(e TripEvent) { tripEvents = append(tripEvents, e) }))
	}
	tree.SubscribeGroup("X", GroupObserverFunc(func(e GroupEvent) { groupEvents = append(groupEvents, e) }))

	tree.SetGroupShown("X", false)
	if len(tripEvents) != 3 {
		t.Fatalf("trip events = %d, want one per trip", len(tripEvents))
	}
	// all -> mixed on the first flip, mixed -> none on the last
	if len(groupEvents) != 2 || groupEvents[0].State != Mixed || groupEvents[1].State != None {
		t.Errorf("group events = %+v", groupEvents)
	}

	tripEvents, groupEvents = nil, nil
	tree.SetGroupShown("X", false)
	if len(tripEvents) != 0 || len(groupEvents) != 0 {
		t.Errorf("no-op set emitted %d trip and %d group events", len(tripEvents), len(groupEvents))
	}

	tree.SetGroupShown("Y", false)
	if len(tripEvents) != 0 || len(groupEvents) != 0 {
		t.Error("route Y changes must not reach X subscribers")
	}
}

func TestTree_Unsubscribe(t *testing.T) {
	tree, g := buildTree(t, map[string]int{"X": 1})
	id := members(g, "X")[0].ID
	calls := 0
	var unsubscribe func()
	unsubscribe = tree.SubscribeTrip(id, TripObserverFunc(func(TripEvent) {
		calls++
		unsubscribe()
	}))
	other := 0
	tree.SubscribeTrip(id, TripObserverFunc(func(TripEvent) { other++ }))
	tree.SetTripShown(id, false)
	tree.SetTripShown(id, true)
	if calls != 1 {
		t.Errorf("unsubscribed observer called %d times, want 1", calls)
	}
	if other != 2 {
		t.Errorf("remaining observer called %d times, want 2", other)
	}
}

func TestTree_AddPublishesGroupChange(t *testing.T) {
	g := grouping.New(grouping.ShortName)
	tree := NewTree(g)
	a := &feature.Feature{ID: 1, RouteShortName: "X"}
	g.Ingest(a)
	tree.Add(a)
	tree.SetTripShown(1, false)

	var got []TriState
	tree.SubscribeGroup("X", GroupObserverFunc(func(e GroupEvent) { got = append(got, e.State) }))
	b := &feature.Feature{ID: 2, RouteShortName: "X"}
	g.Ingest(b)
	tree.Add(b)
	if len(got) != 1 || got[0] != Mixed {
		t.Errorf("events = %v, want [mixed]", got)
	}
}

func TestTree_UnknownReferencesPanic(t *testing.T) {
	tree, _ := buildTree(t, map[string]int{"X": 1})
	cases := map[string]func(){
		"Shown":         func() { tree.Shown(99) },
		"SetTripShown":  func() { tree.SetTripShown(99, true) },
		"SetGroupShown": func() { tree.SetGroupShown("nope", true) },
		"ShowOnly":      func() { tree.ShowOnly("nope") },
		"GroupState":    func() { tree.GroupState("nope") },
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("%s should panic on an unknown reference", name)
				} else {
					t.Logf("✓ %s panicked: %v", name, fmt.Sprint(r))
				}
			}()
			fn()
		})
	}
}

func TestTriState_String(t *testing.T) {
	for st, want := range map[TriState]string{None: "none", Mixed: "mixed", All: "all"} {
		b, _ := st.MarshalText()
		if st.String() != want || string(b) != want {
			t.Errorf("%d: got %q", int(st), st.String())
		}
		var back TriState
		if err := back.UnmarshalText(b); err != nil || back != st {
			t.Errorf("UnmarshalText(%q) = %v, %v", b, back, err)
		}
	}
	var bad TriState
	if err := bad.UnmarshalText([]byte("half")); err == nil {
		t.Error("unknown state should fail")
	}
}
