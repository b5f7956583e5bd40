package maplayer

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/paulmach/orb"

	"github.com/theoremus-urban-solutions/transit-los/display"
	"github.com/theoremus-urban-solutions/transit-los/feature"
	"github.com/theoremus-urban-solutions/transit-los/los"
)

type layer struct {
	trip   *feature.Feature
	bucket los.Bucket
	shown  bool
	seq    int
}

// Registry maps trips to styled map layers. It is not safe for
// concurrent use.
type Registry struct {
	surface Surface
	cfg     StyleConfig
	layers  map[feature.ID]*layer
	order   []*layer
}

// NewRegistry creates a registry drawing on surface.
func NewRegistry(surface Surface, cfg StyleConfig) *Registry {
	if surface == nil {
		surface = NewMemorySurface()
	}
	return &Registry{
		surface: surface,
		cfg:     cfg.withDefaults(),
		layers:  map[feature.ID]*layer{},
	}
}

// Surface returns the drawing surface.
func (r *Registry) Surface() Surface { return r.surface }

// Register adds a layer for f and draws it.
func (r *Registry) Register(f *feature.Feature, bucket los.Bucket, shown bool) {
	if _, dup := r.layers[f.ID]; dup {
		panic(fmt.Sprintf("maplayer: trip %d registered twice", f.ID))
	}
	l := &layer{trip: f, bucket: bucket, shown: shown, seq: len(r.order)}
	r.layers[f.ID] = l
	r.order = append(r.order, l)
	r.surface.SetStyle(f.ID, r.style(l))
}

// SetBucket changes a trip's LOS bucket and restyles it. It reports
// whether the bucket changed. Callers run Reorder afterwards.
func (r *Registry) SetBucket(id feature.ID, bucket los.Bucket) bool {
	l := r.mustLayer(id)
	if l.bucket == bucket {
		return false
	}
	l.bucket = bucket
	r.surface.SetStyle(id, r.style(l))
	return true
}

// TripShownChanged restyles the layer on a visibility change.
func (r *Registry) TripShownChanged(ev display.TripEvent) {
	l := r.mustLayer(ev.Trip)
	if l.shown == ev.Shown {
		return
	}
	l.shown = ev.Shown
	r.surface.SetStyle(ev.Trip, r.style(l))
}

// StyleFor returns the current style of a trip.
func (r *Registry) StyleFor(id feature.ID) Style { return r.style(r.mustLayer(id)) }

// Bucket returns the trip's assigned bucket.
func (r *Registry) Bucket(id feature.ID) los.Bucket { return r.mustLayer(id).bucket }

func (r *Registry) style(l *layer) Style {
	return r.cfg.styleFor(l.bucket.Color, l.trip.IsRail(), l.shown)
}

// Reorder sorts layers worst service first and brings each to the front,
// so the best service ends on top. Ties keep registration order.
func (r *Registry) Reorder() {
	slices.SortStableFunc(r.order, func(a, b *layer) int {
		if c := cmp.Compare(b.bucket.Rank, a.bucket.Rank); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
	for _, l := range r.order {
		r.surface.BringToFront(l.trip.ID)
	}
}

// DrawOrder returns trip ids bottom to top as of the last Reorder.
func (r *Registry) DrawOrder() []feature.ID {
	out := make([]feature.ID, len(r.order))
	for i, l := range r.order {
		out[i] = l.trip.ID
	}
	return out
}

// ComputeBounds unions the extents of all layers, or only shown ones.
// The bool is false when no layer qualifies.
func (r *Registry) ComputeBounds(onlyShown bool) (orb.Bound, bool) {
	var bound orb.Bound
	found := false
	for _, l := range r.order {
		if onlyShown && !l.shown {
			continue
		}
		b, ok := l.trip.Bound()
		if !ok {
			continue
		}
		if !found {
			bound, found = b, true
			continue
		}
		bound = bound.Union(b)
	}
	return bound, found
}

// Len returns the number of layers.
func (r *Registry) Len() int { return len(r.order) }

func (r *Registry) mustLayer(id feature.ID) *layer {
	l, ok := r.layers[id]
	if !ok {
		panic(fmt.Sprintf("maplayer: unknown trip %d", id))
	}
	return l
}
