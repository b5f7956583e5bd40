package maplayer

import (
	"slices"

	"github.com/theoremus-urban-solutions/transit-los/feature"
)

// Surface is the drawing side of the map widget
type Surface interface {
	SetStyle(id feature.ID, s Style)
	BringToFront(id feature.ID)
}

// MemorySurface keeps the last style and z-order of every layer, for
// clients that render from a snapshot.
type MemorySurface struct {
	styles map[feature.ID]Style
	stack  []feature.ID
}

// NewMemorySurface creates an empty surface.
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{styles: map[feature.ID]Style{}}
}

// SetStyle records s; a new layer goes on top.
func (m *MemorySurface) SetStyle(id feature.ID, s Style) {
	if _, ok := m.styles[id]; !ok {
		m.stack = append(m.stack, id)
	}
	m.styles[id] = s
}

// BringToFront moves id to the top of the stack.
func (m *MemorySurface) BringToFront(id feature.ID) {
	i := slices.Index(m.stack, id)
	if i < 0 {
		return
	}
	m.stack = append(slices.Delete(m.stack, i, i+1), id)
}

// Style returns the recorded style of id.
func (m *MemorySurface) Style(id feature.ID) (Style, bool) {
	s, ok := m.styles[id]
	return s, ok
}

// Stack returns layer ids bottom to top.
func (m *MemorySurface) Stack() []feature.ID { return slices.Clone(m.stack) }
