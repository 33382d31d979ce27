package vibe

import (
	"math"
	"sort"
)

// Point is a coordinate on the 2D manifold.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Finite reports whether both components are neither NaN nor infinite.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Anchor is a named reference point ("central vibe").
type Anchor struct {
	ID          ID
	Description string
	// Position pins the anchor; nil means the layout assigns it.
	Position *Point
}

// Edge declares that two anchors should sit roughly Distance apart. Undirected.
type Edge struct {
	From     ID
	To       ID
	Distance float64
}

// Positions maps anchor ids to coordinates. Shared read-only once computed.
type Positions map[ID]Point

// IDs returns the keys sorted lexicographically.
func (p Positions) IDs() []ID {
	ids := make([]ID, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Clone returns an independent copy.
func (p Positions) Clone() Positions {
	out := make(Positions, len(p))
	for id, pt := range p {
		out[id] = pt
	}
	return out
}
