package vibe

import (
	"fmt"
	"math"
)

type pairKey struct{ a, b ID }

func makePair(a, b ID) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Graph is the static anchor table plus its sparse "should be close"
// adjacency. It is immutable after NewGraph.
type Graph struct {
	anchors []Anchor
	index   map[ID]int
	edges   []Edge
	desired map[pairKey]float64
}

// NewGraph validates anchors and edges and returns the graph. Anchor order is
// preserved and drives deterministic iteration everywhere downstream.
func NewGraph(anchors []Anchor, edges []Edge) (*Graph, error) {
	if len(anchors) == 0 {
		return nil, fmt.Errorf("%w: anchor set is empty", ErrConfiguration)
	}

	g := &Graph{
		anchors: make([]Anchor, 0, len(anchors)),
		index:   make(map[ID]int, len(anchors)),
		desired: make(map[pairKey]float64, len(edges)),
	}

	pinned := 0
	for _, a := range anchors {
		if a.ID == "" {
			return nil, fmt.Errorf("%w: anchor with empty id", ErrConfiguration)
		}
		if _, dup := g.index[a.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate anchor %q", ErrConfiguration, a.ID)
		}
		if a.Position != nil {
			if !a.Position.Finite() {
				return nil, fmt.Errorf("%w: anchor %q has a non-finite position", ErrConfiguration, a.ID)
			}
			p := *a.Position
			a.Position = &p
			pinned++
		}
		g.index[a.ID] = len(g.anchors)
		g.anchors = append(g.anchors, a)
	}
	if pinned != 0 && pinned != len(anchors) {
		return nil, fmt.Errorf("%w: %d of %d anchors are pinned; pin all or none", ErrConfiguration, pinned, len(anchors))
	}

	for _, e := range edges {
		if _, ok := g.index[e.From]; !ok {
			return nil, fmt.Errorf("%w: edge references unknown anchor %q", ErrConfiguration, e.From)
		}
		if _, ok := g.index[e.To]; !ok {
			return nil, fmt.Errorf("%w: edge references unknown anchor %q", ErrConfiguration, e.To)
		}
		if e.From == e.To {
			return nil, fmt.Errorf("%w: self-loop on anchor %q", ErrConfiguration, e.From)
		}
		if !(e.Distance > 0) || math.IsInf(e.Distance, 0) {
			return nil, fmt.Errorf("%w: edge %s-%s distance must be positive and finite, got %v", ErrConfiguration, e.From, e.To, e.Distance)
		}
		k := makePair(e.From, e.To)
		if _, dup := g.desired[k]; dup {
			return nil, fmt.Errorf("%w: duplicate edge %s-%s", ErrConfiguration, e.From, e.To)
		}
		g.desired[k] = e.Distance
		g.edges = append(g.edges, e)
	}
	return g, nil
}

// Len returns the number of anchors.
func (g *Graph) Len() int { return len(g.anchors) }

// Anchors returns a copy of the anchors in insertion order.
func (g *Graph) Anchors() []Anchor {
	out := make([]Anchor, len(g.anchors))
	copy(out, g.anchors)
	return out
}

// Anchor returns the anchor with the given id.
func (g *Graph) Anchor(id ID) (Anchor, bool) {
	i, ok := g.index[id]
	if !ok {
		return Anchor{}, false
	}
	return g.anchors[i], true
}

// Has reports whether id names an anchor.
func (g *Graph) Has(id ID) bool {
	_, ok := g.index[id]
	return ok
}

// Edges returns a copy of the declared edges.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Connected reports whether a and b share an edge (in either direction).
func (g *Graph) Connected(a, b ID) bool {
	_, ok := g.desired[makePair(a, b)]
	return ok
}

// DesiredDistance returns the declared distance between a and b, if connected.
func (g *Graph) DesiredDistance(a, b ID) (float64, bool) {
	d, ok := g.desired[makePair(a, b)]
	return d, ok
}

// Pinned reports whether every anchor carries a fixed position, in which
// case the layout step is bypassed.
func (g *Graph) Pinned() bool {
	return len(g.anchors) > 0 && g.anchors[0].Position != nil
}

// PinnedPositions returns the fixed positions of a pinned graph.
func (g *Graph) PinnedPositions() Positions {
	if !g.Pinned() {
		return nil
	}
	out := make(Positions, len(g.anchors))
	for _, a := range g.anchors {
		out[a.ID] = *a.Position
	}
	return out
}
