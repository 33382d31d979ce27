package vibe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anchors(ids ...string) []Anchor {
	out := make([]Anchor, len(ids))
	for i, id := range ids {
		out[i] = Anchor{ID: MustID(id)}
	}
	return out
}

func TestNewGraph_HappyPath(t *testing.T) {
	g, err := NewGraph(anchors("a", "b", "c"), []Edge{
		{From: "a", To: "b", Distance: 80},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, g.Len())
	assert.True(t, g.Connected("a", "b"))
	assert.True(t, g.Connected("b", "a"))
	assert.False(t, g.Connected("a", "c"))

	d, ok := g.DesiredDistance("b", "a")
	assert.True(t, ok)
	assert.Equal(t, 80.0, d)

	ids := []ID{}
	for _, a := range g.Anchors() {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []ID{"a", "b", "c"}, ids)
	assert.False(t, g.Pinned())
	assert.Nil(t, g.PinnedPositions())
}

func TestNewGraph_ConfigurationErrors(t *testing.T) {
	pt := &Point{X: 1, Y: 2}
	tests := []struct {
		name    string
		anchors []Anchor
		edges   []Edge
	}{
		{"empty", nil, nil},
		{"duplicate anchor", anchors("a", "a"), nil},
		{"unknown from", anchors("a", "b"), []Edge{{From: "z", To: "a", Distance: 1}}},
		{"unknown to", anchors("a", "b"), []Edge{{From: "a", To: "z", Distance: 1}}},
		{"self loop", anchors("a", "b"), []Edge{{From: "a", To: "a", Distance: 1}}},
		{"zero distance", anchors("a", "b"), []Edge{{From: "a", To: "b"}}},
		{"duplicate reversed edge", anchors("a", "b"), []Edge{
			{From: "a", To: "b", Distance: 1},
			{From: "b", To: "a", Distance: 2},
		}},
		{"partial pin", []Anchor{{ID: "a", Position: pt}, {ID: "b"}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGraph(tt.anchors, tt.edges)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration))
		})
	}
}

func TestNewGraph_PinnedCopiesPositions(t *testing.T) {
	p := Point{X: 10, Y: 20}
	g, err := NewGraph([]Anchor{{ID: "a", Position: &p}, {ID: "b", Position: &Point{}}}, nil)
	require.NoError(t, err)

	p.X = 999
	require.True(t, g.Pinned())
	assert.Equal(t, Point{X: 10, Y: 20}, g.PinnedPositions()["a"])
}
