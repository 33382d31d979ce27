package index

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamusis/vibe-cli/internal/vibe"
)

func TestNearest_ExactHit(t *testing.T) {
	anchors, defs := triangle()
	idx, err := Build(anchors, defs)
	require.NoError(t, err)

	for _, p := range idx.All() {
		m, err := idx.Nearest(p.Position)
		require.NoError(t, err)
		assert.Equal(t, p.ID, m.ID)
		assert.InDelta(t, 0, m.Distance, eps)
	}
}

func TestNearest_TiesGoToInsertionOrder(t *testing.T) {
	anchors := vibe.Positions{"a": {X: 0, Y: 0}, "b": {X: 10, Y: 0}}
	idx, err := Build(anchors, []Definition{
		{ID: "second-alpha", Composition: vibe.Composition{"b": 1}},
		{ID: "first-alpha", Composition: vibe.Composition{"a": 1}},
	})
	require.NoError(t, err)

	m, err := idx.Nearest(vibe.Point{X: 5, Y: 0})
	require.NoError(t, err)
	assert.Equal(t, vibe.ID("second-alpha"), m.ID)

	ks, err := idx.KNearest(vibe.Point{X: 5, Y: 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, vibe.ID("second-alpha"), ks[0].ID)
	assert.Equal(t, vibe.ID("first-alpha"), ks[1].ID)
}

func TestNearest_Exclude(t *testing.T) {
	anchors, defs := triangle()
	idx, err := Build(anchors, defs)
	require.NoError(t, err)

	m, err := idx.Nearest(vibe.Point{X: 40, Y: 0}, "p2")
	require.NoError(t, err)
	assert.Equal(t, vibe.ID("p1"), m.ID)

	_, err = idx.Nearest(vibe.Point{}, "p1", "p2", "p3")
	assert.True(t, errors.Is(err, vibe.ErrEmptyIndex))
}

func TestNearest_EmptyIndex(t *testing.T) {
	idx, err := Build(vibe.Positions{"a": {}}, nil)
	require.NoError(t, err)

	_, err = idx.Nearest(vibe.Point{})
	assert.True(t, errors.Is(err, vibe.ErrEmptyIndex))
	_, err = idx.KNearest(vibe.Point{}, 3)
	assert.True(t, errors.Is(err, vibe.ErrEmptyIndex))
}

func TestNearest_NonFiniteTarget(t *testing.T) {
	anchors, defs := triangle()
	idx, err := Build(anchors, defs)
	require.NoError(t, err)

	_, err = idx.Nearest(vibe.Point{X: math.NaN()})
	assert.True(t, errors.Is(err, vibe.ErrInvalidComposition))
}

func TestKNearest_Truncates(t *testing.T) {
	anchors, defs := triangle()
	idx, err := Build(anchors, defs)
	require.NoError(t, err)

	ks, err := idx.KNearest(vibe.Point{}, 2)
	require.NoError(t, err)
	require.Len(t, ks, 2)
	assert.Equal(t, vibe.ID("p1"), ks[0].ID)

	ks, err = idx.KNearest(vibe.Point{}, 0)
	require.NoError(t, err)
	assert.Empty(t, ks)
}
