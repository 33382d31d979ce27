package index

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamusis/vibe-cli/internal/vibe"
)

const eps = 1e-9

// triangle is the worked example: three pinned anchors and three sub-vibes.
func triangle() (vibe.Positions, []Definition) {
	anchors := vibe.Positions{
		"a": {X: 0, Y: 0},
		"b": {X: 100, Y: 0},
		"c": {X: 0, Y: 100},
	}
	defs := []Definition{
		{ID: "p1", Composition: vibe.Composition{"a": 1.0}},
		{ID: "p2", Composition: vibe.Composition{"a": 0.5, "b": 0.5}},
		{ID: "p3", Composition: vibe.Composition{"c": 1.0}},
	}
	return anchors, defs
}

func TestBuild_WorkedExample(t *testing.T) {
	anchors, defs := triangle()
	idx, err := Build(anchors, defs)
	require.NoError(t, err)
	require.NoError(t, idx.Err())
	require.Equal(t, 3, idx.Len())

	p2, ok := idx.Get("p2")
	require.True(t, ok)
	assert.InDelta(t, 50, p2.Position.X, eps)
	assert.InDelta(t, 0, p2.Position.Y, eps)
	assert.Equal(t, vibe.ID("a"), p2.Parent) // tie goes to the smaller id

	target, err := vibe.Embed(anchors, vibe.Composition{"a": 0.6, "b": 0.4})
	require.NoError(t, err)
	assert.InDelta(t, 40, target.X, eps)

	m, err := idx.Nearest(target)
	require.NoError(t, err)
	assert.Equal(t, vibe.ID("p2"), m.ID)
	assert.InDelta(t, 10, m.Distance, eps)

	all, err := idx.KNearest(target, 3)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, vibe.ID("p1"), all[1].ID)
	assert.InDelta(t, 40, all[1].Distance, eps)
	assert.Equal(t, vibe.ID("p3"), all[2].ID)
	assert.InDelta(t, 107.70329614269008, all[2].Distance, 1e-6)
}

func TestBuild_DuplicateIDIsFatal(t *testing.T) {
	anchors, defs := triangle()
	defs = append(defs, Definition{ID: "p1", Composition: vibe.Composition{"b": 1}})

	idx, err := Build(anchors, defs)
	require.Error(t, err)
	assert.Nil(t, idx)
	assert.True(t, errors.Is(err, vibe.ErrDuplicateID))
	assert.Contains(t, err.Error(), "p1")
}

func TestBuild_InvalidCompositionsAreCollected(t *testing.T) {
	anchors, defs := triangle()
	defs = append(defs,
		Definition{ID: "ghost", Composition: vibe.Composition{"z": 1}},
		Definition{ID: "silent", Composition: vibe.Composition{"a": 0}},
	)

	idx, err := Build(anchors, defs)
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Len())

	rej := idx.Rejected()
	require.Len(t, rej, 2)
	assert.Equal(t, vibe.ID("ghost"), rej[0].ID)
	assert.Equal(t, vibe.ID("silent"), rej[1].ID)
	assert.True(t, errors.Is(rej[0], vibe.ErrInvalidComposition))
	assert.True(t, errors.Is(idx.Err(), vibe.ErrInvalidComposition))

	_, ok := idx.Get("ghost")
	assert.False(t, ok)
}

func TestBuild_UnknownAnchorNeverFallsBack(t *testing.T) {
	anchors, defs := triangle()
	idx, err := Build(anchors, defs)
	require.NoError(t, err)

	_, err = Route(vibe.Composition{"z": 1.0}, idx, anchors)
	require.Error(t, err)
	assert.True(t, errors.Is(err, vibe.ErrInvalidComposition))
}

func TestBuild_NoAnchors(t *testing.T) {
	_, err := Build(nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, vibe.ErrConfiguration))
}

func TestBuild_IsolatedFromCallerMutation(t *testing.T) {
	anchors, defs := triangle()
	idx, err := Build(anchors, defs)
	require.NoError(t, err)

	anchors["a"] = vibe.Point{X: 500, Y: 500}
	defs[0].Composition["b"] = 1

	p1, _ := idx.Get("p1")
	assert.Equal(t, vibe.Point{}, p1.Position)
	assert.Len(t, p1.Composition, 1)
	assert.Equal(t, vibe.Point{}, idx.Anchors()["a"])
}

func TestBuild_RowReadFailureIsRejectedNotFatal(t *testing.T) {
	anchors, defs := triangle()
	readErr := fmt.Errorf("%w: \"calm\" appears twice", vibe.ErrInvalidComposition)
	defs = append(defs, Definition{ID: "broken", Composition: vibe.Composition{"a": 1}, Err: readErr})

	idx, err := Build(anchors, defs)
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Len())
	_, ok := idx.Get("broken")
	assert.False(t, ok)

	rej := idx.Rejected()
	require.Len(t, rej, 1)
	assert.Equal(t, vibe.ID("broken"), rej[0].ID)
	assert.ErrorIs(t, rej[0], vibe.ErrInvalidComposition)
}

func TestIndex_AccessorsReturnCopies(t *testing.T) {
	anchors, defs := triangle()
	idx, err := Build(anchors, defs)
	require.NoError(t, err)

	all := idx.All()
	all[0].Composition["b"] = 1
	got, _ := idx.Get("p1")
	got.Composition["c"] = 1
	for _, p := range idx.Find("p1", 0) {
		p.Composition["b"] = 1
	}

	p1, _ := idx.Get("p1")
	assert.Equal(t, vibe.Composition{"a": 1}, p1.Composition)
	assert.Equal(t, vibe.Composition{"a": 1}, idx.All()[0].Composition)
}

func TestBuild_IdempotentRebuild(t *testing.T) {
	anchors, defs := triangle()
	a, err := Build(anchors, defs)
	require.NoError(t, err)
	b, err := Build(anchors, defs)
	require.NoError(t, err)

	for x := 0.0; x <= 100; x += 12.5 {
		for y := 0.0; y <= 100; y += 12.5 {
			target := vibe.Point{X: x, Y: y}
			ma, errA := a.Nearest(target)
			mb, errB := b.Nearest(target)
			require.NoError(t, errA)
			require.NoError(t, errB)
			assert.Equal(t, ma, mb)
		}
	}
}
