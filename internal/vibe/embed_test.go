package vibe

import (
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func triangle() Positions {
	return Positions{
		"a": {X: 0, Y: 0},
		"b": {X: 100, Y: 0},
		"c": {X: 0, Y: 100},
	}
}

func TestEmbed_Identity(t *testing.T) {
	pos := Positions{"a": {X: 12.5, Y: -3.25}, "b": {X: 7, Y: 7}}
	got, err := Embed(pos, Composition{"a": 1.0})
	require.NoError(t, err)
	assert.Equal(t, pos["a"], got)
}

func TestEmbed_Midpoint(t *testing.T) {
	got, err := Embed(triangle(), Composition{"a": 0.5, "b": 0.5})
	require.NoError(t, err)
	assert.InDelta(t, 50, got.X, eps)
	assert.InDelta(t, 0, got.Y, eps)
}

func TestEmbed_NormalisesWeights(t *testing.T) {
	// 0.3/0.2 is the same direction as 0.6/0.4.
	got, err := Embed(triangle(), Composition{"a": 0.3, "b": 0.2})
	require.NoError(t, err)
	assert.InDelta(t, 40, got.X, eps)
	assert.InDelta(t, 0, got.Y, eps)
}

func TestEmbed_UnknownAnchorRejected(t *testing.T) {
	_, err := Embed(triangle(), Composition{"a": 0.5, "z": 0.5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidComposition))
}

func TestEmbed_InvalidWeights(t *testing.T) {
	for name, c := range map[string]Composition{
		"empty":    {},
		"zero sum": {"a": 0, "b": 0},
		"negative": {"a": -0.1, "b": 0.5},
		"above 1":  {"a": 1.5},
		"nan":      {"a": math.NaN()},
	} {
		_, err := Embed(triangle(), c)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrInvalidComposition), name)
	}
}

func TestComposition_Dominant(t *testing.T) {
	id, ok := Composition{"b": 0.4, "a": 0.4, "c": 0.2}.Dominant()
	require.True(t, ok)
	assert.Equal(t, ID("a"), id)

	_, ok = Composition{}.Dominant()
	assert.False(t, ok)
}

func TestComposition_Normalized(t *testing.T) {
	n, err := Composition{"a": 0.2, "b": 0.6}.Normalized()
	require.NoError(t, err)
	assert.InDelta(t, 0.25, n["a"], eps)
	assert.InDelta(t, 0.75, n["b"], eps)
	assert.InDelta(t, 1.0, n.Sum(), eps)
}

// TestEmbedConvexHullProperty checks that any valid composition over the
// triangle lands inside it.
func TestEmbedConvexHullProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("embedding stays in the convex hull", prop.ForAll(
		func(wa, wb, wc float64) bool {
			c := Composition{"a": wa, "b": wb, "c": wc}
			if c.Sum() <= 0 {
				_, err := Embed(triangle(), c)
				return errors.Is(err, ErrInvalidComposition)
			}
			p, err := Embed(triangle(), c)
			if err != nil {
				return false
			}
			return p.X >= -eps && p.Y >= -eps && p.X+p.Y <= 100+1e-6
		},
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1),
	))

	properties.TestingRun(t)
}
