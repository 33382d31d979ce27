package index

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamusis/vibe-cli/internal/vibe"
)

func TestRoute_WorkedExample(t *testing.T) {
	anchors, defs := triangle()
	idx, err := Build(anchors, defs)
	require.NoError(t, err)

	id, err := Route(vibe.Composition{"a": 0.6, "b": 0.4}, idx, anchors)
	require.NoError(t, err)
	assert.Equal(t, vibe.ID("p2"), id)
}

func TestRouter_BeforeSwap(t *testing.T) {
	r := NewRouter(nil)
	_, _, err := r.Route(vibe.Composition{"a": 1})
	assert.True(t, errors.Is(err, ErrNoIndex))
}

func TestRouter_SwapPublishesWholeIndex(t *testing.T) {
	anchors, defs := triangle()
	first, err := Build(anchors, defs)
	require.NoError(t, err)

	moved := vibe.Positions{
		"a": {X: 1000, Y: 1000},
		"b": {X: 1100, Y: 1000},
		"c": {X: 1000, Y: 1100},
	}
	second, err := Build(moved, defs)
	require.NoError(t, err)

	r := NewRouter(first)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				m, target, err := r.Route(vibe.Composition{"a": 0.6, "b": 0.4})
				if !assert.NoError(t, err) {
					return
				}
				// Target and match always come from the same snapshot.
				assert.Equal(t, vibe.ID("p2"), m.ID)
				assert.InDelta(t, 10, m.Distance, eps)
				assert.True(t, math.Abs(target.X-40) < eps || math.Abs(target.X-1040) < eps, target.X)
			}
		}()
	}
	old := r.Swap(second)
	wg.Wait()

	assert.Same(t, first, old)
	assert.Same(t, second, r.Current())
}
