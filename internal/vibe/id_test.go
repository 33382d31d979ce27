package vibe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID_Canonicalises(t *testing.T) {
	cases := map[string]ID{
		"calm":        "calm",
		"  Calm ":     "calm",
		"LATE-Night":  "late-night",
		"Café":        "café",
		"cafe\u0301":  "café", // decomposed é
		"lo_fi.beats": "lo_fi.beats",
	}
	for in, want := range cases {
		got, err := ParseID(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseID_Rejects(t *testing.T) {
	for _, in := range []string{"", "   ", "two words", "a/b", "x\ty"} {
		_, err := ParseID(in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrConfiguration), in)
	}
}

func TestMustID_Panics(t *testing.T) {
	assert.Panics(t, func() { MustID("not valid") })
	assert.Equal(t, ID("ok"), MustID("OK"))
}
