package bsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVisibility(t *testing.T) {
	t.Parallel()

	raw := []byte{3, 0, 0, 0, 1, 0, 0, 0, 0b011, 0b010, 0b100}

	vis, err := ParseVisibility(raw)
	require.NoError(t, err)
	assert.Equal(t, 3, vis.NumClusters)
	assert.Equal(t, 1, vis.ClusterBytes)

	tests := []struct {
		from, to int
		want     bool
	}{
		{0, 0, true},
		{0, 1, true},
		{0, 2, false},
		{1, 0, false},
		{1, 1, true},
		{2, 2, true},
		{-1, 2, true},
		{2, -1, true},
		{0, 5, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, vis.CanSee(tt.from, tt.to), "CanSee(%d, %d)", tt.from, tt.to)
	}
}

func TestParseVisibility_Empty(t *testing.T) {
	t.Parallel()

	vis, err := ParseVisibility(nil)
	require.NoError(t, err)
	assert.Nil(t, vis)
	assert.True(t, vis.CanSee(4, 7))
}

func TestParseVisibility_Bad(t *testing.T) {
	t.Parallel()

	_, err := ParseVisibility([]byte{1, 0, 0})
	assert.ErrorIs(t, err, ErrTruncatedLump)

	_, err = ParseVisibility([]byte{9, 0, 0, 0, 1, 0, 0, 0})
	assert.ErrorIs(t, err, ErrLayoutMismatch)

	_, err = ParseVisibility([]byte{2, 0, 0, 0, 1, 0, 0, 0, 0xff})
	assert.ErrorIs(t, err, ErrTruncatedLump)
}
