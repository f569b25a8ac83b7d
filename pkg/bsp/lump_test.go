package bsp_test

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiko-tech/ef2bsp/internal/bsptest"
	"github.com/saiko-tech/ef2bsp/pkg/bsp"
)

func planesBuffer(t *testing.T, n int) ([]byte, int) {
	t.Helper()

	b := bsptest.NewBuilder()
	for i := 0; i < n; i++ {
		b.Add(bsp.LumpPlanes, bsptest.Plane{Normal: [3]float32{0, 0, 1}, Distance: float32(i)})
	}

	buf := b.Bytes()
	dir, err := bsp.ReadDirectory(buf)
	require.NoError(t, err)

	offset, count, err := dir.Locate(bsp.LumpPlanes)
	require.NoError(t, err)
	require.Equal(t, n, count)

	return buf, offset
}

func TestResolve(t *testing.T) {
	t.Parallel()

	buf, offset := planesBuffer(t, 5)

	lump, err := bsp.Resolve(buf, bsp.LumpPlanes, offset, 5)
	require.NoError(t, err)
	assert.Equal(t, bsp.LumpPlanes, lump.Name())
	assert.Equal(t, 5, lump.Len())

	// records cover the lump exactly, in order, without gaps or overlap
	var joined []byte
	for i := 0; i < lump.Len(); i++ {
		rec := lump.Bytes(i)
		assert.Len(t, rec, bsp.PlaneSize)
		joined = append(joined, rec...)
	}

	assert.Equal(t, buf[offset:offset+5*bsp.PlaneSize], joined)
	assert.Equal(t, joined, lump.Raw())

	for i, rec := range lump.All() {
		plane, ok := rec.(bsp.Plane)
		require.True(t, ok)
		assert.Equal(t, bsp.Plane{Normal: mgl32.Vec3{0, 0, 1}, Distance: float32(i)}, plane)
	}
}

func TestResolve_Restartable(t *testing.T) {
	t.Parallel()

	buf, offset := planesBuffer(t, 3)

	lump, err := bsp.Resolve(buf, bsp.LumpPlanes, offset, 3)
	require.NoError(t, err)

	first, err := bsp.Records[bsp.Plane](lump)
	require.NoError(t, err)
	second, err := bsp.Records[bsp.Plane](lump)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	again, err := bsp.Resolve(buf, bsp.LumpPlanes, offset, 3)
	require.NoError(t, err)
	third, err := bsp.Records[bsp.Plane](again)
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestResolve_EarlyStop(t *testing.T) {
	t.Parallel()

	buf, offset := planesBuffer(t, 4)

	lump, err := bsp.Resolve(buf, bsp.LumpPlanes, offset, 4)
	require.NoError(t, err)

	seen := 0
	for range lump.All() {
		seen++
		if seen == 2 {
			break
		}
	}

	assert.Equal(t, 2, seen)
}

func TestResolve_Truncated(t *testing.T) {
	t.Parallel()

	buf, offset := planesBuffer(t, 2)

	tests := []struct {
		name          string
		offset, count int
	}{
		{"one record too many", offset, 3},
		{"offset past end", len(buf) + 1, 0},
		{"record straddles end", len(buf) - bsp.PlaneSize + 1, 1},
		{"negative offset", -1, 1},
		{"negative count", offset, -1},
		{"huge count", offset, int(^uint(0) >> 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lump, err := bsp.Resolve(buf, bsp.LumpPlanes, tt.offset, tt.count)
			assert.ErrorIs(t, err, bsp.ErrTruncatedLump)
			assert.Nil(t, lump)
		})
	}
}

func TestResolve_EmptyAtEnd(t *testing.T) {
	t.Parallel()

	buf, _ := planesBuffer(t, 1)

	lump, err := bsp.Resolve(buf, bsp.LumpPlanes, len(buf), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, lump.Len())
}

func TestResolve_UnknownLump(t *testing.T) {
	t.Parallel()

	_, err := bsp.Resolve(make([]byte, 64), "lighting", 0, 1)
	assert.ErrorIs(t, err, bsp.ErrUnknownLump)
}

func TestResolve_DoesNotMutate(t *testing.T) {
	t.Parallel()

	buf, offset := planesBuffer(t, 2)
	orig := bytes.Clone(buf)

	lump, err := bsp.Resolve(buf, bsp.LumpPlanes, offset, 2)
	require.NoError(t, err)
	_, err = bsp.Records[bsp.Plane](lump)
	require.NoError(t, err)

	assert.Equal(t, orig, buf)
}

func TestRecords_WrongType(t *testing.T) {
	t.Parallel()

	buf, offset := planesBuffer(t, 1)

	lump, err := bsp.Resolve(buf, bsp.LumpPlanes, offset, 1)
	require.NoError(t, err)

	_, err = bsp.Records[bsp.Shader](lump)
	assert.ErrorIs(t, err, bsp.ErrLayoutMismatch)
}
