package bsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code int32
		want SurfaceType
	}{
		{0, SurfaceBad},
		{1, SurfacePlanar},
		{2, SurfacePatch},
		{3, SurfaceTriSoup},
		{4, SurfaceFlare},
		{5, SurfaceFAKKTerrain},
		{6, SurfaceBad},
		{32, SurfaceBad},
		{-1, SurfaceBad},
		{math.MaxInt32, SurfaceBad},
		{math.MinInt32, SurfaceBad},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.code), "Classify(%d)", tt.code)
	}
}

func TestClassify_Inverse(t *testing.T) {
	t.Parallel()

	for _, typ := range []SurfaceType{SurfaceBad, SurfacePlanar, SurfacePatch, SurfaceTriSoup, SurfaceFlare, SurfaceFAKKTerrain} {
		assert.Equal(t, typ, Classify(typ.Code()), typ.String())
	}

	assert.Equal(t, int32(-1), SurfaceBrush.Code())
	assert.Equal(t, SurfaceBad, Classify(SurfaceBrush.Code()))
}

func TestSurface_SurfaceType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, SurfacePatch, Surface{Type: 2}.SurfaceType())
	assert.Equal(t, SurfaceBad, Surface{Type: 99}.SurfaceType())
}

func TestSurfaceTypeSet(t *testing.T) {
	t.Parallel()

	var none SurfaceTypeSet
	assert.False(t, none.Has(SurfaceBad))
	assert.False(t, none.Has(SurfacePlanar))
	assert.Empty(t, none.Types())
	assert.Equal(t, "bad", none.String())

	s := SurfaceTypesOf(SurfacePlanar, SurfacePatch)
	assert.True(t, s.Has(SurfacePlanar))
	assert.True(t, s.Has(SurfacePatch))
	assert.False(t, s.Has(SurfaceTriSoup))
	assert.False(t, s.Has(SurfaceBad))

	s = s.With(SurfaceBrush).Without(SurfacePlanar)
	assert.Equal(t, []SurfaceType{SurfacePatch, SurfaceBrush}, s.Types())

	assert.Equal(t, s, s.With(SurfaceBad))
	assert.Equal(t, AllSurfaceTypes, s.Union(AllSurfaceTypes))
	assert.False(t, AllSurfaceTypes.Has(SurfaceBad))
}

func TestSurfaceTypeSet_Text(t *testing.T) {
	t.Parallel()

	s := SurfaceTypesOf(SurfacePlanar, SurfaceFAKKTerrain)
	text, err := s.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "planar|fakk_terrain", string(text))

	var back SurfaceTypeSet
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, s, back)

	require.NoError(t, back.UnmarshalText([]byte(" Patch | trisoup ")))
	assert.Equal(t, SurfaceTypesOf(SurfacePatch, SurfaceTriSoup), back)

	require.NoError(t, back.UnmarshalText([]byte("bad")))
	assert.Equal(t, SurfaceTypeSet(0), back)

	assert.Error(t, back.UnmarshalText([]byte("planar|curved")))
}
