package bsp_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiko-tech/ef2bsp/internal/bsptest"
	"github.com/saiko-tech/ef2bsp/pkg/bsp"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	verts := bsptest.FlatPatch(3, 3)
	buf := bsptest.NewBuilder().
		Add(bsp.LumpShaders, bsptest.Shader{Name: bsptest.ShaderName("textures/ef2/floor"), Contents: 1}).
		Add(bsp.LumpPlanes,
			bsptest.Plane{Normal: [3]float32{1, 0, 0}, Distance: 64},
			bsptest.Plane{Normal: [3]float32{0, 1, 0}, Distance: -32}).
		Add(bsp.LumpSurfaces, bsptest.Surface{Type: 1, NumVertices: 3, NumIndices: 3}).
		Add(bsp.LumpDrawVerts, bsptest.Records(verts)...).
		Add(bsp.LumpDrawIndexes, int32(0), int32(1), int32(2)).
		Raw(bsp.LumpEntities, []byte("{\n\"classname\" \"worldspawn\"\n\"message\" \"test\"\n}\n\x00")).
		Bytes()

	m, err := bsp.Load(buf)
	require.NoError(t, err)

	assert.Equal(t, []bsp.Plane{
		{Normal: mgl32.Vec3{1, 0, 0}, Distance: 64},
		{Normal: mgl32.Vec3{0, 1, 0}, Distance: -32},
	}, m.Planes)

	require.Len(t, m.Surfaces, 1)
	assert.Equal(t, bsp.SurfacePlanar, bsp.Classify(m.Surfaces[0].Type))

	assert.Len(t, m.Vertices, 9)
	assert.Equal(t, []bsp.Index{{0}, {1}, {2}}, m.Indexes)
	assert.Equal(t, "textures/ef2/floor", m.ShaderName(0))
	assert.Equal(t, "", m.ShaderName(1))
	assert.Empty(t, m.Nodes)
	assert.Nil(t, m.Visibility)

	require.Len(t, m.Entities, 1)
	assert.Equal(t, "worldspawn", m.Entities[0].ClassName())

	assert.Len(t, m.Blobs, 13)

	sv, err := m.SurfaceVertices(m.Surfaces[0])
	require.NoError(t, err)
	assert.Equal(t, m.Vertices[:3], sv)

	si, err := m.SurfaceIndexes(m.Surfaces[0])
	require.NoError(t, err)
	assert.Len(t, si, 3)
}

func TestLoad_Foreign(t *testing.T) {
	t.Parallel()

	b := bsptest.NewBuilder()
	b.Magic = "VBSP"

	m, err := bsp.Load(b.Bytes())
	assert.Nil(t, m)
	assert.ErrorIs(t, err, bsp.ErrForeignFile)
}

func TestLoad_PartialFailure(t *testing.T) {
	t.Parallel()

	buf := bsptest.NewBuilder().
		Add(bsp.LumpPlanes, bsptest.Plane{Distance: 1}).
		Raw(bsp.LumpModels, make([]byte, bsp.ModelSize-1)).
		Raw(bsp.LumpVisData, []byte{1, 2, 3}).
		Bytes()

	m, err := bsp.Load(buf)
	require.Error(t, err)
	require.NotNil(t, m)

	var lumpErr bsp.LumpLoadError
	require.ErrorAs(t, err, &lumpErr)
	assert.Len(t, lumpErr.Failed, 2)
	assert.ErrorIs(t, lumpErr.Failed[bsp.LumpModels], bsp.ErrLayoutMismatch)
	assert.ErrorIs(t, lumpErr.Failed[bsp.LumpVisData], bsp.ErrTruncatedLump)
	assert.Contains(t, err.Error(), "models")

	// siblings still decode
	assert.Len(t, m.Planes, 1)
	assert.Empty(t, m.Models)
}

func TestLoad_TruncatedLump(t *testing.T) {
	t.Parallel()

	buf := bsptest.NewBuilder().Add(bsp.LumpPlanes, bsptest.Plane{}, bsptest.Plane{}).Bytes()
	buf = buf[:len(buf)-1]

	m, err := bsp.Load(buf)

	var lumpErr bsp.LumpLoadError
	require.ErrorAs(t, err, &lumpErr)
	assert.ErrorIs(t, lumpErr.Failed[bsp.LumpPlanes], bsp.ErrTruncatedLump)
	assert.Empty(t, m.Planes)
}

func TestMap_SurfaceReferences(t *testing.T) {
	t.Parallel()

	m := &bsp.Map{Vertices: make([]bsp.Vertex, 4), Indexes: make([]bsp.Index, 6)}

	_, err := m.SurfaceVertices(bsp.Surface{FirstVertex: 2, NumVertices: 3})
	assert.ErrorIs(t, err, bsp.ErrBadReference)

	_, err = m.SurfaceVertices(bsp.Surface{FirstVertex: -1, NumVertices: 1})
	assert.ErrorIs(t, err, bsp.ErrBadReference)

	_, err = m.SurfaceIndexes(bsp.Surface{FirstIndex: 6, NumIndices: 1})
	assert.ErrorIs(t, err, bsp.ErrBadReference)

	idx, err := m.SurfaceIndexes(bsp.Surface{FirstIndex: 3, NumIndices: 3})
	require.NoError(t, err)
	assert.Len(t, idx, 3)
}
