package bsp

import (
	"github.com/pkg/errors"
)

// Map is a decoded EF2 bsp file.
type Map struct {
	Header    Header
	Directory Directory

	Shaders       []Shader
	Planes        []Plane
	Lightmaps     []Lightmap
	BaseLightmaps []Lightmap
	ContLightmaps []Lightmap
	Surfaces      []Surface
	Vertices      []Vertex
	Indexes       []Index
	LeafBrushes   []LeafBrush
	LeafFaces     []LeafFace
	Leafs         []Leaf
	Nodes         []Node
	BrushSides    []BrushSide
	Brushes       []Brush
	Fogs          []Fog
	Models        []Model
	LightGrid     []LightGridSample
	Entities      []Entity

	Visibility *Visibility

	// Blobs holds the raw bytes of every single-byte lump, keyed by lump name.
	Blobs map[string][]byte
}

// Load decodes every lump of buf.
// A bad header fails the whole load. Lumps that fail individually are reported
// through a LumpLoadError while the returned Map keeps everything that decoded.
func Load(buf []byte) (*Map, error) {
	header, err := ReadHeader(buf)
	if err != nil {
		return nil, err
	}

	dir, err := ReadDirectory(buf)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read lump directory")
	}

	m := &Map{
		Header:    header,
		Directory: dir,
		Blobs:     make(map[string][]byte),
	}
	failed := make(map[string]error)

	loadLump(buf, &dir, LumpShaders, &m.Shaders, failed)
	loadLump(buf, &dir, LumpPlanes, &m.Planes, failed)
	loadLump(buf, &dir, LumpLightmaps, &m.Lightmaps, failed)
	loadLump(buf, &dir, LumpBaseLightmaps, &m.BaseLightmaps, failed)
	loadLump(buf, &dir, LumpContLightmaps, &m.ContLightmaps, failed)
	loadLump(buf, &dir, LumpSurfaces, &m.Surfaces, failed)
	loadLump(buf, &dir, LumpDrawVerts, &m.Vertices, failed)
	loadLump(buf, &dir, LumpDrawIndexes, &m.Indexes, failed)
	loadLump(buf, &dir, LumpLeafBrushes, &m.LeafBrushes, failed)
	loadLump(buf, &dir, LumpLeafFaces, &m.LeafFaces, failed)
	loadLump(buf, &dir, LumpLeafs, &m.Leafs, failed)
	loadLump(buf, &dir, LumpNodes, &m.Nodes, failed)
	loadLump(buf, &dir, LumpBrushSides, &m.BrushSides, failed)
	loadLump(buf, &dir, LumpBrushes, &m.Brushes, failed)
	loadLump(buf, &dir, LumpFogs, &m.Fogs, failed)
	loadLump(buf, &dir, LumpModels, &m.Models, failed)
	loadLump(buf, &dir, LumpLightGrid, &m.LightGrid, failed)

	for _, l := range lumpOrder {
		if l.Size != BlobByteSize {
			continue
		}

		lump, err := ResolveNamed(buf, &dir, l.Name)
		if err != nil {
			failed[l.Name] = err
			continue
		}

		m.Blobs[l.Name] = lump.Raw()
	}

	m.Entities = ParseEntities(m.Blobs[LumpEntities])

	if raw, ok := m.Blobs[LumpVisData]; ok {
		vis, err := ParseVisibility(raw)
		if err != nil {
			failed[LumpVisData] = err
		}

		m.Visibility = vis
	}

	if len(failed) > 0 {
		return m, LumpLoadError{Failed: failed}
	}

	return m, nil
}

func loadLump[T Record](buf []byte, dir *Directory, name string, dst *[]T, failed map[string]error) {
	lump, err := ResolveNamed(buf, dir, name)
	if err != nil {
		failed[name] = err
		return
	}

	records, err := Records[T](lump)
	if err != nil {
		failed[name] = err
		return
	}

	*dst = records
}

// SurfaceVertices returns the draw vertices referenced by s.
func (m *Map) SurfaceVertices(s Surface) ([]Vertex, error) {
	first, n := int(s.FirstVertex), int(s.NumVertices)
	if first < 0 || n < 0 || first > len(m.Vertices) || n > len(m.Vertices)-first {
		return nil, errors.Wrapf(ErrBadReference, "vertices [%d, +%d) outside of %d", first, n, len(m.Vertices))
	}

	return m.Vertices[first : first+n : first+n], nil
}

// SurfaceIndexes returns the draw indexes referenced by s.
func (m *Map) SurfaceIndexes(s Surface) ([]Index, error) {
	first, n := int(s.FirstIndex), int(s.NumIndices)
	if first < 0 || n < 0 || first > len(m.Indexes) || n > len(m.Indexes)-first {
		return nil, errors.Wrapf(ErrBadReference, "indexes [%d, +%d) outside of %d", first, n, len(m.Indexes))
	}

	return m.Indexes[first : first+n : first+n], nil
}

// ShaderName returns the name of shader i, or "" when i is out of range.
func (m *Map) ShaderName(i int32) string {
	if i < 0 || int(i) >= len(m.Shaders) {
		return ""
	}

	return m.Shaders[i].Name
}
