package bsp

import (
	"github.com/pkg/errors"
)

// Lump names, in directory order.
const (
	LumpShaders           = "shaders"
	LumpPlanes            = "planes"
	LumpLightmaps         = "lightmaps"
	LumpBaseLightmaps     = "baselightmaps"
	LumpContLightmaps     = "contlightmaps"
	LumpSurfaces          = "surfaces"
	LumpDrawVerts         = "drawverts"
	LumpDrawIndexes       = "drawindexes"
	LumpLeafBrushes       = "leafbrushes"
	LumpLeafFaces         = "leaffaces"
	LumpLeafs             = "leafs"
	LumpNodes             = "nodes"
	LumpBrushSides        = "brushsides"
	LumpBrushes           = "brushes"
	LumpFogs              = "fogs"
	LumpModels            = "models"
	LumpEntities          = "entities"
	LumpVisData           = "visdata"
	LumpLightGrid         = "lightgrid"
	LumpEntLights         = "entlights"
	LumpEntLightVis       = "entlightvis"
	LumpLightDefs         = "lightdefs"
	LumpBaseLightingVerts = "baselightingverts"
	LumpContLightingVerts = "contlightingverts"
	LumpBaseLightingSurfs = "baselightingsurfs"
	LumpLightingSurfs     = "lightingsurfs"
	LumpLightingVertSurfs = "lightingvertsurfs"
	LumpLightingGroups    = "lightinggroups"
	LumpStaticLODModels   = "staticLodModels"
	LumpBSPInfo           = "bspinfo"
)

// Layout describes the fixed-size record type stored in one lump.
type Layout struct {
	Name string
	Size int

	decode func([]byte) Record
}

// Decode converts exactly one record worth of bytes.
func (l Layout) Decode(b []byte) (Record, error) {
	if len(b) != l.Size {
		return nil, errors.Wrapf(ErrLayoutMismatch, "lump %q: got %d bytes, record is %d", l.Name, len(b), l.Size)
	}

	return l.decode(b), nil
}

var lumpOrder = []Layout{
	{LumpShaders, ShaderSize, decodeShader},
	{LumpPlanes, PlaneSize, decodePlane},
	{LumpLightmaps, LightmapSize, decodeLightmap},
	{LumpBaseLightmaps, LightmapSize, decodeLightmap},
	{LumpContLightmaps, LightmapSize, decodeLightmap},
	{LumpSurfaces, SurfaceSize, decodeSurface},
	{LumpDrawVerts, VertexSize, decodeVertex},
	{LumpDrawIndexes, IndexSize, decodeIndex},
	{LumpLeafBrushes, LeafBrushSize, decodeLeafBrush},
	{LumpLeafFaces, LeafFaceSize, decodeLeafFace},
	{LumpLeafs, LeafSize, decodeLeaf},
	{LumpNodes, NodeSize, decodeNode},
	{LumpBrushSides, BrushSideSize, decodeBrushSide},
	{LumpBrushes, BrushSize, decodeBrush},
	{LumpFogs, FogSize, decodeFog},
	{LumpModels, ModelSize, decodeModel},
	{LumpEntities, BlobByteSize, decodeBlob},
	{LumpVisData, VisByteSize, decodeVisByte},
	{LumpLightGrid, LightGridSize, decodeLightGrid},
	{LumpEntLights, BlobByteSize, decodeBlob},
	{LumpEntLightVis, BlobByteSize, decodeBlob},
	{LumpLightDefs, BlobByteSize, decodeBlob},
	{LumpBaseLightingVerts, BlobByteSize, decodeBlob},
	{LumpContLightingVerts, BlobByteSize, decodeBlob},
	{LumpBaseLightingSurfs, BlobByteSize, decodeBlob},
	{LumpLightingSurfs, BlobByteSize, decodeBlob},
	{LumpLightingVertSurfs, BlobByteSize, decodeBlob},
	{LumpLightingGroups, BlobByteSize, decodeBlob},
	{LumpStaticLODModels, BlobByteSize, decodeBlob},
	{LumpBSPInfo, BlobByteSize, decodeBlob},
}

var catalog = func() map[string]Layout {
	m := make(map[string]Layout, len(lumpOrder))
	for _, l := range lumpOrder {
		m[l.Name] = l
	}

	return m
}()

// NumLumps is the number of slots in the lump directory.
const NumLumps = 30

// LayoutOf returns the record layout declared for a lump.
func LayoutOf(name string) (Layout, error) {
	l, ok := catalog[name]
	if !ok {
		return Layout{}, errors.Wrapf(ErrUnknownLump, "%q", name)
	}

	return l, nil
}

// LumpNames returns all declared lump names in directory order.
func LumpNames() []string {
	names := make([]string, len(lumpOrder))
	for i, l := range lumpOrder {
		names[i] = l.Name
	}

	return names
}

// IsLightmapLump reports whether the lump holds lightmap blocks.
func IsLightmapLump(name string) bool {
	switch name {
	case LumpLightmaps, LumpBaseLightmaps, LumpContLightmaps:
		return true
	}

	return false
}
