package bsp

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/text/encoding/charmap"
)

// Record sizes in bytes, as stored on disk.
const (
	ShaderSize     = 76
	PlaneSize      = 16
	NodeSize       = 36
	LeafSize       = 48
	LeafFaceSize   = 4
	LeafBrushSize  = 4
	ModelSize      = 40
	BrushSize      = 12
	BrushSideSize  = 8
	VertexSize     = 48
	IndexSize      = 4
	FogSize        = 72
	SurfaceSize    = 132
	LightmapSize   = LightmapWidth * LightmapHeight * 3
	LightGridSize  = 8
	VisByteSize    = 1
	BlobByteSize   = 1
	nameFieldBytes = 64
)

// Lightmap block dimensions.
const (
	LightmapWidth  = 128
	LightmapHeight = 128
)

// Record is one decoded element of a lump.
type Record interface {
	// Size is the on-disk size of the record in bytes.
	Size() int
}

type Shader struct {
	Name         string
	Flags        int32
	Contents     int32
	Subdivisions int32
}

type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// Node is an interior node of the BSP tree.
// Children are kept as stored; their node/leaf encoding is left to the tree walker.
type Node struct {
	Plane    int32
	Children [2]int32
	Mins     [3]int32
	Maxs     [3]int32
}

type Leaf struct {
	Cluster        int32
	Area           int32
	Mins           [3]int32
	Maxs           [3]int32
	FirstLeafFace  int32
	NumLeafFaces   int32
	FirstLeafBrush int32
	NumLeafBrushes int32
}

type LeafFace struct {
	Face int32
}

type LeafBrush struct {
	Brush int32
}

type Model struct {
	Mins       mgl32.Vec3
	Maxs       mgl32.Vec3
	FirstFace  int32
	NumFaces   int32
	FirstBrush int32
	NumBrushes int32
}

type Brush struct {
	NumSides  int32
	FirstSide int32
	Shader    int32
}

type BrushSide struct {
	Shader int32
	Plane  int32
}

// Vertex is a draw vertex, shared by planar, triangle soup and patch surfaces.
type Vertex struct {
	Position      mgl32.Vec3
	TexCoord      mgl32.Vec2
	Normal        mgl32.Vec3
	Color         [4]uint8
	LODExtra      float32
	LightmapCoord mgl32.Vec2
}

// Index is a triangle-list offset relative to the first vertex of its surface.
type Index struct {
	Offset int32
}

type Fog struct {
	Name        string
	Brush       int32
	VisibleSide int32
}

type Surface struct {
	Shader        int32
	Effect        int32
	Type          int32 // raw code, see Classify
	FirstVertex   int32
	NumVertices   int32
	FirstIndex    int32
	NumIndices    int32
	LightmapIndex int32
	LightmapX     int32
	LightmapY     int32
	LightmapW     int32
	LightmapH     int32
	LightmapOrig  mgl32.Vec3
	LightmapVecs  [3]mgl32.Vec3
	PatchWidth    int32
	PatchHeight   int32
	Subdivisions  float32
	BaseLighting  int32
	Inverted      int32
	Flags         [4]int32
}

// Lightmap is a LightmapWidth x LightmapHeight block of packed RGB pixels.
type Lightmap struct {
	Pixels [LightmapSize]byte
}

type LightGridSample struct {
	Ambient [3]uint8
	Direct  [3]uint8
	LatLong [2]uint8
}

// VisByte is one byte of the potentially visible set table.
type VisByte struct {
	Bits uint8
}

// Blob is one byte of a lump whose content is not modelled.
type Blob struct {
	Byte byte
}

func (Shader) Size() int          { return ShaderSize }
func (Plane) Size() int           { return PlaneSize }
func (Node) Size() int            { return NodeSize }
func (Leaf) Size() int            { return LeafSize }
func (LeafFace) Size() int        { return LeafFaceSize }
func (LeafBrush) Size() int       { return LeafBrushSize }
func (Model) Size() int           { return ModelSize }
func (Brush) Size() int           { return BrushSize }
func (BrushSide) Size() int       { return BrushSideSize }
func (Vertex) Size() int          { return VertexSize }
func (Index) Size() int           { return IndexSize }
func (Fog) Size() int             { return FogSize }
func (Surface) Size() int         { return SurfaceSize }
func (Lightmap) Size() int        { return LightmapSize }
func (LightGridSample) Size() int { return LightGridSize }
func (VisByte) Size() int         { return VisByteSize }
func (Blob) Size() int            { return BlobByteSize }

// fieldReader extracts little-endian fields from a record slice in declaration order.
type fieldReader struct {
	b   []byte
	off int
}

func (r *fieldReader) i32() int32 {
	v := int32(binary.LittleEndian.Uint32(r.b[r.off:]))
	r.off += 4

	return v
}

func (r *fieldReader) f32() float32 {
	v := math.Float32frombits(binary.LittleEndian.Uint32(r.b[r.off:]))
	r.off += 4

	return v
}

func (r *fieldReader) i32s(out []int32) {
	for i := range out {
		out[i] = r.i32()
	}
}

func (r *fieldReader) vec2() mgl32.Vec2 {
	return mgl32.Vec2{r.f32(), r.f32()}
}

func (r *fieldReader) vec3() mgl32.Vec3 {
	return mgl32.Vec3{r.f32(), r.f32(), r.f32()}
}

func (r *fieldReader) bytes(out []byte) {
	r.off += copy(out, r.b[r.off:])
}

func (r *fieldReader) name() string {
	raw := r.b[r.off : r.off+nameFieldBytes]
	r.off += nameFieldBytes

	return decodeName(raw)
}

// decodeName converts a NUL-terminated Windows-1252 string field.
func decodeName(raw []byte) string {
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}

	return decodeText(raw)
}

// decodeText converts Windows-1252 text to UTF-8.
func decodeText(raw []byte) string {
	// a Decoder carries transform state and is not safe for concurrent use
	out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}

	return string(out)
}

func decodeShader(b []byte) Record {
	r := fieldReader{b: b}

	return Shader{
		Name:         r.name(),
		Flags:        r.i32(),
		Contents:     r.i32(),
		Subdivisions: r.i32(),
	}
}

func decodePlane(b []byte) Record {
	r := fieldReader{b: b}

	return Plane{
		Normal:   r.vec3(),
		Distance: r.f32(),
	}
}

func decodeNode(b []byte) Record {
	r := fieldReader{b: b}

	var n Node
	n.Plane = r.i32()
	r.i32s(n.Children[:])
	r.i32s(n.Mins[:])
	r.i32s(n.Maxs[:])

	return n
}

func decodeLeaf(b []byte) Record {
	r := fieldReader{b: b}

	var l Leaf
	l.Cluster = r.i32()
	l.Area = r.i32()
	r.i32s(l.Mins[:])
	r.i32s(l.Maxs[:])
	l.FirstLeafFace = r.i32()
	l.NumLeafFaces = r.i32()
	l.FirstLeafBrush = r.i32()
	l.NumLeafBrushes = r.i32()

	return l
}

func decodeLeafFace(b []byte) Record {
	r := fieldReader{b: b}

	return LeafFace{Face: r.i32()}
}

func decodeLeafBrush(b []byte) Record {
	r := fieldReader{b: b}

	return LeafBrush{Brush: r.i32()}
}

func decodeModel(b []byte) Record {
	r := fieldReader{b: b}

	return Model{
		Mins:       r.vec3(),
		Maxs:       r.vec3(),
		FirstFace:  r.i32(),
		NumFaces:   r.i32(),
		FirstBrush: r.i32(),
		NumBrushes: r.i32(),
	}
}

func decodeBrush(b []byte) Record {
	r := fieldReader{b: b}

	return Brush{
		NumSides:  r.i32(),
		FirstSide: r.i32(),
		Shader:    r.i32(),
	}
}

func decodeBrushSide(b []byte) Record {
	r := fieldReader{b: b}

	return BrushSide{
		Shader: r.i32(),
		Plane:  r.i32(),
	}
}

func decodeVertex(b []byte) Record {
	r := fieldReader{b: b}

	var v Vertex
	v.Position = r.vec3()
	v.TexCoord = r.vec2()
	v.Normal = r.vec3()
	r.bytes(v.Color[:])
	v.LODExtra = r.f32()
	v.LightmapCoord = r.vec2()

	return v
}

func decodeIndex(b []byte) Record {
	r := fieldReader{b: b}

	return Index{Offset: r.i32()}
}

func decodeFog(b []byte) Record {
	r := fieldReader{b: b}

	return Fog{
		Name:        r.name(),
		Brush:       r.i32(),
		VisibleSide: r.i32(),
	}
}

func decodeSurface(b []byte) Record {
	r := fieldReader{b: b}

	var s Surface
	s.Shader = r.i32()
	s.Effect = r.i32()
	s.Type = r.i32()
	s.FirstVertex = r.i32()
	s.NumVertices = r.i32()
	s.FirstIndex = r.i32()
	s.NumIndices = r.i32()
	s.LightmapIndex = r.i32()
	s.LightmapX = r.i32()
	s.LightmapY = r.i32()
	s.LightmapW = r.i32()
	s.LightmapH = r.i32()
	s.LightmapOrig = r.vec3()

	for i := range s.LightmapVecs {
		s.LightmapVecs[i] = r.vec3()
	}

	s.PatchWidth = r.i32()
	s.PatchHeight = r.i32()
	s.Subdivisions = r.f32()
	s.BaseLighting = r.i32()
	s.Inverted = r.i32()
	r.i32s(s.Flags[:])

	return s
}

func decodeLightmap(b []byte) Record {
	var l Lightmap
	copy(l.Pixels[:], b)

	return l
}

func decodeLightGrid(b []byte) Record {
	r := fieldReader{b: b}

	var g LightGridSample
	r.bytes(g.Ambient[:])
	r.bytes(g.Direct[:])
	r.bytes(g.LatLong[:])

	return g
}

func decodeVisByte(b []byte) Record {
	return VisByte{Bits: b[0]}
}

func decodeBlob(b []byte) Record {
	return Blob{Byte: b[0]}
}
