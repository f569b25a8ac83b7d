// Package bsptest builds synthetic EF2 bsp buffers for tests.
package bsptest

import (
	"bytes"
	"encoding/binary"

	"github.com/saiko-tech/ef2bsp/pkg/bsp"
)

// Plane mirrors the on-disk plane record.
type Plane struct {
	Normal   [3]float32
	Distance float32
}

// Shader mirrors the on-disk shader record.
type Shader struct {
	Name         [64]byte
	Flags        int32
	Contents     int32
	Subdivisions int32
}

// Vertex mirrors the on-disk draw vertex record.
type Vertex struct {
	Position      [3]float32
	TexCoord      [2]float32
	Normal        [3]float32
	Color         [4]uint8
	LODExtra      float32
	LightmapCoord [2]float32
}

// Surface mirrors the on-disk surface record.
type Surface struct {
	Shader        int32
	Effect        int32
	Type          int32
	FirstVertex   int32
	NumVertices   int32
	FirstIndex    int32
	NumIndices    int32
	LightmapIndex int32
	LightmapX     int32
	LightmapY     int32
	LightmapW     int32
	LightmapH     int32
	LightmapOrig  [3]float32
	LightmapVecs  [9]float32
	PatchWidth    int32
	PatchHeight   int32
	Subdivisions  float32
	BaseLighting  int32
	Inverted      int32
	Flags         [4]int32
}

// ShaderName builds a NUL padded name field.
func ShaderName(name string) [64]byte {
	var out [64]byte
	copy(out[:], name)

	return out
}

// Builder assembles a header, lump directory and lump data.
type Builder struct {
	Magic    string
	Version  int32
	Checksum int32

	lumps map[string][]byte
}

func NewBuilder() *Builder {
	return &Builder{
		Magic:   bsp.Magic,
		Version: bsp.Version,
		lumps:   make(map[string][]byte),
	}
}

// Add appends little-endian encoded records to the named lump.
func (b *Builder) Add(name string, records ...any) *Builder {
	var buf bytes.Buffer
	buf.Write(b.lumps[name])

	for _, r := range records {
		if err := binary.Write(&buf, binary.LittleEndian, r); err != nil {
			panic(err)
		}
	}

	b.lumps[name] = buf.Bytes()

	return b
}

// Raw appends bytes to the named lump.
func (b *Builder) Raw(name string, data []byte) *Builder {
	b.lumps[name] = append(b.lumps[name], data...)

	return b
}

// Bytes lays the lumps out in directory order right after the directory.
func (b *Builder) Bytes() []byte {
	var out bytes.Buffer

	out.WriteString(b.Magic)
	_ = binary.Write(&out, binary.LittleEndian, b.Version)
	_ = binary.Write(&out, binary.LittleEndian, b.Checksum)

	offset := int32(bsp.HeaderSize + bsp.DirectorySize)

	for _, name := range bsp.LumpNames() {
		n := int32(len(b.lumps[name]))
		_ = binary.Write(&out, binary.LittleEndian, [2]int32{offset, n})
		offset += n
	}

	for _, name := range bsp.LumpNames() {
		out.Write(b.lumps[name])
	}

	return out.Bytes()
}

// FlatPatch returns a width x height control grid in the z=0 plane with unit spacing,
// normals along +z and texture coordinates equal to the grid position.
func FlatPatch(width, height int) []Vertex {
	verts := make([]Vertex, 0, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			verts = append(verts, Vertex{
				Position:      [3]float32{float32(x), float32(y), 0},
				TexCoord:      [2]float32{float32(x), float32(y)},
				Normal:        [3]float32{0, 0, 1},
				Color:         [4]uint8{255, 255, 255, 255},
				LightmapCoord: [2]float32{float32(x), float32(y)},
			})
		}
	}

	return verts
}

// Records boxes a typed slice for Add.
func Records[T any](items []T) []any {
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = it
	}

	return out
}

// Decoded is the bsp.Vertex the record decodes to.
func (v Vertex) Decoded() bsp.Vertex {
	return bsp.Vertex{
		Position:      v.Position,
		TexCoord:      v.TexCoord,
		Normal:        v.Normal,
		Color:         v.Color,
		LODExtra:      v.LODExtra,
		LightmapCoord: v.LightmapCoord,
	}
}

// DecodedAll converts a slice of test vertices.
func DecodedAll(verts []Vertex) []bsp.Vertex {
	out := make([]bsp.Vertex, len(verts))
	for i, v := range verts {
		out[i] = v.Decoded()
	}

	return out
}
