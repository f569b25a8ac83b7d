package patch

import (
	"github.com/pkg/errors"

	"github.com/saiko-tech/ef2bsp/pkg/bsp"
)

// Winding is the vertex order of emitted triangles.
type Winding uint8

const (
	// WindingNative is the order the engine draws with front face culling.
	WindingNative Winding = iota
	// WindingReversed swaps the last two vertices of every triangle.
	WindingReversed
)

func (w Winding) Flip() Winding {
	if w == WindingNative {
		return WindingReversed
	}

	return WindingNative
}

// WindingFor picks the winding for a surface.
// An inverted surface flips the order, and so does drawing without front face culling.
func WindingFor(inverted, frontCulling bool) Winding {
	w := WindingNative
	if inverted {
		w = w.Flip()
	}

	if !frontCulling {
		w = w.Flip()
	}

	return w
}

// Triangulate emits two triangles per cell of a row-major width x height grid.
func Triangulate(width, height int, winding Winding) []uint32 {
	if width < 2 || height < 2 {
		return nil
	}

	indices := make([]uint32, 0, (width-1)*(height-1)*6)

	for y := 0; y < height-1; y++ {
		for x := 0; x < width-1; x++ {
			i := uint32(y*width + x)
			below := i + uint32(width)

			indices = appendTriangle(indices, winding, i, below, i+1)
			indices = appendTriangle(indices, winding, i+1, below, below+1)
		}
	}

	return indices
}

func appendTriangle(dst []uint32, winding Winding, a, b, c uint32) []uint32 {
	if winding == WindingReversed {
		b, c = c, b
	}

	return append(dst, a, b, c)
}

// Triangles builds the mesh of a planar, triangle soup or terrain surface from its draw indexes.
// Indexes are relative to the surface's first vertex.
func Triangles(s bsp.Surface, vertices []bsp.Vertex, indexes []bsp.Index, winding Winding) (*Mesh, error) {
	if len(indexes)%3 != 0 {
		return nil, errors.Wrapf(bsp.ErrBadReference, "%d indexes do not form triangles", len(indexes))
	}

	first, n := int(s.FirstVertex), int(s.NumVertices)
	if first < 0 || n < 0 || first > len(vertices) || n > len(vertices)-first {
		return nil, errors.Wrapf(bsp.ErrBadReference, "vertices [%d, +%d) outside of %d", first, n, len(vertices))
	}

	mesh := &Mesh{
		Grid: Grid{
			Vertices: append([]bsp.Vertex(nil), vertices[first:first+n]...),
		},
		Indices: make([]uint32, 0, len(indexes)),
	}

	for i := 0; i < len(indexes); i += 3 {
		for _, idx := range indexes[i : i+3] {
			if idx.Offset < 0 || int(idx.Offset) >= n {
				return nil, errors.Wrapf(bsp.ErrBadReference, "index %d outside of %d surface vertices", idx.Offset, n)
			}
		}

		mesh.Indices = appendTriangle(mesh.Indices, winding,
			uint32(indexes[i].Offset), uint32(indexes[i+1].Offset), uint32(indexes[i+2].Offset))
	}

	return mesh, nil
}
