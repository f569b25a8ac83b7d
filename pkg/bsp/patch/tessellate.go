package patch

import (
	"github.com/pkg/errors"

	"github.com/saiko-tech/ef2bsp/pkg/bsp"
)

// MaxSubdivisions bounds the subdivision level; each level quadruples the vertex count.
const MaxSubdivisions = 8

// Grid is a row-major Width x Height array of vertices.
type Grid struct {
	Width    int
	Height   int
	Vertices []bsp.Vertex
}

func (g Grid) at(x, y int) bsp.Vertex {
	return g.Vertices[y*g.Width+x]
}

// Mesh is a tessellated grid and its triangle list.
type Mesh struct {
	Grid
	Indices []uint32
}

// Triangles is the number of triangles in the mesh.
func (m *Mesh) Triangles() int {
	return len(m.Indices) / 3
}

func validDimension(n int) bool {
	return n >= 3 && n%2 == 1
}

// ControlGrid extracts the control vertices of a patch surface.
func ControlGrid(s bsp.Surface, vertices []bsp.Vertex) (Grid, error) {
	w, h := int(s.PatchWidth), int(s.PatchHeight)
	if !validDimension(w) || !validDimension(h) {
		return Grid{}, errors.Wrapf(bsp.ErrInvalidPatchGrid, "%dx%d control grid, dimensions must be odd and at least 3", w, h)
	}

	if int(s.NumVertices) != w*h {
		return Grid{}, errors.Wrapf(bsp.ErrInvalidPatchGrid, "%dx%d control grid declares %d vertices", w, h, s.NumVertices)
	}

	first := int(s.FirstVertex)
	if first < 0 || first > len(vertices) || w*h > len(vertices)-first {
		return Grid{}, errors.Wrapf(bsp.ErrBadReference, "control vertices [%d, +%d) outside of %d", first, w*h, len(vertices))
	}

	return Grid{Width: w, Height: h, Vertices: vertices[first : first+w*h : first+w*h]}, nil
}

// Tessellate subdivides the control grid the given number of times and triangulates the result.
// A level of 0 triangulates the control grid as is.
func Tessellate(control Grid, subdivisions int, winding Winding) (*Mesh, error) {
	if !validDimension(control.Width) || !validDimension(control.Height) {
		return nil, errors.Wrapf(bsp.ErrInvalidPatchGrid, "%dx%d control grid", control.Width, control.Height)
	}

	if len(control.Vertices) != control.Width*control.Height {
		return nil, errors.Wrapf(bsp.ErrInvalidPatchGrid, "%dx%d control grid with %d vertices", control.Width, control.Height, len(control.Vertices))
	}

	if subdivisions < 0 || subdivisions > MaxSubdivisions {
		return nil, errors.Errorf("subdivision level %d outside of [0, %d]", subdivisions, MaxSubdivisions)
	}

	g := Grid{
		Width:    control.Width,
		Height:   control.Height,
		Vertices: append([]bsp.Vertex(nil), control.Vertices...),
	}

	for i := 0; i < subdivisions; i++ {
		g = subdivideColumns(subdivideRows(g))
	}

	return &Mesh{
		Grid:    g,
		Indices: Triangulate(g.Width, g.Height, winding),
	}, nil
}

// GridSize is the side length of a control side of n vertices after the given number of subdivisions.
func GridSize(n, subdivisions int) int {
	return (n-1)<<subdivisions + 1
}

// bisect splits every quadratic span p0, p1, p2 of a line into p0, a, m, b, p2.
// m lies on the curve, a and b become the new control points of the two halves.
func bisect(line []bsp.Vertex) []bsp.Vertex {
	out := make([]bsp.Vertex, 2*len(line)-1)

	for j := 0; j+2 < len(line); j += 2 {
		p0, p1, p2 := line[j], line[j+1], line[j+2]
		a := Lerp(p0, p1)
		b := Lerp(p1, p2)

		out[2*j] = p0
		out[2*j+1] = a
		out[2*j+2] = Lerp(a, b)
		out[2*j+3] = b
		out[2*j+4] = p2
	}

	return out
}

// subdivideRows doubles the resolution along x.
func subdivideRows(g Grid) Grid {
	w := 2*g.Width - 1
	out := Grid{Width: w, Height: g.Height, Vertices: make([]bsp.Vertex, 0, w*g.Height)}

	for y := 0; y < g.Height; y++ {
		out.Vertices = append(out.Vertices, bisect(g.Vertices[y*g.Width:(y+1)*g.Width])...)
	}

	return out
}

// subdivideColumns doubles the resolution along y.
func subdivideColumns(g Grid) Grid {
	h := 2*g.Height - 1
	out := Grid{Width: g.Width, Height: h, Vertices: make([]bsp.Vertex, g.Width*h)}
	column := make([]bsp.Vertex, g.Height)

	for x := 0; x < g.Width; x++ {
		for y := range column {
			column[y] = g.at(x, y)
		}

		for y, v := range bisect(column) {
			out.Vertices[y*g.Width+x] = v
		}
	}

	return out
}
