// Package trace implements ray casting against the brushes of a decoded EF2 bsp.
package trace

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/saiko-tech/ef2bsp/pkg/bsp"
)

const (
	distEpsilon = float32(0.03125)

	// ContentsSolid is the contents bit of world geometry that blocks sight.
	ContentsSolid = int32(1)
)

type brush struct {
	index    int
	contents int32
	sides    []bsp.Plane
}

// Tracer casts rays against the brushes of the world model.
type Tracer struct {
	brushes   []brush
	meshes    []meshSolid
	numMeshes int
}

// New indexes the world model brushes whose contents intersect mask.
func New(m *bsp.Map, mask int32) (*Tracer, error) {
	t := &Tracer{}

	if len(m.Models) == 0 {
		return t, nil
	}

	world := m.Models[0]
	first, n := int(world.FirstBrush), int(world.NumBrushes)

	if first < 0 || n < 0 || first > len(m.Brushes) || n > len(m.Brushes)-first {
		return nil, errors.Wrapf(bsp.ErrBadReference, "world brushes [%d, +%d) outside of %d", first, n, len(m.Brushes))
	}

	for i := first; i < first+n; i++ {
		b := m.Brushes[i]

		if b.Shader < 0 || int(b.Shader) >= len(m.Shaders) {
			return nil, errors.Wrapf(bsp.ErrBadReference, "brush %d: shader %d outside of %d", i, b.Shader, len(m.Shaders))
		}

		contents := m.Shaders[b.Shader].Contents
		if contents&mask == 0 {
			continue
		}

		sideFirst, sideN := int(b.FirstSide), int(b.NumSides)
		if sideFirst < 0 || sideN < 0 || sideFirst > len(m.BrushSides) || sideN > len(m.BrushSides)-sideFirst {
			return nil, errors.Wrapf(bsp.ErrBadReference, "brush %d: sides [%d, +%d) outside of %d", i, sideFirst, sideN, len(m.BrushSides))
		}

		planes := make([]bsp.Plane, 0, sideN)

		for _, side := range m.BrushSides[sideFirst : sideFirst+sideN] {
			if side.Plane < 0 || int(side.Plane) >= len(m.Planes) {
				return nil, errors.Wrapf(bsp.ErrBadReference, "brush %d: plane %d outside of %d", i, side.Plane, len(m.Planes))
			}

			planes = append(planes, m.Planes[side.Plane])
		}

		t.brushes = append(t.brushes, brush{index: i, contents: contents, sides: planes})
	}

	return t, nil
}

// NumBrushes is the number of brushes the tracer tests against.
func (t *Tracer) NumBrushes() int {
	return len(t.brushes)
}

// IsVisible returns true if destination is visible from origin, as computed by
// a ray trace.
func (t *Tracer) IsVisible(origin, destination mgl32.Vec3) bool {
	tr := t.TraceRay(origin, destination)

	return tr.Fraction >= 1 && !tr.AllSolid
}

// TraceRay traces a ray from origin to destination and returns the result.
func (t *Tracer) TraceRay(origin, destination mgl32.Vec3) *Trace {
	out := &Trace{
		Fraction: 1,
		Brush:    -1,
		Mesh:     -1,
	}

	for i := range t.brushes {
		t.clipToBrush(&t.brushes[i], origin, destination, out)

		if out.AllSolid {
			break
		}
	}

	if !out.AllSolid {
		for i := range t.meshes {
			t.clipToMesh(&t.meshes[i], origin, destination, out)
		}
	}

	if out.Fraction < 1 {
		out.EndPos = origin.Add(destination.Sub(origin).Mul(out.Fraction))
	} else {
		out.EndPos = destination
	}

	return out
}

func (t *Tracer) clipToBrush(b *brush, origin, destination mgl32.Vec3, out *Trace) {
	if len(b.sides) == 0 {
		return
	}

	fractionToEnter := float32(-1)
	fractionToLeave := float32(1)
	startsOut := false
	endsOut := false

	var hit bsp.Plane

	for _, plane := range b.sides {
		startDistance := origin.Dot(plane.Normal) - plane.Distance
		endDistance := destination.Dot(plane.Normal) - plane.Distance

		if startDistance > 0 {
			startsOut = true
		}

		if endDistance > 0 {
			endsOut = true
		}

		// entirely in front of one face
		if startDistance > 0 && (endDistance >= distEpsilon || endDistance >= startDistance) {
			return
		}

		if startDistance <= 0 && endDistance <= 0 {
			continue
		}

		if startDistance > endDistance {
			fraction := (startDistance - distEpsilon) / (startDistance - endDistance)
			if fraction < 0 {
				fraction = 0
			}

			if fraction > fractionToEnter {
				fractionToEnter = fraction
				hit = plane
			}
		} else {
			fraction := (startDistance + distEpsilon) / (startDistance - endDistance)
			if fraction > 1 {
				fraction = 1
			}

			if fraction < fractionToLeave {
				fractionToLeave = fraction
			}
		}
	}

	if !startsOut {
		out.StartSolid = true
		out.Contents = b.contents

		if !endsOut {
			out.AllSolid = true
			out.Fraction = 0
			out.Brush = b.index
		}

		return
	}

	if fractionToEnter < fractionToLeave && fractionToEnter > -1 && fractionToEnter < out.Fraction {
		out.Fraction = fractionToEnter
		out.Plane = hit
		out.Brush = b.index
		out.Mesh = -1
		out.Contents = b.contents
	}
}

// Trace captures the result of a ray trace.
type Trace struct {
	AllSolid   bool
	StartSolid bool
	Fraction   float32
	EndPos     mgl32.Vec3
	Plane      bsp.Plane
	Contents   int32
	Brush      int // index of the hit brush, -1 for none
	Mesh       int // index of the hit mesh in AddMeshes order, -1 for none
}
