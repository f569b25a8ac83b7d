package trace

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/saiko-tech/ef2bsp/pkg/bsp/patch"
)

const mollerTrumboreEpsilon = float32(0.0000001)

type meshSolid struct {
	index     int
	triangles [][3]mgl32.Vec3
	min, max  mgl32.Vec3 // AABB extents
}

func meshTriangles(m *patch.Mesh) [][3]mgl32.Vec3 {
	out := make([][3]mgl32.Vec3, 0, m.Triangles())

	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		if int(a) >= len(m.Vertices) || int(b) >= len(m.Vertices) || int(c) >= len(m.Vertices) {
			continue
		}

		out = append(out, [3]mgl32.Vec3{m.Vertices[a].Position, m.Vertices[b].Position, m.Vertices[c].Position})
	}

	return out
}

// find minimum and maximum extents of mesh
func extents(tris [][3]mgl32.Vec3) (min, max mgl32.Vec3) {
	min = mgl32.Vec3{mgl32.MaxValue, mgl32.MaxValue, mgl32.MaxValue}
	max = mgl32.Vec3{-mgl32.MaxValue, -mgl32.MaxValue, -mgl32.MaxValue}

	for _, tri := range tris {
		for _, vertex := range tri {
			for i, f := range vertex {
				if f < min[i] {
					min[i] = f
				}

				if f > max[i] {
					max[i] = f
				}
			}
		}
	}

	return min, max
}

// AddMeshes makes rays stop at the triangles of meshes, such as tessellated patches.
// Hits report the mesh's position in the order meshes were added and ContentsSolid.
func (t *Tracer) AddMeshes(meshes ...*patch.Mesh) {
	for _, m := range meshes {
		tris := meshTriangles(m)
		min, max := extents(tris)

		t.meshes = append(t.meshes, meshSolid{
			index:     t.numMeshes,
			triangles: tris,
			min:       min,
			max:       max,
		})
		t.numMeshes++
	}
}

func (t *Tracer) clipToMesh(m *meshSolid, origin, destination mgl32.Vec3, out *Trace) {
	if len(m.triangles) == 0 {
		return
	}

	direction := destination.Sub(origin)

	if !segmentIntersectsAxisAlignedBoundingBox(origin, direction, m.min, m.max) {
		return
	}

	for _, tri := range m.triangles {
		fraction, ok := rayIntersectsTriangle(origin, direction, tri)
		if !ok || fraction > 1 || fraction >= out.Fraction {
			continue
		}

		normal := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Normalize()

		out.Fraction = fraction
		out.Plane.Normal = normal
		out.Plane.Distance = normal.Dot(tri[0])
		out.Brush = -1
		out.Mesh = m.index
		out.Contents = ContentsSolid
	}
}

// segmentIntersectsAxisAlignedBoundingBox determines whether origin + t*direction, t in [0, 1],
// touches the box.
func segmentIntersectsAxisAlignedBoundingBox(origin, direction, lo, hi mgl32.Vec3) bool {
	tmin, tmax := float32(0), float32(1)

	for i := 0; i < 3; i++ {
		if direction[i] == 0 {
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return false
			}

			continue
		}

		t1 := (lo[i] - origin[i]) / direction[i]
		t2 := (hi[i] - origin[i]) / direction[i]

		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tmin = max(tmin, t1)
		tmax = min(tmax, t2)

		if tmin > tmax {
			return false
		}
	}

	return true
}

// rayIntersectsTriangle determines if a ray intersects a triangle using https://en.wikipedia.org/wiki/M%C3%B6ller%E2%80%93Trumbore_intersection_algorithm
// and returns the hit as a multiple of rayVector.
func rayIntersectsTriangle(rayOrigin, rayVector mgl32.Vec3, tri [3]mgl32.Vec3) (float32, bool) {
	var (
		edge1, edge2, h, s, q mgl32.Vec3
		a, f, u, v            float32
	)

	edge1 = tri[1].Sub(tri[0])
	edge2 = tri[2].Sub(tri[0])
	h = rayVector.Cross(edge2)
	a = edge1.Dot(h)

	if a > -mollerTrumboreEpsilon && a < mollerTrumboreEpsilon {
		return 0, false // parallel
	}

	f = 1.0 / a
	s = rayOrigin.Sub(tri[0])
	u = f * s.Dot(h)

	if u < 0.0 || u > 1.0 {
		return 0, false
	}

	q = s.Cross(edge1)
	v = f * rayVector.Dot(q)

	if v < 0.0 || u+v > 1.0 {
		return 0, false
	}

	t := f * edge2.Dot(q)
	if t > mollerTrumboreEpsilon {
		return t, true
	}

	// line intersection behind the origin
	return 0, false
}
