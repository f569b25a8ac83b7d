// Package patch tessellates curved surfaces of EF2 bsp files into triangle meshes.
//
// Every vertex inserted by subdivision is built by Lerp.
package patch

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/saiko-tech/ef2bsp/pkg/bsp"
)

func mean(a, b float32) float32 {
	return float32((float64(a) + float64(b)) / 2)
}

// Lerp returns the midpoint vertex of a and b. Lerp(a, a) is a in every channel.
// Float attributes are averaged in float64 and rounded once, colors are truncated.
// The normal is the normalized sum, also computed in float64. Equal normals are
// kept as they are, and if the normals cancel out, a's normal is kept.
func Lerp(a, b bsp.Vertex) bsp.Vertex {
	var out bsp.Vertex

	for i := range out.Position {
		out.Position[i] = mean(a.Position[i], b.Position[i])
	}

	for i := range out.TexCoord {
		out.TexCoord[i] = mean(a.TexCoord[i], b.TexCoord[i])
		out.LightmapCoord[i] = mean(a.LightmapCoord[i], b.LightmapCoord[i])
	}

	for i := range out.Color {
		// truncate, do not round
		out.Color[i] = uint8((uint16(a.Color[i]) + uint16(b.Color[i])) / 2)
	}

	out.LODExtra = mean(a.LODExtra, b.LODExtra)
	out.Normal = midNormal(a.Normal, b.Normal)

	return out
}

func midNormal(a, b mgl32.Vec3) mgl32.Vec3 {
	if a == b {
		return a
	}

	var sum [3]float64
	for i := range sum {
		sum[i] = float64(a[i]) + float64(b[i])
	}

	length := math.Sqrt(sum[0]*sum[0] + sum[1]*sum[1] + sum[2]*sum[2])
	if length <= mgl32.Epsilon {
		return a
	}

	return mgl32.Vec3{float32(sum[0] / length), float32(sum[1] / length), float32(sum[2] / length)}
}
