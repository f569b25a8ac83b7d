package bsp

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// LightGridCellSize is the world-space size of one light grid cell.
var LightGridCellSize = mgl32.Vec3{192, 192, 320}

// At returns the RGB pixel at x, y.
func (l *Lightmap) At(x, y int) color.RGBA {
	i := (y*LightmapWidth + x) * 3

	return color.RGBA{R: l.Pixels[i], G: l.Pixels[i+1], B: l.Pixels[i+2], A: 0xff}
}

// Image copies the block into an RGBA image.
func (l *Lightmap) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, LightmapWidth, LightmapHeight))

	for y := 0; y < LightmapHeight; y++ {
		for x := 0; x < LightmapWidth; x++ {
			img.SetRGBA(x, y, l.At(x, y))
		}
	}

	return img
}

// Direction decodes the sample's dominant light direction.
// LatLong[0] is the longitude and LatLong[1] the latitude, each a byte fraction of a full turn.
func (g LightGridSample) Direction() mgl32.Vec3 {
	lng := float32(g.LatLong[0]) / 255 * 2 * math32.Pi
	lat := float32(g.LatLong[1]) / 255 * 2 * math32.Pi

	return mgl32.Vec3{
		math32.Cos(lat) * math32.Sin(lng),
		math32.Sin(lat) * math32.Sin(lng),
		math32.Cos(lng),
	}
}

// LightGridBounds returns the origin and cell counts of the light grid covering the world model.
func LightGridBounds(world Model) (origin mgl32.Vec3, dims [3]int) {
	for i := 0; i < 3; i++ {
		origin[i] = LightGridCellSize[i] * math32.Ceil(world.Mins[i]/LightGridCellSize[i])
		hi := LightGridCellSize[i] * math32.Floor(world.Maxs[i]/LightGridCellSize[i])
		dims[i] = int((hi-origin[i])/LightGridCellSize[i]) + 1
	}

	return origin, dims
}

// LightGridIndex is the sample index of grid cell x, y, z.
func LightGridIndex(dims [3]int, x, y, z int) int {
	return (z*dims[1]+y)*dims[0] + x
}
