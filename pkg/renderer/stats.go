package renderer

import (
	"fmt"
	"image"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	RunID            string        // Identifies this render in logs and output names
	TotalPixels      int           // Pixels written to the framebuffer
	HitPixels        int           // Pixels whose camera ray struck a primitive
	PrimaryRays      int           // One camera ray per pixel
	ReflectionRays   int           // Mirror bounces followed
	ShadowRays       int           // Occlusion tests toward lights
	MaxBounce        int           // Longest reflection chain of any pixel
	Elapsed          time.Duration // Wall time spent in Render
	AverageLuminance float64       // Mean luminance of the 8-bit output, 0-1
}

// addTrace folds the work of one pixel into the totals
func (rs *RenderStats) addTrace(ts scene.TraceStats) {
	rs.TotalPixels++
	rs.PrimaryRays++
	if ts.Hits > 0 {
		rs.HitPixels++
	}
	rs.ReflectionRays += ts.ReflectionRays
	rs.ShadowRays += ts.ShadowRays
	rs.MaxBounce = max(rs.MaxBounce, ts.MaxBounce)
}

// String summarises the stats on one line
func (rs RenderStats) String() string {
	return fmt.Sprintf("%d pixels (%d hit), %d reflection rays, %d shadow rays, max bounce %d, avg luminance %.3f, %v",
		rs.TotalPixels, rs.HitPixels, rs.ReflectionRays, rs.ShadowRays, rs.MaxBounce, rs.AverageLuminance, rs.Elapsed)
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an image in [0, 1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// RGBA returns 16-bit channels
			total += core.NewVec3(float64(r), float64(g), float64(b)).Luminance() / 65535
		}
	}
	return total / float64(pixels)
}
