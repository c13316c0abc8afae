package renderer

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func TestCalculateAverageLuminance(t *testing.T) {
	// Create a 2x2 image
	// Top-left: Red (1, 0, 0) -> Lum = 0.2126
	// Top-right: Green (0, 1, 0) -> Lum = 0.7152
	// Bottom-left: Blue (0, 0, 1) -> Lum = 0.0722
	// Bottom-right: Black (0, 0, 0) -> Lum = 0.0

	// Expected average: (0.2126 + 0.7152 + 0.0722 + 0.0) / 4 = 1.0 / 4 = 0.25

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 255, 0, 255})
	img.Set(0, 1, color.RGBA{0, 0, 255, 255})
	img.Set(1, 1, color.RGBA{0, 0, 0, 255})

	avgLum := CalculateAverageLuminance(img)
	expected := 0.25
	tolerance := 0.0001

	if avgLum < expected-tolerance || avgLum > expected+tolerance {
		t.Errorf("Expected average luminosity %f, got %f", expected, avgLum)
	}
}

func TestCalculateAverageLuminance_White(t *testing.T) {
	// 1x1 White pixel -> Lum = 1.0
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{255, 255, 255, 255})

	avgLum := CalculateAverageLuminance(img)
	expected := 1.0
	tolerance := 0.0001

	if avgLum < expected-tolerance || avgLum > expected+tolerance {
		t.Errorf("Expected average luminosity %f, got %f", expected, avgLum)
	}
}

func TestCalculateAverageLuminance_Empty(t *testing.T) {
	if lum := CalculateAverageLuminance(image.NewRGBA(image.Rect(0, 0, 0, 0))); lum != 0 {
		t.Errorf("Expected 0 for empty image, got %f", lum)
	}
}

func TestRenderStats_AddTrace(t *testing.T) {
	var stats RenderStats
	stats.addTrace(scene.TraceStats{Rays: 1})
	stats.addTrace(scene.TraceStats{Rays: 4, Hits: 4, ReflectionRays: 3, ShadowRays: 8, MaxBounce: 3})
	stats.addTrace(scene.TraceStats{Rays: 2, Hits: 1, ReflectionRays: 1, ShadowRays: 2, MaxBounce: 1})

	expected := RenderStats{TotalPixels: 3, HitPixels: 2, PrimaryRays: 3, ReflectionRays: 4, ShadowRays: 10, MaxBounce: 3}
	if stats != expected {
		t.Errorf("Expected %+v, got %+v", expected, stats)
	}
	if !strings.Contains(stats.String(), "3 pixels (2 hit)") {
		t.Errorf("Unexpected summary %q", stats.String())
	}
}
