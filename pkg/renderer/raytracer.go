package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Overrides holds replacements for the scene's recommended image size and depth.
// Zero sizes and a nil MaxDepth keep the scene's value; a depth of 0 disables
// reflections.
type Overrides struct {
	Width    int
	Height   int
	MaxDepth *int
}

// Depth returns a MaxDepth override for the given value
func Depth(depth int) *int {
	return &depth
}

// Raytracer renders a scene one pixel at a time
type Raytracer struct {
	scene  *scene.Scene
	camera *Camera
	config scene.RenderConfig
	logger core.Logger
	runID  string
}

// NewRaytracer creates a raytracer for the scene. Overrides replace the
// scene's RenderConfig field by field.
func NewRaytracer(s *scene.Scene, overrides Overrides, logger core.Logger) (*Raytracer, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}

	config := s.RenderConfig
	if overrides.Width > 0 {
		config.Width = overrides.Width
	}
	if overrides.Height > 0 {
		config.Height = overrides.Height
	}
	if overrides.MaxDepth != nil {
		config.MaxDepth = *overrides.MaxDepth
	}
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("image size %dx%d must be positive", config.Width, config.Height)
	}
	if config.MaxDepth < 0 {
		return nil, fmt.Errorf("max depth %d must not be negative", config.MaxDepth)
	}

	camera, err := NewCamera(s.CameraConfig)
	if err != nil {
		return nil, err
	}

	return &Raytracer{
		scene:  s,
		camera: camera,
		config: config,
		logger: logger,
		runID:  uuid.NewString(),
	}, nil
}

// Config returns the effective render settings
func (rt *Raytracer) Config() scene.RenderConfig {
	return rt.config
}

// RunID identifies this render
func (rt *Raytracer) RunID() string {
	return rt.runID
}

// Render traces every pixel row by row. Cancelling ctx stops the render
// between rows.
func (rt *Raytracer) Render(ctx context.Context) (*Framebuffer, RenderStats, error) {
	start := time.Now()
	width, height := rt.config.Width, rt.config.Height
	fb := NewFramebuffer(width, height)
	stats := RenderStats{RunID: rt.runID}

	rt.logger.Printf("[%s] Rendering %s at %dx%d, max depth %d\n",
		rt.runID, rt.scene.Summary(), width, height, rt.config.MaxDepth)

	progressStep := max(height/10, 1)
	for y := 0; y < height; y++ {
		select {
		case <-ctx.Done():
			stats.Elapsed = time.Since(start)
			rt.logger.Printf("[%s] Rendering cancelled at row %d\n", rt.runID, y)
			return fb, stats, ctx.Err()
		default:
		}

		for x := 0; x < width; x++ {
			ray, err := rt.camera.GetRay(x, y, width, height)
			if err != nil {
				return nil, stats, fmt.Errorf("camera ray for pixel (%d, %d): %w", x, y, err)
			}

			var ts scene.TraceStats
			color, err := rt.scene.Trace(ray, rt.config.MaxDepth, &ts)
			if err != nil {
				return nil, stats, fmt.Errorf("tracing pixel (%d, %d): %w", x, y, err)
			}
			fb.Set(x, y, color)
			stats.addTrace(ts)
		}

		if (y+1)%progressStep == 0 && y+1 < height {
			rt.logger.Printf("[%s] %d%% (%d/%d rows)\n", rt.runID, (y+1)*100/height, y+1, height)
		}
	}

	stats.Elapsed = time.Since(start)
	stats.AverageLuminance = CalculateAverageLuminance(fb.ToImage())
	rt.logger.Printf("[%s] Render completed: %s\n", rt.runID, stats)
	return fb, stats, nil
}
