package renderer

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Camera is a pinhole looking down +Z with the viewport centred on its axis
type Camera struct {
	position       core.Vec3
	viewportWidth  float64
	viewportHeight float64
	distance       float64
}

// NewCamera creates a camera from the scene's camera settings
func NewCamera(config scene.CameraConfig) (*Camera, error) {
	if !(config.ViewportWidth > 0) || !(config.ViewportHeight > 0) || !(config.Distance > 0) {
		return nil, fmt.Errorf("camera viewport %gx%g at distance %g must be positive",
			config.ViewportWidth, config.ViewportHeight, config.Distance)
	}
	if !config.Position.IsFinite() {
		return nil, fmt.Errorf("camera position %v is not finite", config.Position)
	}
	return &Camera{
		position:       config.Position,
		viewportWidth:  config.ViewportWidth,
		viewportHeight: config.ViewportHeight,
		distance:       config.Distance,
	}, nil
}

// GetRay returns the ray through pixel (x, y) of a width x height image.
// Pixel (0, 0) is the top-left corner.
func (c *Camera) GetRay(x, y, width, height int) (core.Ray, error) {
	w, h := float64(width), float64(height)
	direction := core.NewVec3(
		(float64(x)-w/2)*c.viewportWidth/w,
		-(float64(y)-h/2)*c.viewportHeight/h,
		c.distance,
	)
	return core.NewRay(c.position, direction)
}
