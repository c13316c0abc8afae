package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
)

// NewDefaultScene creates the showcase box: three triangles (the middle one a
// perfect mirror), two spheres, five walls and a mix of all light types.
func NewDefaultScene() (*Scene, error) {
	s := New("default")
	s.RenderConfig = RenderConfig{Width: 1000, Height: 1000, MaxDepth: 10}
	s.CameraConfig = CameraConfig{
		Position:       core.NewVec3(0, 1.8, -8),
		ViewportWidth:  1,
		ViewportHeight: 1,
		Distance:       1,
	}

	b := &builder{scene: s}

	// Triangles: matte blue, mirror red, matte green
	b.triangle(core.NewVec3(-2, 0, 3), core.NewVec3(-1, 2, 3), core.NewVec3(-3, 2, 3),
		b.material(core.NewVec3(80, 80, 255), 1000, 0.02))
	b.triangle(core.NewVec3(0, 0, 2), core.NewVec3(1, 2, 2), core.NewVec3(-1, 2, 2),
		b.material(core.NewVec3(255, 50, 50), 2000, 1.0))
	b.triangle(core.NewVec3(2, 0, 4), core.NewVec3(3, 2, 4), core.NewVec3(1, 2, 4),
		b.material(core.NewVec3(50, 255, 50), 1000, 0.02))

	// Spheres above and below the triangles
	b.sphere(core.NewVec3(0, 3, 3), 1, b.material(core.NewVec3(255, 0, 0), 500, 0.5))
	b.sphere(core.NewVec3(0, -1, 3), 1, b.material(core.NewVec3(0, 255, 0), 500, 0.5))

	// Floor, ceiling, side walls and back wall
	b.plane(core.NewVec3(0, -2, 0), core.NewVec3(0, 1, 0), b.material(core.NewVec3(60, 60, 60), 10, 0.1))
	b.plane(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0), b.material(core.NewVec3(180, 180, 180), 50, 0))
	b.plane(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0), b.material(core.NewVec3(255, 120, 120), 10, 0.05))
	b.plane(core.NewVec3(5, 0, 0), core.NewVec3(-1, 0, 0), b.material(core.NewVec3(120, 180, 255), 10, 0.05))
	b.plane(core.NewVec3(0, 0, -8), core.NewVec3(0, 0, 1), b.material(core.NewVec3(80, 80, 80), 10, 0))

	b.light(lights.NewAmbientLight(0.015))
	b.light(lights.NewPointLight(50, core.NewVec3(0, 6, 4)))
	b.light(lights.NewDirectionalLight(8, core.NewVec3(-1, -1, -1)))
	b.light(lights.NewPointLight(20, core.NewVec3(-2, 3, 1)))
	b.light(lights.NewPointLight(40, core.NewVec3(-5, 8, -4)))

	return b.done()
}
