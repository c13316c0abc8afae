package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
)

// NewSpheresScene creates three reflective spheres resting on a huge yellow
// sphere that stands in for the ground
func NewSpheresScene() (*Scene, error) {
	s := New("spheres")
	s.RenderConfig = RenderConfig{Width: 512, Height: 512, MaxDepth: 3}
	s.CameraConfig = CameraConfig{
		Position:       core.NewVec3(0, 0, -3),
		ViewportWidth:  1,
		ViewportHeight: 1,
		Distance:       1,
	}

	b := &builder{scene: s}

	b.sphere(core.NewVec3(0, -1, 3), 1, b.material(core.NewVec3(255, 0, 0), 500, 0.2))
	b.sphere(core.NewVec3(2, 0, 4), 1, b.material(core.NewVec3(0, 0, 255), 500, 0.3))
	b.sphere(core.NewVec3(-2, 0, 4), 1, b.material(core.NewVec3(0, 255, 0), 10, 0.4))
	b.sphere(core.NewVec3(0, -5001, 0), 5000, b.material(core.NewVec3(255, 255, 0), 1000, 0.5))

	b.light(lights.NewAmbientLight(0.2))
	b.light(lights.NewPointLight(0.6, core.NewVec3(2, 1, 0)))
	b.light(lights.NewDirectionalLight(0.2, core.NewVec3(1, 4, 4)))

	return b.done()
}
