package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewMirrorsScene places two spheres between a pair of facing mirrors. Every
// primary ray that reaches a mirror bounces until MaxDepth runs out.
func NewMirrorsScene() (*Scene, error) {
	s := New("mirrors")
	s.RenderConfig = RenderConfig{Width: 480, Height: 360, MaxDepth: 8}
	s.CameraConfig = CameraConfig{
		Position:       core.NewVec3(0.5, 0.3, -3),
		ViewportWidth:  1.2,
		ViewportHeight: 0.9,
		Distance:       1,
	}

	b := &builder{scene: s}

	mirror := b.material(core.NewVec3(230, 230, 235), 1000, 0.9)
	b.plane(core.NewVec3(0, 0, 6), core.NewVec3(0, 0, -1), mirror)
	b.plane(core.NewVec3(0, 0, -6), core.NewVec3(0, 0, 1), mirror)
	b.plane(core.NewVec3(0, -1.5, 0), core.NewVec3(0, 1, 0), material.NewMatte(core.NewVec3(90, 90, 100)))

	b.sphere(core.NewVec3(0, -0.5, 2), 1, b.material(core.NewVec3(220, 40, 40), 200, 0.1))
	b.sphere(core.NewVec3(1.6, -1, 3.5), 0.5, b.material(core.NewVec3(40, 200, 80), 50, 0))

	b.light(lights.NewAmbientLight(0.1))
	b.light(lights.NewPointLight(0.7, core.NewVec3(2, 4, -2)))

	return b.done()
}
