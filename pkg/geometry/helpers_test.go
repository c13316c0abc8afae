package geometry

import (
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

var testMaterial = material.NewMatte(core.NewVec3(128, 128, 128))

func mustRay(t *testing.T, origin, direction core.Vec3) core.Ray {
	t.Helper()
	ray, err := core.NewRay(origin, direction)
	if err != nil {
		t.Fatalf("NewRay(%v, %v): %v", origin, direction, err)
	}
	return ray
}
