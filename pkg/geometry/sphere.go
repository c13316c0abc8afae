package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere. The radius must be positive and finite.
func NewSphere(center core.Vec3, radius float64, mat material.Material) (Sphere, error) {
	if !(radius > 0) || math.IsInf(radius, 1) {
		return Sphere{}, fmt.Errorf("%w: sphere radius %g must be positive", ErrDegenerateGeometry, radius)
	}
	return Sphere{Center: center, Radius: radius, Material: mat}, nil
}

// Intersect solves at² + bt + c = 0 and returns the nearest root beyond
// SphereMinHitDistance. When the origin is inside the sphere only the far
// root qualifies.
func (s Sphere) Intersect(ray core.Ray) (Hit, bool) {
	oc := ray.Origin().Subtract(s.Center)

	a := ray.Direction().Dot(ray.Direction())
	b := 2 * oc.Dot(ray.Direction())
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return Hit{}, false
	}

	sqrtD := math.Sqrt(discriminant)
	near := (-b - sqrtD) / (2 * a)
	far := (-b + sqrtD) / (2 * a)

	switch {
	case near > SphereMinHitDistance:
		return Hit{T: near, Point: ray.At(near)}, true
	case far > SphereMinHitDistance:
		return Hit{T: far, Point: ray.At(far)}, true
	default:
		return Hit{}, false
	}
}

// NormalAt returns the outward normal, normalize(point - center)
func (s Sphere) NormalAt(point core.Vec3) (core.Vec3, error) {
	normal, err := point.Subtract(s.Center).Normalize()
	if err != nil {
		return core.Vec3{}, fmt.Errorf("sphere normal at center %v: %w", s.Center, err)
	}
	return normal, nil
}

// Surface returns the sphere's material
func (s Sphere) Surface() material.Material {
	return s.Material
}

func (Sphere) primitive() {}
