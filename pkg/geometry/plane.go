package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point    core.Vec3 // A point on the plane
	Normal   core.Vec3 // Unit normal
	Material material.Material
}

// NewPlane creates a new plane, normalizing the normal
func NewPlane(point, normal core.Vec3, mat material.Material) (Plane, error) {
	unit, err := normal.Normalize()
	if err != nil {
		return Plane{}, fmt.Errorf("%w: plane normal: %v", ErrDegenerateGeometry, err)
	}
	return Plane{Point: point, Normal: unit, Material: mat}, nil
}

// Intersect solves (point - origin)·n / (direction·n)
func (p Plane) Intersect(ray core.Ray) (Hit, bool) {
	denominator := p.Normal.Dot(ray.Direction())

	// Parallel to the plane
	if math.Abs(denominator) < PlaneParallelEpsilon {
		return Hit{}, false
	}

	t := p.Point.Subtract(ray.Origin()).Dot(p.Normal) / denominator
	if t < MinHitDistance {
		return Hit{}, false
	}

	return Hit{T: t, Point: ray.At(t)}, true
}

// NormalAt returns the plane normal
func (p Plane) NormalAt(core.Vec3) (core.Vec3, error) {
	return p.Normal, nil
}

// Surface returns the plane's material
func (p Plane) Surface() material.Material {
	return p.Material
}

func (Plane) primitive() {}
