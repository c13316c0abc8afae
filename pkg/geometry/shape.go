package geometry

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Intersection thresholds. Rejecting hits at t close to zero keeps rays
// spawned from a surface from re-hitting that same surface.
const (
	TriangleParallelEpsilon = 1e-5
	PlaneParallelEpsilon    = 1e-6
	MinHitDistance          = 1e-6 // triangles and planes
	SphereMinHitDistance    = 1e-4
	DegenerateTolerance     = 1e-9
)

// ErrDegenerateGeometry is returned by constructors for shapes that cannot be
// intersected meaningfully
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// Hit is a ray/primitive intersection: distance along the ray and the point
type Hit struct {
	T     float64
	Point core.Vec3
}

// Primitive is the closed set {Triangle, Plane, Sphere}. The unexported
// method keeps other packages from adding variants, so a type switch over
// the three is exhaustive.
type Primitive interface {
	// Intersect returns the nearest valid hit in front of the ray origin
	Intersect(ray core.Ray) (Hit, bool)
	// NormalAt returns the unit geometric normal at a point on the surface
	NormalAt(point core.Vec3) (core.Vec3, error)
	// Surface returns the material
	Surface() material.Material

	primitive()
}

// Kind names a primitive variant
type Kind string

const (
	KindTriangle Kind = "triangle"
	KindPlane    Kind = "plane"
	KindSphere   Kind = "sphere"
)

// KindOf reports the variant of p
func KindOf(p Primitive) Kind {
	switch p.(type) {
	case Triangle, *Triangle:
		return KindTriangle
	case Plane, *Plane:
		return KindPlane
	case Sphere, *Sphere:
		return KindSphere
	default:
		panic(fmt.Sprintf("geometry: unknown primitive %T", p))
	}
}
