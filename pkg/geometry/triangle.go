package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	A, B, C  core.Vec3
	Material material.Material
	normal   core.Vec3 // (B-A) x (C-A), normalized
}

// NewTriangle creates a triangle. Collinear vertices are rejected.
func NewTriangle(a, b, c core.Vec3, mat material.Material) (Triangle, error) {
	if (r3.Triangle{a.R3(), b.R3(), c.R3()}).IsDegenerate(DegenerateTolerance) {
		return Triangle{}, fmt.Errorf("%w: triangle %v %v %v has collinear vertices", ErrDegenerateGeometry, a, b, c)
	}

	normal, err := b.Subtract(a).Cross(c.Subtract(a)).Normalize()
	if err != nil {
		return Triangle{}, fmt.Errorf("%w: triangle normal: %v", ErrDegenerateGeometry, err)
	}

	return Triangle{A: a, B: b, C: c, Material: mat, normal: normal}, nil
}

// Intersect uses the Möller-Trumbore algorithm. Edges and vertices count as inside.
func (t Triangle) Intersect(ray core.Ray) (Hit, bool) {
	edge1 := t.B.Subtract(t.A)
	edge2 := t.C.Subtract(t.A)

	h := ray.Direction().Cross(edge2)
	det := edge1.Dot(h)

	// Ray lies in (or parallel to) the plane of the triangle
	if det > -TriangleParallelEpsilon && det < TriangleParallelEpsilon {
		return Hit{}, false
	}

	invDet := 1.0 / det
	s := ray.Origin().Subtract(t.A)
	u := invDet * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return Hit{}, false
	}

	q := s.Cross(edge1)
	v := invDet * ray.Direction().Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return Hit{}, false
	}

	dist := invDet * edge2.Dot(q)
	if dist <= MinHitDistance {
		return Hit{}, false
	}

	return Hit{T: dist, Point: ray.At(dist)}, true
}

// NormalAt returns the constant face normal
func (t Triangle) NormalAt(core.Vec3) (core.Vec3, error) {
	return t.normal, nil
}

// Normal returns the face normal
func (t Triangle) Normal() core.Vec3 {
	return t.normal
}

// Surface returns the triangle's material
func (t Triangle) Surface() material.Material {
	return t.Material
}

// Centroid returns the average of the three vertices
func (t Triangle) Centroid() core.Vec3 {
	return core.FromR3(r3.Triangle{t.A.R3(), t.B.R3(), t.C.R3()}.Centroid())
}

func (Triangle) primitive() {}
