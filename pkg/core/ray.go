package core

import "fmt"

// Ray is an origin plus a unit direction. Fields are unexported so the
// direction stays normalized for the lifetime of the value.
type Ray struct {
	origin    Vec3
	direction Vec3
}

// NewRay creates a ray, normalizing the direction
func NewRay(origin, direction Vec3) (Ray, error) {
	unit, err := direction.Normalize()
	if err != nil {
		return Ray{}, fmt.Errorf("invalid ray direction %v: %w", direction, err)
	}
	return Ray{origin: origin, direction: unit}, nil
}

// Origin returns the ray origin
func (r Ray) Origin() Vec3 {
	return r.origin
}

// Direction returns the unit direction
func (r Ray) Direction() Vec3 {
	return r.direction
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.origin.Add(r.direction.Multiply(t))
}
