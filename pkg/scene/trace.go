package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Offsets applied to the origin of rays spawned from a surface
const (
	ShadowEpsilon    = 1e-4
	ReflectionOffset = 1e-4
	maxIntensity     = 1.0
)

// SurfaceHit is the closest intersection along a ray
type SurfaceHit struct {
	T         float64
	Point     core.Vec3
	Normal    core.Vec3 // Unit normal facing against the incoming ray
	FrontFace bool      // Whether the geometric normal already faced the ray
	Primitive geometry.Primitive
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *SurfaceHit) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction().Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// TraceStats counts the work done by Trace
type TraceStats struct {
	Rays           int // Camera and reflection rays traced
	Hits           int // Traced rays that struck a primitive
	ReflectionRays int // Rays spawned by mirror reflection
	ShadowRays     int // Shadow rays cast toward point and directional lights
	MaxBounce      int // Longest chain of reflections followed
}

// Merge accumulates other into s
func (s *TraceStats) Merge(other TraceStats) {
	s.Rays += other.Rays
	s.Hits += other.Hits
	s.ReflectionRays += other.ReflectionRays
	s.ShadowRays += other.ShadowRays
	s.MaxBounce = max(s.MaxBounce, other.MaxBounce)
}

// closestHit scans every primitive and keeps the smallest t. Ties keep the
// earlier primitive.
func (s *Scene) closestHit(ray core.Ray) (SurfaceHit, bool, error) {
	closestT := math.Inf(1)
	var closest geometry.Hit
	var closestPrimitive geometry.Primitive

	for _, p := range s.primitives {
		if hit, ok := p.Intersect(ray); ok && hit.T < closestT {
			closestT = hit.T
			closest = hit
			closestPrimitive = p
		}
	}

	if closestPrimitive == nil {
		return SurfaceHit{}, false, nil
	}

	normal, err := closestPrimitive.NormalAt(closest.Point)
	if err != nil {
		return SurfaceHit{}, false, err
	}

	surface := SurfaceHit{T: closest.T, Point: closest.Point, Primitive: closestPrimitive}
	surface.SetFaceNormal(ray, normal)
	return surface, true, nil
}

// IntersectsAny returns the globally closest hit across all primitives
func (s *Scene) IntersectsAny(ray core.Ray) (SurfaceHit, bool, error) {
	return s.closestHit(ray)
}

// IsInShadow casts a ray from point (nudged ShadowEpsilon toward the light)
// and reports whether anything blocks it before the light. tMax is the
// light's distance from point; an infinite tMax never clips.
func (s *Scene) IsInShadow(point, lightDirection core.Vec3, tMax float64) (bool, error) {
	shadowRay, err := core.NewRay(point.Add(lightDirection.Multiply(ShadowEpsilon)), lightDirection)
	if err != nil {
		return false, fmt.Errorf("shadow ray: %w", err)
	}

	// Distances along the shadow ray start at the nudged origin
	limit := tMax - ShadowEpsilon
	for _, p := range s.primitives {
		if hit, ok := p.Intersect(shadowRay); ok && hit.T > ShadowEpsilon && hit.T < limit {
			return true, nil
		}
	}
	return false, nil
}

// ComputeLighting returns the light intensity at point in [0, 1]: ambient,
// plus Lambert diffuse and Phong specular for every unshadowed light.
func (s *Scene) ComputeLighting(point, normal, viewDirection core.Vec3, specular float64) (float64, error) {
	return s.computeLighting(point, normal, viewDirection, specular, nil)
}

func (s *Scene) computeLighting(point, normal, viewDirection core.Vec3, specular float64, stats *TraceStats) (float64, error) {
	intensity := 0.0

	for _, light := range s.lights {
		switch light.Type {
		case lights.LightTypeAmbient:
			intensity += light.Intensity
			continue
		case lights.LightTypePoint, lights.LightTypeDirectional:
		default:
			return 0, fmt.Errorf("unknown light type %q", light.Type)
		}

		lightDirection, tMax, err := light.Toward(point)
		if err != nil {
			return 0, err
		}

		if stats != nil {
			stats.ShadowRays++
		}
		shadowed, err := s.IsInShadow(point, lightDirection, tMax)
		if err != nil {
			return 0, err
		}
		if shadowed {
			continue
		}

		if nDotL := normal.Dot(lightDirection); nDotL > 0 {
			intensity += light.Intensity * nDotL
		}

		if specular != material.NoSpecular {
			reflected := core.Reflect(lightDirection.Negate(), normal)
			if rDotV := reflected.Dot(viewDirection); rDotV > 0 {
				intensity += light.Intensity * math.Pow(rDotV, specular)
			}
		}
	}

	return math.Min(intensity, maxIntensity), nil
}

// TraceRay returns the color seen along ray, following at most depth
// mirror reflections. Rays that hit nothing return the background.
func (s *Scene) TraceRay(ray core.Ray, depth int) (core.Vec3, error) {
	return s.Trace(ray, depth, nil)
}

// Trace is TraceRay with optional statistics collection
func (s *Scene) Trace(ray core.Ray, depth int, stats *TraceStats) (core.Vec3, error) {
	return s.trace(ray, depth, 0, stats)
}

func (s *Scene) trace(ray core.Ray, depth, bounce int, stats *TraceStats) (core.Vec3, error) {
	if stats != nil {
		stats.Rays++
		stats.MaxBounce = max(stats.MaxBounce, bounce)
	}

	hit, isHit, err := s.closestHit(ray)
	if err != nil {
		return core.Vec3{}, err
	}
	if !isHit {
		return s.Background, nil
	}
	if stats != nil {
		stats.Hits++
	}

	surface := hit.Primitive.Surface()
	viewDirection := ray.Direction().Negate()

	intensity, err := s.computeLighting(hit.Point, hit.Normal, viewDirection, surface.Specular, stats)
	if err != nil {
		return core.Vec3{}, fmt.Errorf("lighting at %v: %w", hit.Point, err)
	}
	localColor := surface.Color.Multiply(intensity)

	reflectivity := surface.Reflectivity
	if depth <= 0 || reflectivity <= 0 {
		return localColor, nil
	}

	reflectedRay, err := core.NewRay(
		hit.Point.Add(hit.Normal.Multiply(ReflectionOffset)),
		core.Reflect(ray.Direction(), hit.Normal),
	)
	if err != nil {
		return core.Vec3{}, fmt.Errorf("reflected ray at %v: %w", hit.Point, err)
	}

	if stats != nil {
		stats.ReflectionRays++
	}
	reflectedColor, err := s.trace(reflectedRay, depth-1, bounce+1, stats)
	if err != nil {
		return core.Vec3{}, err
	}

	return localColor.Multiply(1 - reflectivity).Add(reflectedColor.Multiply(reflectivity)), nil
}
