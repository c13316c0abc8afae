package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestPlane_Intersect(t *testing.T) {
	// Horizontal plane at y=0
	plane, err := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 5, 0), testMaterial)
	if err != nil {
		t.Fatalf("NewPlane: %v", err)
	}

	tests := []struct {
		name      string
		origin    core.Vec3
		direction core.Vec3
		shouldHit bool
		expectedT float64
	}{
		{"straight down", core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0), true, 1.0},
		{"from below", core.NewVec3(3, -2, 1), core.NewVec3(0, 1, 0), true, 2.0},
		{"oblique", core.NewVec3(0, 1, 0), core.NewVec3(1, -1, 0), true, math.Sqrt2},
		{"parallel", core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0), false, 0},
		{"behind", core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0), false, 0},
		{"origin on plane", core.NewVec3(2, 0, 2), core.NewVec3(0, -1, 0), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := mustRay(t, tt.origin, tt.direction)
			hit, isHit := plane.Intersect(ray)

			if isHit != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got hit=%v (t=%f)", tt.shouldHit, isHit, hit.T)
			}
			if !tt.shouldHit {
				return
			}
			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}
			if math.Abs(hit.Point.Y) > 1e-9 {
				t.Errorf("Hit point %v is not on the plane", hit.Point)
			}
		})
	}
}

func TestNewPlane_NormalizesNormal(t *testing.T) {
	plane, err := NewPlane(core.NewVec3(0, -2, 0), core.NewVec3(0, 3, 4), testMaterial)
	if err != nil {
		t.Fatalf("NewPlane: %v", err)
	}
	normal, _ := plane.NormalAt(core.NewVec3(100, 100, 100))
	if !normal.ApproxEqual(core.NewVec3(0, 0.6, 0.8), 1e-12) {
		t.Errorf("Expected normal <0, 0.6, 0.8>, got %v", normal)
	}
}

func TestNewPlane_ZeroNormal(t *testing.T) {
	_, err := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 0), testMaterial)
	if !errors.Is(err, ErrDegenerateGeometry) {
		t.Errorf("Expected ErrDegenerateGeometry, got %v", err)
	}
}
