package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

const testTolerance = 1e-9

func mustRay(t *testing.T, origin, direction core.Vec3) core.Ray {
	t.Helper()
	ray, err := core.NewRay(origin, direction)
	if err != nil {
		t.Fatalf("NewRay(%v, %v): %v", origin, direction, err)
	}
	return ray
}

func mustMaterial(t *testing.T, color core.Vec3, specular, reflectivity float64) material.Material {
	t.Helper()
	mat, err := material.NewMaterial(color, specular, reflectivity)
	if err != nil {
		t.Fatalf("NewMaterial: %v", err)
	}
	return mat
}

func mustLight(t *testing.T) func(lights.Light, error) lights.Light {
	return func(l lights.Light, err error) lights.Light {
		t.Helper()
		if err != nil {
			t.Fatalf("light: %v", err)
		}
		return l
	}
}

func mustAdd(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("adding primitive: %v", err)
	}
}

// facingMirrors builds two perfect mirrors at z=0 and z=10 facing each other
func facingMirrors(t *testing.T, color core.Vec3) *Scene {
	s := New("mirrors")
	mirror := mustMaterial(t, color, material.NoSpecular, 1)
	mustAdd(t, s.AddPlane(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1), mirror))
	mustAdd(t, s.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), mirror))
	return s
}

func TestIntersectsAny_Sphere(t *testing.T) {
	s := New("sphere")
	mustAdd(t, s.AddSphere(core.NewVec3(0, 0, 5), 1, material.Default()))

	hit, ok, err := s.IntersectsAny(mustRay(t, core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)))
	if err != nil || !ok {
		t.Fatalf("Expected hit, got ok=%v err=%v", ok, err)
	}
	if math.Abs(hit.T-4) > 1e-6 {
		t.Errorf("Expected t=4, got %f", hit.T)
	}
	if !hit.Point.ApproxEqual(core.NewVec3(0, 0, 4), 1e-6) {
		t.Errorf("Expected point (0,0,4), got %v", hit.Point)
	}
	if !hit.Normal.ApproxEqual(core.NewVec3(0, 0, -1), 1e-6) {
		t.Errorf("Expected normal (0,0,-1), got %v", hit.Normal)
	}
	if !hit.FrontFace {
		t.Error("Expected front face hit from outside the sphere")
	}
}

func TestIntersectsAny_TriangleNormalFacesRay(t *testing.T) {
	s := New("triangle")
	mustAdd(t, s.AddTriangle(core.NewVec3(0, 0, 2), core.NewVec3(1, 2, 2), core.NewVec3(-1, 2, 2), material.Default()))

	hit, ok, err := s.IntersectsAny(mustRay(t, core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 2)))
	if err != nil || !ok {
		t.Fatalf("Expected hit, got ok=%v err=%v", ok, err)
	}
	if hit.T <= 0 {
		t.Errorf("Expected positive t, got %f", hit.T)
	}
	if hit.Normal.Z >= 0 {
		t.Errorf("Expected normal pointing back toward the origin, got %v", hit.Normal)
	}
	if math.Abs(hit.Normal.Length()-1) > 1e-9 {
		t.Errorf("Expected unit normal, got length %f", hit.Normal.Length())
	}
}

func TestIntersectsAny_Miss(t *testing.T) {
	s := New("empty")
	_, ok, err := s.IntersectsAny(mustRay(t, core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)))
	if err != nil || ok {
		t.Errorf("Expected miss in empty scene, got ok=%v err=%v", ok, err)
	}
}

func TestIntersectsAny_ClosestHitIgnoresInsertionOrder(t *testing.T) {
	near := mustMaterial(t, core.NewVec3(255, 0, 0), material.NoSpecular, 0)
	far := mustMaterial(t, core.NewVec3(0, 0, 255), material.NoSpecular, 0)
	ray := mustRay(t, core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))

	orders := map[string][]bool{
		"near first": {true, false},
		"far first":  {false, true},
	}
	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			s := New(name)
			for _, isNear := range order {
				if isNear {
					mustAdd(t, s.AddSphere(core.NewVec3(0, 0, 5), 1, near))
				} else {
					// Overlaps the near sphere along the ray but starts further out
					mustAdd(t, s.AddTriangle(core.NewVec3(-2, -2, 4.5), core.NewVec3(2, -2, 4.5), core.NewVec3(0, 2, 4.5), far))
				}
			}
			hit, ok, err := s.IntersectsAny(ray)
			if err != nil || !ok {
				t.Fatalf("Expected hit, got ok=%v err=%v", ok, err)
			}
			if math.Abs(hit.T-4) > 1e-6 {
				t.Errorf("Expected the sphere at t=4, got t=%f", hit.T)
			}
			if hit.Primitive.Surface() != near {
				t.Errorf("Expected near material, got %+v", hit.Primitive.Surface())
			}
			if geometry.KindOf(hit.Primitive) != geometry.KindSphere {
				t.Errorf("Expected sphere, got %s", geometry.KindOf(hit.Primitive))
			}
		})
	}
}

func TestIsInShadow(t *testing.T) {
	light := mustLight(t)
	s := New("shadow")
	mustAdd(t, s.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), material.Default()))
	mustAdd(t, s.AddTriangle(core.NewVec3(-1, 5, -1), core.NewVec3(1, 5, -1), core.NewVec3(0, 5, 1), material.Default()))
	overhead := light(lights.NewPointLight(1, core.NewVec3(0, 10, 0)))
	below := light(lights.NewPointLight(1, core.NewVec3(0, 3, 0)))
	sun := light(lights.NewDirectionalLight(1, core.NewVec3(0, 1, 0)))

	tests := []struct {
		name     string
		point    core.Vec3
		light    lights.Light
		expected bool
	}{
		{"triangle between point and light", core.NewVec3(0, 0, 0), overhead, true},
		{"clear path to light", core.NewVec3(5, 0, 0), overhead, false},
		{"occluder beyond the light", core.NewVec3(0, 0, 0), below, false},
		{"directional light is never clipped", core.NewVec3(0, 0, 0), sun, true},
		{"directional light clear path", core.NewVec3(5, 0, 0), sun, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, tMax, err := tt.light.Toward(tt.point)
			if err != nil {
				t.Fatalf("Toward: %v", err)
			}
			shadowed, err := s.IsInShadow(tt.point, dir, tMax)
			if err != nil {
				t.Fatalf("IsInShadow: %v", err)
			}
			if shadowed != tt.expected {
				t.Errorf("Expected shadowed=%v, got %v", tt.expected, shadowed)
			}
		})
	}
}

func TestIsInShadow_OccluderNearLight(t *testing.T) {
	light := mustLight(t)
	point := core.NewVec3(0, 0, 0)
	lamp := light(lights.NewPointLight(1, core.NewVec3(0, 3, 0)))

	tests := []struct {
		name     string
		height   float64
		expected bool
	}{
		{"just in front of the light", 3 - 5e-5, true},
		{"just behind the light", 3 + 5e-5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New("near light")
			mustAdd(t, s.AddTriangle(core.NewVec3(-1, tt.height, -1), core.NewVec3(1, tt.height, -1), core.NewVec3(0, tt.height, 1), material.Default()))

			dir, tMax, err := lamp.Toward(point)
			if err != nil {
				t.Fatalf("Toward: %v", err)
			}
			shadowed, err := s.IsInShadow(point, dir, tMax)
			if err != nil {
				t.Fatalf("IsInShadow: %v", err)
			}
			if shadowed != tt.expected {
				t.Errorf("Expected shadowed=%v, got %v", tt.expected, shadowed)
			}
		})
	}
}

func TestComputeLighting(t *testing.T) {
	light := mustLight(t)
	point := core.NewVec3(0, 0, 0)
	normal := core.NewVec3(0, 1, 0)
	view := core.NewVec3(0, 1, 0)

	tests := []struct {
		name     string
		lights   []lights.Light
		specular float64
		expected float64
	}{
		{"no lights", nil, material.NoSpecular, 0},
		{"ambient only", []lights.Light{light(lights.NewAmbientLight(0.3))}, 500, 0.3},
		{"diffuse overhead", []lights.Light{light(lights.NewPointLight(0.5, core.NewVec3(0, 4, 0)))}, material.NoSpecular, 0.5},
		{"diffuse plus highlight", []lights.Light{light(lights.NewPointLight(0.4, core.NewVec3(0, 4, 0)))}, 10, 0.8},
		{"light below surface", []lights.Light{light(lights.NewPointLight(0.5, core.NewVec3(0, -4, 0)))}, 10, 0},
		{"grazing directional", []lights.Light{light(lights.NewDirectionalLight(0.6, core.NewVec3(1, 1, 0)))}, material.NoSpecular, 0.6 * math.Sqrt2 / 2},
		{"clamped at one", []lights.Light{
			light(lights.NewAmbientLight(0.8)),
			light(lights.NewPointLight(0.8, core.NewVec3(0, 4, 0))),
		}, material.NoSpecular, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.name)
			for _, l := range tt.lights {
				s.AddLight(l)
			}
			intensity, err := s.ComputeLighting(point, normal, view, tt.specular)
			if err != nil {
				t.Fatalf("ComputeLighting: %v", err)
			}
			if math.Abs(intensity-tt.expected) > testTolerance {
				t.Errorf("Expected %f, got %f", tt.expected, intensity)
			}
		})
	}
}

func TestComputeLighting_ShadowedLightOnlyAmbient(t *testing.T) {
	light := mustLight(t)
	s := New("shadowed")
	mustAdd(t, s.AddTriangle(core.NewVec3(-1, 2, -1), core.NewVec3(1, 2, -1), core.NewVec3(0, 2, 1), material.Default()))
	s.AddLight(light(lights.NewAmbientLight(0.1)))
	s.AddLight(light(lights.NewPointLight(0.7, core.NewVec3(0, 4, 0))))

	intensity, err := s.ComputeLighting(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0), material.NoSpecular)
	if err != nil {
		t.Fatalf("ComputeLighting: %v", err)
	}
	if math.Abs(intensity-0.1) > testTolerance {
		t.Errorf("Expected only ambient 0.1, got %f", intensity)
	}
}

func TestComputeLighting_LightAtShadingPoint(t *testing.T) {
	s := New("coincident")
	s.AddLight(mustLight(t)(lights.NewPointLight(1, core.NewVec3(1, 2, 3))))

	_, err := s.ComputeLighting(core.NewVec3(1, 2, 3), core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0), material.NoSpecular)
	if !errors.Is(err, core.ErrZeroVector) {
		t.Errorf("Expected ErrZeroVector, got %v", err)
	}
}

func TestTraceRay_Background(t *testing.T) {
	s := New("empty")
	s.Background = core.NewVec3(10, 20, 30)

	color, err := s.TraceRay(mustRay(t, core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)), 3)
	if err != nil {
		t.Fatalf("TraceRay: %v", err)
	}
	if color != s.Background {
		t.Errorf("Expected background %v, got %v", s.Background, color)
	}
}

func TestTraceRay_AmbientOnly(t *testing.T) {
	s := New("ambient")
	color := core.NewVec3(100, 200, 50)
	mustAdd(t, s.AddSphere(core.NewVec3(0, 0, 5), 1, mustMaterial(t, color, 500, 0)))
	mustAdd(t, s.AddPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), mustMaterial(t, color, material.NoSpecular, 0)))
	s.AddLight(mustLight(t)(lights.NewAmbientLight(0.3)))

	rays := []core.Vec3{
		core.NewVec3(0, 0, 1),   // sphere
		core.NewVec3(0, -1, 1),  // floor
		core.NewVec3(0.1, 0, 1), // sphere off-center
	}
	for _, dir := range rays {
		got, err := s.TraceRay(mustRay(t, core.NewVec3(0, 0, 0), dir), 5)
		if err != nil {
			t.Fatalf("TraceRay: %v", err)
		}
		if !got.ApproxEqual(color.Multiply(0.3), 1e-9) {
			t.Errorf("Direction %v: expected %v, got %v", dir, color.Multiply(0.3), got)
		}
	}
}

func TestTraceRay_DepthZeroNeverRecurses(t *testing.T) {
	s := facingMirrors(t, core.NewVec3(100, 100, 100))
	s.AddLight(mustLight(t)(lights.NewAmbientLight(0.5)))

	var stats TraceStats
	color, err := s.Trace(mustRay(t, core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1)), 0, &stats)
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if stats.Rays != 1 || stats.Hits != 1 || stats.ReflectionRays != 0 || stats.MaxBounce != 0 {
		t.Errorf("Expected a single primary ray, got %+v", stats)
	}
	if !color.ApproxEqual(core.NewVec3(50, 50, 50), 1e-9) {
		t.Errorf("Expected local color (50,50,50), got %v", color)
	}
}

func TestTraceRay_FacingMirrorsStopAtDepth(t *testing.T) {
	s := facingMirrors(t, core.NewVec3(100, 100, 100))
	s.AddLight(mustLight(t)(lights.NewAmbientLight(0.5)))
	ray := mustRay(t, core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1))

	for _, depth := range []int{1, 2, 5, 50} {
		var stats TraceStats
		color, err := s.Trace(ray, depth, &stats)
		if err != nil {
			t.Fatalf("depth %d: %v", depth, err)
		}
		if stats.ReflectionRays != depth {
			t.Errorf("depth %d: expected %d reflection rays, got %d", depth, depth, stats.ReflectionRays)
		}
		if stats.MaxBounce != depth || stats.Rays != depth+1 {
			t.Errorf("depth %d: unexpected stats %+v", depth, stats)
		}
		if !color.IsFinite() {
			t.Errorf("depth %d: expected finite color, got %v", depth, color)
		}
		// Reflectivity 1 discards every local term except the last one
		if !color.ApproxEqual(core.NewVec3(50, 50, 50), 1e-9) {
			t.Errorf("depth %d: expected (50,50,50), got %v", depth, color)
		}
	}
}

func TestTraceRay_ReflectionBlend(t *testing.T) {
	s := New("blend")
	mirror := mustMaterial(t, core.NewVec3(200, 0, 0), material.NoSpecular, 0.25)
	mustAdd(t, s.AddPlane(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1), mirror))
	mustAdd(t, s.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), material.NewMatte(core.NewVec3(0, 0, 100))))
	s.AddLight(mustLight(t)(lights.NewAmbientLight(1)))

	color, err := s.TraceRay(mustRay(t, core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1)), 1)
	if err != nil {
		t.Fatalf("TraceRay: %v", err)
	}
	expected := core.NewVec3(150, 0, 25)
	if !color.ApproxEqual(expected, 1e-9) {
		t.Errorf("Expected %v, got %v", expected, color)
	}
}

func TestTraceStats_Merge(t *testing.T) {
	a := TraceStats{Rays: 3, Hits: 2, ReflectionRays: 1, ShadowRays: 4, MaxBounce: 1}
	a.Merge(TraceStats{Rays: 2, Hits: 1, ReflectionRays: 2, ShadowRays: 1, MaxBounce: 3})
	expected := TraceStats{Rays: 5, Hits: 3, ReflectionRays: 3, ShadowRays: 5, MaxBounce: 3}
	if a != expected {
		t.Errorf("Expected %+v, got %+v", expected, a)
	}
}
