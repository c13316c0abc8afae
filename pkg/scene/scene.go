package scene

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// RenderConfig contains the recommended image size and reflection depth
type RenderConfig struct {
	Width    int // Image width
	Height   int // Image height
	MaxDepth int // Maximum reflection bounces
}

// CameraConfig positions the pinhole camera and its viewport
type CameraConfig struct {
	Position       core.Vec3
	ViewportWidth  float64
	ViewportHeight float64
	Distance       float64 // Distance from the camera to the viewport
}

// DefaultRenderConfig returns the settings used when a scene doesn't specify any
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{Width: 400, Height: 400, MaxDepth: 3}
}

// DefaultCameraConfig returns a camera at the origin looking down +Z
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Position:       core.NewVec3(0, 0, 0),
		ViewportWidth:  1,
		ViewportHeight: 1,
		Distance:       1,
	}
}

// Scene owns the primitives and lights. It is filled during setup and only
// read while tracing, so one Scene may serve concurrent Trace calls.
type Scene struct {
	Name         string
	Background   core.Vec3 // Color of rays that hit nothing
	RenderConfig RenderConfig
	CameraConfig CameraConfig

	primitives []geometry.Primitive
	lights     []lights.Light
}

// New creates an empty scene with default render and camera settings
func New(name string) *Scene {
	return &Scene{
		Name:         name,
		RenderConfig: DefaultRenderConfig(),
		CameraConfig: DefaultCameraConfig(),
	}
}

// AddPrimitive appends a primitive. Insertion order breaks exact distance ties.
func (s *Scene) AddPrimitive(p geometry.Primitive) {
	s.primitives = append(s.primitives, p)
}

// AddLight appends a light
func (s *Scene) AddLight(l lights.Light) {
	s.lights = append(s.lights, l)
}

// AddTriangle builds and adds a triangle
func (s *Scene) AddTriangle(a, b, c core.Vec3, mat material.Material) error {
	triangle, err := geometry.NewTriangle(a, b, c, mat)
	if err != nil {
		return err
	}
	s.AddPrimitive(triangle)
	return nil
}

// AddPlane builds and adds a plane
func (s *Scene) AddPlane(point, normal core.Vec3, mat material.Material) error {
	plane, err := geometry.NewPlane(point, normal, mat)
	if err != nil {
		return err
	}
	s.AddPrimitive(plane)
	return nil
}

// AddSphere builds and adds a sphere
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Material) error {
	sphere, err := geometry.NewSphere(center, radius, mat)
	if err != nil {
		return err
	}
	s.AddPrimitive(sphere)
	return nil
}

// AddTriangleMesh expands an indexed mesh and adds each triangle
func (s *Scene) AddTriangleMesh(vertices []core.Vec3, faces []int, mat material.Material, options *geometry.TriangleMeshOptions) (*geometry.TriangleMesh, error) {
	mesh, err := geometry.NewTriangleMesh(vertices, faces, mat, options)
	if err != nil {
		return nil, err
	}
	for _, triangle := range mesh.Triangles {
		s.AddPrimitive(triangle)
	}
	return mesh, nil
}

// AddBox adds the 12 triangles of a box given its half-extents
func (s *Scene) AddBox(center, size, rotation core.Vec3, mat material.Material) error {
	box, err := geometry.NewBox(center, size, rotation, mat)
	if err != nil {
		return err
	}
	for _, triangle := range box.Triangles {
		s.AddPrimitive(triangle)
	}
	return nil
}

// Primitives returns the primitives in insertion order
func (s *Scene) Primitives() []geometry.Primitive {
	return s.primitives
}

// Lights returns the lights in insertion order
func (s *Scene) Lights() []lights.Light {
	return s.lights
}

// GetPrimitiveCount returns the total number of primitives in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.primitives)
}

// PrimitiveCounts tallies primitives per variant
func (s *Scene) PrimitiveCounts() map[geometry.Kind]int {
	counts := make(map[geometry.Kind]int)
	for _, p := range s.primitives {
		counts[geometry.KindOf(p)]++
	}
	return counts
}

// Summary describes the scene contents for logging
func (s *Scene) Summary() string {
	counts := s.PrimitiveCounts()
	return fmt.Sprintf("%s: %d triangles, %d planes, %d spheres, %d lights",
		s.Name, counts[geometry.KindTriangle], counts[geometry.KindPlane], counts[geometry.KindSphere], len(s.lights))
}

// builder collects the first construction error so scene setup code can add
// many objects and check once at the end
type builder struct {
	scene *Scene
	err   error
}

func (b *builder) material(color core.Vec3, specular, reflectivity float64) material.Material {
	m, err := material.NewMaterial(color, specular, reflectivity)
	if err != nil && b.err == nil {
		b.err = err
	}
	return m
}

func (b *builder) triangle(a, c1, c2 core.Vec3, mat material.Material) {
	if b.err == nil {
		b.err = b.scene.AddTriangle(a, c1, c2, mat)
	}
}

func (b *builder) plane(point, normal core.Vec3, mat material.Material) {
	if b.err == nil {
		b.err = b.scene.AddPlane(point, normal, mat)
	}
}

func (b *builder) sphere(center core.Vec3, radius float64, mat material.Material) {
	if b.err == nil {
		b.err = b.scene.AddSphere(center, radius, mat)
	}
}

func (b *builder) light(l lights.Light, err error) {
	if b.err == nil {
		b.err = err
	}
	if err == nil {
		b.scene.AddLight(l)
	}
}

func (b *builder) done() (*Scene, error) {
	if b.err != nil {
		return nil, fmt.Errorf("building scene %q: %w", b.scene.Name, b.err)
	}
	return b.scene, nil
}
