package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// TriangleMesh is an indexed vertex list expanded into independent triangles.
// The scene treats every triangle as its own primitive.
type TriangleMesh struct {
	Triangles []Triangle
	Skipped   int // degenerate faces dropped when SkipDegenerate is set
}

// TriangleMeshOptions contains optional parameters for triangle mesh creation
type TriangleMeshOptions struct {
	Scale          float64    // uniform scale about Center, 0 means 1
	Rotation       *core.Vec3 // radians around X, Y, Z applied in that order
	Center         *core.Vec3 // pivot for Scale and Rotation, defaults to the origin
	Offset         core.Vec3  // translation applied last
	SkipDegenerate bool       // drop collinear faces instead of failing
}

// NewTriangleMesh creates triangles from vertices and face indices.
// Each group of three indices forms one triangle wound A, B, C.
func NewTriangleMesh(vertices []core.Vec3, faces []int, mat material.Material, options *TriangleMeshOptions) (*TriangleMesh, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("face indices must be a multiple of 3, got %d", len(faces))
	}
	if options == nil {
		options = &TriangleMeshOptions{}
	}

	working := transformVertices(vertices, options)
	mesh := &TriangleMesh{Triangles: make([]Triangle, 0, len(faces)/3)}

	for i := 0; i < len(faces); i += 3 {
		i0, i1, i2 := faces[i], faces[i+1], faces[i+2]
		if !inRange(i0, len(working)) || !inRange(i1, len(working)) || !inRange(i2, len(working)) {
			return nil, fmt.Errorf("face %d: index out of bounds (%d, %d, %d) for %d vertices",
				i/3, i0, i1, i2, len(working))
		}

		triangle, err := NewTriangle(working[i0], working[i1], working[i2], mat)
		if err != nil {
			if options.SkipDegenerate && errors.Is(err, ErrDegenerateGeometry) {
				mesh.Skipped++
				continue
			}
			return nil, fmt.Errorf("face %d: %w", i/3, err)
		}
		mesh.Triangles = append(mesh.Triangles, triangle)
	}

	return mesh, nil
}

func inRange(index, n int) bool {
	return index >= 0 && index < n
}

func transformVertices(vertices []core.Vec3, options *TriangleMeshOptions) []core.Vec3 {
	scale := options.Scale
	if scale == 0 {
		scale = 1
	}
	if scale == 1 && options.Rotation == nil && options.Offset == (core.Vec3{}) {
		return vertices
	}

	var center core.Vec3
	if options.Center != nil {
		center = *options.Center
	}

	out := make([]core.Vec3, len(vertices))
	for i, vertex := range vertices {
		vertex = vertex.Subtract(center).Multiply(scale)
		if options.Rotation != nil {
			vertex = rotateVertex(vertex, *options.Rotation)
		}
		out[i] = vertex.Add(center).Add(options.Offset)
	}
	return out
}

// rotateVertex applies rotation around X, Y, Z axes (in that order)
func rotateVertex(vertex, rotation core.Vec3) core.Vec3 {
	if rotation.X != 0 {
		cos := math.Cos(rotation.X)
		sin := math.Sin(rotation.X)
		y := vertex.Y*cos - vertex.Z*sin
		z := vertex.Y*sin + vertex.Z*cos
		vertex = core.NewVec3(vertex.X, y, z)
	}

	if rotation.Y != 0 {
		cos := math.Cos(rotation.Y)
		sin := math.Sin(rotation.Y)
		x := vertex.X*cos + vertex.Z*sin
		z := -vertex.X*sin + vertex.Z*cos
		vertex = core.NewVec3(x, vertex.Y, z)
	}

	if rotation.Z != 0 {
		cos := math.Cos(rotation.Z)
		sin := math.Sin(rotation.Z)
		x := vertex.X*cos - vertex.Y*sin
		y := vertex.X*sin + vertex.Y*cos
		vertex = core.NewVec3(x, y, vertex.Z)
	}

	return vertex
}
