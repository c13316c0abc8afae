package geometry

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// boxCorners are the 8 corners of a unit box centered at the origin
var boxCorners = [8]core.Vec3{
	core.NewVec3(-1, -1, -1), // 0: left-bottom-back
	core.NewVec3(1, -1, -1),  // 1: right-bottom-back
	core.NewVec3(1, 1, -1),   // 2: right-top-back
	core.NewVec3(-1, 1, -1),  // 3: left-top-back
	core.NewVec3(-1, -1, 1),  // 4: left-bottom-front
	core.NewVec3(1, -1, 1),   // 5: right-bottom-front
	core.NewVec3(1, 1, 1),    // 6: right-top-front
	core.NewVec3(-1, 1, 1),   // 7: left-top-front
}

// boxFaces splits each side into two triangles wound outward
var boxFaces = []int{
	4, 5, 6, 4, 6, 7, // front (Z+)
	1, 0, 3, 1, 3, 2, // back (Z-)
	0, 4, 7, 0, 7, 3, // left (X-)
	5, 1, 2, 5, 2, 6, // right (X+)
	7, 6, 2, 7, 2, 3, // top (Y+)
	0, 1, 5, 0, 5, 4, // bottom (Y-)
}

// NewBox creates the 12 triangles of a box.
// Size represents half-extents (so a size of (1,1,1) creates a 2x2x2 box).
// Rotation is in radians around X, Y, Z axes (applied in that order) about the center.
func NewBox(center, size, rotation core.Vec3, mat material.Material) (*TriangleMesh, error) {
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return nil, fmt.Errorf("%w: box half-extents must be positive, got %v", ErrDegenerateGeometry, size)
	}

	vertices := make([]core.Vec3, len(boxCorners))
	for i, corner := range boxCorners {
		vertices[i] = core.NewVec3(corner.X*size.X, corner.Y*size.Y, corner.Z*size.Z)
	}

	return NewTriangleMesh(vertices, boxFaces, mat, &TriangleMeshOptions{
		Rotation: &rotation,
		Offset:   center,
	})
}
