package material

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// NoSpecular marks a surface without a specular highlight
const NoSpecular = -1.0

// ErrInvalidMaterial is returned for out-of-range material attributes
var ErrInvalidMaterial = errors.New("invalid material")

// Material describes how a surface is shaded: its base color (0-255 RGB),
// the Phong specular exponent (or NoSpecular) and the fraction of the final
// color taken from the mirror reflection.
type Material struct {
	Color        core.Vec3
	Specular     float64
	Reflectivity float64
}

// NewMaterial validates and creates a material
func NewMaterial(color core.Vec3, specular, reflectivity float64) (Material, error) {
	if specular != NoSpecular && specular < 0 {
		return Material{}, fmt.Errorf("%w: specular exponent %g must be >= 0 or NoSpecular", ErrInvalidMaterial, specular)
	}
	if reflectivity < 0 || reflectivity > 1 {
		return Material{}, fmt.Errorf("%w: reflectivity %g outside [0, 1]", ErrInvalidMaterial, reflectivity)
	}
	if !color.IsFinite() {
		return Material{}, fmt.Errorf("%w: color %v is not finite", ErrInvalidMaterial, color)
	}
	return Material{Color: color, Specular: specular, Reflectivity: reflectivity}, nil
}

// NewMatte creates a material with no highlight and no reflection
func NewMatte(color core.Vec3) Material {
	return Material{Color: color, Specular: NoSpecular}
}

// Default is used for shapes that never had a material assigned
func Default() Material {
	return NewMatte(core.NewVec3(200, 200, 200))
}

// HasSpecular reports whether the surface contributes a specular term
func (m Material) HasSpecular() bool {
	return m.Specular != NoSpecular
}

// IsReflective reports whether tracing continues past this surface
func (m Material) IsReflective() bool {
	return m.Reflectivity > 0
}
