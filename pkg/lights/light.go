package lights

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// LightType tags the light variant
type LightType string

const (
	LightTypeAmbient     LightType = "ambient"
	LightTypePoint       LightType = "point"
	LightTypeDirectional LightType = "directional"
)

// ErrInvalidLight is returned for lights that cannot illuminate anything sensibly
var ErrInvalidLight = errors.New("invalid light")

// Light is one of ambient, point or directional. Position is only meaningful
// for point lights and Direction only for directional lights; Direction is
// the vector pointing from the scene toward the light.
type Light struct {
	Type      LightType
	Intensity float64
	Position  core.Vec3
	Direction core.Vec3
}

// NewAmbientLight creates a light that contributes uniformly everywhere
func NewAmbientLight(intensity float64) (Light, error) {
	if err := validateIntensity(intensity); err != nil {
		return Light{}, err
	}
	return Light{Type: LightTypeAmbient, Intensity: intensity}, nil
}

// NewPointLight creates a light radiating from position
func NewPointLight(intensity float64, position core.Vec3) (Light, error) {
	if err := validateIntensity(intensity); err != nil {
		return Light{}, err
	}
	if !position.IsFinite() {
		return Light{}, fmt.Errorf("%w: point light position %v", ErrInvalidLight, position)
	}
	return Light{Type: LightTypePoint, Intensity: intensity, Position: position}, nil
}

// NewDirectionalLight creates a light infinitely far away along direction
func NewDirectionalLight(intensity float64, direction core.Vec3) (Light, error) {
	if err := validateIntensity(intensity); err != nil {
		return Light{}, err
	}
	if _, err := direction.Normalize(); err != nil {
		return Light{}, fmt.Errorf("%w: directional light: %w", ErrInvalidLight, err)
	}
	return Light{Type: LightTypeDirectional, Intensity: intensity, Direction: direction}, nil
}

func validateIntensity(intensity float64) error {
	if !(intensity >= 0) || math.IsInf(intensity, 1) {
		return fmt.Errorf("%w: intensity %g must be a finite value >= 0", ErrInvalidLight, intensity)
	}
	return nil
}

// CastsShadows reports whether occluders can block this light
func (l Light) CastsShadows() bool {
	return l.Type != LightTypeAmbient
}

// Toward returns the unit direction from point to the light and the distance
// along it at which the light sits. Directional lights are infinitely far.
// Ambient lights have no direction.
func (l Light) Toward(point core.Vec3) (core.Vec3, float64, error) {
	switch l.Type {
	case LightTypePoint:
		toLight := l.Position.Subtract(point)
		dir, err := toLight.Normalize()
		if err != nil {
			return core.Vec3{}, 0, fmt.Errorf("point light at %v coincides with shading point: %w", l.Position, err)
		}
		return dir, toLight.Length(), nil
	case LightTypeDirectional:
		dir, err := l.Direction.Normalize()
		if err != nil {
			return core.Vec3{}, 0, fmt.Errorf("directional light: %w", err)
		}
		return dir, math.Inf(1), nil
	case LightTypeAmbient:
		return core.Vec3{}, 0, fmt.Errorf("ambient light has no direction")
	default:
		return core.Vec3{}, 0, fmt.Errorf("unknown light type %q", l.Type)
	}
}
