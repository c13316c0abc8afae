package scene

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewFileScene loads a .scene file and builds a Scene from it
func NewFileScene(path string, logger core.Logger) (*Scene, error) {
	sf, err := loaders.LoadSceneFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene file %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if info, err := ParseSceneMetadata(path); err == nil && info.Name != "" {
		name = info.Name
	}

	return BuildFileScene(name, sf, logger)
}

// BuildFileScene converts parsed statements into a Scene. Shapes use the most
// recent Material statement, or the default material before the first one.
func BuildFileScene(name string, sf *loaders.SceneFile, logger core.Logger) (*Scene, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}

	s := New(name)

	if sf.Film != nil {
		if err := convertFilm(sf.Film, &s.RenderConfig); err != nil {
			return nil, err
		}
	}
	if sf.Camera != nil {
		if err := convertCamera(sf.Camera, &s.CameraConfig); err != nil {
			return nil, err
		}
	}
	if sf.Background != nil {
		color, ok, err := sf.Background.GetColorParam("color")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, missingParam(sf.Background, "color")
		}
		s.Background = color
	}

	current := material.Default()
	for i := range sf.World {
		stmt := &sf.World[i]
		switch stmt.Type {
		case "Material":
			mat, err := convertMaterial(stmt)
			if err != nil {
				return nil, err
			}
			current = mat
		case "Shape":
			if err := addShape(s, sf.Dir, stmt, current, logger); err != nil {
				return nil, err
			}
		case "LightSource":
			light, err := convertLight(stmt)
			if err != nil {
				return nil, err
			}
			s.AddLight(light)
		default:
			return nil, lineError(stmt, fmt.Errorf("unexpected %s statement in world", stmt.Type))
		}
	}

	if len(s.Lights()) == 0 {
		logger.Printf("Warning: scene %s has no lights, everything will render black\n", name)
	}
	logger.Printf("Loaded scene %s\n", s.Summary())
	return s, nil
}

func convertFilm(stmt *loaders.Statement, config *RenderConfig) error {
	for name, target := range map[string]*int{
		"width":    &config.Width,
		"height":   &config.Height,
		"maxdepth": &config.MaxDepth,
	} {
		value, ok, err := stmt.GetIntParam(name)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if value < 0 || (value == 0 && name != "maxdepth") {
			return lineError(stmt, fmt.Errorf("film %s must be positive, got %d", name, value))
		}
		*target = value
	}
	return nil
}

func convertCamera(stmt *loaders.Statement, config *CameraConfig) error {
	position, ok, err := stmt.GetVec3Param("position")
	if err != nil {
		return err
	}
	if ok {
		config.Position = position
	}

	for name, target := range map[string]*float64{
		"viewportwidth":  &config.ViewportWidth,
		"viewportheight": &config.ViewportHeight,
		"distance":       &config.Distance,
	} {
		value, ok, err := stmt.GetFloatParam(name)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if value <= 0 {
			return lineError(stmt, fmt.Errorf("camera %s must be positive, got %g", name, value))
		}
		*target = value
	}
	return nil
}

func convertMaterial(stmt *loaders.Statement) (material.Material, error) {
	def := material.Default()

	color, ok, err := stmt.GetColorParam("color")
	if err != nil {
		return material.Material{}, err
	}
	if !ok {
		color = def.Color
	}

	specular := material.NoSpecular
	if param, ok := stmt.Parameters["specular"]; ok && param.Type == "string" {
		if value, _ := stmt.GetStringParam("specular"); value != "none" {
			return material.Material{}, lineError(stmt, fmt.Errorf("specular must be a number or \"none\", got %q", value))
		}
	} else {
		value, ok, err := stmt.GetFloatParam("specular")
		if err != nil {
			return material.Material{}, err
		}
		if ok {
			specular = value
		}
	}

	reflectivity, _, err := stmt.GetFloatParam("reflectivity")
	if err != nil {
		return material.Material{}, err
	}

	mat, err := material.NewMaterial(color, specular, reflectivity)
	if err != nil {
		return material.Material{}, lineError(stmt, err)
	}
	return mat, nil
}

func addShape(s *Scene, dir string, stmt *loaders.Statement, mat material.Material, logger core.Logger) error {
	var err error
	switch stmt.Subtype {
	case "sphere":
		center, radius, perr := sphereParams(stmt)
		if perr != nil {
			return perr
		}
		err = s.AddSphere(center, radius, mat)
	case "plane":
		point, normal, perr := planeParams(stmt)
		if perr != nil {
			return perr
		}
		err = s.AddPlane(point, normal, mat)
	case "triangle":
		values, ok, perr := stmt.GetFloatsParam("P")
		if perr != nil {
			return perr
		}
		if !ok {
			return missingParam(stmt, "P")
		}
		if len(values) != 9 {
			return lineError(stmt, fmt.Errorf("triangle P expects 9 values, got %d", len(values)))
		}
		err = s.AddTriangle(
			core.NewVec3(values[0], values[1], values[2]),
			core.NewVec3(values[3], values[4], values[5]),
			core.NewVec3(values[6], values[7], values[8]),
			mat)
	case "trianglemesh", "plymesh":
		return addMesh(s, dir, stmt, mat, logger)
	case "box":
		center, size, rotation, perr := boxParams(stmt)
		if perr != nil {
			return perr
		}
		err = s.AddBox(center, size, rotation, mat)
	default:
		return lineError(stmt, fmt.Errorf("unknown shape type %q", stmt.Subtype))
	}
	if err != nil {
		return lineError(stmt, err)
	}
	return nil
}

func sphereParams(stmt *loaders.Statement) (core.Vec3, float64, error) {
	center, ok, err := stmt.GetVec3Param("center")
	if err != nil {
		return core.Vec3{}, 0, err
	}
	if !ok {
		return core.Vec3{}, 0, missingParam(stmt, "center")
	}
	radius, ok, err := stmt.GetFloatParam("radius")
	if err != nil {
		return core.Vec3{}, 0, err
	}
	if !ok {
		return core.Vec3{}, 0, missingParam(stmt, "radius")
	}
	return center, radius, nil
}

func planeParams(stmt *loaders.Statement) (core.Vec3, core.Vec3, error) {
	point, ok, err := stmt.GetVec3Param("point")
	if err != nil {
		return core.Vec3{}, core.Vec3{}, err
	}
	if !ok {
		return core.Vec3{}, core.Vec3{}, missingParam(stmt, "point")
	}
	normal, ok, err := stmt.GetVec3Param("N")
	if err != nil {
		return core.Vec3{}, core.Vec3{}, err
	}
	if !ok {
		return core.Vec3{}, core.Vec3{}, missingParam(stmt, "N")
	}
	return point, normal, nil
}

func convertLight(stmt *loaders.Statement) (lights.Light, error) {
	intensity, ok, err := stmt.GetFloatParam("intensity")
	if err != nil {
		return lights.Light{}, err
	}
	if !ok {
		return lights.Light{}, missingParam(stmt, "intensity")
	}

	var light lights.Light
	switch stmt.Subtype {
	case "ambient":
		light, err = lights.NewAmbientLight(intensity)
	case "point":
		position, ok, perr := stmt.GetVec3Param("position")
		if perr != nil {
			return lights.Light{}, perr
		}
		if !ok {
			return lights.Light{}, missingParam(stmt, "position")
		}
		light, err = lights.NewPointLight(intensity, position)
	case "directional":
		direction, ok, perr := stmt.GetVec3Param("direction")
		if perr != nil {
			return lights.Light{}, perr
		}
		if !ok {
			return lights.Light{}, missingParam(stmt, "direction")
		}
		light, err = lights.NewDirectionalLight(intensity, direction)
	default:
		return lights.Light{}, lineError(stmt, fmt.Errorf("unknown light type %q", stmt.Subtype))
	}
	if err != nil {
		return lights.Light{}, lineError(stmt, err)
	}
	return light, nil
}

func missingParam(stmt *loaders.Statement, name string) error {
	return lineError(stmt, fmt.Errorf("%s %q is missing parameter %q", stmt.Type, stmt.Subtype, name))
}

func lineError(stmt *loaders.Statement, err error) error {
	return &loaders.ParseError{Line: stmt.Line, Err: err}
}

// boxParams reads center and half-extent size, with rotation in degrees
func boxParams(stmt *loaders.Statement) (core.Vec3, core.Vec3, core.Vec3, error) {
	center, ok, err := stmt.GetVec3Param("center")
	if err != nil {
		return core.Vec3{}, core.Vec3{}, core.Vec3{}, err
	}
	if !ok {
		return core.Vec3{}, core.Vec3{}, core.Vec3{}, missingParam(stmt, "center")
	}
	size, ok, err := stmt.GetVec3Param("size")
	if err != nil {
		return core.Vec3{}, core.Vec3{}, core.Vec3{}, err
	}
	if !ok {
		return core.Vec3{}, core.Vec3{}, core.Vec3{}, missingParam(stmt, "size")
	}
	rotate, _, err := stmt.GetVec3Param("rotate")
	if err != nil {
		return core.Vec3{}, core.Vec3{}, core.Vec3{}, err
	}
	return center, size, rotate.Multiply(math.Pi / 180), nil
}

// addMesh handles inline "trianglemesh" shapes and "plymesh" shapes that
// reference a PLY file next to the scene file
func addMesh(s *Scene, dir string, stmt *loaders.Statement, mat material.Material, logger core.Logger) error {
	var vertices []core.Vec3
	var faces []int

	if stmt.Subtype == "plymesh" {
		filename, ok := stmt.GetStringParam("filename")
		if !ok {
			return missingParam(stmt, "filename")
		}
		path, err := meshPath(dir, filename)
		if err != nil {
			return lineError(stmt, err)
		}
		data, err := loaders.LoadPLY(path)
		if err != nil {
			return lineError(stmt, err)
		}
		vertices, faces = data.Vertices, data.Faces
	} else {
		points, ok, err := stmt.GetFloatsParam("P")
		if err != nil {
			return err
		}
		if !ok {
			return missingParam(stmt, "P")
		}
		if len(points)%3 != 0 {
			return lineError(stmt, fmt.Errorf("trianglemesh P expects a multiple of 3 values, got %d", len(points)))
		}
		for i := 0; i < len(points); i += 3 {
			vertices = append(vertices, core.NewVec3(points[i], points[i+1], points[i+2]))
		}
		faces, ok, err = stmt.GetIntsParam("indices")
		if err != nil {
			return err
		}
		if !ok {
			return missingParam(stmt, "indices")
		}
	}

	options, err := meshOptions(stmt)
	if err != nil {
		return err
	}
	mesh, err := s.AddTriangleMesh(vertices, faces, mat, options)
	if err != nil {
		return lineError(stmt, err)
	}
	if mesh.Skipped > 0 {
		logger.Printf("Warning: line %d: skipped %d degenerate mesh faces\n", stmt.Line, mesh.Skipped)
	}
	return nil
}

// meshOptions reads the optional placement parameters. Rotation is given in
// degrees and applied about the mesh center parameter.
func meshOptions(stmt *loaders.Statement) (*geometry.TriangleMeshOptions, error) {
	options := &geometry.TriangleMeshOptions{}

	scale, ok, err := stmt.GetFloatParam("scale")
	if err != nil {
		return nil, err
	}
	if ok {
		if scale <= 0 {
			return nil, lineError(stmt, fmt.Errorf("mesh scale must be positive, got %g", scale))
		}
		options.Scale = scale
	}

	rotate, ok, err := stmt.GetVec3Param("rotate")
	if err != nil {
		return nil, err
	}
	if ok {
		radians := rotate.Multiply(math.Pi / 180)
		options.Rotation = &radians
	}

	center, ok, err := stmt.GetVec3Param("center")
	if err != nil {
		return nil, err
	}
	if ok {
		options.Center = &center
	}

	translate, _, err := stmt.GetVec3Param("translate")
	if err != nil {
		return nil, err
	}
	options.Offset = translate

	if value, ok := stmt.GetStringParam("degenerate"); ok {
		switch value {
		case "skip":
			options.SkipDegenerate = true
		case "error":
		default:
			return nil, lineError(stmt, fmt.Errorf("degenerate must be \"skip\" or \"error\", got %q", value))
		}
	}

	return options, nil
}

// meshPath resolves a mesh file relative to the scene file, staying inside
// that directory
func meshPath(dir, filename string) (string, error) {
	if filepath.IsAbs(filename) || strings.Contains(filepath.ToSlash(filename), "..") {
		return "", fmt.Errorf("mesh filename %q must be relative to the scene file without traversal", filename)
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".ply") {
		return "", fmt.Errorf("mesh filename %q must be a .ply file", filename)
	}
	return filepath.Join(dir, filename), nil
}
