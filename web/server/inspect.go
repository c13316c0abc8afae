package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Color        [3]float64             `json:"color"` // Traced color before gamma, 0-255
	Properties   map[string]interface{} `json:"properties"`
}

// InspectResult is the primary hit through one pixel and the color traced for it
type InspectResult struct {
	Hit     bool
	Surface scene.SurfaceHit
	Color   core.Vec3
}

// inspectPixel casts the camera ray through a pixel and reports what it hits
func inspectPixel(sceneObj *scene.Scene, config scene.RenderConfig, pixelX, pixelY int) (InspectResult, error) {
	camera, err := renderer.NewCamera(sceneObj.CameraConfig)
	if err != nil {
		return InspectResult{}, err
	}

	ray, err := camera.GetRay(pixelX, pixelY, config.Width, config.Height)
	if err != nil {
		return InspectResult{}, err
	}

	color, err := sceneObj.TraceRay(ray, config.MaxDepth)
	if err != nil {
		return InspectResult{}, err
	}

	hit, isHit, err := sceneObj.IntersectsAny(ray)
	if err != nil {
		return InspectResult{}, err
	}
	return InspectResult{Hit: isHit, Surface: hit, Color: color}, nil
}

// extractMaterialInfo describes the shading parameters of a material
func extractMaterialInfo(mat material.Material) map[string]interface{} {
	r, g, b := renderer.ToRGB(mat.Color)
	properties := map[string]interface{}{
		"albedo":       vecToArray(mat.Color),
		"color":        fmt.Sprintf("#%02x%02x%02x", r, g, b),
		"reflectivity": mat.Reflectivity,
	}
	if mat.HasSpecular() {
		properties["specular"] = mat.Specular
	} else {
		properties["specular"] = "none"
	}
	return properties
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(p geometry.Primitive) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := p.(type) {
	case geometry.Sphere:
		properties["center"] = vecToArray(geom.Center)
		properties["radius"] = geom.Radius
	case geometry.Plane:
		properties["point"] = vecToArray(geom.Point)
		properties["normal"] = vecToArray(geom.Normal)
	case geometry.Triangle:
		properties["vertices"] = [3][3]float64{vecToArray(geom.A), vecToArray(geom.B), vecToArray(geom.C)}
		properties["normal"] = vecToArray(geom.Normal())
		properties["centroid"] = vecToArray(geom.Centroid())
	}

	return string(geometry.KindOf(p)), properties
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, err := scene.Resolve(req.Scene, core.NopLogger{})
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	rt, err := renderer.NewRaytracer(sceneObj, req.overrides(), nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	config := rt.Config()

	if pixelX < 0 || pixelX >= config.Width || pixelY < 0 || pixelY >= config.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	result, err := inspectPixel(sceneObj, config, pixelX, pixelY)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false, Color: vecToArray(result.Color)})
		return
	}

	hit := result.Surface
	geometryType, geometryProps := extractGeometryInfo(hit.Primitive)
	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		GeometryType: geometryType,
		Point:        vecToArray(hit.Point),
		Normal:       vecToArray(hit.Normal),
		Distance:     hit.T,
		FrontFace:    hit.FrontFace,
		Color:        vecToArray(result.Color),
		Properties: map[string]interface{}{
			"material": extractMaterialInfo(hit.Primitive.Surface()),
			"geometry": geometryProps,
		},
	})
}
