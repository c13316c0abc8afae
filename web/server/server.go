package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Request limits
const (
	minImageSize = 1
	maxImageSize = 2000
	maxDepth     = 50
	consoleSize  = 256
)

// Server renders scenes over HTTP
type Server struct {
	port int
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port}
}

// RenderRequest holds the parsed query of a render or inspect request
type RenderRequest struct {
	Scene  string `json:"scene"`  // Scene ID, scene file name or .scene path
	Width  int    `json:"width"`  // Image width, 0 keeps the scene's
	Height int    `json:"height"` // Image height, 0 keeps the scene's
	Depth  int    `json:"depth"`  // Reflection depth, -1 keeps the scene's
	Format string `json:"format"` // "png" or "json"
}

// RenderResponse is returned by /api/render?format=json
type RenderResponse struct {
	RunID     string           `json:"runId"`
	ImageData string           `json:"imageData"` // Base64 encoded PNG
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	Stats     Stats            `json:"stats"`
	Console   []ConsoleMessage `json:"console"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels      int     `json:"totalPixels"`
	HitPixels        int     `json:"hitPixels"`
	ReflectionRays   int     `json:"reflectionRays"`
	ShadowRays       int     `json:"shadowRays"`
	MaxBounce        int     `json:"maxBounce"`
	ElapsedMs        int64   `json:"elapsedMs"`
	AverageLuminance float64 `json:"averageLuminance"`
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in and file scenes grouped by category
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	groups, err := scene.ListAllScenes(core.NopLogger{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"groups": groups})
}

// handleSceneConfig returns a scene's recommended settings and the request limits
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := scene.Resolve(sceneName, core.NopLogger{})
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"scene":   sceneName,
		"summary": sceneObj.Summary(),
		"defaults": map[string]interface{}{
			"width":          sceneObj.RenderConfig.Width,
			"height":         sceneObj.RenderConfig.Height,
			"maxDepth":       sceneObj.RenderConfig.MaxDepth,
			"cameraPosition": vecToArray(sceneObj.CameraConfig.Position),
		},
		"limits": map[string]interface{}{
			"width":    map[string]int{"min": minImageSize, "max": maxImageSize},
			"height":   map[string]int{"min": minImageSize, "max": maxImageSize},
			"maxDepth": map[string]int{"min": 0, "max": maxDepth},
		},
	})
}

// handleRender renders synchronously and returns a PNG, or JSON with the
// PNG, stats and log output when format=json
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	consoleChan := make(chan ConsoleMessage, consoleSize)
	logger := NewWebLogger(req.Scene, consoleChan)

	sceneObj, err := scene.Resolve(req.Scene, logger)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	rt, err := renderer.NewRaytracer(sceneObj, req.overrides(), logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The request context cancels the render when the client goes away
	fb, stats, err := rt.Render(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, context.Canceled) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, "Render error: "+err.Error())
		return
	}

	img := fb.ToImage()
	if req.Format == "png" {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("X-Render-Id", stats.RunID)
		w.WriteHeader(http.StatusOK)
		if err := png.Encode(w, img); err != nil {
			log.Printf("Error writing PNG: %v", err)
		}
		return
	}

	imageData, err := imageToBase64PNG(img)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, RenderResponse{
		RunID:     stats.RunID,
		ImageData: imageData,
		Width:     fb.Width,
		Height:    fb.Height,
		Stats: Stats{
			TotalPixels:      stats.TotalPixels,
			HitPixels:        stats.HitPixels,
			ReflectionRays:   stats.ReflectionRays,
			ShadowRays:       stats.ShadowRays,
			MaxBounce:        stats.MaxBounce,
			ElapsedMs:        stats.Elapsed.Milliseconds(),
			AverageLuminance: stats.AverageLuminance,
		},
		Console: drainConsole(consoleChan),
	})
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene"), Format: query.Get("format")}
	if req.Scene == "" {
		req.Scene = "default"
	}
	if req.Format == "" {
		req.Format = "png"
	}
	if req.Format != "png" && req.Format != "json" {
		return nil, fmt.Errorf("format must be png or json, got: %s", req.Format)
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(query, "depth", -1, 0, maxDepth); err != nil {
		return nil, err
	}

	if req.Width*req.Height > 1000*1000 {
		log.Printf("Render warning: %dx%d image may render slowly", req.Width, req.Height)
	}

	return req, nil
}

// overrides converts the request into render overrides
func (req *RenderRequest) overrides() renderer.Overrides {
	overrides := renderer.Overrides{Width: req.Width, Height: req.Height}
	if req.Depth >= 0 {
		overrides.MaxDepth = renderer.Depth(req.Depth)
	}
	return overrides
}

// sceneErrorStatus maps a scene.Resolve failure to an HTTP status: unknown
// scenes are 404, malformed scene files 400
func sceneErrorStatus(err error) int {
	if errors.Is(err, scene.ErrUnknownScene) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func vecToArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
