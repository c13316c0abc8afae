package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		// Built-in scenes
		{"default scene", "default", false},
		{"spheres scene", "spheres", false},
		{"mirrors scene", "mirrors", false},

		// Scene files (by name)
		{"mirror-corridor file", "mirror-corridor", false},
		{"simple-sphere file", "simple-sphere", false},
		{"pyramid mesh file", "pyramid", false},

		// Scene files (by path)
		{"direct scene path", "scenes/simple-sphere.scene", false},

		// Invalid scenes
		{"unknown scene", "nonexistent", true},
		{"invalid scene path", "scenes/nonexistent.scene", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene, err := createScene(tt.sceneType, core.NopLogger{})

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene type '%s', but got none", tt.sceneType)
				}
				if scene != nil {
					t.Errorf("Expected nil scene for invalid scene type '%s', got %v", tt.sceneType, scene.Name)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
			}
			if scene.RenderConfig.Width <= 0 || scene.RenderConfig.Height <= 0 {
				t.Errorf("Scene size should be positive, got %+v", scene.RenderConfig)
			}
			if scene.GetPrimitiveCount() == 0 {
				t.Errorf("Scene %s has no primitives", scene.Name)
			}
		})
	}
}

func TestCreateOutputDir(t *testing.T) {
	tests := []struct {
		name      string
		sceneType string
		expected  string
	}{
		{"default scene", "default", filepath.Join("output", "default")},
		{"mirrors scene", "mirrors", filepath.Join("output", "mirrors")},
		{"scene file by name", "simple-sphere", filepath.Join("output", "simple-sphere")},
		{"scene file path", "scenes/mirror-corridor.scene", filepath.Join("output", "mirror-corridor")},
		{"nested scene path", "scenes/subdir/my-scene.scene", filepath.Join("output", "my-scene")},
		{"unknown scene", "unknown", filepath.Join("output", "file-scene")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := createOutputDir(tt.sceneType); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestRun_WritesImage(t *testing.T) {
	for _, format := range []string{"png", "ppm"} {
		t.Run(format, func(t *testing.T) {
			filename := filepath.Join(t.TempDir(), "render."+format)
			overrides := renderer.Overrides{Width: 8, Height: 6, MaxDepth: renderer.Depth(2)}

			if err := run("spheres", overrides, format, filename, core.NopLogger{}); err != nil {
				t.Fatalf("run: %v", err)
			}

			data, err := os.ReadFile(filename)
			if err != nil {
				t.Fatalf("Reading output: %v", err)
			}
			if format == "ppm" && !strings.HasPrefix(string(data), "P3\n8 6\n255\n") {
				t.Errorf("Unexpected PPM header: %q", string(data[:min(len(data), 20)]))
			}
			if format == "png" && !strings.HasPrefix(string(data), "\x89PNG") {
				t.Error("Expected PNG signature")
			}
		})
	}
}

func TestCliOverrides(t *testing.T) {
	tests := []struct {
		name          string
		depth         int
		expectedDepth *int
	}{
		{"default flag keeps scene depth", -1, nil},
		{"zero depth is passed through", 0, renderer.Depth(0)},
		{"positive depth is passed through", 4, renderer.Depth(4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overrides := cliOverrides(8, 6, tt.depth)
			if overrides.Width != 8 || overrides.Height != 6 {
				t.Errorf("Expected 8x6, got %dx%d", overrides.Width, overrides.Height)
			}
			switch {
			case tt.expectedDepth == nil && overrides.MaxDepth != nil:
				t.Errorf("Expected no depth override, got %d", *overrides.MaxDepth)
			case tt.expectedDepth != nil && (overrides.MaxDepth == nil || *overrides.MaxDepth != *tt.expectedDepth):
				t.Errorf("Expected depth override %d, got %v", *tt.expectedDepth, overrides.MaxDepth)
			}
		})
	}
}

func TestRun_ZeroDepth(t *testing.T) {
	// The mirrors scene renders with depth 0 as well as with its own depth
	filename := filepath.Join(t.TempDir(), "render.ppm")
	if err := run("mirrors", cliOverrides(4, 3, 0), "ppm", filename, core.NopLogger{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filename); err != nil {
		t.Errorf("Expected output file: %v", err)
	}
}

func TestRun_UnknownScene(t *testing.T) {
	err := run("nonexistent", renderer.Overrides{}, "png", filepath.Join(t.TempDir(), "x.png"), core.NopLogger{})
	if err == nil {
		t.Error("Expected error for unknown scene")
	}
}
