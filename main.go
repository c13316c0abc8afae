package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func main() {
	sceneType := flag.String("scene", "default", "Built-in scene name, scene file name in scenes/, or path to a .scene file")
	width := flag.Int("width", 0, "Image width (0 uses the scene's setting)")
	height := flag.Int("height", 0, "Image height (0 uses the scene's setting)")
	depth := flag.Int("depth", -1, "Maximum reflection depth, 0 disables reflections (negative uses the scene's setting)")
	format := flag.String("format", "png", "Output format: 'png' or 'ppm'")
	output := flag.String("output", "", "Output file (default output/<scene>/render_<timestamp>.<format>)")
	list := flag.Bool("list", false, "List available scenes and exit")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	logger := renderer.NewDefaultLogger()

	if *help {
		fmt.Println("Whitted Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		printScenes(logger)
		fmt.Println()
		fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.<format>")
		return
	}

	if *list {
		printScenes(logger)
		return
	}

	if *format != "png" && *format != "ppm" {
		fmt.Printf("Unknown output format: %s\n", *format)
		os.Exit(2)
	}

	if err := run(*sceneType, cliOverrides(*width, *height, *depth), *format, *output, logger); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// cliOverrides maps flag values to render overrides. A negative depth keeps
// the scene's own depth.
func cliOverrides(width, height, depth int) renderer.Overrides {
	overrides := renderer.Overrides{Width: width, Height: height}
	if depth >= 0 {
		overrides.MaxDepth = renderer.Depth(depth)
	}
	return overrides
}

func run(sceneType string, overrides renderer.Overrides, format, output string, logger core.Logger) error {
	logger.Printf("Starting Whitted Raytracer...\n")

	selectedScene, err := createScene(sceneType, logger)
	if err != nil {
		return err
	}

	rt, err := renderer.NewRaytracer(selectedScene, overrides, logger)
	if err != nil {
		return err
	}

	// Ctrl+C stops the render between rows
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fb, _, err := rt.Render(ctx)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	filename := output
	if filename == "" {
		outputDir := createOutputDir(sceneType)
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
		timestamp := time.Now().Format("20060102_150405")
		filename = filepath.Join(outputDir, fmt.Sprintf("render_%s_%s.%s", timestamp, rt.RunID()[:8], format))
	}

	switch format {
	case "ppm":
		err = renderer.SavePPM(filename, fb)
	default:
		err = renderer.SavePNG(filename, fb)
	}
	if err != nil {
		return err
	}

	logger.Printf("Render saved as %s\n", filename)
	return nil
}

// createScene resolves a built-in scene name, a scene file name or a scene file path
func createScene(sceneType string, logger core.Logger) (*scene.Scene, error) {
	s, err := scene.Resolve(sceneType, logger)
	if err != nil {
		return nil, fmt.Errorf("%w (use -list to see available scenes)", err)
	}
	logger.Printf("Using scene %s\n", s.Summary())
	return s, nil
}

// createOutputDir returns output/<scene> for built-in scenes and scene files,
// and output/file-scene for anything else
func createOutputDir(sceneType string) string {
	if _, err := scene.NewBuiltInScene(sceneType); err == nil {
		return filepath.Join("output", sceneType)
	}

	base := strings.TrimSuffix(filepath.Base(sceneType), loaders.SceneFileExt)
	if strings.HasSuffix(sceneType, loaders.SceneFileExt) {
		return filepath.Join("output", base)
	}
	if _, err := os.Stat(filepath.Join("scenes", sceneType+loaders.SceneFileExt)); err == nil {
		return filepath.Join("output", base)
	}
	return filepath.Join("output", "file-scene")
}

func printScenes(logger core.Logger) {
	groups, err := scene.ListAllScenes(logger)
	if err != nil {
		fmt.Printf("Error listing scenes: %v\n", err)
		return
	}
	for _, group := range groups {
		fmt.Printf("%s:\n", group.Name)
		for _, info := range group.Scenes {
			id := info.ID
			if info.Type == "file" {
				id = strings.TrimSuffix(filepath.Base(info.FilePath), loaders.SceneFileExt)
			}
			if info.Description != "" {
				fmt.Printf("  %-18s %s - %s\n", id, info.Name, info.Description)
			} else {
				fmt.Printf("  %-18s %s\n", id, info.Name)
			}
		}
	}
}
