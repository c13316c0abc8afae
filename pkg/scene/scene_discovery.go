package scene

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
)

const (
	BuiltInGroup = "Built-in Scenes"
	FileGroup    = "Scene Files"
)

// ErrUnknownScene is returned by Resolve when a name matches neither a
// built-in scene nor a scene file
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Name accepted by -scene
	Name        string `json:"name"`        // Display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to the .scene file (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// builtInScenes lists the scenes compiled into the binary
var builtInScenes = []SceneInfo{
	{
		ID:          "default",
		Name:        "Default Scene",
		Description: "Walled box with triangles, spheres and a mirror triangle",
		Group:       BuiltInGroup,
		Type:        "builtin",
	},
	{
		ID:          "spheres",
		Name:        "Spheres",
		Description: "Three reflective spheres on a giant sphere floor",
		Group:       BuiltInGroup,
		Type:        "builtin",
	},
	{
		ID:          "mirrors",
		Name:        "Facing Mirrors",
		Description: "Two spheres between parallel mirrors",
		Group:       BuiltInGroup,
		Type:        "builtin",
	},
}

// NewBuiltInScene returns the built-in scene with the given ID
func NewBuiltInScene(id string) (*Scene, error) {
	switch id {
	case "default":
		return NewDefaultScene()
	case "spheres":
		return NewSpheresScene()
	case "mirrors":
		return NewMirrorsScene()
	default:
		return nil, fmt.Errorf("unknown built-in scene %q", id)
	}
}

// Resolve returns a built-in scene by ID, scenes/<name>.scene by name, or
// the .scene file at an explicit path
func Resolve(name string, logger core.Logger) (*Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("scene name cannot be empty")
	}
	if s, err := NewBuiltInScene(name); err == nil {
		return s, nil
	}

	path := name
	if !strings.HasSuffix(path, loaders.SceneFileExt) {
		path = filepath.Join(loaders.ScenesDir, name+loaders.SceneFileExt)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScene, name)
	}
	return NewFileScene(path, logger)
}

// ListFileScenes scans the scenes directory for .scene files
func ListFileScenes(logger core.Logger) ([]SceneInfo, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}

	// Try different possible paths for scenes directory
	var scenesDir string
	for _, path := range []string{"scenes", "../scenes", "../../scenes"} {
		if _, err := os.Stat(path); err == nil {
			scenesDir = path
			break
		}
	}
	if scenesDir == "" {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(scenesDir, "*"+loaders.SceneFileExt))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		info, err := ParseSceneMetadata(filePath)
		if err != nil {
			logger.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// ParseSceneMetadata extracts metadata from the header comments of a scene file
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := SceneInfo{
		ID:       filePath,
		Name:     titleCase(nameWithoutExt),
		Group:    FileGroup,
		Type:     "file",
		FilePath: filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return info, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		// Metadata lives in the leading comment block
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		switch {
		case strings.HasPrefix(content, "Scene:"):
			info.Name = strings.TrimSpace(strings.TrimPrefix(content, "Scene:"))
		case strings.HasPrefix(content, "Description:"):
			info.Description = strings.TrimSpace(strings.TrimPrefix(content, "Description:"))
		case strings.HasPrefix(content, "Group:"):
			info.Group = strings.TrimSpace(strings.TrimPrefix(content, "Group:"))
		}
	}

	return info, scanner.Err()
}

// ListAllScenes returns built-in and file scenes grouped by category, built-ins first
func ListAllScenes(logger core.Logger) ([]SceneGroup, error) {
	fileScenes, err := ListFileScenes(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to list scene files: %w", err)
	}

	all := append(append([]SceneInfo{}, builtInScenes...), fileScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, info := range all {
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	var groupNames []string
	for name := range groupMap {
		if name != BuiltInGroup {
			groupNames = append(groupNames, name)
		}
	}
	sort.Strings(groupNames)

	var groups []SceneGroup
	if builtIn, exists := groupMap[BuiltInGroup]; exists {
		groups = append(groups, SceneGroup{Name: BuiltInGroup, Scenes: builtIn})
	}
	for _, name := range groupNames {
		groups = append(groups, SceneGroup{Name: name, Scenes: groupMap[name]})
	}
	return groups, nil
}

// titleCase converts a filename-style string to title case
// e.g., "mirror-corridor" -> "Mirror Corridor"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
