package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/image/colornames"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// SceneFileExt is the extension of scene description files
const SceneFileExt = ".scene"

// ScenesDir is the directory scene files are loaded from
const ScenesDir = "scenes"

// statementTypes are the directives a scene file may contain
var statementTypes = []string{"Film", "Camera", "Background", "LightSource", "Material", "Shape"}

// Statement is one parsed directive, e.g.
//
//	Shape "sphere" "point3 center" [0 -1 3] "float radius" 1
type Statement struct {
	Type       string           // Directive (Shape, Material, ...)
	Subtype    string           // Quoted word after the directive, if any
	Parameters map[string]Param // Named parameters
	Line       int              // Line the statement starts on
}

// Param is a typed parameter with its raw values
type Param struct {
	Type   string   // float, integer, rgb, point3, vector3, normal, string
	Values []string // Unquoted raw values
}

// SceneFile holds the statements of a scene file. Film, Camera and
// Background are singletons; World keeps LightSource, Material and Shape
// statements in file order because materials apply to the shapes after them.
type SceneFile struct {
	Film       *Statement
	Camera     *Statement
	Background *Statement
	World      []Statement
	Dir        string // directory of the file, for resolving referenced meshes
}

// ParseError reports the line a problem was found on
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadSceneFile validates the path and parses the file
func LoadSceneFile(filename string) (*SceneFile, error) {
	if err := ValidateSceneFilePath(filename); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	sf, err := ParseSceneFile(file)
	if err != nil {
		return nil, err
	}
	sf.Dir = filepath.Dir(filename)
	return sf, nil
}

// ParseSceneFile parses scene description content from an io.Reader
func ParseSceneFile(reader io.Reader) (*SceneFile, error) {
	sf := &SceneFile{}

	var pending []string
	pendingLine := 0
	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		stmt, err := parseStatement(strings.Join(pending, " "))
		pending = nil
		if err != nil {
			return &ParseError{Line: pendingLine, Err: err}
		}
		stmt.Line = pendingLine
		return sf.route(stmt)
	}

	scanner := bufio.NewScanner(reader)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if isStatementStart(line) {
			if err := flush(); err != nil {
				return nil, err
			}
			pending = []string{line}
			pendingLine = lineNumber
			continue
		}

		// Continuation lines carry values; a bare word is a directive we don't know
		if len(pending) == 0 || unicode.IsLetter([]rune(line)[0]) {
			return nil, &ParseError{Line: lineNumber, Err: fmt.Errorf("unknown statement: %s", line)}
		}
		pending = append(pending, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return sf, nil
}

func (sf *SceneFile) route(stmt *Statement) error {
	switch stmt.Type {
	case "Film":
		sf.Film = stmt
	case "Camera":
		sf.Camera = stmt
	case "Background":
		sf.Background = stmt
	case "LightSource", "Material", "Shape":
		sf.World = append(sf.World, *stmt)
	default:
		return &ParseError{Line: stmt.Line, Err: fmt.Errorf("unknown statement type %q", stmt.Type)}
	}
	return nil
}

func isStatementStart(line string) bool {
	for _, stmt := range statementTypes {
		if strings.HasPrefix(line, stmt+" ") || line == stmt {
			return true
		}
	}
	return false
}

// tokenize splits a statement into words, quoted strings and bracketed arrays
func tokenize(line string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	inQuotes := false
	inBrackets := false

	emit := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, char := range line {
		switch {
		case char == '"' && !inBrackets:
			current.WriteRune(char)
			if inQuotes {
				emit()
			}
			inQuotes = !inQuotes
		case char == '[' && !inQuotes:
			if inBrackets {
				return nil, fmt.Errorf("nested '['")
			}
			emit()
			current.WriteRune(char)
			inBrackets = true
		case char == ']' && !inQuotes:
			if !inBrackets {
				return nil, fmt.Errorf("unmatched ']'")
			}
			current.WriteRune(char)
			emit()
			inBrackets = false
		case (char == ' ' || char == '\t') && !inQuotes && !inBrackets:
			emit()
		default:
			current.WriteRune(char)
		}
	}

	if inQuotes {
		return nil, fmt.Errorf("unterminated string")
	}
	if inBrackets {
		return nil, fmt.Errorf("unterminated '['")
	}
	emit()
	return tokens, nil
}

func isQuoted(token string) bool {
	return len(token) >= 2 && strings.HasPrefix(token, `"`) && strings.HasSuffix(token, `"`)
}

func parseStatement(line string) (*Statement, error) {
	parts, err := tokenize(line)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty statement")
	}

	stmt := &Statement{Type: parts[0], Parameters: make(map[string]Param)}
	parts = parts[1:]

	// A quoted single word right after the directive is the subtype;
	// parameter declarations are always "type name"
	if len(parts) > 0 && isQuoted(parts[0]) && !strings.ContainsAny(strings.Trim(parts[0], `"`), " \t") {
		stmt.Subtype = strings.Trim(parts[0], `"`)
		parts = parts[1:]
	}

	for i := 0; i < len(parts); i++ {
		if !isQuoted(parts[i]) {
			return nil, fmt.Errorf("expected parameter declaration, got %s", parts[i])
		}
		decl := strings.Fields(strings.Trim(parts[i], `"`))
		if len(decl) != 2 {
			return nil, fmt.Errorf("parameter declaration %s must be \"type name\"", parts[i])
		}
		if i+1 >= len(parts) {
			return nil, fmt.Errorf("parameter %q has no value", decl[1])
		}
		i++

		var values []string
		if strings.HasPrefix(parts[i], "[") {
			for _, v := range strings.Fields(strings.Trim(parts[i], "[]")) {
				values = append(values, strings.Trim(v, `"`))
			}
		} else {
			values = []string{strings.Trim(parts[i], `"`)}
		}

		if _, dup := stmt.Parameters[decl[1]]; dup {
			return nil, fmt.Errorf("duplicate parameter %q", decl[1])
		}
		stmt.Parameters[decl[1]] = Param{Type: decl[0], Values: values}
	}

	return stmt, nil
}

func (stmt *Statement) errorf(format string, args ...interface{}) error {
	return &ParseError{Line: stmt.Line, Err: fmt.Errorf(format, args...)}
}

// Has reports whether the parameter is present
func (stmt *Statement) Has(name string) bool {
	_, ok := stmt.Parameters[name]
	return ok
}

// GetFloatParam returns a single float parameter
func (stmt *Statement) GetFloatParam(name string) (float64, bool, error) {
	values, ok, err := stmt.GetFloatsParam(name)
	if !ok || err != nil {
		return 0, ok, err
	}
	if len(values) != 1 {
		return 0, true, stmt.errorf("parameter %q expects 1 value, got %d", name, len(values))
	}
	return values[0], true, nil
}

// GetIntParam returns a single integer parameter
func (stmt *Statement) GetIntParam(name string) (int, bool, error) {
	param, ok := stmt.Parameters[name]
	if !ok {
		return 0, false, nil
	}
	if len(param.Values) != 1 {
		return 0, true, stmt.errorf("parameter %q expects 1 value, got %d", name, len(param.Values))
	}
	value, err := strconv.Atoi(param.Values[0])
	if err != nil {
		return 0, true, stmt.errorf("parameter %q: invalid integer %q", name, param.Values[0])
	}
	return value, true, nil
}

// GetIntsParam returns every value of an integer parameter
func (stmt *Statement) GetIntsParam(name string) ([]int, bool, error) {
	param, ok := stmt.Parameters[name]
	if !ok {
		return nil, false, nil
	}
	values := make([]int, len(param.Values))
	for i, raw := range param.Values {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return nil, true, stmt.errorf("parameter %q: invalid integer %q", name, raw)
		}
		values[i] = value
	}
	return values, true, nil
}

// GetFloatsParam returns every value of a numeric parameter
func (stmt *Statement) GetFloatsParam(name string) ([]float64, bool, error) {
	param, ok := stmt.Parameters[name]
	if !ok {
		return nil, false, nil
	}
	values := make([]float64, len(param.Values))
	for i, raw := range param.Values {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, true, stmt.errorf("parameter %q: invalid number %q", name, raw)
		}
		values[i] = value
	}
	return values, true, nil
}

// GetVec3Param returns a three-component parameter (point3, vector3, normal, rgb)
func (stmt *Statement) GetVec3Param(name string) (core.Vec3, bool, error) {
	values, ok, err := stmt.GetFloatsParam(name)
	if !ok || err != nil {
		return core.Vec3{}, ok, err
	}
	if len(values) != 3 {
		return core.Vec3{}, true, stmt.errorf("parameter %q expects 3 values, got %d", name, len(values))
	}
	return core.NewVec3(values[0], values[1], values[2]), true, nil
}

// GetStringParam returns a single string parameter
func (stmt *Statement) GetStringParam(name string) (string, bool) {
	param, ok := stmt.Parameters[name]
	if !ok || len(param.Values) != 1 {
		return "", false
	}
	return param.Values[0], true
}

// GetColorParam accepts either "rgb name" [r g b] in 0-255 or
// "string name" "<css color name>"
func (stmt *Statement) GetColorParam(name string) (core.Vec3, bool, error) {
	param, ok := stmt.Parameters[name]
	if !ok {
		return core.Vec3{}, false, nil
	}
	if param.Type != "string" {
		return stmt.GetVec3Param(name)
	}
	colorName, _ := stmt.GetStringParam(name)
	return LookupColor(colorName, stmt)
}

// LookupColor resolves a CSS/SVG color name to 0-255 RGB
func LookupColor(colorName string, stmt *Statement) (core.Vec3, bool, error) {
	rgba, ok := colornames.Map[strings.ToLower(colorName)]
	if !ok {
		if stmt == nil {
			return core.Vec3{}, true, fmt.Errorf("unknown color name %q", colorName)
		}
		return core.Vec3{}, true, stmt.errorf("unknown color name %q", colorName)
	}
	return core.NewVec3(float64(rgba.R), float64(rgba.G), float64(rgba.B)), true, nil
}

// ValidateSceneFilePath accepts only .scene files inside the scenes
// directory (relative to the working directory) or the temp dir for tests
func ValidateSceneFilePath(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	if len(filename) > 4096 {
		return fmt.Errorf("file path too long")
	}
	if strings.Contains(filepath.ToSlash(filename), "..") {
		return fmt.Errorf("invalid file path: directory traversal not allowed")
	}
	if !strings.HasSuffix(strings.ToLower(filename), SceneFileExt) {
		return fmt.Errorf("invalid file type: only %s files are allowed", SceneFileExt)
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}
	for _, root := range []string{ScenesDir, os.TempDir()} {
		if withinDir(root, absPath) {
			return nil
		}
	}
	return fmt.Errorf("file path must be in %s/ directory", ScenesDir)
}

// withinDir reports whether the absolute path lies below dir
func withinDir(dir, absPath string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
