package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Limits on header-declared sizes. Element counts only bound preallocation;
// list lengths beyond maxPLYListLength are rejected.
const (
	maxPLYPrealloc   = 1 << 16
	maxPLYListLength = 1 << 16
)

// PLYProperty represents a property in the PLY header
type PLYProperty struct {
	Name     string
	Type     string // scalar type, or the item type for lists
	IsList   bool
	ListType string // count type for lists
}

// PLYElement is one "element" block of the header
type PLYElement struct {
	Name       string
	Count      int
	Properties []PLYProperty
}

// PLYHeader contains information parsed from the PLY header
type PLYHeader struct {
	Format   string
	Version  string
	Elements []PLYElement
}

// PLYData contains the geometry read from a PLY file. Faces holds triangle
// indices in groups of three; polygons are split into fans.
type PLYData struct {
	Vertices []core.Vec3
	Faces    []int
}

// LoadPLY loads vertex positions and faces from a PLY file
func LoadPLY(filename string) (*PLYData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	data, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ReadPLY reads an ascii, binary_little_endian or binary_big_endian PLY stream
func ReadPLY(r io.Reader) (*PLYData, error) {
	reader := bufio.NewReader(r)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var values plyValueReader
	switch header.Format {
	case "ascii":
		values = &asciiValueReader{scanner: newWordScanner(reader)}
	case "binary_little_endian":
		values = &binaryValueReader{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryValueReader{reader: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("unsupported PLY format: %s", header.Format)
	}

	data := &PLYData{}
	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			err = readVertices(values, element, data)
		case "face":
			err = readFaces(values, element, data)
		default:
			err = skipElement(values, element)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s data: %w", element.Name, err)
		}
	}

	for _, index := range data.Faces {
		if index < 0 || index >= len(data.Vertices) {
			return nil, fmt.Errorf("face index %d out of range for %d vertices", index, len(data.Vertices))
		}
	}

	return data, nil
}

// parsePLYHeader reads header lines up to and including end_header
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	first := true

	for {
		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return nil, fmt.Errorf("unexpected end of header: %w", err)
		}
		line = strings.TrimSpace(line)

		if first {
			if line != "ply" {
				return nil, fmt.Errorf("missing ply magic number")
			}
			first = false
			continue
		}
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid format line: %q", line)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line: %q", line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("property before any element: %q", line)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("failed to parse property: %w", err)
			}
			current := &header.Elements[len(header.Elements)-1]
			current.Properties = append(current.Properties, prop)
		default:
			return nil, fmt.Errorf("unknown header line: %q", line)
		}
	}

	if header.Format == "" {
		return nil, fmt.Errorf("missing format line")
	}
	return header, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition")
	}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition")
		}
		if getTypeSize(parts[1]) == 0 || getTypeSize(parts[2]) == 0 {
			return PLYProperty{}, fmt.Errorf("unknown list types %s %s", parts[1], parts[2])
		}
		return PLYProperty{IsList: true, ListType: parts[1], Type: parts[2], Name: parts[3]}, nil
	}

	if getTypeSize(parts[0]) == 0 {
		return PLYProperty{}, fmt.Errorf("unknown property type %s", parts[0])
	}
	return PLYProperty{Type: parts[0], Name: parts[1]}, nil
}

// getTypeSize returns the size in bytes of a PLY data type, or 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 0
	}
}

func readVertices(values plyValueReader, element PLYElement, data *PLYData) error {
	axis := map[string]int{"x": 0, "y": 1, "z": 2}
	found := 0
	for _, prop := range element.Properties {
		if _, ok := axis[prop.Name]; ok && !prop.IsList {
			found++
		}
	}
	if found != 3 {
		return fmt.Errorf("vertex element needs x, y and z properties")
	}

	data.Vertices = make([]core.Vec3, 0, min(element.Count, maxPLYPrealloc))
	for i := 0; i < element.Count; i++ {
		var position [3]float64
		for _, prop := range element.Properties {
			if prop.IsList {
				if err := skipList(values, prop); err != nil {
					return fmt.Errorf("vertex %d: %w", i, err)
				}
				continue
			}
			value, err := values.next(prop.Type)
			if err != nil {
				return fmt.Errorf("vertex %d property %s: %w", i, prop.Name, err)
			}
			if index, ok := axis[prop.Name]; ok {
				position[index] = value
			}
		}
		data.Vertices = append(data.Vertices, core.NewVec3(position[0], position[1], position[2]))
	}
	return nil
}

func readFaces(values plyValueReader, element PLYElement, data *PLYData) error {
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Properties {
			if !prop.IsList || (prop.Name != "vertex_indices" && prop.Name != "vertex_index") {
				if err := skipProperty(values, prop); err != nil {
					return fmt.Errorf("face %d: %w", i, err)
				}
				continue
			}

			count, err := readListLength(values, prop)
			if err != nil {
				return fmt.Errorf("face %d: %w", i, err)
			}
			if count < 3 {
				return fmt.Errorf("face %d has %d vertices", i, count)
			}

			indices := make([]int, count)
			for j := range indices {
				value, err := values.next(prop.Type)
				if err != nil {
					return fmt.Errorf("face %d index %d: %w", i, j, err)
				}
				indices[j] = int(value)
			}
			for j := 1; j+1 < len(indices); j++ {
				data.Faces = append(data.Faces, indices[0], indices[j], indices[j+1])
			}
		}
	}
	return nil
}

func skipElement(values plyValueReader, element PLYElement) error {
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Properties {
			if err := skipProperty(values, prop); err != nil {
				return err
			}
		}
	}
	return nil
}

func skipProperty(values plyValueReader, prop PLYProperty) error {
	if prop.IsList {
		return skipList(values, prop)
	}
	_, err := values.next(prop.Type)
	return err
}

func skipList(values plyValueReader, prop PLYProperty) error {
	count, err := readListLength(values, prop)
	if err != nil {
		return err
	}
	for j := 0; j < count; j++ {
		if _, err := values.next(prop.Type); err != nil {
			return err
		}
	}
	return nil
}

// readListLength reads a list's length prefix and bounds it
func readListLength(values plyValueReader, prop PLYProperty) (int, error) {
	count, err := values.next(prop.ListType)
	if err != nil {
		return 0, fmt.Errorf("%s length: %w", prop.Name, err)
	}
	if count < 0 || count > maxPLYListLength || count != math.Trunc(count) {
		return 0, fmt.Errorf("%s length %g out of range [0, %d]", prop.Name, count, maxPLYListLength)
	}
	return int(count), nil
}

// plyValueReader yields the next value of the body as a float64
type plyValueReader interface {
	next(dataType string) (float64, error)
}

type binaryValueReader struct {
	reader io.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (b *binaryValueReader) next(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if _, err := io.ReadFull(b.reader, b.buf[:size]); err != nil {
		return 0, err
	}
	raw := b.buf[:size]

	switch dataType {
	case "char", "int8":
		return float64(int8(raw[0])), nil
	case "uchar", "uint8":
		return float64(raw[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(raw))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(raw)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(raw))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(raw)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(raw))), nil
	case "double", "float64":
		return math.Float64frombits(b.order.Uint64(raw)), nil
	default:
		return 0, fmt.Errorf("unsupported data type: %s", dataType)
	}
}

type asciiValueReader struct {
	scanner *bufio.Scanner
}

func newWordScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	return scanner
}

func (a *asciiValueReader) next(dataType string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	value, err := strconv.ParseFloat(a.scanner.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", dataType, a.scanner.Text())
	}
	return value, nil
}
