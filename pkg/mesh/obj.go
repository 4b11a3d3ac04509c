package mesh

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// OBJ format errors.
var (
	ErrMalformed = errors.New("malformed OBJ data")
	ErrEmptyMesh = errors.New("mesh has no triangles")
)

// IndexError reports a triangle that references a vertex out of range.
type IndexError struct {
	Triangle int
	Vertices int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("triangle %d references vertex outside [0, %d)", e.Triangle, e.Vertices)
}

// LoadOBJ reads a Wavefront OBJ file from disk.
// The mesh name is the file name without extension.
func LoadOBJ(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	m, err := ParseOBJ(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return m, nil
}

// ParseOBJ parses the geometry subset of the Wavefront OBJ format.
// Only "v" and "f" records are used; polygons are fan-triangulated.
// Texture and normal references in faces ("1/2/3", "1//3") are ignored.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	m := &Mesh{}
	sc := bufio.NewScanner(r)
	lineNo := 0

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: vertex needs 3 coordinates", ErrMalformed, lineNo)
			}
			var p mgl32.Vec3
			for k := 0; k < 3; k++ {
				f, err := strconv.ParseFloat(fields[k+1], 32)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
				}
				p[k] = float32(f)
			}
			m.Positions = append(m.Positions, p)

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: face needs at least 3 vertices", ErrMalformed, lineNo)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				i, err := parseFaceIndex(ref, len(m.Positions))
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
				}
				idx = append(idx, i)
			}
			for k := 1; k+1 < len(idx); k++ {
				m.Triangles = append(m.Triangles, Triangle{V1: idx[0], V2: idx[k], V3: idx[k+1]})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}

	if len(m.Triangles) == 0 {
		return nil, ErrEmptyMesh
	}
	return m, nil
}

// parseFaceIndex resolves a face vertex reference to a zero-based index.
// Negative references count back from the most recent vertex.
func parseFaceIndex(ref string, vertexCount int) (int, error) {
	if slash := strings.IndexByte(ref, '/'); slash >= 0 {
		ref = ref[:slash]
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("bad vertex reference %q", ref)
	}

	var i int
	switch {
	case n > 0:
		i = n - 1
	case n < 0:
		i = vertexCount + n
	default:
		return 0, fmt.Errorf("vertex reference 0 is invalid")
	}
	if i < 0 || i >= vertexCount {
		return 0, fmt.Errorf("vertex reference %d out of range (%d vertices)", n, vertexCount)
	}
	return i, nil
}
