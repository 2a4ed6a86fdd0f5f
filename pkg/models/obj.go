package models

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/glyph3d/pkg/math3d"
)

// OBJLoader reads the OBJ subset glyph3d understands: o, v, vn and f lines.
type OBJLoader struct {
	// Options
	Strict bool   // Reject unknown directives instead of skipping them
	Color  Color  // Color assigned to every face
	Logger *slog.Logger
}

// NewOBJLoader creates a strict OBJ loader that colors faces Grey(1).
func NewOBJLoader() *OBJLoader {
	return &OBJLoader{
		Strict: true,
		Color:  Grey(1),
	}
}

// LoadOBJ loads an OBJ file with the default loader.
func LoadOBJ(path string) (*Mesh, error) {
	return NewOBJLoader().Load(path)
}

// ParseOBJ parses OBJ text with the default loader.
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	return NewOBJLoader().Parse(r, name)
}

// Load opens and parses an OBJ file. The file name is used as the mesh name
// unless the file has an o directive.
func (l *OBJLoader) Load(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := l.Parse(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return mesh, nil
}

// Parse reads OBJ text from r and returns a validated mesh.
func (l *OBJLoader) Parse(r io.Reader, name string) (*Mesh, error) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	g := Geometry{Name: name}
	texCoords := 0
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "o":
			if len(fields) < 2 {
				return nil, fmt.Errorf("line %d: %w: o needs a name", lineNo, ErrMalformedGeometry)
			}
			g.Name = strings.Join(fields[1:], " ")

		case "v":
			v, err := parseTriple(fields, lineNo)
			if err != nil {
				return nil, err
			}
			g.Vertices = append(g.Vertices, math3d.V4FromV3(v, 1))

		case "vn":
			n, err := parseTriple(fields, lineNo)
			if err != nil {
				return nil, err
			}
			g.Normals = append(g.Normals, math3d.V4FromV3(n, 0))

		case "f":
			faces, err := parseFace(fields, lineNo, texCoords, len(g.Normals))
			if err != nil {
				return nil, err
			}
			g.Faces = append(g.Faces, faces...)

		default:
			if l.Strict {
				return nil, fmt.Errorf("line %d: %w: %w %q", lineNo, ErrMalformedGeometry, ErrUnsupportedDirective, fields[0])
			}
			logger.Warn("skipping unsupported obj directive", "line", lineNo, "directive", fields[0])
			if fields[0] == "vt" {
				texCoords++
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	return Build(g, l.Color)
}

// parseTriple reads the three numbers after a v or vn token. A fourth
// (homogeneous) value on v lines is accepted and ignored.
func parseTriple(fields []string, lineNo int) (math3d.Vec3, error) {
	if len(fields) < 4 || len(fields) > 5 {
		return math3d.Vec3{}, fmt.Errorf("line %d: %w: %s needs 3 coordinates, got %d",
			lineNo, ErrMalformedGeometry, fields[0], len(fields)-1)
	}
	var xyz [3]float64
	for i := range 3 {
		f, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("line %d: %w: bad number %q", lineNo, ErrMalformedGeometry, fields[i+1])
		}
		xyz[i] = f
	}
	return math3d.V3(xyz[0], xyz[1], xyz[2]), nil
}

// parseFace reads an f line. Each vertex is "v", "v/t", "v//n" or "v/t/n"
// with 1-based indices. Texture and normal indices are checked against the
// vt and vn lines read so far; the first vertex's normal is used for the
// whole face. Polygons are split into a triangle fan.
func parseFace(fields []string, lineNo, texCoords, normals int) ([]RawFace, error) {
	refs := fields[1:]
	if len(refs) < 3 {
		return nil, fmt.Errorf("line %d: %w: face needs at least 3 vertices, got %d",
			lineNo, ErrMalformedGeometry, len(refs))
	}

	verts := make([]int, len(refs))
	normal := -1
	for i, ref := range refs {
		parts := strings.Split(ref, "/")
		if len(parts) > 3 {
			return nil, fmt.Errorf("line %d: %w: bad face vertex %q", lineNo, ErrMalformedGeometry, ref)
		}
		v, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: bad vertex index %q", lineNo, ErrMalformedGeometry, parts[0])
		}
		verts[i] = v - 1

		if len(parts) > 1 && parts[1] != "" {
			if _, err := parseRef(parts[1], "texture", texCoords, lineNo); err != nil {
				return nil, err
			}
		}
		if len(parts) == 3 && parts[2] != "" {
			n, err := parseRef(parts[2], "normal", normals, lineNo)
			if err != nil {
				return nil, err
			}
			if i == 0 {
				normal = n
			}
		}
	}

	faces := make([]RawFace, 0, len(verts)-2)
	for i := 1; i+1 < len(verts); i++ {
		faces = append(faces, RawFace{
			V:      [3]int{verts[0], verts[i], verts[i+1]},
			Normal: normal,
			Line:   lineNo,
		})
	}
	return faces, nil
}

// parseRef parses a 1-based texture or normal reference and returns it
// 0-based.
func parseRef(field, kind string, count, lineNo int) (int, error) {
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("line %d: %w: bad %s index %q", lineNo, ErrMalformedGeometry, kind, field)
	}
	if n < 1 || n > count {
		return 0, fmt.Errorf("line %d: %w: %s index %d out of range [1, %d]", lineNo, ErrMalformedGeometry, kind, n, count)
	}
	return n - 1, nil
}
