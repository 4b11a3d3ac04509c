package mesh

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCubeEdges(t *testing.T) {
	c := Cube()
	edges := c.Edges()

	// 12 box edges + 6 face diagonals
	if len(edges) != 18 {
		t.Fatalf("len(Edges()) = %d, want 18", len(edges))
	}
	for i, e := range edges {
		if e.V1 >= e.V2 {
			t.Errorf("edge %d = %v, want V1 < V2", i, e)
		}
		if i > 0 {
			prev := edges[i-1]
			if prev.V1 > e.V1 || (prev.V1 == e.V1 && prev.V2 >= e.V2) {
				t.Errorf("edges not sorted at %d: %v then %v", i, prev, e)
			}
		}
	}
}

func TestCubeNormalsPointOutward(t *testing.T) {
	c := Cube()
	for i, tri := range c.Triangles {
		n := FaceNormal(c.Positions, tri)
		centroid := c.Positions[tri.V1].Add(c.Positions[tri.V2]).Add(c.Positions[tri.V3]).Mul(1.0 / 3)
		if n.Dot(centroid) <= 0 {
			t.Errorf("triangle %d normal %v points inward (centroid %v)", i, n, centroid)
		}
	}
}

func TestTriangleArea(t *testing.T) {
	pos := []mgl32.Vec3{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}}
	got := TriangleArea(pos, Triangle{0, 1, 2})
	if got != 2 {
		t.Errorf("TriangleArea() = %v, want 2", got)
	}
}

func TestFaceNormalDegenerate(t *testing.T) {
	pos := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}
	n := FaceNormal(pos, Triangle{0, 1, 2})
	if n != (mgl32.Vec3{}) {
		t.Errorf("FaceNormal() = %v, want zero vector", n)
	}
}

func TestTransform(t *testing.T) {
	c := Cube()
	model := mgl32.Translate3D(0, 10, 0).Mul4(mgl32.Scale3D(2, 2, 2))
	moved := c.Transform(model)

	b := moved.Bounds()
	if !b.Min.ApproxEqual(mgl32.Vec3{-1, 9, -1}) || !b.Max.ApproxEqual(mgl32.Vec3{1, 11, 1}) {
		t.Errorf("Bounds() = %v, want [-1 9 -1]..[1 11 1]", b)
	}
	if c.Positions[0] != (mgl32.Vec3{-0.5, -0.5, -0.5}) {
		t.Error("Transform modified the source mesh")
	}
}

func TestBoundsOfEmpty(t *testing.T) {
	if b := BoundsOf(nil); b != (Bounds{}) {
		t.Errorf("BoundsOf(nil) = %v, want zero", b)
	}
}

func TestValidate(t *testing.T) {
	m := &Mesh{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Triangles: []Triangle{{0, 1, 2}, {0, 1, 3}},
	}
	err := m.Validate()
	var ie *IndexError
	if !errors.As(err, &ie) {
		t.Fatalf("Validate() = %v, want *IndexError", err)
	}
	if ie.Triangle != 1 {
		t.Errorf("IndexError.Triangle = %d, want 1", ie.Triangle)
	}
	if err := Cube().Validate(); err != nil {
		t.Errorf("Cube().Validate() = %v, want nil", err)
	}
}

func TestParseOBJ(t *testing.T) {
	src := `
# quad with mixed reference styles
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vn 0 0 1
f 1/1/1 2/1/1 3//1 -1
`
	m, err := ParseOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if m.VertexCount() != 4 {
		t.Errorf("VertexCount() = %d, want 4", m.VertexCount())
	}
	want := []Triangle{{0, 1, 2}, {0, 2, 3}}
	if len(m.Triangles) != len(want) {
		t.Fatalf("len(Triangles) = %d, want %d", len(m.Triangles), len(want))
	}
	for i := range want {
		if m.Triangles[i] != want[i] {
			t.Errorf("Triangles[%d] = %v, want %v", i, m.Triangles[i], want[i])
		}
	}
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"short vertex", "v 1 2\n", ErrMalformed},
		{"bad float", "v 1 x 2\n", ErrMalformed},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n", ErrMalformed},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", ErrMalformed},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n", ErrMalformed},
		{"no faces", "v 0 0 0\n", ErrEmptyMesh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tt.src))
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseOBJ() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadOBJ(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tri.obj")
	if err := os.WriteFile(path, []byte("v 0 0 0\nv 3 0 0\nv 0 4 0\nf 1 2 3\n"), 0644); err != nil {
		t.Fatalf("failed to write OBJ: %v", err)
	}

	m, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ failed: %v", err)
	}
	if m.Name != "tri" {
		t.Errorf("Name = %q, want %q", m.Name, "tri")
	}
	if a := TriangleArea(m.Positions, m.Triangles[0]); math.Abs(float64(a-6)) > 1e-6 {
		t.Errorf("area = %v, want 6", a)
	}

	if _, err := LoadOBJ(filepath.Join(dir, "missing.obj")); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}
