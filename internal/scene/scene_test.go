package scene

import (
	"bytes"
	"sync/atomic"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/softbody/internal/assets"
	"github.com/Faultbox/softbody/pkg/xpbd"
)

const frameDT = float32(1.0 / 60.0)

func testOptions(sched Scheduler) Options {
	return Options{
		Params:    xpbd.DefaultParams(),
		Gravity:   mgl32.Vec3{0, -9.81, 0},
		Scheduler: sched,
	}
}

func mustParse(t *testing.T, data string) *Description {
	t.Helper()
	desc, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return desc
}

func newDropScene(t *testing.T, sched Scheduler) *Scene {
	t.Helper()
	return New("drop", mustParse(t, dropScene), assets.NewManager(nil), testOptions(sched))
}

func minY(o *Object) float32 {
	return o.Bounds().Min.Y()
}

func TestNewObject(t *testing.T) {
	cfg := ObjectConfig{
		Name:       "box",
		Mesh:       "cube",
		Position:   [3]float32{0, 3, 0},
		Scale:      [3]float32{2, 2, 2},
		VertexMass: 0.5,
		Color:      DefaultColor,
	}
	cube, err := assets.NewManager(nil).Load("cube")
	if err != nil {
		t.Fatalf("Load(cube) failed: %v", err)
	}

	o, err := NewObject(cfg, cube)
	if err != nil {
		t.Fatalf("NewObject failed: %v", err)
	}

	b := o.Bounds()
	if !b.Min.ApproxEqualThreshold(mgl32.Vec3{-1, 2, -1}, 1e-5) || !b.Max.ApproxEqualThreshold(mgl32.Vec3{1, 4, 1}, 1e-5) {
		t.Errorf("Bounds() = %v..%v, want [-1 2 -1]..[1 4 1]", b.Min, b.Max)
	}
	if got := o.Body.Distance.Len(); got != 18 {
		t.Errorf("distance constraints = %d, want 18", got)
	}
	if got := o.Body.Volume.Len(); got != 12 {
		t.Errorf("volume constraints = %d, want 12", got)
	}
	for j, rest := range o.Body.Distance.Rest {
		if rest < 2-1e-5 {
			t.Errorf("edge %d rest length = %v, want >= 2", j, rest)
		}
	}
	if o.Body.Mass[0] != 0.5 {
		t.Errorf("vertex mass = %v, want 0.5", o.Body.Mass[0])
	}
	// The template must not be moved by placing an object.
	if cube.Positions[0] != (mgl32.Vec3{-0.5, -0.5, -0.5}) {
		t.Errorf("template vertex 0 = %v, want unchanged", cube.Positions[0])
	}
}

func TestObjectSurfaces(t *testing.T) {
	s := newDropScene(t, Sequential{})
	platform := s.Object("platform")
	if platform == nil {
		t.Fatal("platform not created")
	}

	surfaces := platform.Surfaces(nil)
	if len(surfaces) != 12 {
		t.Fatalf("got %d surfaces, want 12", len(surfaces))
	}

	inside := mgl32.Vec3{0, 0.4, 0}
	for i, sf := range surfaces {
		if d := sf.SignedDistance(inside); d >= 0 {
			t.Errorf("surface %d: SignedDistance(%v) = %v, want < 0", i, inside, d)
		}
	}

	above := mgl32.Vec3{0, 0.6, 0}
	outside := 0
	for _, sf := range surfaces {
		if sf.SignedDistance(above) >= 0 {
			outside++
		}
	}
	if outside != 2 {
		t.Errorf("point above the platform is outside %d surfaces, want 2 (top face)", outside)
	}
}

func TestNewSkipsBadObjects(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	opts := testOptions(Sequential{})
	opts.Logger = zap.New(core)

	desc := mustParse(t, `
scene:
  objects:
    - {name: ok, mesh: cube}
    - {name: missing, mesh: sphere}
`)
	s := New("partial", desc, assets.NewManager(nil), opts)

	if len(s.Objects) != 1 || s.Objects[0].Name != "ok" {
		t.Fatalf("objects = %d, want only ok", len(s.Objects))
	}
	if n := logs.FilterMessage("skipping object").Len(); n != 1 {
		t.Errorf("logged %d skipped objects, want 1", n)
	}
}

func TestSetupEnvCollision(t *testing.T) {
	desc := mustParse(t, dropScene)
	desc.Objects = append(desc.Objects, ObjectConfig{
		Name: "top", Mesh: "cube", Position: [3]float32{0, 5, 0},
		Scale: DefaultScale, VertexMass: 1, Color: DefaultColor,
	})
	s := New("stack", desc, assets.NewManager(nil), testOptions(Sequential{}))

	if got := s.Object("platform").Body.Collision; got != nil {
		t.Errorf("static object has %d collision groups, want none", len(got))
	}
	for _, name := range []string{"soft", "top"} {
		groups := s.Object(name).Body.Collision
		if len(groups) != 2 {
			t.Fatalf("%s has %d collision groups, want 2", name, len(groups))
		}
		for _, g := range groups {
			if g.Obstacle == name {
				t.Errorf("%s collides with itself", name)
			}
			if len(g.Candidates) != 8 || len(g.Surfaces) != 12 {
				t.Errorf("%s vs %s: %d candidates, %d surfaces, want 8 and 12",
					name, g.Obstacle, len(g.Candidates), len(g.Surfaces))
			}
		}
	}
}

func TestStaticObjectsUnchanged(t *testing.T) {
	s := newDropScene(t, Sequential{})
	platform := s.Object("platform")
	before := platform.Body.Snapshot()

	for range 30 {
		s.Update(frameDT)
	}

	for i, p := range platform.Body.Position {
		if p != before.Position[i] {
			t.Errorf("platform vertex %d moved from %v to %v", i, before.Position[i], p)
		}
		if platform.Body.Velocity[i] != (mgl32.Vec3{}) {
			t.Errorf("platform vertex %d has velocity %v", i, platform.Body.Velocity[i])
		}
	}
}

func TestDropOnPlatform(t *testing.T) {
	s := newDropScene(t, Sequential{})
	soft := s.Object("soft")

	var collisions int
	for frame := range 180 {
		st := s.Update(frameDT)
		collisions += st.Collisions
		if y := minY(soft); y < 0.45 {
			t.Fatalf("frame %d: soft cube sank to y=%v", frame, y)
		}
	}

	if collisions == 0 {
		t.Error("expected the soft cube to collide with the platform")
	}
	if y := soft.Body.CenterOfMass().Y(); y < 0.9 || y > 1.1 {
		t.Errorf("resting center of mass y = %v, want about 1", y)
	}

	stats := s.Stats()
	if stats.Frames != 180 {
		t.Errorf("Stats().Frames = %d, want 180", stats.Frames)
	}
	if stats.Solver.Substeps != 180*xpbd.DefaultParams().Substeps {
		t.Errorf("Stats().Solver.Substeps = %d, want %d", stats.Solver.Substeps, 180*xpbd.DefaultParams().Substeps)
	}
	if stats.Solver.Skipped != 0 {
		t.Errorf("Stats().Solver.Skipped = %d, want 0", stats.Solver.Skipped)
	}
}

func TestSceneGravityOverride(t *testing.T) {
	desc := mustParse(t, `
scene:
  gravity: [0, 0, 0]
  objects:
    - {name: floating, mesh: cube, position: [0, 3, 0]}
`)
	s := New("space", desc, assets.NewManager(nil), testOptions(Sequential{}))
	for range 60 {
		s.Update(frameDT)
	}
	if y := s.Object("floating").Body.CenterOfMass().Y(); y < 3-1e-4 || y > 3+1e-4 {
		t.Errorf("center of mass y = %v, want 3 without gravity", y)
	}
}

func TestUpdateNonPositiveDT(t *testing.T) {
	s := newDropScene(t, Sequential{})
	before := s.Object("soft").Body.Snapshot()

	for _, dt := range []float32{0, -frameDT} {
		if st := s.Update(dt); st != (xpbd.Stats{}) {
			t.Errorf("Update(%v) = %+v, want zero stats", dt, st)
		}
	}
	for i, p := range s.Object("soft").Body.Position {
		if p != before.Position[i] {
			t.Errorf("vertex %d moved on a non-positive step", i)
		}
	}
	if s.Stats().Frames != 0 {
		t.Errorf("Stats().Frames = %d, want 0", s.Stats().Frames)
	}
}

func TestSchedulersAgree(t *testing.T) {
	build := func(sched Scheduler) *Scene {
		desc := mustParse(t, dropScene)
		desc.Objects = append(desc.Objects,
			ObjectConfig{Name: "top", Mesh: "cube", Position: [3]float32{0.2, 5, 0}, Scale: DefaultScale, VertexMass: 1, Color: DefaultColor},
			ObjectConfig{Name: "side", Mesh: "cube", Position: [3]float32{4, 2, -3}, Scale: [3]float32{1.5, 1, 1}, VertexMass: 2, Color: DefaultColor},
		)
		return New("agree", desc, assets.NewManager(nil), testOptions(sched))
	}

	seq := build(Sequential{})
	pool := build(Pool{Workers: 4})
	for range 120 {
		seq.Update(frameDT)
		pool.Update(frameDT)
	}

	var a, b bytes.Buffer
	if err := seq.Dump(&a); err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	if err := pool.Dump(&b); err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	if a.String() != b.String() {
		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(a.String()),
			B:        difflib.SplitLines(b.String()),
			FromFile: "sequential",
			ToFile:   "pool",
			Context:  1,
		})
		t.Errorf("pool scheduler diverged from sequential:\n%s", diff)
	}
}

func TestAddRemoveObject(t *testing.T) {
	s := newDropScene(t, Sequential{})

	err := s.AddObject(ObjectConfig{Name: "extra", Mesh: "cube", Position: [3]float32{3, 3, 3}})
	if err != nil {
		t.Fatalf("AddObject failed: %v", err)
	}
	if len(s.Objects) != 3 {
		t.Fatalf("got %d objects, want 3", len(s.Objects))
	}
	if got := len(s.Object("soft").Body.Collision); got != 2 {
		t.Errorf("soft has %d collision groups after add, want 2", got)
	}
	if s.Object("extra").Body.Mass[0] != DefaultVertexMass {
		t.Error("AddObject did not apply defaults")
	}

	if err := s.AddObject(ObjectConfig{Name: "extra", Mesh: "cube"}); err == nil {
		t.Error("expected error adding a duplicate name, got nil")
	}
	if err := s.AddObject(ObjectConfig{Name: "ghost", Mesh: "sphere"}); err == nil {
		t.Error("expected error adding an unknown mesh, got nil")
	}

	if !s.RemoveObject("extra") {
		t.Fatal("RemoveObject(extra) = false, want true")
	}
	if s.RemoveObject("extra") {
		t.Error("second RemoveObject(extra) = true, want false")
	}
	if got := len(s.Object("soft").Body.Collision); got != 1 {
		t.Errorf("soft has %d collision groups after remove, want 1", got)
	}
	if s.Object("extra") != nil {
		t.Error("removed object still found by name")
	}
}

func TestReset(t *testing.T) {
	s := newDropScene(t, Sequential{})
	soft := s.Object("soft")
	initial := soft.Body.Snapshot()

	for range 45 {
		s.Update(frameDT)
	}
	s.Reset()

	for i, p := range soft.Body.Position {
		if p != initial.Position[i] {
			t.Errorf("vertex %d = %v after Reset, want %v", i, p, initial.Position[i])
		}
		if soft.Body.Velocity[i] != (mgl32.Vec3{}) {
			t.Errorf("vertex %d velocity = %v after Reset, want zero", i, soft.Body.Velocity[i])
		}
	}
	if s.Stats() != (Stats{}) {
		t.Errorf("Stats() after Reset = %+v, want zero", s.Stats())
	}
}

func TestClear(t *testing.T) {
	s := newDropScene(t, Sequential{})
	s.Clear()

	if len(s.Objects) != 0 || s.Object("soft") != nil {
		t.Error("Clear left objects behind")
	}
	if st := s.Update(frameDT); st != (xpbd.Stats{}) {
		t.Errorf("Update on empty scene = %+v, want zero", st)
	}
}

func TestPoolVisitsEachIndexOnce(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 16} {
		const n = 50
		var counts [n]atomic.Int32
		Pool{Workers: workers}.ForEach(n, func(i int) {
			counts[i].Add(1)
		})
		for i := range counts {
			if c := counts[i].Load(); c != 1 {
				t.Errorf("workers=%d: index %d visited %d times, want 1", workers, i, c)
			}
		}
	}
}

func TestNewScheduler(t *testing.T) {
	if _, ok := NewScheduler(1).(Sequential); !ok {
		t.Error("NewScheduler(1) should be Sequential")
	}
	if p, ok := NewScheduler(4).(Pool); !ok || p.Workers != 4 {
		t.Errorf("NewScheduler(4) = %#v, want Pool{Workers: 4}", NewScheduler(4))
	}
	if _, ok := NewScheduler(0).(Pool); !ok {
		t.Error("NewScheduler(0) should be a Pool")
	}
}
