package scene

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/softbody/internal/assets"
)

func writeScene(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name+".yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write scene: %v", err)
	}
	return path
}

func TestManager(t *testing.T) {
	dir := t.TempDir()
	dropPath := writeScene(t, dir, "drop", dropScene)
	emptyPath := writeScene(t, dir, "empty", "scene:\n  name: empty\n  objects: []\n")

	core, logs := observer.New(zap.WarnLevel)
	opts := testOptions(Sequential{})
	opts.Logger = zap.New(core)
	m := NewManager(assets.NewManager(nil), opts)

	if m.Current() != nil {
		t.Error("expected no current scene before Create")
	}

	if err := m.Create("drop", dropPath); err != nil {
		t.Fatalf("Create(drop) failed: %v", err)
	}
	if err := m.Create("empty", emptyPath); err != nil {
		t.Fatalf("Create(empty) failed: %v", err)
	}

	if got := m.Current(); got == nil || got.Name != "drop" {
		t.Fatalf("Current() = %v, want the first created scene", got)
	}
	if got, want := m.Names(), []string{"drop", "empty"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	if !m.Switch("empty") {
		t.Error("Switch(empty) = false, want true")
	}
	if m.Current().Name != "empty" {
		t.Errorf("Current().Name = %q, want empty", m.Current().Name)
	}

	if m.Switch("nowhere") {
		t.Error("Switch(nowhere) = true, want false")
	}
	if m.Current().Name != "empty" {
		t.Error("unknown Switch changed the current scene")
	}
	if n := logs.FilterMessage("unknown scene").Len(); n != 1 {
		t.Errorf("logged %d unknown scene warnings, want 1", n)
	}

	if err := m.Create("broken", filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error creating from a missing file, got nil")
	}
	if n := logs.FilterMessage("failed to load scene").Len(); n != 1 {
		t.Errorf("logged %d load failures, want 1", n)
	}
	if len(m.Names()) != 2 {
		t.Errorf("failed Create registered a scene: %v", m.Names())
	}

	m.Switch("drop")
	soft := m.Current().Object("soft")
	y0 := soft.Body.CenterOfMass().Y()
	m.Update(frameDT)
	if soft.Body.CenterOfMass().Y() >= y0 {
		t.Error("Update did not step the current scene")
	}

	m.Clear()
	if m.Current() != nil || len(m.Names()) != 0 {
		t.Error("Clear left scenes behind")
	}
	m.Update(frameDT)
}

func TestManagerReplace(t *testing.T) {
	m := NewManager(assets.NewManager(nil), testOptions(Sequential{}))

	first := m.Add("main", mustParse(t, dropScene))
	second := m.Add("main", mustParse(t, "scene:\n  objects: []\n"))

	if first == second {
		t.Fatal("Add with an existing name returned the old scene")
	}
	if m.Current() != second {
		t.Error("replacing the current scene should make the new one current")
	}
	if got := m.Names(); len(got) != 1 {
		t.Errorf("Names() = %v, want one entry", got)
	}
}
