package scene

import (
	"fmt"

	"go.uber.org/zap"
)

// Manager owns the loaded scenes and tracks which one is current.
type Manager struct {
	scenes  map[string]*Scene
	order   []string
	current *Scene
	lib     MeshSource
	opts    Options
	log     *zap.Logger
}

// NewManager creates a scene manager. Scenes it creates use lib and opts.
func NewManager(lib MeshSource, opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Manager{
		scenes: make(map[string]*Scene),
		lib:    lib,
		opts:   opts,
		log:    opts.Logger,
	}
}

// Create loads the scene file at path and registers it under name.
// The first scene created becomes current. A scene with the same name is
// replaced. Failures are logged and returned; existing scenes are untouched.
func (m *Manager) Create(name, path string) error {
	desc, err := LoadFile(path)
	if err != nil {
		m.log.Error("failed to load scene", zap.String("scene", name), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("loading scene %s: %w", name, err)
	}
	m.Add(name, desc)
	return nil
}

// Add builds a scene from an already parsed description.
func (m *Manager) Add(name string, desc *Description) *Scene {
	s := New(name, desc, m.lib, m.opts)

	old, exists := m.scenes[name]
	if !exists {
		m.order = append(m.order, name)
	}
	m.scenes[name] = s
	if m.current == nil || m.current == old {
		m.current = s
	}
	return s
}

// Switch makes the scene called name current. Unknown names are logged and
// leave the current scene unchanged.
func (m *Manager) Switch(name string) bool {
	s, ok := m.scenes[name]
	if !ok {
		m.log.Warn("unknown scene", zap.String("scene", name))
		return false
	}
	m.current = s
	m.log.Info("switched scene", zap.String("scene", name))
	return true
}

// Current returns the current scene, or nil if none has been created.
func (m *Manager) Current() *Scene {
	return m.current
}

// Names returns scene names in creation order.
func (m *Manager) Names() []string {
	return append([]string(nil), m.order...)
}

// Update steps the current scene.
func (m *Manager) Update(dt float32) {
	if m.current != nil {
		m.current.Update(dt)
	}
}

// Clear drops every scene.
func (m *Manager) Clear() {
	for _, s := range m.scenes {
		s.Clear()
	}
	m.scenes = make(map[string]*Scene)
	m.order = nil
	m.current = nil
}
