// Package assets handles mesh loading and caching.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/softbody/pkg/mesh"
)

// ErrUnknownMesh is returned when no directory or built-in provides a mesh.
var ErrUnknownMesh = errors.New("unknown mesh")

// Manager resolves mesh names to meshes.
//
// A name is looked up as <dir>/<name>.obj in every registered directory,
// last added first, and then among the built-in meshes. Loaded meshes are
// cached and shared; callers must treat them as read-only.
type Manager struct {
	dirs    []string
	builtin map[string]func() *mesh.Mesh
	cache   *Cache
	mu      sync.RWMutex
	log     *zap.Logger
}

// NewManager creates a mesh manager with the "cube" and "plane" built-ins.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		builtin: map[string]func() *mesh.Mesh{
			"cube":  mesh.Cube,
			"plane": mesh.Plane,
		},
		cache: NewCache(),
		log:   log,
	}
}

// AddDir adds a directory to search for OBJ files.
// Directories are searched in reverse order (last added = highest priority).
func (m *Manager) AddDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("adding mesh dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("adding mesh dir %s: not a directory", dir)
	}

	m.mu.Lock()
	m.dirs = append(m.dirs, dir)
	m.mu.Unlock()
	return nil
}

// Register adds or replaces a built-in mesh constructor.
func (m *Manager) Register(name string, fn func() *mesh.Mesh) {
	m.mu.Lock()
	m.builtin[name] = fn
	m.mu.Unlock()
}

// Load returns the mesh called name.
func (m *Manager) Load(name string) (*mesh.Mesh, error) {
	if msh, ok := m.cache.Get(name); ok {
		return msh, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.dirs) - 1; i >= 0; i-- {
		path := filepath.Join(m.dirs[i], name+".obj")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		msh, err := mesh.LoadOBJ(path)
		if err != nil {
			m.log.Error("failed to load mesh",
				zap.String("mesh", name),
				zap.String("path", path),
				zap.Error(err),
			)
			return nil, fmt.Errorf("loading mesh %s: %w", name, err)
		}
		msh.Name = name
		m.log.Debug("mesh loaded",
			zap.String("mesh", name),
			zap.String("path", path),
			zap.Int("vertices", msh.VertexCount()),
			zap.Int("triangles", len(msh.Triangles)),
		)
		m.cache.Set(name, msh)
		return msh, nil
	}

	if fn, ok := m.builtin[name]; ok {
		msh := fn()
		m.cache.Set(name, msh)
		return msh, nil
	}

	m.log.Error("mesh not found", zap.String("mesh", name))
	return nil, fmt.Errorf("%w: %s", ErrUnknownMesh, name)
}

// Stats returns cache statistics.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

// Close drops every cached mesh.
func (m *Manager) Close() {
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded meshes.
type Cache struct {
	data map[string]*mesh.Mesh
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*mesh.Mesh),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) (*mesh.Mesh, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	msh, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return msh, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, msh *mesh.Mesh) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = msh
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*mesh.Mesh)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
