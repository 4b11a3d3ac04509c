package scene

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/softbody/pkg/mesh"
	"github.com/Faultbox/softbody/pkg/xpbd"
)

// MeshSource resolves mesh names used in scene files.
type MeshSource interface {
	Load(name string) (*mesh.Mesh, error)
}

// Options configures scenes built by New and Manager.
type Options struct {
	Params    xpbd.Params
	Gravity   mgl32.Vec3
	Scheduler Scheduler // nil means Sequential
	Logger    *zap.Logger
}

// Stats accumulates work done by Update since the last Reset.
type Stats struct {
	Frames int
	Solver xpbd.Stats
}

// Scene is a set of objects stepped together.
//
// Every non-static object collides with every other object, static or not.
// A Scene is not safe for concurrent use; Update parallelizes internally.
type Scene struct {
	Name    string
	Gravity mgl32.Vec3
	Objects []*Object

	lib     MeshSource
	solver  *xpbd.Solver
	sched   Scheduler
	log     *zap.Logger
	byName  map[string]*Object
	dynamic []*Object
	frame   []xpbd.Stats
	stats   Stats
}

// New builds a scene from desc. Objects whose mesh cannot be loaded or whose
// body cannot be built are logged and left out.
func New(name string, desc *Description, lib MeshSource, opts Options) *Scene {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = Sequential{}
	}

	s := &Scene{
		Name:    name,
		Gravity: opts.Gravity,
		lib:     lib,
		solver:  xpbd.NewSolver(opts.Params, xpbd.WithLogger(log.Named("xpbd"))),
		sched:   sched,
		log:     log.With(zap.String("scene", name)),
		byName:  make(map[string]*Object),
	}
	if desc != nil {
		if desc.Gravity != nil {
			s.Gravity = mgl32.Vec3(*desc.Gravity)
		}
		for _, cfg := range desc.Objects {
			if err := s.addObject(cfg); err != nil {
				s.log.Error("skipping object", zap.String("object", cfg.Name), zap.Error(err))
			}
		}
	}
	s.SetupEnvCollision()

	s.log.Info("scene created",
		zap.Int("objects", len(s.Objects)),
		zap.Int("dynamic", len(s.dynamic)),
	)
	return s
}

// Solver returns the solver shared by all objects of the scene.
func (s *Scene) Solver() *xpbd.Solver {
	return s.solver
}

// Object returns the object called name, or nil.
func (s *Scene) Object(name string) *Object {
	return s.byName[name]
}

// AddObject loads and places a new object and rebuilds collision groups.
func (s *Scene) AddObject(cfg ObjectConfig) error {
	cfg.applyDefaults()
	if err := s.addObject(cfg); err != nil {
		return err
	}
	s.SetupEnvCollision()
	return nil
}

func (s *Scene) addObject(cfg ObjectConfig) error {
	if _, ok := s.byName[cfg.Name]; ok {
		return fmt.Errorf("%w: duplicate object name %q", ErrInvalidScene, cfg.Name)
	}
	if s.lib == nil {
		return fmt.Errorf("object %q: no mesh source", cfg.Name)
	}
	template, err := s.lib.Load(cfg.Mesh)
	if err != nil {
		return err
	}
	o, err := NewObject(cfg, template)
	if err != nil {
		return err
	}

	s.Objects = append(s.Objects, o)
	s.byName[o.Name] = o
	if !o.Static {
		s.dynamic = append(s.dynamic, o)
	}
	s.log.Debug("object added",
		zap.String("object", o.Name),
		zap.String("mesh", cfg.Mesh),
		zap.Bool("static", o.Static),
		zap.Int("vertices", o.Body.VertexCount()),
		zap.Int("edges", o.Body.Distance.Len()),
	)
	return nil
}

// RemoveObject removes the object called name and rebuilds collision groups.
// It reports whether the object existed.
func (s *Scene) RemoveObject(name string) bool {
	o, ok := s.byName[name]
	if !ok {
		return false
	}
	delete(s.byName, name)
	s.Objects = removeObject(s.Objects, o)
	s.dynamic = removeObject(s.dynamic, o)
	s.SetupEnvCollision()
	return true
}

func removeObject(list []*Object, o *Object) []*Object {
	for i, x := range list {
		if x == o {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// SetupEnvCollision gives every non-static object one collision group per
// other object, with every vertex a candidate of every obstacle face.
func (s *Scene) SetupEnvCollision() {
	for _, o := range s.dynamic {
		groups := make([]xpbd.CollisionGroup, 0, len(s.Objects)-1)
		for _, obstacle := range s.Objects {
			if obstacle == o {
				continue
			}
			groups = append(groups, xpbd.NewCollisionGroup(
				obstacle.Name, obstacle.Surfaces(nil), o.Body.VertexCount()))
		}
		o.Body.Collision = groups
	}
}

// refreshSurfaces recomputes obstacle half-spaces from the obstacles' current
// positions. It runs before objects are stepped in parallel, so each group
// holds its own copy and never reads another body during the step.
func (s *Scene) refreshSurfaces() {
	for _, o := range s.dynamic {
		for i := range o.Body.Collision {
			g := &o.Body.Collision[i]
			obstacle, ok := s.byName[g.Obstacle]
			if !ok {
				continue
			}
			n := len(g.Surfaces)
			g.Surfaces = obstacle.Surfaces(g.Surfaces[:0])
			if len(g.Surfaces) != n {
				*g = xpbd.NewCollisionGroup(g.Obstacle, g.Surfaces, o.Body.VertexCount())
			}
		}
	}
}

// Update advances every non-static object by dt seconds and returns the
// solver statistics of this frame. A non-positive dt does nothing.
func (s *Scene) Update(dt float32) xpbd.Stats {
	var total xpbd.Stats
	if !(dt > 0) {
		return total
	}

	s.refreshSurfaces()

	if cap(s.frame) < len(s.dynamic) {
		s.frame = make([]xpbd.Stats, len(s.dynamic))
	}
	s.frame = s.frame[:len(s.dynamic)]

	g := s.Gravity
	s.sched.ForEach(len(s.dynamic), func(i int) {
		o := s.dynamic[i]
		o.Body.SetAcceleration(g)
		s.frame[i] = s.solver.Step(o.Body, dt)
	})

	for _, st := range s.frame {
		total.Add(st)
	}
	s.stats.Frames++
	s.stats.Solver.Add(total)
	return total
}

// Reset restores every object to its initial pose and clears the statistics.
func (s *Scene) Reset() {
	for _, o := range s.Objects {
		o.Reset()
	}
	s.SetupEnvCollision()
	s.stats = Stats{}
	s.log.Info("scene reset")
}

// Clear removes all objects.
func (s *Scene) Clear() {
	s.Objects = nil
	s.dynamic = nil
	s.byName = make(map[string]*Object)
	s.stats = Stats{}
}

// Stats returns the statistics accumulated since creation or the last Reset.
func (s *Scene) Stats() Stats {
	return s.stats
}

// Dump writes every object's positions and velocities as text, one vertex
// per line, in object order.
func (s *Scene) Dump(w io.Writer) error {
	for _, o := range s.Objects {
		if _, err := fmt.Fprintf(w, "object %s\n", o.Name); err != nil {
			return err
		}
		for i, p := range o.Body.Position {
			v := o.Body.Velocity[i]
			if _, err := fmt.Fprintf(w, "  %d p=(%.6f %.6f %.6f) v=(%.6f %.6f %.6f)\n",
				i, p[0], p[1], p[2], v[0], v[1], v[2]); err != nil {
				return err
			}
		}
	}
	return nil
}
