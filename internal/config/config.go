// Package config handles simulator configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/softbody/pkg/xpbd"
)

// Config holds all simulator settings.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Simulation SimulationConfig `yaml:"simulation"`
	Solver     SolverConfig     `yaml:"solver"`
	Render     RenderConfig     `yaml:"render"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// WindowConfig holds display settings for the viewer.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// SimulationConfig holds frame loop settings.
type SimulationConfig struct {
	Scene        string        `yaml:"scene"`          // Scene file to load at startup
	MeshDir      string        `yaml:"mesh_dir"`       // Directory searched for <name>.obj
	TimeStep     time.Duration `yaml:"time_step"`      // Fixed frame time in headless mode
	MaxFrameTime time.Duration `yaml:"max_frame_time"` // Clamp for measured frame time
	Workers      int           `yaml:"workers"`        // 0 = one per CPU, 1 = sequential
	Headless     bool          `yaml:"headless"`
	Frames       int           `yaml:"frames"` // Headless frame count
}

// SolverConfig holds XPBD settings.
type SolverConfig struct {
	Compliance      float32    `yaml:"compliance"`
	Damping         float32    `yaml:"damping"`
	Substeps        int        `yaml:"substeps"`
	Gravity         [3]float32 `yaml:"gravity"`
	EnableDistance  bool       `yaml:"enable_distance"`
	EnableVolume    bool       `yaml:"enable_volume"`
	EnableCollision bool       `yaml:"enable_collision"`
}

// RenderConfig holds viewer drawing settings.
type RenderConfig struct {
	Wireframe     bool       `yaml:"wireframe"`
	ShowNormals   bool       `yaml:"show_normals"`
	ShowBounds    bool       `yaml:"show_bounds"`
	Background    [3]float32 `yaml:"background"`
	SunAzimuth    float32    `yaml:"sun_azimuth"`   // Degrees around +Y, 0 = toward +Z
	SunElevation  float32    `yaml:"sun_elevation"` // Degrees above the horizon
	ScreenshotDir string     `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	p := xpbd.DefaultParams()
	return &Config{
		Window: WindowConfig{
			Title:  "XPBD Softbody",
			Width:  1080,
			Height: 720,
			VSync:  true,
		},
		Simulation: SimulationConfig{
			Scene:        "scenes/test_scene.yaml",
			MeshDir:      "meshes",
			TimeStep:     time.Second / 60,
			MaxFrameTime: 50 * time.Millisecond,
			Workers:      0,
			Frames:       600,
		},
		Solver: SolverConfig{
			Compliance:      p.Compliance,
			Damping:         p.Damping,
			Substeps:        p.Substeps,
			Gravity:         [3]float32{0, -9.81, 0},
			EnableDistance:  p.EnableDistance,
			EnableVolume:    p.EnableVolume,
			EnableCollision: p.EnableCollision,
		},
		Render: RenderConfig{
			Wireframe:     true,
			Background:    [3]float32{0.1, 0.5, 0.4},
			SunAzimuth:    30,
			SunElevation:  60,
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Params converts the solver section to solver parameters.
func (s SolverConfig) Params() xpbd.Params {
	return xpbd.Params{
		Compliance:      s.Compliance,
		Damping:         s.Damping,
		Substeps:        s.Substeps,
		EnableDistance:  s.EnableDistance,
		EnableVolume:    s.EnableVolume,
		EnableCollision: s.EnableCollision,
	}
}

// GravityVec returns the gravity setting as a vector.
func (s SolverConfig) GravityVec() mgl32.Vec3 {
	return mgl32.Vec3(s.Gravity)
}

// Validate checks values that would make the simulation unusable.
func (c *Config) Validate() error {
	if err := c.Solver.Params().Validate(); err != nil {
		return err
	}
	if c.Simulation.TimeStep <= 0 {
		return fmt.Errorf("simulation.time_step must be positive, got %v", c.Simulation.TimeStep)
	}
	if c.Simulation.Workers < 0 {
		return fmt.Errorf("simulation.workers must not be negative, got %d", c.Simulation.Workers)
	}
	return nil
}
