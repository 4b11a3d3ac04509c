// Package app wires configuration, scenes and the viewer together.
package app

import (
	"go.uber.org/zap"

	"github.com/Faultbox/softbody/internal/assets"
	"github.com/Faultbox/softbody/internal/config"
	"github.com/Faultbox/softbody/internal/logger"
	"github.com/Faultbox/softbody/internal/scene"
)

// MainScene is the name the startup scene is registered under.
const MainScene = "main"

// FallbackScene drops a unit soft cube onto a wide static platform.
// It is used when the configured scene file cannot be loaded.
func FallbackScene() *scene.Description {
	return &scene.Description{
		Name: "fallback",
		Objects: []scene.ObjectConfig{
			{
				Name:       "platform",
				Mesh:       "cube",
				Scale:      [3]float32{20, 1, 20},
				Static:     true,
				VertexMass: scene.DefaultVertexMass,
				Color:      [3]float32{0.35, 0.35, 0.35},
			},
			{
				Name:       "softbody",
				Mesh:       "cube",
				Position:   [3]float32{0, 3, 0},
				Scale:      scene.DefaultScale,
				VertexMass: scene.DefaultVertexMass,
				Color:      [3]float32{0.95, 0.55, 0.2},
			},
		},
	}
}

// SceneOptions converts configuration to scene options.
func SceneOptions(cfg *config.Config) scene.Options {
	return scene.Options{
		Params:    cfg.Solver.Params(),
		Gravity:   cfg.Solver.GravityVec(),
		Scheduler: scene.NewScheduler(cfg.Simulation.Workers),
		Logger:    logger.Named("scene"),
	}
}

// LoadScenes builds the mesh library and a scene manager holding the
// configured startup scene, or FallbackScene if it fails to load.
func LoadScenes(cfg *config.Config) (*scene.Manager, *assets.Manager) {
	lib := assets.NewManager(logger.Named("assets"))
	if cfg.Simulation.MeshDir != "" {
		if err := lib.AddDir(cfg.Simulation.MeshDir); err != nil {
			logger.Warn("mesh directory unavailable, using built-in meshes", zap.Error(err))
		}
	}

	scenes := scene.NewManager(lib, SceneOptions(cfg))
	if err := scenes.Create(MainScene, cfg.Simulation.Scene); err != nil {
		logger.Warn("using fallback scene", zap.String("path", cfg.Simulation.Scene))
		scenes.Add(MainScene, FallbackScene())
	}
	return scenes, lib
}
