// Package main is the entry point for the softbody simulator.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/softbody/internal/app"
	"github.com/Faultbox/softbody/internal/config"
	"github.com/Faultbox/softbody/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== XPBD Softbody ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	scenes, lib := app.LoadScenes(cfg)
	defer lib.Close()

	if cfg.Simulation.Headless {
		app.RunHeadless(scenes.Current(), cfg.Simulation.Frames, float32(cfg.Simulation.TimeStep.Seconds()))
		return
	}

	a, err := app.New(cfg, scenes)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
