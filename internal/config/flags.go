package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagScene      = flag.String("scene", "", "Scene file to load")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagHeadless   = flag.Bool("headless", false, "Run without a window")
	flagFrames     = flag.Int("frames", 0, "Number of frames to simulate in headless mode")
	flagSubsteps   = flag.Int("substeps", 0, "Solver substeps per frame")
	flagCompliance = flag.Float64("compliance", -1, "Constraint compliance (inverse stiffness)")
	flagDamping    = flag.Float64("damping", -1, "Constraint damping")
	flagWorkers    = flag.Int("workers", -1, "Object worker count (0 = one per CPU)")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagScene != "" {
		cfg.Simulation.Scene = *flagScene
	}
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagHeadless {
		cfg.Simulation.Headless = true
	}
	if *flagFrames > 0 {
		cfg.Simulation.Frames = *flagFrames
	}
	if *flagSubsteps > 0 {
		cfg.Solver.Substeps = *flagSubsteps
	}
	if *flagCompliance >= 0 {
		cfg.Solver.Compliance = float32(*flagCompliance)
	}
	if *flagDamping >= 0 {
		cfg.Solver.Damping = float32(*flagDamping)
	}
	if *flagWorkers >= 0 {
		cfg.Simulation.Workers = *flagWorkers
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
}
