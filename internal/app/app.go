package app

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/softbody/internal/config"
	"github.com/Faultbox/softbody/internal/engine/camera"
	"github.com/Faultbox/softbody/internal/engine/debug"
	"github.com/Faultbox/softbody/internal/engine/input"
	"github.com/Faultbox/softbody/internal/engine/lighting"
	"github.com/Faultbox/softbody/internal/engine/renderer"
	"github.com/Faultbox/softbody/internal/engine/renderer/shaders"
	"github.com/Faultbox/softbody/internal/engine/shader"
	"github.com/Faultbox/softbody/internal/engine/window"
	"github.com/Faultbox/softbody/internal/logger"
	"github.com/Faultbox/softbody/internal/scene"
)

// App is the interactive viewer.
type App struct {
	config  *config.Config
	scenes  *scene.Manager
	running bool
	paused  bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	lens     *camera.Camera
	orbit    *camera.OrbitCamera
	program  uint32
	shots    *debug.ScreenshotCapture
	capture  bool

	// Overlay scratch, reused every frame.
	overlay []mgl32.Vec3
}

// Overlay colors.
var (
	boundsColor = mgl32.Vec3{1, 1, 0}
	normalColor = mgl32.Vec3{0.2, 0.4, 1}
)

// normalLength is the drawn length of face normals, in world units.
const normalLength = 0.3

// New opens the window and prepares rendering for scenes.
func New(cfg *config.Config, scenes *scene.Manager) (*App, error) {
	logger.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	a := &App{
		config: cfg,
		scenes: scenes,
		input:  input.New(),
		lens:   camera.New(),
		orbit:  camera.NewOrbitCamera(),
		shots:  debug.NewScreenshotCapture(cfg.Render.ScreenshotDir, "softbody"),
	}

	// Window first: the renderer needs its OpenGL context.
	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := a.window.Size()
	a.renderer, a.program, err = newRenderer(cfg, width, height)
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	logger.Info("viewer initialized")
	return a, nil
}

func newRenderer(cfg *config.Config, width, height int) (*renderer.Renderer, uint32, error) {
	program, err := shader.CompileProgram(shaders.ObjectVertexShader, shaders.ObjectFragmentShader)
	if err != nil {
		return nil, 0, err
	}
	r, err := renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		Program:    program,
		Background: mgl32.Vec3(cfg.Render.Background),
		Wireframe:  cfg.Render.Wireframe,
		LightDir:   lighting.SunDirection(cfg.Render.SunAzimuth, cfg.Render.SunElevation),
	})
	if err != nil {
		gl.DeleteProgram(program)
		return nil, 0, err
	}
	return r, program, nil
}

// Run runs the frame loop until the window is closed.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting frame loop")

	for a.running {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now
		if dt > a.config.Simulation.MaxFrameTime {
			dt = a.config.Simulation.MaxFrameTime
		}

		if a.input.Update() {
			a.running = false
			break
		}
		step := a.handleEvents()

		if !a.paused {
			a.scenes.Update(float32(dt.Seconds()))
		} else if step {
			a.scenes.Update(float32(a.config.Simulation.TimeStep.Seconds()))
		}

		a.render()
		if a.capture {
			a.screenshot()
			a.capture = false
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.window.SetTitle(fmt.Sprintf("%s - %d fps", a.config.Window.Title, frameCount))
			logger.Debug("fps", zap.Int("count", frameCount), zap.Duration("dt", dt))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// handleEvents applies this frame's input and reports whether a single step
// was requested.
func (a *App) handleEvents() (step bool) {
	for _, event := range a.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			a.renderer.Resize(a.window.Size())
		case input.EventMouseDrag:
			a.orbit.HandleDrag(event.DX, event.DY)
		case input.EventMouseWheel:
			a.orbit.HandleZoom(event.DY)
		}

		switch event.Action {
		case input.ActionQuit:
			a.running = false
		case input.ActionReset:
			if s := a.scenes.Current(); s != nil {
				s.Reset()
			}
		case input.ActionPause:
			a.paused = !a.paused
			logger.Info("pause toggled", zap.Bool("paused", a.paused))
		case input.ActionStep:
			step = true
		case input.ActionWireframe:
			a.renderer.SetWireframe(!a.renderer.Wireframe())
		case input.ActionScreenshot:
			a.capture = true
		}
	}
	return step
}

func (a *App) render() {
	a.renderer.Begin(a.orbit.ViewMatrix(), a.lens.ProjectionMatrix(a.renderer.Aspect()))
	if s := a.scenes.Current(); s != nil {
		for _, o := range s.Objects {
			a.renderer.DrawMesh(o.Body.Position, o.Mesh.Triangles, o.Body.Distance.Edges, o.Color)
		}
		a.drawOverlays(s)
	}
	a.renderer.End()
}

func (a *App) drawOverlays(s *scene.Scene) {
	if a.config.Render.ShowBounds {
		a.overlay = a.overlay[:0]
		for _, o := range s.Objects {
			a.overlay = debug.AppendBBox(a.overlay, o.Bounds(), debug.DefaultBBoxPadding)
		}
		a.renderer.DrawLines(a.overlay, boundsColor)
	}
	if a.config.Render.ShowNormals {
		a.overlay = a.overlay[:0]
		for _, o := range s.Objects {
			a.overlay = debug.AppendNormals(a.overlay, o.Body.Position, o.Mesh.Triangles, normalLength)
		}
		a.renderer.DrawLines(a.overlay, normalColor)
	}
}

// screenshot saves the back buffer. It must run between render and SwapBuffers.
func (a *App) screenshot() {
	pixels, width, height := a.renderer.ReadPixels()
	path, err := a.shots.CaptureFromPixels(pixels, width, height)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close releases the window and GL resources.
func (a *App) Close() {
	logger.Info("closing viewer")

	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.program != 0 {
		gl.DeleteProgram(a.program)
	}
	if a.window != nil {
		a.window.Close()
	}
}
