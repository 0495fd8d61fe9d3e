package engine

import (
	"fmt"
	"log"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-frustum/common"
	"github.com/Carmen-Shannon/oxy-frustum/engine/camera"
	"github.com/Carmen-Shannon/oxy-frustum/engine/profiler"
	"github.com/Carmen-Shannon/oxy-frustum/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Window is the part of window.Window the engine loop drives.
type Window interface {
	PollEvents() bool
	IsRunning() bool
	Width() int
	Height() int
	SetResizeCallback(callback func(width, height int))
	SetKeyDownCallback(callback func(keyCode uint32))
	SetKeyUpCallback(callback func(keyCode uint32))
	SetMouseMoveCallback(callback func(x, y float64))
}

// Renderer is the part of renderer.Renderer the engine loop drives.
type Renderer interface {
	Resize(width, height int)
	WriteCamera(u camera.GPUCameraUniform)
	WriteFrustum(f common.Frustum)
	WriteInstances(matrices []mgl32.Mat4) error
	BeginFrame() error
	EndFrame()
	Present()
}

// engine implements the Engine interface.
// The whole frame runs on the goroutine that called Run, which must be the main goroutine
// when a GLFW window is attached.
type engine struct {
	mu *sync.Mutex

	running atomic.Bool
	quit    atomic.Bool

	window   Window
	renderer Renderer
	logger   *log.Logger

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickCallback func(deltaTime float32)
	drawCallback func(s scene.Scene)

	scenes map[int]scene.Scene

	frameLimit time.Duration // minimum frame duration; 0 = uncapped
	maxFrames  uint64        // 0 = unlimited
	frames     uint64

	now   func() time.Time
	sleep func(time.Duration)
}

// Engine is the main entry point for the engine.
// It polls the window, runs every active scene's frame (controller input, frustum rebuild,
// culling), uploads the primary scene to the renderer and reports profiling statistics.
type Engine interface {
	// Window returns the window driving the loop, or nil when running headless.
	Window() Window

	// Renderer returns the renderer, or nil when culling without presenting.
	Renderer() Renderer

	// Profiler returns the engine's profiler.
	Profiler() *profiler.Profiler

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickCallback registers the function called once per frame before the scenes run.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetDrawCallback registers the function that encodes draw calls for the primary scene
	// between BeginFrame and EndFrame.
	//
	// Parameters:
	//   - callback: function receiving the scene being presented
	SetDrawCallback(callback func(s scene.Scene))

	// SetFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetFrameLimit(fps float64)

	// AddScene registers a scene at the given z-index key.
	// Scenes run in ascending key order; the lowest active key is the one presented.
	//
	// Parameters:
	//   - key: the z-index determining order (lower runs first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key.
	// Returns nil if no scene exists at that key.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	//
	// Returns:
	//   - map[int]scene.Scene: a copy of the scenes map
	Scenes() map[int]scene.Scene

	// Frames returns the number of frames completed by Run.
	Frames() uint64

	// Run drives frames until the window closes, Quit is called or the frame cap is reached.
	// A panic inside a frame is recovered, logged and returned as an error.
	//
	// Returns:
	//   - error: error if a frame panicked or the renderer rejected an upload
	Run() error

	// Quit stops Run after the current frame.
	// Safe to call multiple times and from any goroutine.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, scenes, profiling, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:     &sync.Mutex{},
		scenes: make(map[int]scene.Scene),
		logger: log.New(os.Stderr, "", log.LstdFlags),
		now:    time.Now,
		sleep:  time.Sleep,
	}

	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.handleResize)
		e.window.SetKeyDownCallback(func(key uint32) {
			for _, ctrl := range e.controllers() {
				ctrl.KeyDown(key)
			}
		})
		e.window.SetKeyUpCallback(func(key uint32) {
			for _, ctrl := range e.controllers() {
				ctrl.KeyUp(key)
			}
		})
		e.window.SetMouseMoveCallback(func(x, y float64) {
			for _, ctrl := range e.controllers() {
				ctrl.MouseMove(x, y)
			}
		})
	}

	return e
}

func (e *engine) Window() Window {
	return e.window
}

func (e *engine) Renderer() Renderer {
	return e.renderer
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

// handleResize keeps every scene camera's aspect ratio and the renderer surface in step
// with the framebuffer.
func (e *engine) handleResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	for _, s := range e.sortedScenes(false) {
		s.Camera().SetAspect(float32(width) / float32(height))
	}
	if e.renderer != nil {
		e.renderer.Resize(width, height)
	}
}

// controllers returns the input controllers of the active scenes.
func (e *engine) controllers() []camera.Controller {
	var out []camera.Controller
	for _, s := range e.sortedScenes(true) {
		if ctrl := s.Controller(); ctrl != nil {
			out = append(out, ctrl)
		}
	}
	return out
}

// sortedScenes returns the registered scenes in ascending key order.
func (e *engine) sortedScenes(activeOnly bool) []scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()

	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]scene.Scene, 0, len(keys))
	for _, k := range keys {
		s := e.scenes[k]
		if activeOnly && !s.Active() {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (e *engine) Run() (err error) {
	if !e.running.CompareAndSwap(false, true) {
		return fmt.Errorf("engine: already running")
	}
	defer e.running.Store(false)
	e.quit.Store(false)

	defer func() {
		if r := recover(); r != nil {
			e.logger.Printf("[Engine] recovered from panic in frame %d: %v", e.frames+1, r)
			err = fmt.Errorf("engine: frame %d panicked: %v", e.frames+1, r)
		}
	}()

	last := e.now()
	for !e.quit.Load() {
		if e.window != nil && !e.window.PollEvents() {
			break
		}

		start := e.now()
		dt := float32(start.Sub(last).Seconds())
		last = start

		if err := e.frame(dt); err != nil {
			return err
		}

		e.frames++
		if e.maxFrames > 0 && e.frames >= e.maxFrames {
			break
		}

		if e.frameLimit > 0 {
			if remaining := e.frameLimit - e.now().Sub(start); remaining > 0 {
				e.sleep(remaining)
			}
		}
	}
	e.logger.Printf("[Engine] stopped after %d frames", e.frames)
	return nil
}

// frame runs one iteration: tick callback, scene frames, upload and present, profiling.
func (e *engine) frame(dt float32) error {
	if e.tickCallback != nil {
		e.tickCallback(dt)
	}

	active := e.sortedScenes(true)
	for _, s := range active {
		stats := s.Frame(dt)
		if e.profilingEnabled {
			e.profiler.RecordCulling(stats.Tested, stats.Visible)
		}
	}

	if e.renderer != nil && len(active) > 0 {
		if err := e.present(active[0]); err != nil {
			return err
		}
	}

	if e.profilingEnabled {
		e.profiler.Tick()
	}
	return nil
}

// present uploads the scene's camera, frustum and visible instances and presents a frame.
// A frame whose surface texture cannot be acquired is skipped.
func (e *engine) present(s scene.Scene) error {
	e.renderer.WriteCamera(s.Camera().Uniform())
	e.renderer.WriteFrustum(s.Frustum())
	if err := e.renderer.WriteInstances(s.VisibleMatrices()); err != nil {
		return fmt.Errorf("engine: upload instances of scene %q: %w", s.Name(), err)
	}

	if err := e.renderer.BeginFrame(); err != nil {
		e.logger.Printf("[Engine] skipping frame %d: %v", e.frames+1, err)
		return nil
	}
	if e.drawCallback != nil {
		e.drawCallback(s)
	}
	e.renderer.EndFrame()
	e.renderer.Present()
	return nil
}

func (e *engine) Quit() {
	e.quit.Store(true)
}

func (e *engine) Frames() uint64 {
	return e.frames
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetDrawCallback(callback func(s scene.Scene)) {
	e.drawCallback = callback
}

func (e *engine) SetFrameLimit(fps float64) {
	e.frameLimit = frameDuration(fps)
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := make(map[int]scene.Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}
