package engine

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-frustum/common"
	"github.com/Carmen-Shannon/oxy-frustum/engine/camera"
	"github.com/Carmen-Shannon/oxy-frustum/engine/game_object"
	"github.com/Carmen-Shannon/oxy-frustum/engine/model"
	"github.com/Carmen-Shannon/oxy-frustum/engine/profiler"
	"github.com/Carmen-Shannon/oxy-frustum/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

type fakeWindow struct {
	polls      int
	closeAfter int // PollEvents returns false from this poll on; 0 = never
	width      int
	height     int

	onResize    func(width, height int)
	onKeyDown   func(uint32)
	onKeyUp     func(uint32)
	onMouseMove func(x, y float64)

	// events run at the given poll number, simulating input delivered by PollEvents
	events map[int]func(w *fakeWindow)
}

func (w *fakeWindow) PollEvents() bool {
	w.polls++
	if w.closeAfter > 0 && w.polls >= w.closeAfter {
		return false
	}
	if ev, ok := w.events[w.polls]; ok {
		ev(w)
	}
	return true
}

func (w *fakeWindow) IsRunning() bool { return w.closeAfter == 0 || w.polls < w.closeAfter }
func (w *fakeWindow) Width() int { return w.width }
func (w *fakeWindow) Height() int { return w.height }
func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.onResize = cb }
func (w *fakeWindow) SetKeyDownCallback(cb func(keyCode uint32)) { w.onKeyDown = cb }
func (w *fakeWindow) SetKeyUpCallback(cb func(keyCode uint32)) { w.onKeyUp = cb }
func (w *fakeWindow) SetMouseMoveCallback(cb func(x, y float64)) { w.onMouseMove = cb }

type fakeRenderer struct {
	calls     []string
	instances int
	frustum   common.Frustum
	camera    camera.GPUCameraUniform
	resized   [2]int
	beginErr  error
	uploadErr error
}

func (r *fakeRenderer) Resize(width, height int) { r.resized = [2]int{width, height} }
func (r *fakeRenderer) WriteCamera(u camera.GPUCameraUniform) {
	r.calls = append(r.calls, "camera")
	r.camera = u
}
func (r *fakeRenderer) WriteFrustum(f common.Frustum) {
	r.calls = append(r.calls, "frustum")
	r.frustum = f
}
func (r *fakeRenderer) WriteInstances(m []mgl32.Mat4) error {
	r.calls = append(r.calls, "instances")
	r.instances = len(m)
	return r.uploadErr
}
func (r *fakeRenderer) BeginFrame() error {
	r.calls = append(r.calls, "begin")
	return r.beginErr
}
func (r *fakeRenderer) EndFrame() { r.calls = append(r.calls, "end") }
func (r *fakeRenderer) Present() { r.calls = append(r.calls, "present") }

// newTestScene places one cube in front of the camera and one behind it.
func newTestScene(t *testing.T) (scene.Scene, camera.Controller) {
	t.Helper()
	cam := camera.NewCamera(camera.WithPosition(mgl32.Vec3{}), camera.WithYaw(90))
	ctrl := camera.NewController(cam)
	cube := model.NewModel(model.WithName("cube"), model.WithMeshes(model.NewCubeMesh(1)))
	s := scene.NewScene("test", cam,
		scene.WithActive(true),
		scene.WithController(ctrl),
		scene.WithObjects(
			game_object.NewGameObject(game_object.WithModel(cube), game_object.WithPosition(mgl32.Vec3{0, 0, 10})),
			game_object.NewGameObject(game_object.WithModel(cube), game_object.WithPosition(mgl32.Vec3{0, 0, -10})),
		),
	)
	return s, ctrl
}

// fakeClock advances by step on every read.
func fakeClock(step time.Duration) func() time.Time {
	t0 := time.Unix(0, 0)
	return func() time.Time {
		t0 = t0.Add(step)
		return t0
	}
}

func quietLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.New(&buf, "", 0), &buf
}

func TestRunStopsAtMaxFrames(t *testing.T) {
	s, _ := newTestScene(t)
	r := &fakeRenderer{}
	logger, _ := quietLogger()
	now := fakeClock(time.Millisecond)
	ticks := 0

	e := NewEngine(
		WithScene(0, s),
		WithRenderer(r),
		WithLogger(logger),
		WithMaxFrames(3),
		WithTickCallback(func(float32) { ticks++ }),
		withClock(now, func(time.Duration) {}),
	)
	if err := e.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	if e.Frames() != 3 || ticks != 3 {
		t.Errorf("frames=%d ticks=%d, want 3", e.Frames(), ticks)
	}
	if got := s.Stats(); got.Frame != 3 || got.Visible != 1 || got.Tested != 2 {
		t.Errorf("scene stats = %+v", got)
	}
	if r.instances != 1 {
		t.Errorf("uploaded %d instances, want 1", r.instances)
	}
	want := "camera,frustum,instances,begin,end,present"
	if got := strings.Join(r.calls[:6], ","); got != want {
		t.Errorf("renderer calls = %s, want %s", got, want)
	}
	if r.frustum != s.Frustum() {
		t.Errorf("uploaded frustum differs from the scene frustum")
	}
}

func TestRunStopsWhenWindowCloses(t *testing.T) {
	s, _ := newTestScene(t)
	w := &fakeWindow{closeAfter: 5, width: 800, height: 600}
	logger, _ := quietLogger()
	now := fakeClock(time.Millisecond)

	e := NewEngine(WithWindow(w), WithScene(0, s), WithLogger(logger), withClock(now, func(time.Duration) {}))
	if err := e.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if e.Frames() != 4 {
		t.Errorf("frames = %d, want 4", e.Frames())
	}
}

func TestQuitFromTickCallback(t *testing.T) {
	s, _ := newTestScene(t)
	logger, _ := quietLogger()
	now := fakeClock(time.Millisecond)

	var e Engine
	e = NewEngine(WithScene(0, s), WithLogger(logger), withClock(now, func(time.Duration) {}),
		WithTickCallback(func(float32) {
			if e.Frames() == 1 {
				e.Quit()
			}
		}))
	if err := e.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if e.Frames() != 2 {
		t.Errorf("frames = %d, want 2", e.Frames())
	}
}

func TestInputReachesController(t *testing.T) {
	s, _ := newTestScene(t)
	w := &fakeWindow{
		closeAfter: 3,
		events: map[int]func(w *fakeWindow){
			1: func(w *fakeWindow) { w.onKeyDown(common.KeyW) },
			2: func(w *fakeWindow) { w.onKeyUp(common.KeyW) },
		},
	}
	logger, _ := quietLogger()
	now := fakeClock(100 * time.Millisecond)

	e := NewEngine(WithWindow(w), WithScene(0, s), WithLogger(logger), withClock(now, func(time.Duration) {}))
	if err := e.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if z := s.Camera().Position()[2]; z <= 0 {
		t.Errorf("camera did not move forward, z = %f", z)
	}
}

func TestResizeUpdatesAspectAndRenderer(t *testing.T) {
	s, _ := newTestScene(t)
	w := &fakeWindow{}
	r := &fakeRenderer{}
	NewEngine(WithWindow(w), WithRenderer(r), WithScene(0, s))

	w.onResize(1000, 500)
	if got := s.Camera().Projection().Aspect; got != 2 {
		t.Errorf("aspect = %f, want 2", got)
	}
	if r.resized != [2]int{1000, 500} {
		t.Errorf("renderer resized to %v", r.resized)
	}

	w.onResize(0, 0)
	if r.resized != [2]int{1000, 500} {
		t.Errorf("minimized window resized the renderer to %v", r.resized)
	}
}

func TestRunRecoversPanics(t *testing.T) {
	s, _ := newTestScene(t)
	logger, buf := quietLogger()
	now := fakeClock(time.Millisecond)

	e := NewEngine(WithScene(0, s), WithLogger(logger), withClock(now, func(time.Duration) {}),
		WithTickCallback(func(float32) { panic("boom") }))
	err := e.Run()
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("Run() = %v, want panic error", err)
	}
	if !strings.Contains(buf.String(), "[Engine] recovered from panic") {
		t.Errorf("log = %q", buf.String())
	}
}

func TestUploadErrorStopsRun(t *testing.T) {
	s, _ := newTestScene(t)
	logger, _ := quietLogger()
	now := fakeClock(time.Millisecond)
	r := &fakeRenderer{uploadErr: errors.New("out of memory")}

	e := NewEngine(WithScene(0, s), WithRenderer(r), WithLogger(logger), withClock(now, func(time.Duration) {}))
	if err := e.Run(); err == nil || !strings.Contains(err.Error(), "out of memory") {
		t.Fatalf("Run() = %v", err)
	}
}

func TestBeginFrameFailureSkipsPresent(t *testing.T) {
	s, _ := newTestScene(t)
	logger, buf := quietLogger()
	now := fakeClock(time.Millisecond)
	r := &fakeRenderer{beginErr: errors.New("surface lost")}
	draws := 0

	e := NewEngine(WithScene(0, s), WithRenderer(r), WithLogger(logger), WithMaxFrames(1),
		WithDrawCallback(func(scene.Scene) { draws++ }), withClock(now, func(time.Duration) {}))
	if err := e.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if draws != 0 || strings.Contains(strings.Join(r.calls, ","), "present") {
		t.Errorf("draws=%d calls=%v", draws, r.calls)
	}
	if !strings.Contains(buf.String(), "surface lost") {
		t.Errorf("log = %q", buf.String())
	}
}

func TestFrameLimitSleeps(t *testing.T) {
	s, _ := newTestScene(t)
	logger, _ := quietLogger()
	now := fakeClock(time.Millisecond)
	var slept []time.Duration

	e := NewEngine(WithScene(0, s), WithLogger(logger), WithMaxFrames(3), WithFrameLimit(100),
		withClock(now, func(d time.Duration) { slept = append(slept, d) }))
	if err := e.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	// the last frame hits the cap before sleeping
	if len(slept) != 2 {
		t.Fatalf("slept %d times, want 2", len(slept))
	}
	for _, d := range slept {
		if d <= 0 || d > 10*time.Millisecond {
			t.Errorf("sleep %s outside (0, 10ms]", d)
		}
	}
}

func TestProfilerReceivesCullingStats(t *testing.T) {
	s, _ := newTestScene(t)
	logger, buf := quietLogger()
	clock := fakeClock(100 * time.Millisecond)
	p := profiler.NewProfiler(profiler.WithLogger(logger), profiler.WithClock(clock), profiler.WithMemoryStats(false))

	e := NewEngine(WithScene(0, s), WithLogger(logger), WithProfiler(p), WithProfiling(true), WithMaxFrames(20),
		withClock(clock, func(time.Duration) {}))
	if err := e.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if !strings.Contains(buf.String(), "Visible: 1/2 (1 culled)") {
		t.Errorf("profiler log = %q", buf.String())
	}
}

func TestInactiveScenesAreSkipped(t *testing.T) {
	s, _ := newTestScene(t)
	s.SetActive(false)
	logger, _ := quietLogger()
	now := fakeClock(time.Millisecond)
	r := &fakeRenderer{}

	e := NewEngine(WithScene(0, s), WithRenderer(r), WithLogger(logger), WithMaxFrames(2), withClock(now, func(time.Duration) {}))
	if err := e.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if s.Stats().Frame != 0 || len(r.calls) != 0 {
		t.Errorf("inactive scene ran: stats=%+v calls=%v", s.Stats(), r.calls)
	}
}
