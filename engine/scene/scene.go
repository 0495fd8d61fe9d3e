package scene

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-frustum/common"
	"github.com/Carmen-Shannon/oxy-frustum/engine/camera"
	"github.com/Carmen-Shannon/oxy-frustum/engine/game_object"
	"github.com/go-gl/mathgl/mgl32"
)

// CullMode selects how a Scene decides object visibility.
type CullMode int

const (
	// CullMatrix extracts the frustum from the camera's projection * view matrix.
	CullMatrix CullMode = iota
	// CullAnalytic builds the frustum from the camera pose and projection parameters.
	CullAnalytic
	// CullDisabled treats every enabled object as visible.
	CullDisabled
)

var cullModeNames = map[CullMode]string{
	CullMatrix:   "matrix",
	CullAnalytic: "analytic",
	CullDisabled: "disabled",
}

func (m CullMode) String() string {
	if name, ok := cullModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("CullMode(%d)", int(m))
}

// ParseCullMode converts a configuration name ("matrix", "analytic", "disabled") to a CullMode.
//
// Parameters:
//   - name: the mode name
//
// Returns:
//   - CullMode: the parsed mode
//   - error: error if the name is unknown
func ParseCullMode(name string) (CullMode, error) {
	for mode, n := range cullModeNames {
		if n == name {
			return mode, nil
		}
	}
	return CullMatrix, fmt.Errorf("scene: unknown cull mode %q", name)
}

// FrameStats summarizes the culling pass of one frame.
type FrameStats struct {
	Frame   uint64 // frame counter, starting at 1
	Tested  int    // enabled objects tested against the frustum
	Visible int    // objects at least partly inside the frustum
	Culled  int    // Tested - Visible
}

// Scene owns a camera, an optional input controller and an ordered collection of
// GameObjects, and drives the per-frame camera update, frustum rebuild and culling pass.
// Thread-safe for concurrent access; Frame is expected to be called from a single
// frame-driving goroutine.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() *camera.Camera

	// Controller returns the input controller driving the camera, or nil.
	Controller() camera.Controller

	// SetController attaches an input controller. It must drive the scene's camera.
	//
	// Parameters:
	//   - ctrl: the controller, or nil to detach
	SetController(ctrl camera.Controller)

	// CullMode returns the active culling mode.
	CullMode() CullMode

	// SetCullMode changes the culling mode from the next frame on.
	//
	// Parameters:
	//   - mode: the new mode
	SetCullMode(mode CullMode)

	// Add appends a GameObject. Objects with ID 0 are assigned the next free ID.
	// Adding an object whose ID is already present replaces it in place.
	//
	// Parameters:
	//   - obj: the object to add
	//
	// Returns:
	//   - uint64: the object's ID
	Add(obj game_object.GameObject) uint64

	// AddAll appends every object in order.
	//
	// Parameters:
	//   - objs: the objects to add
	AddAll(objs ...game_object.GameObject)

	// Get retrieves a GameObject by its ID. Returns nil if not found.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Remove removes a GameObject by ID, preserving the order of the rest.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - bool: true if an object was removed
	Remove(id uint64) bool

	// Count returns the number of objects in the scene.
	Count() int

	// Objects returns every object in insertion order.
	Objects() []game_object.GameObject

	// Clear removes all objects and the visibility results.
	Clear()

	// Frame runs one frame: applies controller input for dt, advances object rotation,
	// rebuilds the frustum from the updated camera and culls every object against it.
	//
	// Parameters:
	//   - dt: elapsed time since the last frame in seconds
	//
	// Returns:
	//   - FrameStats: the culling statistics for this frame
	Frame(dt float32) FrameStats

	// RebuildFrustum recomputes the frustum from the camera's current state using the
	// active cull mode (CullDisabled uses the matrix construction).
	//
	// Returns:
	//   - common.Frustum: the new frustum
	RebuildFrustum() common.Frustum

	// Frustum returns the frustum built by the most recent Frame or RebuildFrustum.
	// Before the first frame it is built on demand.
	Frustum() common.Frustum

	// Cull tests every enabled object against the current frustum and records the
	// visible set. Large sets are split across the scene's worker pool.
	//
	// Returns:
	//   - FrameStats: the statistics of this pass (Frame is the last frame number)
	Cull() FrameStats

	// Visible returns the objects that passed the last cull, in insertion order.
	Visible() []game_object.GameObject

	// VisibleMatrices returns the model matrices of the visible objects, in the same order.
	VisibleMatrices() []mgl32.Mat4

	// Stats returns the statistics of the last cull.
	Stats() FrameStats

	// Release stops the scene's cull workers. Later culls run on the calling goroutine.
	// Calling Release more than once is a no-op.
	Release()
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	cam  *camera.Camera
	ctrl camera.Controller

	objects []game_object.GameObject
	index   map[uint64]int // object ID -> position in objects
	nextID  uint64

	cullMode     CullMode
	frustum      common.Frustum
	frustumBuilt bool
	frame        uint64

	// reused every frame
	visibleFlags []bool
	visible      []game_object.GameObject
	stats        FrameStats

	// cullPool fans the culling pass out over reusable goroutines once the object count
	// reaches parallelThreshold.
	cullPool          worker.DynamicWorkerPool
	poolStopped       bool
	cullWorkers       int
	parallelThreshold int
	chunkSize         int
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene driven by cam.
// Panics if cam is nil.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam *camera.Camera, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}

	s := &scene{
		mu:                &sync.RWMutex{},
		name:              name,
		cam:               cam,
		index:             make(map[uint64]int),
		nextID:            1,
		cullMode:          CullMatrix,
		cullWorkers:       max(runtime.NumCPU()-1, 1),
		parallelThreshold: 2048,
		chunkSize:         512,
	}

	for _, option := range options {
		option(s)
	}

	// The pool is created after options so WithCullWorkers can override the default.
	s.cullPool = worker.NewDynamicWorkerPool(s.cullWorkers, 256, 1*time.Second)
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() *camera.Camera {
	return s.cam
}

func (s *scene) Controller() camera.Controller {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctrl
}

func (s *scene) SetController(ctrl camera.Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl = ctrl
}

func (s *scene) CullMode() CullMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cullMode
}

func (s *scene) SetCullMode(mode CullMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cullMode = mode
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(obj)
}

func (s *scene) AddAll(objs ...game_object.GameObject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, obj := range objs {
		s.addLocked(obj)
	}
}

// addLocked appends obj, assigning an ID when needed. Caller must hold the write lock.
func (s *scene) addLocked(obj game_object.GameObject) uint64 {
	if obj == nil {
		return 0
	}
	if obj.ID() == 0 {
		for s.hasID(s.nextID) {
			s.nextID++
		}
		obj.SetID(s.nextID)
		s.nextID++
	}
	id := obj.ID()
	if i, ok := s.index[id]; ok {
		s.objects[i] = obj
		return id
	}
	s.index[id] = len(s.objects)
	s.objects = append(s.objects, obj)
	if id >= s.nextID {
		s.nextID = id + 1
	}
	return id
}

func (s *scene) hasID(id uint64) bool {
	_, ok := s.index[id]
	return ok
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i, ok := s.index[id]; ok {
		return s.objects[i]
	}
	return nil
}

func (s *scene) Remove(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.objects = append(s.objects[:i], s.objects[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.objects); j++ {
		s.index[s.objects[j].ID()] = j
	}
	for j, obj := range s.visible {
		if obj.ID() == id {
			s.visible = append(s.visible[:j], s.visible[j+1:]...)
			break
		}
	}
	return true
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]game_object.GameObject, len(s.objects))
	copy(out, s.objects)
	return out
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = nil
	clear(s.index)
	s.visible = s.visible[:0]
	s.stats = FrameStats{Frame: s.frame}
}

func (s *scene) Frame(dt float32) FrameStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frame++
	if s.ctrl != nil {
		s.ctrl.Apply(dt)
	}
	for _, obj := range s.objects {
		obj.Advance(dt)
	}
	s.rebuildFrustumLocked()
	return s.cullLocked()
}

func (s *scene) RebuildFrustum() common.Frustum {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuildFrustumLocked()
}

func (s *scene) rebuildFrustumLocked() common.Frustum {
	proj := s.cam.Projection()
	if s.cullMode == CullAnalytic {
		s.frustum.CreateFromCamera(s.cam, proj.Aspect, proj.FovY, proj.Near, proj.Far)
	} else {
		s.frustum.UpdateWithDepth(s.cam.ViewProjectionMatrix(), proj.Depth)
	}
	s.frustumBuilt = true
	return s.frustum
}

func (s *scene) Frustum() common.Frustum {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.frustumBuilt {
		s.rebuildFrustumLocked()
	}
	return s.frustum
}

func (s *scene) Cull() FrameStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.frustumBuilt {
		s.rebuildFrustumLocked()
	}
	return s.cullLocked()
}

// cullLocked classifies every object into visibleFlags and gathers the visible set in
// insertion order. Caller must hold the write lock.
func (s *scene) cullLocked() FrameStats {
	n := len(s.objects)
	if cap(s.visibleFlags) < n {
		s.visibleFlags = make([]bool, n)
	}
	flags := s.visibleFlags[:n]

	if n >= s.parallelThreshold && s.cullWorkers > 1 && !s.poolStopped {
		s.cullParallel(flags)
	} else {
		cullRange(s.frustum, s.cullMode, s.objects, flags)
	}

	stats := FrameStats{Frame: s.frame}
	s.visible = s.visible[:0]
	for i, obj := range s.objects {
		if !obj.Enabled() {
			continue
		}
		stats.Tested++
		if flags[i] {
			stats.Visible++
			s.visible = append(s.visible, obj)
		}
	}
	stats.Culled = stats.Tested - stats.Visible
	s.stats = stats
	return stats
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.poolStopped {
		return
	}
	s.cullPool.Stop()
	s.poolStopped = true
}

// cullParallel splits the objects into chunks and classifies each chunk on the pool.
// Every task reads the shared frustum by value and writes a disjoint range of flags;
// the WaitGroup is the per-frame barrier.
func (s *scene) cullParallel(flags []bool) {
	var wg sync.WaitGroup
	frustum, mode := s.frustum, s.cullMode
	taskID := 0
	for start := 0; start < len(s.objects); start += s.chunkSize {
		end := min(start+s.chunkSize, len(s.objects))
		objs, out := s.objects[start:end], flags[start:end]

		wg.Add(1)
		id := taskID
		taskID++
		s.cullPool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				cullRange(frustum, mode, objs, out)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

// cullRange sets out[i] to whether objs[i] is enabled and inside the frustum.
func cullRange(f common.Frustum, mode CullMode, objs []game_object.GameObject, out []bool) {
	for i, obj := range objs {
		if !obj.Enabled() {
			out[i] = false
			continue
		}
		out[i] = mode == CullDisabled || f.IsObjectInFrustum(obj)
	}
}

func (s *scene) Visible() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]game_object.GameObject, len(s.visible))
	copy(out, s.visible)
	return out
}

func (s *scene) VisibleMatrices() []mgl32.Mat4 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]mgl32.Mat4, len(s.visible))
	for i, obj := range s.visible {
		out[i] = obj.ModelMatrix()
	}
	return out
}

func (s *scene) Stats() FrameStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}
