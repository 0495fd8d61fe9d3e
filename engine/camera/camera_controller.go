package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-frustum/common"
)

// Controller translates window input events into camera mutations.
// Key and mouse callbacks only record state; Apply turns the recorded state into
// Move and Update calls once per frame.
type Controller interface {
	// Camera returns the controlled camera.
	//
	// Returns:
	//   - *Camera: the camera driven by this controller
	Camera() *Camera

	// KeyDown records a key press. Pressing the sprint key toggles sprint once;
	// repeated presses of a key that is already held are ignored.
	//
	// Parameters:
	//   - key: the key code (see common.Key*)
	KeyDown(key uint32)

	// KeyUp records a key release.
	//
	// Parameters:
	//   - key: the key code
	KeyUp(key uint32)

	// MouseMove records an absolute cursor position. The first sample only primes the
	// previous position; later samples accumulate their difference as look motion.
	//
	// Parameters:
	//   - x, y: cursor position in window coordinates
	MouseMove(x, y float64)

	// MouseDelta accumulates relative look motion directly.
	//
	// Parameters:
	//   - dx, dy: relative motion in window coordinates
	MouseDelta(dx, dy float32)

	// IsHeld reports whether key is currently held.
	//
	// Parameters:
	//   - key: the key code
	//
	// Returns:
	//   - bool: true while the key is down
	IsHeld(key uint32) bool

	// Apply moves the camera for every held bound key, then applies the accumulated look
	// motion and clears it. Should be called once per frame before the frustum is rebuilt.
	//
	// Parameters:
	//   - dt: elapsed frame time in seconds
	Apply(dt float32)

	// Reset releases all keys and discards pending look motion, e.g. after focus loss.
	Reset()
}

type controllerImpl struct {
	mu *sync.Mutex

	camera    *Camera
	bindings  map[uint32]Movement
	sprintKey uint32
	invertY   bool

	held map[uint32]bool

	primed       bool
	lastX, lastY float64
	dx, dy       float32
}

var _ Controller = &controllerImpl{}

// movementOrder fixes the order Apply issues moves in so results do not depend on map iteration.
var movementOrder = [...]Movement{Forward, Backward, Left, Right, Up, Down}

// NewController creates a Controller for cam with the default free-fly bindings:
// W/S/A/D forward/backward/left/right, Space up, Left Control down and Left Shift
// toggling sprint.
//
// Parameters:
//   - cam: the camera to drive
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the newly created controller
func NewController(cam *Camera, options ...ControllerOption) Controller {
	if cam == nil {
		panic("camera: NewController requires a camera")
	}
	cc := &controllerImpl{
		mu:     &sync.Mutex{},
		camera: cam,
		bindings: map[uint32]Movement{
			common.KeyW:           Forward,
			common.KeyS:           Backward,
			common.KeyA:           Left,
			common.KeyD:           Right,
			common.KeySpace:       Up,
			common.KeyLeftControl: Down,
		},
		sprintKey: common.KeyLeftShift,
		held:      make(map[uint32]bool),
	}
	for _, option := range options {
		option(cc)
	}
	return cc
}

func (cc *controllerImpl) Camera() *Camera {
	return cc.camera
}

func (cc *controllerImpl) KeyDown(key uint32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.held[key] {
		return
	}
	cc.held[key] = true
	if key == cc.sprintKey {
		cc.camera.ToggleSprint()
	}
}

func (cc *controllerImpl) KeyUp(key uint32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	delete(cc.held, key)
}

func (cc *controllerImpl) MouseMove(x, y float64) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.primed {
		cc.lastX, cc.lastY = x, y
		cc.primed = true
		return
	}
	cc.dx += float32(x - cc.lastX)
	cc.dy += float32(y - cc.lastY)
	cc.lastX, cc.lastY = x, y
}

func (cc *controllerImpl) MouseDelta(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.dx += dx
	cc.dy += dy
}

func (cc *controllerImpl) IsHeld(key uint32) bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.held[key]
}

func (cc *controllerImpl) Apply(dt float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	var active [len(movementOrder)]bool
	for key, movement := range cc.bindings {
		if cc.held[key] && movement >= 0 && int(movement) < len(active) {
			active[movement] = true
		}
	}
	for _, movement := range movementOrder {
		if active[movement] {
			cc.camera.Move(movement, dt)
		}
	}

	if cc.dx != 0 || cc.dy != 0 {
		dy := cc.dy
		if cc.invertY {
			dy = -dy
		}
		cc.camera.Update(cc.dx, dy)
		cc.dx, cc.dy = 0, 0
	}
}

func (cc *controllerImpl) Reset() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	clear(cc.held)
	cc.dx, cc.dy = 0, 0
	cc.primed = false
}
