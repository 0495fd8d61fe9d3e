package camera

// ControllerOption is a functional option for configuring a Controller.
type ControllerOption func(*controllerImpl)

// WithBinding binds key to a movement direction. A key can drive one direction; several
// keys may drive the same direction.
//
// Parameters:
//   - key: the key code
//   - movement: the direction the key moves the camera in
//
// Returns:
//   - ControllerOption: functional option to add the binding
func WithBinding(key uint32, movement Movement) ControllerOption {
	return func(cc *controllerImpl) {
		cc.bindings[key] = movement
	}
}

// WithoutDefaultBindings removes every movement binding so only WithBinding options apply.
//
// Returns:
//   - ControllerOption: functional option to clear the bindings
func WithoutDefaultBindings() ControllerOption {
	return func(cc *controllerImpl) {
		clear(cc.bindings)
	}
}

// WithSprintKey sets the key that toggles sprint.
//
// Parameters:
//   - key: the key code
//
// Returns:
//   - ControllerOption: functional option to set the sprint key
func WithSprintKey(key uint32) ControllerOption {
	return func(cc *controllerImpl) {
		cc.sprintKey = key
	}
}

// WithInvertY flips vertical mouse look.
//
// Parameters:
//   - invert: true to look down when the mouse moves up
//
// Returns:
//   - ControllerOption: functional option to set vertical inversion
func WithInvertY(invert bool) ControllerOption {
	return func(cc *controllerImpl) {
		cc.invertY = invert
	}
}
