package scene

import (
	"github.com/Carmen-Shannon/oxy-frustum/engine/camera"
	"github.com/Carmen-Shannon/oxy-frustum/engine/game_object"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithObjects adds initial objects to the scene in order.
// Objects without IDs will be assigned new IDs.
//
// Parameters:
//   - objects: the objects to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...game_object.GameObject) SceneBuilderOption {
	return func(s *scene) {
		for _, obj := range objects {
			s.addLocked(obj)
		}
	}
}

// WithController attaches an input controller that Frame applies before culling.
//
// Parameters:
//   - ctrl: the controller driving the scene's camera
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithController(ctrl camera.Controller) SceneBuilderOption {
	return func(s *scene) {
		s.ctrl = ctrl
	}
}

// WithCullMode sets the culling mode. Defaults to CullMatrix.
//
// Parameters:
//   - mode: the culling mode
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCullMode(mode CullMode) SceneBuilderOption {
	return func(s *scene) {
		s.cullMode = mode
	}
}

// WithCullWorkers sets the number of worker goroutines used by the parallel culling pass.
// Defaults to runtime.NumCPU()-1. A value of 1 keeps culling on the calling goroutine.
//
// Parameters:
//   - n: the number of cull workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCullWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.cullWorkers = n
	}
}

// WithParallelThreshold sets the object count at which culling is split across workers.
//
// Parameters:
//   - n: the minimum object count for parallel culling (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithParallelThreshold(n int) SceneBuilderOption {
	return func(s *scene) {
		s.parallelThreshold = max(n, 1)
	}
}

// WithChunkSize sets how many objects one parallel culling task classifies.
//
// Parameters:
//   - n: objects per task (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithChunkSize(n int) SceneBuilderOption {
	return func(s *scene) {
		s.chunkSize = max(n, 1)
	}
}
