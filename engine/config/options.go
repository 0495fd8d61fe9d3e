package config

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-frustum/common"
	"github.com/Carmen-Shannon/oxy-frustum/engine/camera"
	"github.com/Carmen-Shannon/oxy-frustum/engine/instancing"
	"github.com/Carmen-Shannon/oxy-frustum/engine/model"
	"github.com/Carmen-Shannon/oxy-frustum/engine/profiler"
	"github.com/Carmen-Shannon/oxy-frustum/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

func parseClipDepth(name string) (common.ClipDepth, error) {
	for _, d := range []common.ClipDepth{common.ClipDepthNegativeOneToOne, common.ClipDepthZeroToOne} {
		if d.String() == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown clip depth %q", name)
}

func parseCullMode(name string) (scene.CullMode, error) {
	return scene.ParseCullMode(name)
}

func lookupKey(name string) (uint32, error) {
	k, ok := common.KeyByName(strings.ToLower(name))
	if !ok {
		return 0, fmt.Errorf("unknown key %q", name)
	}
	return k, nil
}

// WindowTitle returns the configured window title, or "oxy-frustum" when it is empty.
func (c *Config) WindowTitle() string {
	return common.Coalesce(c.Window.Title, "oxy-frustum")
}

// ClipDepth returns the configured clip depth convention.
func (c *Config) ClipDepth() common.ClipDepth {
	d, _ := parseClipDepth(c.Camera.ClipDepth)
	return d
}

// CameraOptions translates the camera section into camera builder options.
// The aspect ratio comes from the window size.
//
// Returns:
//   - []camera.CameraBuilderOption: options for camera.NewCamera
func (c *Config) CameraOptions() []camera.CameraBuilderOption {
	cam := c.Camera
	return []camera.CameraBuilderOption{
		camera.WithPosition(mgl32.Vec3(cam.Position)),
		camera.WithYaw(cam.Yaw),
		camera.WithPitch(cam.Pitch),
		camera.WithSensitivity(cam.Sensitivity),
		camera.WithSpeed(cam.Speed),
		camera.WithFovY(mgl32.DegToRad(cam.FovY)),
		camera.WithAspect(float32(c.Window.Width) / float32(c.Window.Height)),
		camera.WithNear(cam.Near),
		camera.WithFar(cam.Far),
		camera.WithClipDepth(c.ClipDepth()),
	}
}

// ControllerOptions translates the controls section into controller options.
// The configured keys replace the default bindings.
//
// Returns:
//   - []camera.ControllerOption: options for camera.NewController
//   - error: error if a key name is unknown
func (c *Config) ControllerOptions() ([]camera.ControllerOption, error) {
	movements := map[string]camera.Movement{
		"forward":  camera.Forward,
		"backward": camera.Backward,
		"left":     camera.Left,
		"right":    camera.Right,
		"up":       camera.Up,
		"down":     camera.Down,
	}

	opts := []camera.ControllerOption{camera.WithoutDefaultBindings()}
	for _, b := range c.Controls.bindings() {
		key, err := lookupKey(b.key)
		if err != nil {
			return nil, fmt.Errorf("config: controls.%s: %w", b.name, err)
		}
		if movement, ok := movements[b.name]; ok {
			opts = append(opts, camera.WithBinding(key, movement))
		} else {
			opts = append(opts, camera.WithSprintKey(key))
		}
	}
	return append(opts, camera.WithInvertY(c.Controls.InvertY)), nil
}

// SceneOptions translates the culling section into scene builder options.
//
// Returns:
//   - []scene.SceneBuilderOption: options for scene.NewScene
//   - error: error if the cull mode is unknown
func (c *Config) SceneOptions() ([]scene.SceneBuilderOption, error) {
	mode, err := parseCullMode(c.Culling.Mode)
	if err != nil {
		return nil, fmt.Errorf("config: culling.mode: %w", err)
	}
	opts := []scene.SceneBuilderOption{scene.WithCullMode(mode)}
	if c.Culling.Workers > 0 {
		opts = append(opts, scene.WithCullWorkers(c.Culling.Workers))
	}
	if c.Culling.ParallelThreshold > 0 {
		opts = append(opts, scene.WithParallelThreshold(c.Culling.ParallelThreshold))
	}
	if c.Culling.ChunkSize > 0 {
		opts = append(opts, scene.WithChunkSize(c.Culling.ChunkSize))
	}
	return opts, nil
}

// ProfilerOptions translates the profiling section into profiler options.
func (c *Config) ProfilerOptions() []profiler.ProfilerOption {
	return []profiler.ProfilerOption{profiler.WithInterval(c.Profiling.Interval)}
}

// Model builds the instanced model named by the instancing section.
//
// Returns:
//   - model.Model: a single-mesh model
func (c *Config) Model() model.Model {
	inst := c.Instancing
	mesh := model.NewCubeMesh(inst.MeshSize)
	if inst.Mesh == "quad" {
		mesh = model.NewQuadMesh(inst.MeshSize)
	}
	return model.NewModel(model.WithName(inst.Mesh), model.WithMeshes(mesh))
}

// Instances generates the configured instance layout.
//
// Returns:
//   - []instancing.Instance: the instance transforms
func (c *Config) Instances() []instancing.Instance {
	inst := c.Instancing
	rot := mgl32.Vec3{
		mgl32.DegToRad(inst.BaseRotation[0]),
		mgl32.DegToRad(inst.BaseRotation[1]),
		mgl32.DegToRad(inst.BaseRotation[2]),
	}
	gen := instancing.NewGenerator(inst.Seed, instancing.WithBaseRotation(rot))
	if inst.Layout == "field" {
		bounds := common.AABB{Min: mgl32.Vec3(inst.FieldMin), Max: mgl32.Vec3(inst.FieldMax)}
		return gen.Field(inst.Count, bounds, inst.ScaleMin, inst.ScaleMax)
	}
	return gen.Ring(inst.Count, inst.Radius, inst.Offset, inst.ScaleMin, inst.ScaleMax)
}
