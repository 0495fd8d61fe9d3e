package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the viewer configuration.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Camera     CameraConfig     `yaml:"camera"`
	Controls   ControlsConfig   `yaml:"controls"`
	Culling    CullingConfig    `yaml:"culling"`
	Instancing InstancingConfig `yaml:"instancing"`
	Profiling  ProfilingConfig  `yaml:"profiling"`
	Engine     EngineConfig     `yaml:"engine"`
}

type WindowConfig struct {
	Title         string `yaml:"title"`
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	VSync         bool   `yaml:"vsync"`
	CaptureCursor bool   `yaml:"capture_cursor"`
}

type CameraConfig struct {
	Position    [3]float32 `yaml:"position"`
	Yaw         float32    `yaml:"yaw"`   // degrees
	Pitch       float32    `yaml:"pitch"` // degrees
	Sensitivity float32    `yaml:"sensitivity"`
	Speed       float32    `yaml:"speed"`
	FovY        float32    `yaml:"fov_y"` // degrees
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	ClipDepth   string     `yaml:"clip_depth"`
}

// ControlsConfig names the keys driving the camera (see common.KeyByName).
type ControlsConfig struct {
	Forward  string `yaml:"forward"`
	Backward string `yaml:"backward"`
	Left     string `yaml:"left"`
	Right    string `yaml:"right"`
	Up       string `yaml:"up"`
	Down     string `yaml:"down"`
	Sprint   string `yaml:"sprint"`
	InvertY  bool   `yaml:"invert_y"`
}

type CullingConfig struct {
	Mode              string `yaml:"mode"` // matrix, analytic or disabled
	Workers           int    `yaml:"workers"`
	ParallelThreshold int    `yaml:"parallel_threshold"`
	ChunkSize         int    `yaml:"chunk_size"`
}

type InstancingConfig struct {
	Seed         int64      `yaml:"seed"`
	Layout       string     `yaml:"layout"` // ring or field
	Count        int        `yaml:"count"`
	Radius       float32    `yaml:"radius"`
	Offset       float32    `yaml:"offset"`
	FieldMin     [3]float32 `yaml:"field_min"`
	FieldMax     [3]float32 `yaml:"field_max"`
	ScaleMin     float32    `yaml:"scale_min"`
	ScaleMax     float32    `yaml:"scale_max"`
	BaseRotation [3]float32 `yaml:"base_rotation"` // degrees
	Mesh         string     `yaml:"mesh"`          // cube or quad
	MeshSize     float32    `yaml:"mesh_size"`
}

type ProfilingConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

type EngineConfig struct {
	FrameLimit int `yaml:"frame_limit"` // frames per second, 0 = unlimited
	MaxFrames  int `yaml:"max_frames"`  // 0 = run until the window closes
}

// Default returns the configuration of the stock viewer: a 1280x720 window, the camera
// three units behind the origin looking down +Z, and a 1000 instance asteroid ring.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:         "oxy-frustum",
			Width:         1280,
			Height:        720,
			VSync:         true,
			CaptureCursor: true,
		},
		Camera: CameraConfig{
			Position:    [3]float32{0, 0, -3},
			Yaw:         90,
			Pitch:       0,
			Sensitivity: 0.1,
			Speed:       10,
			FovY:        45,
			Near:        0.1,
			Far:         1000,
			ClipDepth:   "zero_to_one",
		},
		Controls: ControlsConfig{
			Forward:  "w",
			Backward: "s",
			Left:     "a",
			Right:    "d",
			Up:       "space",
			Down:     "left_control",
			Sprint:   "left_shift",
		},
		Culling: CullingConfig{
			Mode:              "matrix",
			ParallelThreshold: 2048,
			ChunkSize:         512,
		},
		Instancing: InstancingConfig{
			Seed:         15678,
			Layout:       "ring",
			Count:        1000,
			Radius:       10,
			Offset:       1,
			ScaleMin:     0.005,
			ScaleMax:     0.025,
			BaseRotation: [3]float32{-90, 0, 0},
			Mesh:         "cube",
			MeshSize:     2,
		},
		Profiling: ProfilingConfig{
			Enabled:  true,
			Interval: time.Second,
		},
	}
}

// Parse decodes YAML over the defaults and validates the result.
// Keys missing from data keep their default values.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - *Config: the decoded configuration
//   - error: a decode error, or a validation error wrapping ErrInvalidConfig
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses the configuration file at filename.
//
// Parameters:
//   - filename: path to the YAML file
//
// Returns:
//   - *Config: the decoded configuration
//   - error: a read, decode or validation error
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", filename, err)
	}
	return Parse(data)
}

// MustLoad loads the configuration and panics on error.
func MustLoad(filename string) *Config {
	cfg, err := Load(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return cfg
}

// Validate reports every invalid setting. Each failure wraps ErrInvalidConfig.
//
// Returns:
//   - error: nil if the configuration is usable
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		fail("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}

	cam := c.Camera
	if cam.Near <= 0 {
		fail("camera.near %g must be > 0", cam.Near)
	}
	if cam.Far <= cam.Near {
		fail("camera.far %g must be greater than camera.near %g", cam.Far, cam.Near)
	}
	if cam.FovY <= 0 || cam.FovY >= 180 {
		fail("camera.fov_y %g must be in (0, 180) degrees", cam.FovY)
	}
	if cam.Sensitivity < 0 || cam.Speed < 0 {
		fail("camera.sensitivity and camera.speed must not be negative")
	}
	if _, err := parseClipDepth(cam.ClipDepth); err != nil {
		fail("camera.clip_depth: %v", err)
	}

	for _, b := range c.Controls.bindings() {
		if _, err := lookupKey(b.key); err != nil {
			fail("controls.%s: %v", b.name, err)
		}
	}

	if _, err := parseCullMode(c.Culling.Mode); err != nil {
		fail("culling.mode: %v", err)
	}
	if c.Culling.Workers < 0 || c.Culling.ParallelThreshold < 0 || c.Culling.ChunkSize < 0 {
		fail("culling workers, parallel_threshold and chunk_size must not be negative")
	}

	inst := c.Instancing
	if inst.Count < 0 {
		fail("instancing.count %d must not be negative", inst.Count)
	}
	if inst.Layout != "ring" && inst.Layout != "field" {
		fail("instancing.layout %q must be ring or field", inst.Layout)
	}
	if inst.ScaleMin < 0 || inst.ScaleMax < inst.ScaleMin {
		fail("instancing scale range [%g, %g] is invalid", inst.ScaleMin, inst.ScaleMax)
	}
	if inst.Layout == "field" {
		for i := range 3 {
			if inst.FieldMax[i] < inst.FieldMin[i] {
				fail("instancing.field_max must not be below field_min")
				break
			}
		}
	}
	if inst.Mesh != "cube" && inst.Mesh != "quad" {
		fail("instancing.mesh %q must be cube or quad", inst.Mesh)
	}
	if inst.MeshSize <= 0 {
		fail("instancing.mesh_size %g must be > 0", inst.MeshSize)
	}

	if c.Profiling.Enabled && c.Profiling.Interval <= 0 {
		fail("profiling.interval %s must be positive", c.Profiling.Interval)
	}
	if c.Engine.FrameLimit < 0 || c.Engine.MaxFrames < 0 {
		fail("engine.frame_limit and engine.max_frames must not be negative")
	}

	return errors.Join(errs...)
}

type namedKey struct {
	name string
	key  string
}

func (c ControlsConfig) bindings() []namedKey {
	return []namedKey{
		{"forward", c.Forward},
		{"backward", c.Backward},
		{"left", c.Left},
		{"right", c.Right},
		{"up", c.Up},
		{"down", c.Down},
		{"sprint", c.Sprint},
	}
}
