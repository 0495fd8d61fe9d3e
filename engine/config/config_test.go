package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-frustum/common"
	"github.com/Carmen-Shannon/oxy-frustum/engine/camera"
	"github.com/Carmen-Shannon/oxy-frustum/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadViewerConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "examples", "assets", "viewer.yaml"))
	if err != nil {
		t.Fatalf("load viewer config: %v", err)
	}
	if cfg.Instancing.Count != 1000 || cfg.Instancing.Seed != 15678 {
		t.Errorf("instancing = %+v", cfg.Instancing)
	}
	if cfg.Profiling.Interval != time.Second {
		t.Errorf("profiling interval = %s", cfg.Profiling.Interval)
	}
	if cfg.ClipDepth() != common.ClipDepthZeroToOne {
		t.Errorf("clip depth = %s", cfg.ClipDepth())
	}
}

func TestParseKeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := Parse([]byte("camera:\n  far: 250\nculling:\n  mode: analytic\n"))
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if cfg.Camera.Far != 250 || cfg.Camera.Near != 0.1 || cfg.Window.Width != 1280 {
		t.Errorf("camera=%+v window=%+v", cfg.Camera, cfg.Window)
	}
	opts, err := cfg.SceneOptions()
	if err != nil {
		t.Fatalf("SceneOptions() = %v", err)
	}
	s := scene.NewScene("cfg", camera.NewCamera(cfg.CameraOptions()...), opts...)
	if s.CullMode() != scene.CullAnalytic {
		t.Errorf("cull mode = %s", s.CullMode())
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"near not positive", "camera:\n  near: 0\n", "camera.near"},
		{"far below near", "camera:\n  near: 5\n  far: 1\n", "camera.far"},
		{"fov out of range", "camera:\n  fov_y: 180\n", "camera.fov_y"},
		{"unknown clip depth", "camera:\n  clip_depth: reversed\n", "camera.clip_depth"},
		{"unknown key", "controls:\n  forward: numpad8\n", "controls.forward"},
		{"unknown cull mode", "culling:\n  mode: occlusion\n", "culling.mode"},
		{"bad layout", "instancing:\n  layout: spiral\n", "instancing.layout"},
		{"bad scale range", "instancing:\n  scale_min: 2\n  scale_max: 1\n", "scale range"},
		{"zero window", "window:\n  width: 0\n", "window size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Parse() error = %v, want ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil || errors.Is(err, ErrInvalidConfig) {
		t.Errorf("missing file error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("camera: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "decode") {
		t.Errorf("broken yaml error = %v", err)
	}
}

func TestWindowTitleFallsBack(t *testing.T) {
	cfg, err := Parse([]byte("window:\n  title: \"\"\n"))
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if got := cfg.WindowTitle(); got != "oxy-frustum" {
		t.Errorf("WindowTitle() = %q", got)
	}
	cfg.Window.Title = "ring"
	if got := cfg.WindowTitle(); got != "ring" {
		t.Errorf("WindowTitle() = %q", got)
	}
}

func TestCameraOptions(t *testing.T) {
	cfg := Default()
	cfg.Camera.Position = [3]float32{1, 2, 3}
	cfg.Window.Width, cfg.Window.Height = 800, 400
	cam := camera.NewCamera(cfg.CameraOptions()...)

	if cam.Position() != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("position = %v", cam.Position())
	}
	p := cam.Projection()
	if p.Aspect != 2 || p.Far != 1000 || p.Depth != common.ClipDepthZeroToOne {
		t.Errorf("projection = %+v", p)
	}
}

func TestControllerOptionsRebindKeys(t *testing.T) {
	cfg := Default()
	cfg.Controls.Forward = "E"
	cfg.Controls.Sprint = "f"
	opts, err := cfg.ControllerOptions()
	if err != nil {
		t.Fatalf("ControllerOptions() = %v", err)
	}
	cam := camera.NewCamera(camera.WithPosition(mgl32.Vec3{}), camera.WithSpeed(1))
	ctrl := camera.NewController(cam, opts...)

	ctrl.KeyDown(common.KeyW)
	ctrl.Apply(1)
	if cam.Position() != (mgl32.Vec3{}) {
		t.Errorf("old forward key still bound")
	}
	ctrl.KeyUp(common.KeyW)
	ctrl.KeyDown(common.KeyE)
	ctrl.Apply(1)
	if cam.Position()[2] < 0.99 {
		t.Errorf("new forward key not bound, position %v", cam.Position())
	}
	ctrl.KeyDown(common.KeyF)
	if !cam.Sprinting() {
		t.Errorf("sprint key not rebound")
	}

	cfg.Controls.Up = "hyper"
	if _, err := cfg.ControllerOptions(); err == nil {
		t.Errorf("unknown key accepted")
	}
}

func TestInstancesFollowLayout(t *testing.T) {
	cfg := Default()
	ring := cfg.Instances()
	if len(ring) != 1000 {
		t.Fatalf("ring count = %d", len(ring))
	}
	if got := ring[0].Rotation[0]; got != mgl32.DegToRad(-90) {
		t.Errorf("base rotation x = %f", got)
	}

	cfg.Instancing.Layout = "field"
	cfg.Instancing.Count = 10
	cfg.Instancing.FieldMin = [3]float32{0, 0, 0}
	cfg.Instancing.FieldMax = [3]float32{1, 1, 1}
	for _, inst := range cfg.Instances() {
		for i := range 3 {
			if inst.Position[i] < 0 || inst.Position[i] > 1 {
				t.Fatalf("field instance %v outside bounds", inst.Position)
			}
		}
	}
	if m := cfg.Model(); m.Name() != "cube" || m.VertexCount() != 8 {
		t.Errorf("model = %s with %d vertices", m.Name(), m.VertexCount())
	}
}
