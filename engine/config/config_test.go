package config

import (
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/mood/engine/renderer/cube_texture"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Window.Width != 1280 || cfg.Window.Height != 720 {
		t.Errorf("default window size = %dx%d, want 1280x720", cfg.Window.Width, cfg.Window.Height)
	}
	if len(cfg.Lights) != 1 {
		t.Errorf("default lights = %d, want 1", len(cfg.Lights))
	}
}

func TestParseMergesDefaults(t *testing.T) {
	doc := `
window:
  title: test
  width: 800
renderer:
  present_mode: uncapped
log_level: debug
`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Window.Title != "test" || cfg.Window.Width != 800 {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("height = %d, want default 720", cfg.Window.Height)
	}
	if !cfg.Window.CaptureCursor {
		t.Error("capture_cursor lost its default")
	}
	if cfg.Renderer.PresentMode != "uncapped" {
		t.Errorf("present mode = %q", cfg.Renderer.PresentMode)
	}
	if cfg.Renderer.ShadowResolution != Default().Renderer.ShadowResolution {
		t.Errorf("shadow resolution = %d, want default", cfg.Renderer.ShadowResolution)
	}
	if len(cfg.Lights) != 1 {
		t.Errorf("lights = %d, want the default light", len(cfg.Lights))
	}
}

func TestParseLightsReplaceDefault(t *testing.T) {
	doc := `
lights:
  - position: [1, 2, 3]
    color: [1, 0, 0]
    intensity: 2
    range: 10
  - position: [-1, 2, 3]
    color: [0, 0, 1]
    intensity: 1
    range: 5
    casts_shadows: false
`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	lights := cfg.SceneLights()
	if len(lights) != 2 {
		t.Fatalf("lights = %d, want 2", len(lights))
	}
	if lights[0].ID() != 0 || lights[1].ID() != 1 {
		t.Errorf("ids = %d, %d", lights[0].ID(), lights[1].ID())
	}
	if p := lights[0].Position(); p[0] != 1 || p[1] != 2 || p[2] != 3 {
		t.Errorf("position = %v", p)
	}
	if lights[0].Intensity() != 2 || lights[0].Range() != 10 {
		t.Errorf("light 0 intensity/range = %g/%g", lights[0].Intensity(), lights[0].Range())
	}
	if !lights[0].CastsShadows() {
		t.Error("light 0 should keep the shadow-casting default")
	}
	if lights[1].CastsShadows() {
		t.Error("light 1 casts_shadows: false was ignored")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }, "window size"},
		{"negative min size", func(c *Config) { c.Window.MinHeight = -1 }, "minimum size"},
		{"present mode", func(c *Config) { c.Renderer.PresentMode = "mailbox" }, "present mode"},
		{"shadow resolution", func(c *Config) { c.Renderer.ShadowResolution = 0 }, "resolution"},
		{"skybox faces", func(c *Config) { c.Skybox.Faces = []string{"a", "b", "c"} }, "skybox lists 3 faces"},
		{"fov", func(c *Config) { c.Camera.Fov = 180 }, "fov"},
		{"clip planes", func(c *Config) { c.Camera.Far = c.Camera.Near }, "clip planes"},
		{"light range", func(c *Config) { c.Lights[0].Range = 0 }, "light 0"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Renderer.ShadowResolution = 0
	cfg.Skybox.Faces = []string{"only-one"}
	err := cfg.Validate()
	if !errors.Is(err, cube_texture.ErrZeroResolution) {
		t.Errorf("errors.Is(err, ErrZeroResolution) = false: %v", err)
	}
	if !errors.Is(err, cube_texture.ErrFaceCount) {
		t.Errorf("errors.Is(err, ErrFaceCount) = false: %v", err)
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("window: [")); err == nil {
		t.Fatal("Parse accepted malformed YAML")
	}
}

func TestLoad(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Window.Title != Default().Window.Title {
			t.Errorf("title = %q", cfg.Window.Title)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Load = %v, want os.ErrNotExist", err)
		}
	})

	t.Run("relative skybox faces", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "mood.yaml")
		doc := "skybox:\n  faces: [px.png, nx.png, py.png, ny.png, pz.png, /abs/nz.png]\n"
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if got, want := cfg.Skybox.Faces[0], filepath.Join(dir, "px.png"); got != want {
			t.Errorf("faces[0] = %q, want %q", got, want)
		}
		if got := cfg.Skybox.Faces[5]; got != "/abs/nz.png" {
			t.Errorf("faces[5] = %q, want the absolute path unchanged", got)
		}
	})

	t.Run("invalid file names the path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("log_level: loud\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), "bad.yaml") {
			t.Errorf("Load = %v, want an error naming the file", err)
		}
	})
}

func TestLoadExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "cmd", "mood", "mood.example.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Profiling || cfg.Camera.Fov != 70 || cfg.Window.Width != 1600 {
		t.Errorf("profiling/fov/width = %v/%v/%v", cfg.Profiling, cfg.Camera.Fov, cfg.Window.Width)
	}
	if len(cfg.Skybox.Faces) != 0 {
		t.Errorf("skybox faces = %v, want none", cfg.Skybox.Faces)
	}

	lights := cfg.SceneLights()
	if len(lights) != 3 {
		t.Fatalf("%d lights, want 3", len(lights))
	}
	if !lights[0].CastsShadows() || lights[2].CastsShadows() {
		t.Errorf("casts shadows = %v/%v, want true/false", lights[0].CastsShadows(), lights[2].CastsShadows())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{" warn ", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseLogLevel(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewCamera(t *testing.T) {
	cfg := Default()
	cfg.Camera.Fov = 90
	cfg.Camera.Yaw = 90
	cfg.Camera.Position = [3]float32{1, 2, 3}
	cam := cfg.NewCamera()

	if got := float64(cam.Fov()); math.Abs(got-math.Pi/2) > 1e-5 {
		t.Errorf("Fov() = %g, want pi/2", got)
	}
	ctrl := cam.Controller()
	if got := float64(ctrl.Yaw()); math.Abs(got-math.Pi/2) > 1e-5 {
		t.Errorf("Yaw() = %g, want pi/2", got)
	}
	if p := ctrl.Position(); p[0] != 1 || p[1] != 2 || p[2] != 3 {
		t.Errorf("Position() = %v", p)
	}
	if cam.Near() != cfg.Camera.Near || cam.Far() != cfg.Camera.Far {
		t.Errorf("clip planes = %g..%g", cam.Near(), cam.Far())
	}
}

func TestRendererOptions(t *testing.T) {
	cfg := Default()
	options, err := cfg.RendererOptions()
	if err != nil {
		t.Fatalf("RendererOptions: %v", err)
	}
	if len(options) != 6 {
		t.Errorf("options = %d, want 6 without skybox faces", len(options))
	}

	cfg.Skybox.Faces = []string{"a", "b", "c", "d", "e", "f"}
	options, err = cfg.RendererOptions()
	if err != nil {
		t.Fatalf("RendererOptions: %v", err)
	}
	if len(options) != 7 {
		t.Errorf("options = %d, want 7 with skybox faces", len(options))
	}

	cfg.Renderer.PresentMode = "sometimes"
	if _, err := cfg.RendererOptions(); err == nil {
		t.Error("RendererOptions accepted an unknown present mode")
	}
}

func TestWindowOptions(t *testing.T) {
	if got := len(Default().WindowOptions()); got != 4 {
		t.Errorf("WindowOptions() = %d options, want 4", got)
	}
}
