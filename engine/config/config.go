package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/mood/engine/camera"
	"github.com/Carmen-Shannon/mood/engine/light"
	"github.com/Carmen-Shannon/mood/engine/renderer"
	"github.com/Carmen-Shannon/mood/engine/renderer/cube_texture"
	"github.com/Carmen-Shannon/mood/engine/window"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration loaded from a YAML file.
// Fields missing from the file keep the values from Default.
type Config struct {
	Window    WindowConfig   `yaml:"window"`
	Renderer  RendererConfig `yaml:"renderer"`
	Camera    CameraConfig   `yaml:"camera"`
	Skybox    SkyboxConfig   `yaml:"skybox"`
	Lights    []LightConfig  `yaml:"lights"`
	LogLevel  string         `yaml:"log_level"`
	Profiling bool           `yaml:"profiling"`
}

type WindowConfig struct {
	Title         string `yaml:"title"`
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	MinWidth      int    `yaml:"min_width,omitempty"`
	MinHeight     int    `yaml:"min_height,omitempty"`
	CaptureCursor bool   `yaml:"capture_cursor"`
}

type RendererConfig struct {
	PresentMode      string     `yaml:"present_mode"`
	Software         bool       `yaml:"software"`
	ShadowResolution uint32     `yaml:"shadow_resolution"`
	ClearColor       [4]float64 `yaml:"clear_color"`
}

// CameraConfig holds the starting camera pose and input tuning. Angles are in degrees.
type CameraConfig struct {
	Position         [3]float32 `yaml:"position"`
	Yaw              float32    `yaml:"yaw"`
	Pitch            float32    `yaml:"pitch"`
	Fov              float32    `yaml:"fov"`
	Near             float32    `yaml:"near"`
	Far              float32    `yaml:"far"`
	MoveSpeed        float32    `yaml:"move_speed"`
	MouseSensitivity float32    `yaml:"mouse_sensitivity"`
	Responsiveness   float64    `yaml:"responsiveness"`
}

// SkyboxConfig lists the six face images ordered +X, -X, +Y, -Y, +Z, -Z.
// An empty list selects the generated gradient sky.
type SkyboxConfig struct {
	Faces []string `yaml:"faces,omitempty"`
}

type LightConfig struct {
	Position     [3]float32 `yaml:"position"`
	Color        [3]float32 `yaml:"color"`
	Intensity    float32    `yaml:"intensity"`
	Range        float32    `yaml:"range"`
	Enabled      *bool      `yaml:"enabled,omitempty"`
	CastsShadows *bool      `yaml:"casts_shadows,omitempty"`
}

// Default returns the configuration used when no file is given.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:         "mood",
			Width:         1280,
			Height:        720,
			MinWidth:      320,
			MinHeight:     240,
			CaptureCursor: true,
		},
		Renderer: RendererConfig{
			PresentMode:      renderer.PresentModeVSync.String(),
			ShadowResolution: light.ShadowMapResolution,
			ClearColor:       [4]float64{0.1, 0.1, 0.1, 1},
		},
		Camera: CameraConfig{
			Position:         [3]float32{0, 1.5, 5},
			Fov:              60,
			Near:             0.1,
			Far:              1000,
			MoveSpeed:        4,
			MouseSensitivity: 0.0025,
			Responsiveness:   10,
		},
		Lights: []LightConfig{
			{
				Position:  [3]float32{0, 3, 0},
				Color:     [3]float32{1, 1, 1},
				Intensity: 1,
				Range:     25,
			},
		},
		LogLevel: "info",
	}
}

// Load reads and validates a YAML config file. An empty path returns Default.
// Relative skybox face paths are resolved against the file's directory.
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - Config: the loaded configuration
//   - error: error if the file cannot be read, parsed, or fails validation
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i, face := range cfg.Skybox.Faces {
		if !filepath.IsAbs(face) {
			cfg.Skybox.Faces[i] = filepath.Join(dir, face)
		}
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Config: the parsed configuration
//   - error: error if the document is malformed or fails validation
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
//
// Returns:
//   - error: the joined validation errors, or nil
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Window.MinWidth < 0 || c.Window.MinHeight < 0 {
		errs = append(errs, fmt.Errorf("window minimum size must not be negative, got %dx%d", c.Window.MinWidth, c.Window.MinHeight))
	}
	if _, err := renderer.ParsePresentMode(c.Renderer.PresentMode); err != nil {
		errs = append(errs, err)
	}
	if c.Renderer.ShadowResolution == 0 {
		errs = append(errs, cube_texture.ErrZeroResolution)
	}
	if n := len(c.Skybox.Faces); n != 0 && n != cube_texture.FacesPerCube {
		errs = append(errs, fmt.Errorf("%w: skybox lists %d faces", cube_texture.ErrFaceCount, n))
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		errs = append(errs, fmt.Errorf("camera fov must be in (0, 180) degrees, got %g", c.Camera.Fov))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera clip planes must satisfy 0 < near < far, got %g and %g", c.Camera.Near, c.Camera.Far))
	}
	for i, l := range c.Lights {
		if l.Range <= 0 {
			errs = append(errs, fmt.Errorf("light %d: range must be positive, got %g", i, l.Range))
		}
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseLogLevel maps a level name such as "debug" or "warn" to a slog.Level.
//
// Parameters:
//   - name: the level name, case-insensitive
//
// Returns:
//   - slog.Level: the parsed level
//   - error: error if the name is not a slog level
func ParseLogLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// WindowOptions converts the window section into window builder options.
//
// Returns:
//   - []window.WindowBuilderOption: the options for window.NewWindow
func (c Config) WindowOptions() []window.WindowBuilderOption {
	return []window.WindowBuilderOption{
		window.WithTitle(c.Window.Title),
		window.WithSize(c.Window.Width, c.Window.Height),
		window.WithMinSize(c.Window.MinWidth, c.Window.MinHeight),
		window.WithCursorCapture(c.Window.CaptureCursor),
	}
}

// NewCamera builds the scene camera described by the camera section.
// The aspect ratio is set by the renderer from the surface size.
//
// Returns:
//   - camera.Camera: the configured camera
func (c Config) NewCamera() camera.Camera {
	p := c.Camera.Position
	controller := camera.NewCameraController(
		camera.WithPosition(p[0], p[1], p[2]),
		camera.WithOrientation(radians(c.Camera.Yaw), radians(c.Camera.Pitch)),
		camera.WithMoveSpeed(c.Camera.MoveSpeed),
		camera.WithMouseSensitivity(c.Camera.MouseSensitivity),
	)
	return camera.NewCamera(
		camera.WithFov(radians(c.Camera.Fov)),
		camera.WithClipPlanes(c.Camera.Near, c.Camera.Far),
		camera.WithController(controller),
	)
}

// SceneLights builds one light per entry, numbered in file order.
//
// Returns:
//   - []light.Light: the configured lights
func (c Config) SceneLights() []light.Light {
	lights := make([]light.Light, 0, len(c.Lights))
	for i, lc := range c.Lights {
		options := []light.LightBuilderOption{
			light.WithPosition(lc.Position[0], lc.Position[1], lc.Position[2]),
			light.WithColor(lc.Color[0], lc.Color[1], lc.Color[2]),
			light.WithIntensity(lc.Intensity),
			light.WithRange(lc.Range),
		}
		if lc.Enabled != nil {
			options = append(options, light.WithEnabled(*lc.Enabled))
		}
		if lc.CastsShadows != nil {
			options = append(options, light.WithCastsShadows(*lc.CastsShadows))
		}
		lights = append(lights, light.NewLight(uint32(i), options...))
	}
	return lights
}

// RendererOptions converts the renderer, skybox and camera input sections into renderer
// builder options. Lights are included.
//
// Returns:
//   - []renderer.RendererBuilderOption: the options for renderer.NewRenderer
//   - error: error if the present mode is invalid
func (c Config) RendererOptions() ([]renderer.RendererBuilderOption, error) {
	mode, err := renderer.ParsePresentMode(c.Renderer.PresentMode)
	if err != nil {
		return nil, err
	}
	cc := c.Renderer.ClearColor
	options := []renderer.RendererBuilderOption{
		renderer.WithPresentMode(mode),
		renderer.WithForceSoftwareRenderer(c.Renderer.Software),
		renderer.WithShadowResolution(c.Renderer.ShadowResolution),
		renderer.WithClearColor(cc[0], cc[1], cc[2], cc[3]),
		renderer.WithLights(c.SceneLights()...),
		renderer.WithFlyInputOptions(camera.WithResponsiveness(c.Camera.Responsiveness)),
	}
	if len(c.Skybox.Faces) > 0 {
		options = append(options, renderer.WithSkyboxFaces(c.Skybox.Faces))
	}
	return options, nil
}

func radians(degrees float32) float32 {
	return degrees * math.Pi / 180
}
