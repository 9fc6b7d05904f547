package engine

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/modelview/engine/assets"
	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/math"
	"github.com/spaghettifunk/modelview/engine/strategy"
	"github.com/spaghettifunk/modelview/engine/systems"
)

type ApplicationConfig struct {
	// The application name, used in logs.
	Name     string       `toml:"name"`
	LogLevel string       `toml:"log_level"`
	Assets   AssetsConfig `toml:"assets"`
	Viewer   ViewerConfig `toml:"viewer"`
	Scene    SceneConfig  `toml:"scene"`
}

type AssetsConfig struct {
	// Directory enumerated for model files. Empty means only Static is offered.
	Dir string `toml:"dir"`
	// Fetch relative asset URLs from this server instead of Dir.
	BaseURL      string   `toml:"base_url"`
	PathTemplate string   `toml:"path_template"`
	Static       []string `toml:"static"`
	// Follow changes to Dir while running.
	Watch bool `toml:"watch"`
}

type ViewerConfig struct {
	DefaultModel    string             `toml:"default_model"`
	DefaultStrategy strategy.Strategy  `toml:"default_strategy"`
	ColorMode       strategy.ColorMode `toml:"color_mode"`
	Workers         int                `toml:"workers"`
	QueueSize       int                `toml:"queue_size"`
}

type SceneConfig struct {
	CameraPosition   [3]float32 `toml:"camera_position"`
	FieldOfView      float32    `toml:"fov"`
	AmbientIntensity float32    `toml:"ambient_intensity"`
	Environment      string     `toml:"environment"`
	AutoRotate       bool       `toml:"auto_rotate"`
	ShowPerf         bool       `toml:"show_perf"`
}

// DefaultApplicationConfig mirrors the stock viewer: one GLB model under
// /assets, shown with the cached strategy.
func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Name:     "Model Viewer",
		LogLevel: "info",
		Assets: AssetsConfig{
			PathTemplate: assets.DefaultPathTemplate,
			Static:       []string{"model.glb"},
		},
		Viewer: ViewerConfig{
			DefaultModel:    "model.glb",
			DefaultStrategy: strategy.Default,
			ColorMode:       strategy.ColorRandom,
			QueueSize:       8,
		},
		Scene: SceneConfig{
			CameraPosition:   [3]float32{0, 0, 15},
			FieldOfView:      50,
			AmbientIntensity: 2,
			Environment:      "city",
			ShowPerf:         true,
		},
	}
}

// LoadConfig reads a TOML file on top of the defaults.
func LoadConfig(path string) (*ApplicationConfig, error) {
	config := DefaultApplicationConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, config); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%s:%d:%d: %w", path, row, col, err)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

func (c *ApplicationConfig) Validate() error {
	if c.Viewer.Workers < 0 {
		return errors.New("viewer.workers cannot be negative")
	}
	if c.Viewer.QueueSize < 0 {
		return errors.New("viewer.queue_size cannot be negative")
	}
	if c.Scene.FieldOfView <= 0 || c.Scene.FieldOfView >= 180 {
		return fmt.Errorf("scene.fov must be within (0, 180), got %v", c.Scene.FieldOfView)
	}
	if c.Viewer.DefaultModel != "" && assets.Classify(c.Viewer.DefaultModel) == assets.FormatUnknown {
		return fmt.Errorf("viewer.default_model '%s': %w", c.Viewer.DefaultModel, core.ErrUnsupportedFormat)
	}
	return nil
}

func (c *ApplicationConfig) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

func (c *ApplicationConfig) CameraPosition() math.Vec3 {
	p := c.Scene.CameraPosition
	return math.NewVec3(p[0], p[1], p[2])
}

func (c *ApplicationConfig) systemsConfig() *systems.SystemManagerConfig {
	return &systems.SystemManagerConfig{
		AssetDir:     c.Assets.Dir,
		BaseURL:      c.Assets.BaseURL,
		PathTemplate: c.Assets.PathTemplate,
		StaticAssets: c.Assets.Static,
		ColorMode:    c.Viewer.ColorMode,
		Workers:      c.Viewer.Workers,
		QueueSize:    c.Viewer.QueueSize,
	}
}
