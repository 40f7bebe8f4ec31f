package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings of the navigation layer and its viewer.
type Config struct {
	Assets AssetsConfig `yaml:"assets"`
	Log    LogConfig    `yaml:"log"`
	Watch  WatchConfig  `yaml:"watch"`
	Viewer ViewerConfig `yaml:"viewer"`
}

type AssetsConfig struct {
	Tileset string `yaml:"tileset"` // .tsx or .yaml; ignored for .tmx levels
	Level   string `yaml:"level"`   // .json or .tmx
	Scripts string `yaml:"scripts"` // directory of <tag>.tengo handlers
}

type LogConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

type WatchConfig struct {
	Enabled bool `yaml:"enabled"`
}

type ViewerConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	CellSize    int    `yaml:"cell_size"`
	WindowTitle string `yaml:"window_title"`
	// Elevation the actor starts a level at.
	StartElevation int `yaml:"start_elevation"`
}

// Default returns the settings used for anything config.yaml leaves out.
func Default() *Config {
	return &Config{
		Assets: AssetsConfig{
			Tileset: "assets/tileset2.tsx",
			Level:   "assets/levels/demo.json",
			Scripts: "assets/scripts",
		},
		Log: LogConfig{
			Level:   "info",
			Console: true,
		},
		Viewer: ViewerConfig{
			Width:       640,
			Height:      480,
			CellSize:    32,
			WindowTitle: "tilenav",
		},
	}
}

// LoadConfig reads filename over the defaults. Relative asset paths are
// resolved against the directory holding the file.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	cfg.Assets.resolve(filepath.Dir(filename))
	return cfg, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	cfg, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return cfg
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	if c.Assets.Level == "" {
		return fmt.Errorf("config: assets.level is required")
	}
	if c.Assets.Tileset == "" && filepath.Ext(c.Assets.Level) != ".tmx" {
		return fmt.Errorf("config: assets.tileset is required for %s levels", filepath.Ext(c.Assets.Level))
	}
	if c.Viewer.CellSize <= 0 {
		return fmt.Errorf("config: viewer.cell_size must be positive, got %d", c.Viewer.CellSize)
	}
	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		return fmt.Errorf("config: invalid viewer size %dx%d", c.Viewer.Width, c.Viewer.Height)
	}
	return nil
}

func (a *AssetsConfig) resolve(base string) {
	for _, p := range []*string{&a.Tileset, &a.Level, &a.Scripts} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// Dirs returns the distinct directories holding the configured assets.
func (a AssetsConfig) Dirs() []string {
	seen := map[string]bool{}
	var dirs []string
	add := func(d string) {
		if d == "" || seen[d] {
			return
		}
		seen[d] = true
		dirs = append(dirs, d)
	}
	if a.Tileset != "" {
		add(filepath.Dir(a.Tileset))
	}
	add(filepath.Dir(a.Level))
	add(a.Scripts)
	return dirs
}

func (c *Config) GetCellSize() float64 {
	return float64(c.Viewer.CellSize)
}
