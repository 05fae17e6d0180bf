package config

import (
	"math"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/zeebo/errs"

	"github.com/depeter/stackscroll/internal/scroll"
)

// Error is the error class for configuration failures.
var Error = errs.Class("config")

type Config struct {
	Scroll ScrollConfig `toml:"scroll"`
	Stack  StackConfig  `toml:"stack"`
	Server ServerConfig `toml:"server"`
	Cine   CineConfig   `toml:"cine"`
	UI     UIConfig     `toml:"ui"`
	Keys   KeyConfig    `toml:"keys"`
	Log    LogConfig    `toml:"log"`
}

type ScrollConfig struct {
	Seed                float64 `toml:"seed"`
	Invert              bool    `toml:"invert"`
	DebounceIfNotLoaded bool    `toml:"debounce_if_not_loaded"`
	DebounceDelayMS     int     `toml:"debounce_delay_ms"`
}

type StackConfig struct {
	Dir          string  `toml:"dir"`
	VolumeDir    string  `toml:"volume_dir"`
	VolumeID     string  `toml:"volume_id"`
	SliceSpacing float64 `toml:"slice_spacing"`
	PixelSpacing float64 `toml:"pixel_spacing"`
}

// ServerConfig points at a Jellyfin server whose folder children form a remote stack.
type ServerConfig struct {
	URL      string `toml:"url"`
	Username string `toml:"username"`
	Token    string `toml:"token"`
	UserID   string `toml:"user_id"`
	ParentID string `toml:"parent_id"`
}

type CineConfig struct {
	Path   string `toml:"path"`
	ItemID string `toml:"item_id"`
	HWDec  string `toml:"hwdec"`
}

type UIConfig struct {
	Fullscreen bool `toml:"fullscreen"`
	Width      int  `toml:"width"`
	Height     int  `toml:"height"`
}

// KeyConfig names the keys bound to viewer actions, e.g. "down" or "j".
type KeyConfig struct {
	NextImage  string `toml:"next_image"`
	PrevImage  string `toml:"prev_image"`
	NextPane   string `toml:"next_pane"`
	Fullscreen string `toml:"fullscreen"`
	Quit       string `toml:"quit"`
}

type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

func DefaultConfig() *Config {
	return &Config{
		Scroll: ScrollConfig{
			Seed:                1,
			DebounceIfNotLoaded: true,
			DebounceDelayMS:     40,
		},
		Stack: StackConfig{
			VolumeID:     "local",
			SliceSpacing: 1,
			PixelSpacing: 1,
		},
		Cine: CineConfig{
			HWDec: "auto-safe",
		},
		UI: UIConfig{
			Width:  1600,
			Height: 900,
		},
		Keys: KeyConfig{
			NextImage:  "down",
			PrevImage:  "up",
			NextPane:   "tab",
			Fullscreen: "f",
			Quit:       "q",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func ConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", Error.Wrap(err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "stackscroll"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config from the default location. A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, Error.Wrap(err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, Error.New("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the viewer cannot run with.
func (c *Config) Validate() error {
	if seed := c.Scroll.Seed; math.IsNaN(seed) || math.Abs(seed) >= scroll.MinPixelsPerImage {
		return Error.New("scroll.seed must be finite and smaller than %g in magnitude", scroll.MinPixelsPerImage)
	}
	if c.Scroll.DebounceDelayMS < 0 {
		return Error.New("scroll.debounce_delay_ms must not be negative")
	}
	if c.Stack.SliceSpacing <= 0 {
		return Error.New("stack.slice_spacing must be positive")
	}
	if c.Stack.PixelSpacing <= 0 {
		return Error.New("stack.pixel_spacing must be positive")
	}
	if c.UI.Width <= 0 || c.UI.Height <= 0 {
		return Error.New("ui.width and ui.height must be positive")
	}
	return nil
}

func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

func (c *Config) SaveFile(path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Error.Wrap(err)
	}

	f, err := os.Create(path)
	if err != nil {
		return Error.Wrap(err)
	}
	defer func() { err = errs.Combine(err, Error.Wrap(f.Close())) }()

	return Error.Wrap(toml.NewEncoder(f).Encode(c))
}
