package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/require"
)

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
	require.Equal(t, 1.0, cfg.Scroll.Seed)
	require.True(t, cfg.Scroll.DebounceIfNotLoaded)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[scroll]
seed = 0.0
invert = true

[stack]
dir = "/data/ct"
slice_spacing = 2.5

[keys]
next_image = "j"
`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Zero(t, cfg.Scroll.Seed)
	require.True(t, cfg.Scroll.Invert)
	require.True(t, cfg.Scroll.DebounceIfNotLoaded)
	require.Equal(t, "/data/ct", cfg.Stack.Dir)
	require.Equal(t, 2.5, cfg.Stack.SliceSpacing)
	require.Equal(t, 1.0, cfg.Stack.PixelSpacing)
	require.Equal(t, "j", cfg.Keys.NextImage)
	require.Equal(t, "up", cfg.Keys.PrevImage)
}

func TestLoadFileRejectsBadValues(t *testing.T) {
	for _, body := range []string{
		"[stack]\nslice_spacing = -1\n",
		"[scroll]\nseed = nan\n",
		"[scroll]\nseed = inf\n",
		"[scroll]\nseed = -inf\n",
		"[scroll]\nseed = 2.0\n",
		"[scroll]\nseed = -2.5\n",
		"[scroll]\ndebounce_delay_ms = -1\n",
	} {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

		_, err := LoadFile(path)
		require.Error(t, err, body)
		require.True(t, Error.Has(err), body)
	}
}

func TestValidateAcceptsSeedBelowOneUnit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scroll.Seed = -1.99
	require.NoError(t, cfg.Validate())
	cfg.Scroll.Seed = 0
	require.NoError(t, cfg.Validate())
}

func TestLoadFileRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[scroll\n"), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
	require.True(t, Error.Has(err))
	var perr toml.ParseError
	require.ErrorAs(t, err, &perr)
}

func TestSaveFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Server.URL = "https://jellyfin.example"
	cfg.Cine.Path = "/videos/echo.mp4"
	require.NoError(t, cfg.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestConfigPathHonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, err := ConfigPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "stackscroll", "config.toml"), path)
}
