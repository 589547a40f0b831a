package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/Carmen-Shannon/oxy-render/engine/sim"
	"github.com/Carmen-Shannon/oxy-render/engine/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestResolveDeviceID_precedence(t *testing.T) {
	three := 3
	tests := []struct {
		name     string
		explicit *int
		vars     map[string]string
		want     int
		wantErr  bool
	}{
		{name: "explicit wins", explicit: &three, vars: map[string]string{EnvGPUs: "1", EnvCUDAVisibleDevice: "2"}, want: 3},
		{name: "gpus first entry", vars: map[string]string{EnvGPUs: "5,6", EnvCUDAVisibleDevice: "2"}, want: 5},
		{name: "cuda when gpus unset", vars: map[string]string{EnvCUDAVisibleDevice: " 4 ,1"}, want: 4},
		{name: "empty gpus falls through", vars: map[string]string{EnvGPUs: "", EnvCUDAVisibleDevice: "2"}, want: 2},
		{name: "default zero", vars: map[string]string{}, want: 0},
		{name: "non integer gpus", vars: map[string]string{EnvGPUs: "all"}, wantErr: true},
		{name: "non integer cuda", vars: map[string]string{EnvCUDAVisibleDevice: "GPU-5d2"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDeviceID(tt.explicit, env(tt.vars))
			if tt.wantErr {
				assert.True(t, errors.Is(err, common.ErrConfiguration))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_DefaultsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yaml")
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.NoError(t, SaveConfig(path, cfg))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadConfig_partialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: onscreen\nwidth: 1024\ndevice_id: 2\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, surface.ModeOnscreen, cfg.Mode)
	assert.Equal(t, 1024, cfg.Width)
	assert.Equal(t, DefaultHeight, cfg.Height)
	require.NotNil(t, cfg.DeviceID)
	assert.Equal(t, 2, *cfg.DeviceID)
	assert.Equal(t, DefaultConfig().Capacity, cfg.Capacity)
}

func TestLoadConfig_errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("mode: hologram\n"), 0644))
	_, err = LoadConfig(bad)
	assert.True(t, errors.Is(err, common.ErrConfiguration))

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("capacity: -1\n"), 0644))
	_, err = LoadConfig(invalid)
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestConfig_Validate(t *testing.T) {
	neg := -1
	tests := []struct {
		field  string
		mutate func(*Config)
	}{
		{"capacity", func(c *Config) { c.Capacity = 0 }},
		{"size", func(c *Config) { c.Height = 0 }},
		{"font_scale", func(c *Config) { c.FontScale = 0 }},
		{"device_id", func(c *Config) { c.DeviceID = &neg }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			var vErr *common.ValidationError
			require.ErrorAs(t, cfg.Validate(), &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestConfig_ValidateUnknownMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = surface.Mode(9)
	err := cfg.Validate()
	assert.True(t, errors.Is(err, common.ErrConfiguration))
	assert.False(t, errors.Is(err, common.ErrValidation))

	_, err = NewRenderContext(sim.NewSnapshot(), surface.Mode(9), WithEnvironment(noEnv))
	assert.True(t, errors.Is(err, common.ErrConfiguration))
}

func TestWithConfig_optionsRefine(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Title = "bench"
	rc := &RenderContext{}
	for _, opt := range []RenderContextOption{WithConfig(cfg), WithCapacity(12), WithDeviceID(1), WithProvider("software"), WithSize(32, 16)} {
		opt(rc)
	}
	assert.Equal(t, "bench", rc.cfg.Title)
	assert.Equal(t, 12, rc.cfg.Capacity)
	assert.Equal(t, 1, *rc.cfg.DeviceID)
	assert.Equal(t, "software", rc.cfg.Provider)
	assert.Equal(t, [2]int{32, 16}, [2]int{rc.cfg.Width, rc.cfg.Height})
}
