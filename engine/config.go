package engine

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/Carmen-Shannon/oxy-render/engine/scene"
	"github.com/Carmen-Shannon/oxy-render/engine/surface"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth     = 640
	DefaultHeight    = 480
	DefaultTitle     = "oxy-render"
	DefaultFontScale = 1
)

// Device selection environment variables, consulted in order when no device id is given.
const (
	EnvGPUs              = "GPUS"
	EnvCUDAVisibleDevice = "CUDA_VISIBLE_DEVICES"
)

// Config is the file-loadable construction configuration of a RenderContext.
type Config struct {
	Mode     surface.Mode `yaml:"mode"`
	Provider string       `yaml:"provider,omitempty"`

	// DeviceID selects the GPU for offscreen rendering. Nil defers to the environment.
	DeviceID *int `yaml:"device_id,omitempty"`

	Capacity  int    `yaml:"capacity"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	FontScale int    `yaml:"font_scale"`
	Profiling bool   `yaml:"profiling"`
}

// DefaultConfig returns the configuration used when no file or options override it.
func DefaultConfig() Config {
	return Config{
		Mode:      surface.ModeOffscreen,
		Capacity:  scene.DefaultCapacity,
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Title:     DefaultTitle,
		FontScale: DefaultFontScale,
	}
}

// LoadConfig reads a YAML configuration, starting from the defaults so omitted keys keep
// their default values.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - Config: the loaded configuration
//   - error: error if the file cannot be read, parsed, or fails validation
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w: %w", path, common.ErrConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SaveConfig writes cfg as YAML.
//
// Parameters:
//   - path: the file to write
//   - cfg: the configuration
//
// Returns:
//   - error: error if marshaling or writing fails
func SaveConfig(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first invalid field as a ValidationError. An unknown mode is an
// ErrConfiguration.
func (c Config) Validate() error {
	switch {
	case c.Mode != surface.ModeOffscreen && c.Mode != surface.ModeOnscreen:
		return fmt.Errorf("unknown mode %d: %w", int(c.Mode), common.ErrConfiguration)
	case c.Capacity <= 0:
		return &common.ValidationError{Field: "capacity", Reason: "must be positive"}
	case c.Width <= 0 || c.Height <= 0:
		return &common.ValidationError{Field: "size", Reason: fmt.Sprintf("%dx%d is not a positive size", c.Width, c.Height)}
	case c.FontScale <= 0:
		return &common.ValidationError{Field: "font_scale", Reason: "must be positive"}
	case c.DeviceID != nil && *c.DeviceID < 0:
		return &common.ValidationError{Field: "device_id", Reason: "must not be negative"}
	}
	return nil
}

// ResolveDeviceID picks the offscreen GPU: the explicit id if given, otherwise the first
// entry of GPUS, otherwise the first entry of CUDA_VISIBLE_DEVICES, otherwise 0.
//
// Parameters:
//   - explicit: the caller's device id, or nil
//   - lookup: environment lookup, os.LookupEnv when nil
//
// Returns:
//   - int: the device id
//   - error: ErrConfiguration if the consulted variable does not start with an integer
func ResolveDeviceID(explicit *int, lookup func(string) (string, bool)) (int, error) {
	if explicit != nil {
		return *explicit, nil
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, name := range []string{EnvGPUs, EnvCUDAVisibleDevice} {
		v, ok := lookup(name)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		first, _, _ := strings.Cut(v, ",")
		id, err := strconv.Atoi(strings.TrimSpace(first))
		if err != nil {
			return 0, fmt.Errorf("%s=%q is not a device id: %w", name, v, common.ErrConfiguration)
		}
		return id, nil
	}
	return 0, nil
}
