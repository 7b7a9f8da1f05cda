// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	AppName       = "micfx"
	ConfigType    = "yaml"
	DefaultConfig = `# micfx configuration

# Audio capture settings
device_index: -1        # -1 for default capture device
sample_rate: 48000      # Audio sample rate in Hz
channels: 1             # Single-channel pipeline (mono only)
buffer_size: 512        # Samples per real-time callback block

# Enhancement parameters
noise_threshold: 0.015  # Gate threshold (0.0-1.0), samples below are attenuated
reduction_strength: 0.5 # Attenuation strength (0.0-1.0), 1.0 silences gated samples
cutoff_frequency: 80    # High-pass cutoff in Hz (removes low-frequency rumble)

# Telemetry
window_size: 1024       # Samples per RMS/peak analysis window
telemetry_queue: 16     # Max undelivered analysis events (oldest dropped when full)

# Output
debug: false            # Enable debug output
`
)

// Settings holds all application configuration
type Settings struct {
	// Audio capture settings
	DeviceIndex int     `mapstructure:"device_index"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	Channels    int     `mapstructure:"channels"`
	BufferSize  int     `mapstructure:"buffer_size"`

	// Enhancement parameters
	NoiseThreshold    float64 `mapstructure:"noise_threshold"`
	ReductionStrength float64 `mapstructure:"reduction_strength"`
	CutoffFrequency   float64 `mapstructure:"cutoff_frequency"`

	// Telemetry
	WindowSize     int `mapstructure:"window_size"`
	TelemetryQueue int `mapstructure:"telemetry_queue"`

	// Output
	Debug bool `mapstructure:"debug"`
}

// Init initializes Viper with defaults and config file.
// Config file search order: current directory, then ~/.config/micfx/
func Init() error {
	// Set defaults
	viper.SetDefault("device_index", -1)
	viper.SetDefault("sample_rate", 48000)
	viper.SetDefault("channels", 1)
	viper.SetDefault("buffer_size", 512)
	viper.SetDefault("noise_threshold", 0.015)
	viper.SetDefault("reduction_strength", 0.5)
	viper.SetDefault("cutoff_frequency", 80)
	viper.SetDefault("window_size", 1024)
	viper.SetDefault("telemetry_queue", 16)
	viper.SetDefault("debug", false)

	// Support both config.yaml and .config.yaml
	viper.SetConfigType(ConfigType)

	// Priority order: current directory first, then XDG config
	viper.AddConfigPath(".")

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	viper.AddConfigPath(filepath.Join(configDir, AppName))

	// Try .config.yaml first (hidden file), then config.yaml
	viper.SetConfigName(".config")
	if err = viper.ReadInConfig(); err != nil {
		// Try config.yaml as fallback
		viper.SetConfigName("config")
		err = viper.ReadInConfig()
	}

	// Read config file - if not found, create default in XDG config dir
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// No config found - create default in ~/.config/micfx/
			xdgConfigPath := filepath.Join(configDir, AppName)
			if err = ensureConfigExists(xdgConfigPath); err != nil {
				return err
			}
			// Read the newly created config
			if err = viper.ReadInConfig(); err != nil {
				return fmt.Errorf("read config: %w", err)
			}
		} else {
			return fmt.Errorf("read config: %w", err)
		}
	}

	return nil
}

func ensureConfigExists(configPath string) error {
	configFile := filepath.Join(configPath, "config.yaml")

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err = os.MkdirAll(configPath, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
		if err = os.WriteFile(configFile, []byte(DefaultConfig), 0644); err != nil {
			return fmt.Errorf("write default config: %w", err)
		}
	}
	return nil
}

// Get returns the current settings
func Get() (*Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &s, nil
}

// Validate checks that all settings are within acceptable ranges.
// The engine clamps silently at the real-time boundary; the config layer is
// stricter so a typo in the config file surfaces as an error rather than as
// silently adjusted behaviour.
func (s *Settings) Validate() error {
	var errs []error

	// Audio capture settings
	if s.SampleRate < 8000 || s.SampleRate > 192000 {
		errs = append(errs, fmt.Errorf("sample_rate must be between 8000 and 192000 Hz, got %v", s.SampleRate))
	}
	if s.Channels != 1 {
		errs = append(errs, fmt.Errorf("channels must be 1 (mono pipeline), got %d", s.Channels))
	}
	if s.BufferSize < 64 || s.BufferSize > 8192 {
		errs = append(errs, fmt.Errorf("buffer_size must be between 64 and 8192, got %d", s.BufferSize))
	}
	if s.BufferSize&(s.BufferSize-1) != 0 {
		errs = append(errs, fmt.Errorf("buffer_size should be a power of 2, got %d", s.BufferSize))
	}

	// Enhancement parameters
	if s.NoiseThreshold < 0.0 || s.NoiseThreshold > 1.0 {
		errs = append(errs, fmt.Errorf("noise_threshold must be between 0.0 and 1.0, got %v", s.NoiseThreshold))
	}
	if s.ReductionStrength < 0.0 || s.ReductionStrength > 1.0 {
		errs = append(errs, fmt.Errorf("reduction_strength must be between 0.0 and 1.0, got %v", s.ReductionStrength))
	}
	if s.CutoffFrequency <= 0 {
		errs = append(errs, fmt.Errorf("cutoff_frequency must be positive, got %v", s.CutoffFrequency))
	}

	// Telemetry
	if s.WindowSize < 64 || s.WindowSize > 65536 {
		errs = append(errs, fmt.Errorf("window_size must be between 64 and 65536, got %d", s.WindowSize))
	}
	if s.TelemetryQueue < 1 || s.TelemetryQueue > 1024 {
		errs = append(errs, fmt.Errorf("telemetry_queue must be between 1 and 1024, got %d", s.TelemetryQueue))
	}

	// Nyquist check: cutoff must be less than half the sample rate
	if s.CutoffFrequency > 0 && s.CutoffFrequency >= s.SampleRate/2 {
		errs = append(errs, fmt.Errorf("cutoff_frequency (%v Hz) must be less than Nyquist frequency (%v Hz)", s.CutoffFrequency, s.SampleRate/2))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
