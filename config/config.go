// Package config loads suite configuration from a YAML file with viper,
// falling back to defaults when no file is present.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds suite-wide settings shared by every check.
type Config struct {
	// LogLevel controls logging verbosity: debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`

	// ArtifactDir is where annotated images and plots are written.
	ArtifactDir string `mapstructure:"artifact_dir"`

	// LowLight tunes the low-light chart analysis.
	LowLight LowLightConfig `mapstructure:"low_light"`

	// Zoom tunes the preview zoom circle checks.
	Zoom ZoomConfig `mapstructure:"zoom"`

	// Stabilization tunes the video stabilization checks.
	Stabilization StabilizationConfig `mapstructure:"stabilization"`
}

// LowLightConfig mirrors lowlight.Config for file-driven overrides.
type LowLightConfig struct {
	LuminanceThreshold float64 `mapstructure:"luminance_threshold"`
	DeltaThreshold     float64 `mapstructure:"delta_threshold"`
}

// ZoomConfig mirrors zoom tolerances for file-driven overrides.
type ZoomConfig struct {
	RadiusRelTol float64 `mapstructure:"radius_rel_tol"`
	OffsetRelTol float64 `mapstructure:"offset_rel_tol"`
}

// StabilizationConfig mirrors stabilization thresholds.
type StabilizationConfig struct {
	RotationThreshold     float64 `mapstructure:"rotation_threshold"`
	MinGyroRotationDeg    float64 `mapstructure:"min_gyro_rotation_deg"`
	WideAspectRatioFactor float64 `mapstructure:"wide_aspect_ratio_factor"`
}

// Default returns the configuration used when no file overrides exist.
func Default() *Config {
	return &Config{
		LogLevel:    "info",
		ArtifactDir: "artifacts",
		LowLight: LowLightConfig{
			LuminanceThreshold: 90,
			DeltaThreshold:     18,
		},
		Zoom: ZoomConfig{
			RadiusRelTol: 0.1,
			OffsetRelTol: 0.1,
		},
		Stabilization: StabilizationConfig{
			RotationThreshold:     0.7,
			MinGyroRotationDeg:    5.0,
			WideAspectRatioFactor: 1.1,
		},
	}
}

// Load reads configuration from the given path, or from config.yml in the
// working directory when path is empty. Missing files are not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("its")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Default()
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("artifact_dir", cfg.ArtifactDir)
	v.SetDefault("low_light.luminance_threshold", cfg.LowLight.LuminanceThreshold)
	v.SetDefault("low_light.delta_threshold", cfg.LowLight.DeltaThreshold)
	v.SetDefault("zoom.radius_rel_tol", cfg.Zoom.RadiusRelTol)
	v.SetDefault("zoom.offset_rel_tol", cfg.Zoom.OffsetRelTol)
	v.SetDefault("stabilization.rotation_threshold", cfg.Stabilization.RotationThreshold)
	v.SetDefault("stabilization.min_gyro_rotation_deg", cfg.Stabilization.MinGyroRotationDeg)
	v.SetDefault("stabilization.wide_aspect_ratio_factor", cfg.Stabilization.WideAspectRatioFactor)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && path != "" {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	return cfg, nil
}
