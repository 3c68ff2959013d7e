package slam

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Config holds the SLAM engine's constructor-recognized attributes
// (spec §6). Field names mirror the teacher's component-config idiom:
// mapstructure tags so the same attribute bag a robot config file
// supplies can decode directly into this struct.
type Config struct {
	ScanSize              int     `mapstructure:"scan_size"`
	ScanRateHz            float64 `mapstructure:"scan_rate_hz"`
	DetectionAngleDeg     float64 `mapstructure:"detection_angle_deg"`
	DistanceNoDetectionMM float64 `mapstructure:"distance_no_detection_mm"`
	HoleWidthMM           float64 `mapstructure:"hole_width_mm"`

	MapSizePixels int     `mapstructure:"map_size_pixels"`
	MapSizeMeters float64 `mapstructure:"map_size_meters"`

	SigmaXYMM     float64 `mapstructure:"sigma_xy_mm"`
	SigmaThetaDeg float64 `mapstructure:"sigma_theta_deg"`
	MaxSearchIter int     `mapstructure:"max_search_iter"`
}

// DefaultConfig returns the engine's documented defaults.
func DefaultConfig() Config {
	return Config{
		ScanSize:              360,
		ScanRateHz:            5,
		DetectionAngleDeg:     360,
		DistanceNoDetectionMM: 3500,
		HoleWidthMM:           600,

		MapSizePixels: 800,
		MapSizeMeters: 20,

		SigmaXYMM:     100,
		SigmaThetaDeg: 20,
		MaxSearchIter: 1000,
	}
}

// ConfigFromAttributes decodes a generic attribute bag into a Config,
// starting from DefaultConfig so omitted fields keep their documented
// defaults, then validates the result.
func ConfigFromAttributes(attrs map[string]interface{}) (Config, error) {
	cfg := DefaultConfig()
	if len(attrs) > 0 {
		if err := mapstructure.Decode(attrs, &cfg); err != nil {
			return Config{}, errors.Wrap(err, "decoding slam config attributes")
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports whether cfg describes a usable engine. Every violated
// field is accumulated rather than returning on the first, so a caller
// fixing a bad config attribute file can see every problem in one pass.
func (c Config) Validate() error {
	var err error
	if c.ScanSize < 3 {
		err = multierr.Append(err, fmt.Errorf("%w: scan_size must be at least 3, got %d", ErrInvalidInput, c.ScanSize))
	}
	if c.ScanRateHz <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: scan_rate_hz must be positive, got %v", ErrInvalidInput, c.ScanRateHz))
	}
	if c.MapSizePixels <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: map_size_pixels must be positive, got %d", ErrInvalidInput, c.MapSizePixels))
	}
	if c.MapSizeMeters <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: map_size_meters must be positive, got %v", ErrInvalidInput, c.MapSizeMeters))
	}
	if c.MaxSearchIter <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: max_search_iter must be positive, got %d", ErrInvalidInput, c.MaxSearchIter))
	}
	return err
}
