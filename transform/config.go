package transform

import "github.com/mitchellh/mapstructure"

// Config holds the registry's constructor-recognized attributes (spec §6).
type Config struct {
	// BufferDuration is the eviction age, in seconds, applied to dynamic
	// frame buffers. Static buffers always use maxAge = 0 regardless of
	// this value.
	BufferDuration float64 `mapstructure:"buffer_duration"`
	// TfThrottleRate is forwarded opaquely to the broker; the registry
	// itself does not interpret it (0 = no throttle).
	TfThrottleRate float64 `mapstructure:"tf_throttle_rate"`
}

// DefaultConfig returns the registry's documented defaults.
func DefaultConfig() Config {
	return Config{BufferDuration: 30, TfThrottleRate: 0}
}

// ConfigFromAttributes decodes a generic attribute bag (as a component's
// config attributes would arrive) into a Config, starting from
// DefaultConfig so omitted fields keep their documented defaults.
func ConfigFromAttributes(attrs map[string]interface{}) (Config, error) {
	cfg := DefaultConfig()
	if len(attrs) == 0 {
		return cfg, nil
	}
	if err := mapstructure.Decode(attrs, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
