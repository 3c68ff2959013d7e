package slam

import (
	"errors"
	"testing"

	"go.viam.com/test"
)

func TestDefaultConfigValidates(t *testing.T) {
	test.That(t, DefaultConfig().Validate(), test.ShouldBeNil)
}

func TestConfigFromAttributesOverridesDefaults(t *testing.T) {
	cfg, err := ConfigFromAttributes(map[string]interface{}{
		"scan_size":        180,
		"map_size_meters":  10.0,
		"max_search_iter":  500,
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.ScanSize, test.ShouldEqual, 180)
	test.That(t, cfg.MapSizeMeters, test.ShouldAlmostEqual, 10.0)
	test.That(t, cfg.MaxSearchIter, test.ShouldEqual, 500)
	// Untouched fields keep their documented defaults.
	test.That(t, cfg.SigmaXYMM, test.ShouldAlmostEqual, DefaultConfig().SigmaXYMM)
}

func TestConfigValidateRejectsBadScanSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScanSize = 1
	err := cfg.Validate()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, ErrInvalidInput), test.ShouldBeTrue)
}

func TestConfigValidateRejectsZeroMapSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MapSizePixels = 0
	test.That(t, cfg.Validate(), test.ShouldNotBeNil)
}
