package slam

import "fmt"

// ErrInvalidInput is the sentinel for malformed SLAM inputs (spec §7): a
// scan whose length doesn't match the configured scan size, or a Config
// that fails Validate. Unlike the transform registry's malformed-message
// handling, an invalid SLAM update is reported to the caller rather than
// silently dropped, since a scan/config mismatch usually means the caller
// is wired up wrong.
var ErrInvalidInput = fmt.Errorf("slam: invalid input")
