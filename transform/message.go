package transform

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Stamp is a ROS-style split timestamp: seconds plus nanoseconds. Sec and
// Nanosec are interface{} because upstream brokers are observed to encode
// either integer or floating-point JSON numbers for these fields; the
// ingestion boundary accepts both rather than forcing callers to normalize
// before handing messages to the registry (see spec §9's note that typed,
// already-decoded structures — not raw JSON — cross the core boundary).
type Stamp struct {
	Sec     interface{}
	Nanosec interface{}
}

// Seconds combines Sec and Nanosec into a single floating-point timestamp.
func (s Stamp) Seconds() (float64, error) {
	sec, err := numericValue(s.Sec)
	if err != nil {
		return 0, fmt.Errorf("stamp.sec: %w", err)
	}
	nsec, err := numericValue(s.Nanosec)
	if err != nil {
		return 0, fmt.Errorf("stamp.nanosec: %w", err)
	}
	return sec + nsec*1e-9, nil
}

func numericValue(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("unsupported stamp field type %T", v)
	}
}

// Header carries the stamp and the parent frame id of a transform message.
type Header struct {
	Stamp   Stamp
	FrameID string
}

// Vec3 is a plain translation vector as it arrives over the wire (already
// decoded; the core never parses JSON itself).
type Vec3 struct {
	X, Y, Z float64
}

// RotationMessage is a quaternion as it arrives over the wire.
type RotationMessage struct {
	X, Y, Z, W float64
}

// TransformPayload is the translation/rotation pair of a transform message.
type TransformPayload struct {
	Translation Vec3
	Rotation    RotationMessage
}

// TransformMessage is one entry of a stamped-transforms list received from
// the bridge: header.frame_id is the parent, ChildFrameID is the child.
type TransformMessage struct {
	Header       Header
	ChildFrameID string
	Transform    TransformPayload
}

func vec3ToR3(v Vec3) r3.Vector {
	return r3.Vector{X: v.X, Y: v.Y, Z: v.Z}
}
