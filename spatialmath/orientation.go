package spatialmath

import (
	"errors"
	"math"

	"github.com/golang/geo/r3"
)

// OrientationVector represents the direction a frame's local Z axis points
// to, as a unit vector (OX, OY, OZ), plus Theta, an in-line rotation about
// that axis.
//
// Adapted down from a general-axis orientation vector: this core only ever
// needs to express a yaw-only heading (SLAM's theta, rotating about the
// world's up axis), so unlike a general orientation vector this type does
// not support constructing a quaternion for an arbitrary OX/OY/OZ axis — see
// Quaternion below.
type OrientationVector struct {
	Theta          float64
	OX, OY, OZ float64
}

// NewYawOrientation builds the orientation vector for a pure rotation of
// thetaRad about +Z, the representation SLAM's heading bridges through on
// its way into a StampedTransform rotation.
func NewYawOrientation(thetaRad float64) *OrientationVector {
	return &OrientationVector{Theta: thetaRad, OZ: 1}
}

func (ov *OrientationVector) computeNormal() float64 {
	return math.Sqrt(ov.OX*ov.OX + ov.OY*ov.OY + ov.OZ*ov.OZ)
}

// IsValid returns an error if the orientation axis is degenerate.
func (ov *OrientationVector) IsValid() error {
	if ov.computeNormal() == 0.0 {
		return errors.New("OrientationVector has a normal of 0, probably X, Y, and Z are all 0")
	}
	return nil
}

// Normalize scales OX/OY/OZ onto the unit sphere, defaulting to +Z if the
// vector was left unset.
func (ov *OrientationVector) Normalize() {
	norm := ov.computeNormal()
	if norm == 0.0 {
		ov.OZ = 1
		return
	}
	ov.OX /= norm
	ov.OY /= norm
	ov.OZ /= norm
}

// Vector returns the axis component of the orientation vector.
func (ov *OrientationVector) Vector() r3.Vector {
	return r3.Vector{X: ov.OX, Y: ov.OY, Z: ov.OZ}
}

// Quaternion returns the orientation as a unit quaternion. Only the
// on-axis case (OX == OY == 0) is supported, since that is the only case
// this core's bridge from a 2-D SLAM heading ever produces; a general
// axis/theta-to-quaternion conversion would require pulling in an Euler
// angle library for a code path this core never exercises.
func (ov *OrientationVector) Quaternion() Quaternion {
	ov.Normalize()
	half := ov.Theta / 2
	sign := 1.0
	if ov.OZ < 0 {
		sign = -1.0
	}
	return Quaternion{X: 0, Y: 0, Z: sign * math.Sin(half), W: math.Cos(half)}
}
