// Package spatialmath implements the rigid-body rotation algebra shared by
// the transform registry and the SLAM engine's pose bridge: unit quaternions,
// Hamilton composition, and spherical linear interpolation.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// unitTolerance is how far |q| may drift from 1 before Normalize is expected
// to have been called; it is not itself enforced by this package.
const unitTolerance = 1e-6

// zeroLengthTolerance is the norm below which Normalize gives up and returns
// identity rather than dividing by (approximately) zero.
const zeroLengthTolerance = 1e-10

// Quaternion is a Hamilton quaternion (x, y, z, w) representing a rotation,
// with w the scalar part. Identity is (0, 0, 0, 1).
type Quaternion struct {
	X, Y, Z, W float64
}

// Identity is the zero rotation.
var Identity = Quaternion{X: 0, Y: 0, Z: 0, W: 1}

// NewQuaternion constructs a Quaternion from components.
func NewQuaternion(x, y, z, w float64) Quaternion {
	return Quaternion{X: x, Y: y, Z: z, W: w}
}

// Norm returns the Euclidean length of the quaternion's four components.
func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normalize returns q scaled to unit length. A quaternion whose length is
// below zeroLengthTolerance is considered degenerate and normalizes to
// Identity rather than producing NaNs.
func (q Quaternion) Normalize() Quaternion {
	n := q.Norm()
	if n < zeroLengthTolerance {
		return Identity
	}
	return Quaternion{X: q.X / n, Y: q.Y / n, Z: q.Z / n, W: q.W / n}
}

// Dot returns the 4-component dot product of q and o.
func (q Quaternion) Dot(o Quaternion) float64 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

// Inverse returns the conjugate of q, which is the inverse rotation for any
// unit quaternion.
func (q Quaternion) Inverse() Quaternion {
	return Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Negate flips the sign of every component. A quaternion and its negation
// represent the same rotation; this is used internally by SLERP's
// short-path selection.
func (q Quaternion) Negate() Quaternion {
	return Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: -q.W}
}

// Multiply composes two rotations with the Hamilton product: Multiply(a, b)
// applied to a vector v equals a(b(v)) — b is applied first.
func Multiply(a, b Quaternion) Quaternion {
	return Quaternion{
		X: a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y,
		Y: a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X,
		Z: a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W,
		W: a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z,
	}
}

// Rotate applies q's rotation to v without promoting v to a pure quaternion:
// v + 2*(w*(qxyz x v) + qxyz x (qxyz x v)).
func Rotate(q Quaternion, v r3.Vector) r3.Vector {
	qxyz := r3.Vector{X: q.X, Y: q.Y, Z: q.Z}
	cross1 := qxyz.Cross(v)
	cross2 := qxyz.Cross(cross1)
	return v.Add(cross1.Mul(q.W).Add(cross2).Mul(2))
}

// slerpCosThreshold is the dot-product above which SLERP falls back to a
// normalized linear interpolation to avoid dividing by a near-zero sin(theta0).
const slerpCosThreshold = 0.9995

// SLERP spherically interpolates between q1 and q2 at parameter t in [0, 1],
// always choosing the short way around the 4-sphere (negating q2 when the
// dot product is negative) and always returning a unit quaternion.
func SLERP(q1, q2 Quaternion, t float64) Quaternion {
	d := q1.Dot(q2)
	if d < 0 {
		q2 = q2.Negate()
		d = -d
	}

	if d > slerpCosThreshold {
		lerp := Quaternion{
			X: q1.X + t*(q2.X-q1.X),
			Y: q1.Y + t*(q2.Y-q1.Y),
			Z: q1.Z + t*(q2.Z-q1.Z),
			W: q1.W + t*(q2.W-q1.W),
		}
		return lerp.Normalize()
	}

	theta0 := math.Acos(d)
	theta := theta0 * t
	sinTheta0 := math.Sin(theta0)
	sinTheta := math.Sin(theta)

	s1 := math.Cos(theta) - d*sinTheta/sinTheta0
	s2 := sinTheta / sinTheta0

	result := Quaternion{
		X: s1*q1.X + s2*q2.X,
		Y: s1*q1.Y + s2*q2.Y,
		Z: s1*q1.Z + s2*q2.Z,
		W: s1*q1.W + s2*q2.W,
	}
	return result.Normalize()
}

// Yaw extracts the rotation about the Z axis implied by q.
func Yaw(q Quaternion) float64 {
	return math.Atan2(2*(q.W*q.Z+q.X*q.Y), 1-2*(q.Y*q.Y+q.Z*q.Z))
}

// ToGonum converts to gonum's quat.Number, for interop with the rest of the
// gonum-based linear algebra this package leans on.
func (q Quaternion) ToGonum() quat.Number {
	return quat.Number{Real: q.W, Imag: q.X, Jmag: q.Y, Kmag: q.Z}
}

// FromGonum converts a gonum quat.Number into a Quaternion.
func FromGonum(n quat.Number) Quaternion {
	return Quaternion{X: n.Imag, Y: n.Jmag, Z: n.Kmag, W: n.Real}
}
