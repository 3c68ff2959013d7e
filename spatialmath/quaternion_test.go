package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestIdentityRotatesNothing(t *testing.T) {
	v := r3.Vector{X: 1, Y: 2, Z: 3}
	got := Rotate(Identity, v)
	test.That(t, got.X, test.ShouldAlmostEqual, v.X)
	test.That(t, got.Y, test.ShouldAlmostEqual, v.Y)
	test.That(t, got.Z, test.ShouldAlmostEqual, v.Z)
}

func TestMultiplyComposesRotations(t *testing.T) {
	// Two 90-degree yaw rotations compose into a 180-degree yaw rotation.
	quarter := NewQuaternion(0, 0, math.Sin(math.Pi/4), math.Cos(math.Pi/4))
	half := Multiply(quarter, quarter)

	v := r3.Vector{X: 1, Y: 0, Z: 0}
	got := Rotate(half, v)
	test.That(t, got.X, test.ShouldAlmostEqual, -1.0)
	test.That(t, got.Y, test.ShouldAlmostEqual, 0.0)
}

func TestInverseUndoesRotation(t *testing.T) {
	q := NewQuaternion(0.1, 0.2, 0.3, 0.9).Normalize()
	v := r3.Vector{X: 3, Y: -1, Z: 2}
	rotated := Rotate(q, v)
	back := Rotate(q.Inverse(), rotated)
	test.That(t, back.X, test.ShouldAlmostEqual, v.X)
	test.That(t, back.Y, test.ShouldAlmostEqual, v.Y)
	test.That(t, back.Z, test.ShouldAlmostEqual, v.Z)
}

func TestSLERPEndpoints(t *testing.T) {
	q1 := Identity
	q2 := NewQuaternion(0, 0, 1, 0) // 180-degree yaw

	start := SLERP(q1, q2, 0)
	end := SLERP(q1, q2, 1)

	test.That(t, start.Dot(q1), test.ShouldAlmostEqual, 1.0)
	test.That(t, math.Abs(end.Dot(q2)), test.ShouldAlmostEqual, 1.0)
}

func TestSLERPTakesShortPath(t *testing.T) {
	q1 := NewQuaternion(0, 0, 0, 1)
	q2 := NewQuaternion(0, 0, 0, -1) // same rotation as q1, negated

	mid := SLERP(q1, q2, 0.5)
	// Negating q2 for the short path means the midpoint should still be
	// (near) identity, not an antipodal jump through a 180-degree rotation.
	test.That(t, math.Abs(mid.Dot(q1)), test.ShouldBeGreaterThan, 0.99)
}

func TestYawExtraction(t *testing.T) {
	theta := math.Pi / 3
	q := NewQuaternion(0, 0, math.Sin(theta/2), math.Cos(theta/2))
	test.That(t, Yaw(q), test.ShouldAlmostEqual, theta)
}

func TestNormalizeDegenerateReturnsIdentity(t *testing.T) {
	q := NewQuaternion(0, 0, 0, 0)
	got := q.Normalize()
	test.That(t, got, test.ShouldResemble, Identity)
}

func TestGonumRoundTrip(t *testing.T) {
	q := NewQuaternion(0.1, 0.2, 0.3, 0.9).Normalize()
	back := FromGonum(q.ToGonum())
	test.That(t, back.X, test.ShouldAlmostEqual, q.X)
	test.That(t, back.Y, test.ShouldAlmostEqual, q.Y)
	test.That(t, back.Z, test.ShouldAlmostEqual, q.Z)
	test.That(t, back.W, test.ShouldAlmostEqual, q.W)
}
