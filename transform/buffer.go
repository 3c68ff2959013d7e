package transform

import (
	"math"
	"sort"

	"github.com/roboticscore/slamcore/spatialmath"
)

// exactMatchTolerance is how close a requested lookup time must be to a
// stored entry's timestamp to be treated as an exact hit rather than
// triggering interpolation.
const exactMatchTolerance = 1e-6

// jitterTolerance is how far before the first entry or after the last entry
// a lookup may fall and still be satisfied by clamping to that entry,
// rather than failing as extrapolation.
const jitterTolerance = 0.05

// FrameBuffer is an ordered sequence of StampedTransform for one fixed
// (parent, child) pair. Entries are kept sorted ascending by Time.
type FrameBuffer struct {
	parent, child string
	maxAge        float64 // seconds; 0 disables age-based eviction
	entries       []StampedTransform
}

// NewFrameBuffer constructs an empty buffer for the given frame pair.
// maxAge == 0 disables age-based eviction; the registry uses it for static
// buffers, which it always queries with Lookup(0) for the latest entry.
func NewFrameBuffer(parent, child string, maxAge float64) *FrameBuffer {
	return &FrameBuffer{parent: parent, child: child, maxAge: maxAge}
}

// Parent returns the buffer's fixed parent frame name.
func (b *FrameBuffer) Parent() string { return b.parent }

// Child returns the buffer's fixed child frame name.
func (b *FrameBuffer) Child() string { return b.child }

// Len returns the number of buffered entries.
func (b *FrameBuffer) Len() int { return len(b.entries) }

// Insert adds tf to the buffer, keeping entries sorted ascending by Time,
// then evicts anything older than maxAge relative to the new newest entry
// (when maxAge > 0).
func (b *FrameBuffer) Insert(tf StampedTransform) {
	if len(b.entries) == 0 || tf.Time >= b.entries[len(b.entries)-1].Time {
		b.entries = append(b.entries, tf)
	} else {
		idx := sort.Search(len(b.entries), func(i int) bool { return b.entries[i].Time >= tf.Time })
		b.entries = append(b.entries, StampedTransform{})
		copy(b.entries[idx+1:], b.entries[idx:])
		b.entries[idx] = tf
	}

	if b.maxAge > 0 {
		cutoff := b.entries[len(b.entries)-1].Time - b.maxAge
		idx := sort.Search(len(b.entries), func(i int) bool { return b.entries[i].Time >= cutoff })
		if idx > 0 {
			remaining := make([]StampedTransform, len(b.entries)-idx)
			copy(remaining, b.entries[idx:])
			b.entries = remaining
		}
	}
}

// Lookup returns the transform at time t, interpolating between the
// bracketing entries when t falls strictly between two of them. t == 0 is
// the static-transform convention and always returns the latest entry.
func (b *FrameBuffer) Lookup(t float64) (StampedTransform, error) {
	if len(b.entries) == 0 {
		return StampedTransform{}, &NoDataError{Parent: b.parent, Child: b.child}
	}
	if t == 0 {
		return b.entries[len(b.entries)-1], nil
	}

	first := b.entries[0]
	last := b.entries[len(b.entries)-1]
	idx := sort.Search(len(b.entries), func(i int) bool { return b.entries[i].Time >= t })

	if idx < len(b.entries) && math.Abs(b.entries[idx].Time-t) <= exactMatchTolerance {
		return b.entries[idx], nil
	}
	if idx == 0 {
		if t >= first.Time-jitterTolerance {
			return first, nil
		}
		return StampedTransform{}, &ExtrapolationError{Requested: t, First: first.Time, Last: last.Time}
	}
	if idx == len(b.entries) {
		if t <= last.Time+jitterTolerance {
			return last, nil
		}
		return StampedTransform{}, &ExtrapolationError{Requested: t, First: first.Time, Last: last.Time}
	}

	before := b.entries[idx-1]
	after := b.entries[idx]
	alpha := (t - before.Time) / (after.Time - before.Time)
	return StampedTransform{
		Parent:      b.parent,
		Child:       b.child,
		Time:        t,
		Translation: lerp(before.Translation, after.Translation, alpha),
		Rotation:    spatialmath.SLERP(before.Rotation, after.Rotation, alpha),
	}, nil
}
