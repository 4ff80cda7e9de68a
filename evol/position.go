package evol

import "fmt"

// Segment is the half-open range of positions [Begin, End).
type Segment struct {
	Begin, End int
}

// Len returns the number of positions in the segment.
func (seg Segment) Len() int {
	return seg.End - seg.Begin
}

// Contains reports whether pos is in the segment.
func (seg Segment) Contains(pos int) bool {
	return pos >= seg.Begin && pos < seg.End
}

func (seg Segment) String() string {
	return fmt.Sprintf("[%d, %d)", seg.Begin, seg.End)
}

// coverage returns the number of slots positions of a sequence of the given
// length can be drawn from: the length itself without segments, or the sum
// of segment lengths. Segments must lie within the sequence, and there must
// be at least one slot.
func coverage(length int, segments []Segment) (int, error) {
	if len(segments) == 0 {
		if length <= 0 {
			return 0, fmt.Errorf("%w: no position to pick in a sequence "+
				"of length %d", ErrValue, length)
		}
		return length, nil
	}

	slots := 0
	for _, seg := range segments {
		if seg.Begin < 0 || seg.End < seg.Begin || seg.End > length {
			return 0, fmt.Errorf("%w: segment %s does not fit a sequence "+
				"of length %d", ErrValue, seg, length)
		}
		slots += seg.Len()
	}
	if slots == 0 {
		return 0, fmt.Errorf("%w: segments cover no position", ErrValue)
	}
	return slots, nil
}

// PickPosition draws a position of a sequence of the given length. Without
// segments, every position is equally likely. Otherwise a position is drawn
// with a probability proportional to the number of segments covering it.
func PickPosition(length int, segments []Segment, rng Rand) (int, error) {
	slots, err := coverage(length, segments)
	if err != nil {
		return 0, err
	}
	return pick(slots, segments, rng), nil
}

// pick draws a position from already validated segments with the given
// number of slots.
func pick(slots int, segments []Segment, rng Rand) int {
	i := rng.IntN(slots)
	if len(segments) == 0 {
		return i
	}
	d := 0
	for i >= segments[d].Len() {
		i -= segments[d].Len()
		d++
	}
	return segments[d].Begin + i
}
