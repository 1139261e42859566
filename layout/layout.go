package layout

import (
	"strconv"

	"github.com/wippyai/bitfield/codec"
	"github.com/wippyai/bitfield/errors"
)

// Layout is the immutable offset table of a packed record.
type Layout struct {
	widths    []int
	offsets   []int
	totalBits int
}

// build validates widths and computes running offsets.
func build(widths []int) (*Layout, error) {
	if len(widths) == 0 {
		return nil, errors.Layout("", "record has no fields")
	}

	l := &Layout{
		widths:  make([]int, len(widths)),
		offsets: make([]int, len(widths)),
	}
	copy(l.widths, widths)

	for i, w := range widths {
		if w < 1 || w > 64 {
			return nil, errors.InvalidWidth(errors.PhaseDefine, []string{fieldIndex(i)}, w, 1, 64)
		}
		l.offsets[i] = l.totalBits
		l.totalBits += w
	}

	if l.totalBits%8 != 0 {
		return nil, errors.New(errors.PhaseDefine, errors.KindLayout).
			Value(l.totalBits).
			Detail("total width %d bits is not a multiple of 8 (%d bits short)", l.totalBits, 8-l.totalBits%8).
			Build()
	}

	return l, nil
}

// Len returns the number of fields.
func (l *Layout) Len() int { return len(l.widths) }

// Offset returns the bit offset of field i.
func (l *Layout) Offset(i int) int { return l.offsets[i] }

// Width returns the bit width of field i.
func (l *Layout) Width(i int) int { return l.widths[i] }

// Container returns the codec container band of field i.
func (l *Layout) Container(i int) codec.Container { return codec.ContainerFor(l.widths[i]) }

// TotalBits returns the sum of all field widths.
func (l *Layout) TotalBits() int { return l.totalBits }

// Size returns the buffer length in bytes.
func (l *Layout) Size() int { return l.totalBits / 8 }

// Widths returns a copy of the width sequence.
func (l *Layout) Widths() []int {
	out := make([]int, len(l.widths))
	copy(out, l.widths)
	return out
}

// Offsets returns a copy of the offset table.
func (l *Layout) Offsets() []int {
	out := make([]int, len(l.offsets))
	copy(out, l.offsets)
	return out
}

// Span returns the inclusive byte window touched by field i.
func (l *Layout) Span(i int) (begin, end int) {
	return codec.Window(l.offsets[i], l.widths[i])
}

func fieldIndex(i int) string {
	return "#" + strconv.Itoa(i)
}
