// Package layout computes the bit offsets of an ordered sequence of packed
// fields.
//
// Fields are contiguous with no padding: field i starts at the sum of the
// widths before it. The total width must be a whole number of bytes, which
// is checked once when the layout is compiled, never at access time.
//
// A Compiler memoizes layouts by their width sequence, so every record type
// with the same shape shares one immutable *Layout.
//
//	l, err := layout.Compile([]int{3, 4, 1})
//	l.Offset(2) // 7
//	l.Size()    // 1
package layout
