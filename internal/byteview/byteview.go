// Package byteview provides a non-owning view over a byte range, the way
// LevelDB's Slice does: a (data, size) pair that callers compare and slice
// without ever copying the underlying bytes.
//
// A View must not outlive the backing array it was constructed from; it
// carries no ownership of its own.
package byteview

import "bytes"

// View is a non-owning reference to a byte range.
type View struct {
	data []byte
}

// New wraps b in a View. The returned View aliases b; callers must not
// mutate b for as long as the View is in use.
func New(b []byte) View { return View{data: b} }

// Data returns the underlying bytes. Callers must treat the result as
// read-only.
func (v View) Data() []byte { return v.data }

// Len returns the number of bytes in the view.
func (v View) Len() int { return len(v.data) }

// Empty reports whether the view has zero length.
func (v View) Empty() bool { return len(v.data) == 0 }

// At returns the ith byte. It panics if n is out of range, matching the
// REQUIRES precondition of the source this type models.
func (v View) At(n int) byte { return v.data[n] }

// RemovePrefix drops the first n bytes, returning the shortened view. It
// panics if n exceeds the view's length.
func (v View) RemovePrefix(n int) View {
	if n > len(v.data) {
		panic("byteview: RemovePrefix n exceeds length")
	}
	return View{data: v.data[n:]}
}

// Compare returns a three-way lexicographic comparison of v and o, the same
// contract as bytes.Compare.
func (v View) Compare(o View) int { return bytes.Compare(v.data, o.data) }

// Equal reports whether v and o hold identical bytes (length-then-memcmp).
func (v View) Equal(o View) bool { return bytes.Equal(v.data, o.data) }

// HasPrefix reports whether x is a prefix of v.
func (v View) HasPrefix(x View) bool { return bytes.HasPrefix(v.data, x.data) }

// String returns a copy of the referenced bytes as a string.
func (v View) String() string { return string(v.data) }
