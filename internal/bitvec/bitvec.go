// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package bitvec defines a bit vector type used to hand
// out object slots (e.g., the live-object table of a
// software device).
package bitvec

import (
	"iter"
	"unsafe"
)

// Uint represents the granularity of a bit vector.
type Uint interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// V is a growable bit vector with custom granularity.
// The zero value is an empty vector ready for use.
type V[T Uint] struct {
	s   []T
	rem int
}

// nbit returns the number of bits in T.
func (*V[T]) nbit() int { return int(unsafe.Sizeof(T(0))) * 8 }

// Len returns the number of bits in the vector.
func (v *V[_]) Len() int { return len(v.s) * v.nbit() }

// Rem returns the number of unset bits in the vector.
func (v *V[_]) Rem() int { return v.rem }

// Grow resizes the vector to contain nplus additional Uints.
// The new bits are unset.
// It returns the value of v.Len prior to growing.
func (v *V[T]) Grow(nplus int) (index int) {
	index = v.Len()
	if nplus > 0 {
		v.rem += nplus * v.nbit()
		v.s = append(v.s, make([]T, nplus)...)
	}
	return
}

// Set sets a given bit.
func (v *V[T]) Set(index int) {
	n := v.nbit()
	i := index / n
	b := T(1) << (index & (n - 1))
	if v.s[i]&b == 0 {
		v.s[i] |= b
		v.rem--
	}
}

// Unset unsets a given bit.
func (v *V[T]) Unset(index int) {
	n := v.nbit()
	i := index / n
	b := T(1) << (index & (n - 1))
	if v.s[i]&b != 0 {
		v.s[i] &^= b
		v.rem++
	}
}

// IsSet checks whether a given bit is set.
// Indices out of range are reported as unset.
func (v *V[T]) IsSet(index int) bool {
	if index < 0 || index >= v.Len() {
		return false
	}
	n := v.nbit()
	i := index / n
	b := T(1) << (index & (n - 1))
	return v.s[i]&b != 0
}

// Search attempts to locate an unset bit in the vector.
// It fails only when v.Rem() == 0.
func (v *V[T]) Search() (index int, ok bool) {
	if v.Rem() == 0 {
		return
	}
	for i, x := range v.s {
		if x == ^T(0) {
			continue
		}
		var b int
		for ; x&(1<<b) != 0; b++ {
		}
		return i*v.nbit() + b, true
	}
	return
}

// Alloc sets the lowest unset bit and returns its index,
// growing the vector by one Uint when every bit is set.
func (v *V[T]) Alloc() int {
	index, ok := v.Search()
	if !ok {
		index = v.Grow(1)
	}
	v.Set(index)
	return index
}

// Free unsets a bit previously returned by Alloc.
// Freeing an unset bit has no effect.
func (v *V[T]) Free(index int) {
	if v.IsSet(index) {
		v.Unset(index)
	}
}

// Clear unsets every bit in the vector.
func (v *V[T]) Clear() {
	clear(v.s)
	v.rem = v.Len()
}

// All returns an iterator over the indices of set bits,
// in increasing order.
func (v *V[T]) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		n := v.nbit()
		for i, x := range v.s {
			if x == 0 {
				continue
			}
			for b := range n {
				if x&(1<<b) != 0 && !yield(i*n+b) {
					return
				}
			}
		}
	}
}
