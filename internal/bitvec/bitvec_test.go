// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package bitvec

import (
	"slices"
	"testing"
	"unsafe"
)

func TestNbit(t *testing.T) {
	for _, x := range [...][2]int{
		{int(unsafe.Sizeof(uint(0))) * 8, (&V[uint]{}).nbit()},
		{int(unsafe.Sizeof(uint8(0))) * 8, (&V[uint8]{}).nbit()},
		{int(unsafe.Sizeof(uint16(0))) * 8, (&V[uint16]{}).nbit()},
		{int(unsafe.Sizeof(uint32(0))) * 8, (&V[uint32]{}).nbit()},
		{int(unsafe.Sizeof(uint64(0))) * 8, (&V[uint64]{}).nbit()},
		{int(unsafe.Sizeof(uintptr(0))) * 8, (&V[uintptr]{}).nbit()},
	} {
		if x[0] != x[1] {
			t.Fatalf("V[T].nbit:\nhave %d\nwant %d", x[0], x[1])
		}
	}
}

func TestZero(t *testing.T) {
	var v16 V[uint16]
	if n := v16.Len(); n != 0 {
		t.Fatalf("v16.Len:\nhave %d\nwant 0", n)
	}
	if n := v16.Rem(); n != 0 {
		t.Fatalf("v16.Rem:\nhave %d\nwant 0", n)
	}
	if _, ok := v16.Search(); ok {
		t.Fatal("v16.Search:\nhave _, true\nwant _, false")
	}
	if v16.IsSet(0) {
		t.Fatal("v16.IsSet(0):\nhave true\nwant false")
	}
}

func TestGrow(t *testing.T) {
	var v32 V[uint32]
	for _, x := range [...]struct {
		nplus, wantLen int
	}{
		{1, 32},
		{2, 96},
		{0, 96},
		{16, 608},
		{-1, 608},
	} {
		if n, i := v32.Len(), v32.Grow(x.nplus); n != i {
			t.Fatalf("v32.Grow:\nhave %d\nwant %d", i, n)
		}
		if n := v32.Len(); n != x.wantLen {
			t.Fatalf("v32.Grow: Len:\nhave %d\nwant %d", n, x.wantLen)
		}
		if n := v32.Rem(); n != x.wantLen {
			t.Fatalf("v32.Grow: Rem:\nhave %d\nwant %d", n, x.wantLen)
		}
	}
}

func TestSetUnset(t *testing.T) {
	var v8 V[uint8]
	v8.Grow(3)
	for _, x := range [...]struct {
		set   bool
		index int
		want  [3]uint8
	}{
		{true, 6, [3]uint8{0x40}},
		{true, 1, [3]uint8{0x42}},
		{false, 6, [3]uint8{0x02}},
		{true, 10, [3]uint8{0x02, 0x04}},
		{true, 21, [3]uint8{0x02, 0x04, 0x20}},
		{true, 21, [3]uint8{0x02, 0x04, 0x20}},
		{false, 0, [3]uint8{0x02, 0x04, 0x20}},
		{false, 1, [3]uint8{0, 0x04, 0x20}},
	} {
		if x.set {
			v8.Set(x.index)
		} else {
			v8.Unset(x.index)
		}
		if [3]uint8(v8.s) != x.want {
			t.Fatalf("v8.s:\nhave %#v\nwant %#v", v8.s, x.want)
		}
	}
	if n := v8.Rem(); n != 22 {
		t.Fatalf("v8.Rem:\nhave %d\nwant 22", n)
	}
}

func TestSearch(t *testing.T) {
	var v8 V[uint8]
	v8.Grow(2)
	for i := range 9 {
		index, ok := v8.Search()
		if !ok || index != i {
			t.Fatalf("v8.Search:\nhave %d, %t\nwant %d, true", index, ok, i)
		}
		v8.Set(index)
	}
	v8.Unset(3)
	if index, _ := v8.Search(); index != 3 {
		t.Fatalf("v8.Search:\nhave %d\nwant 3", index)
	}
	for i := range v8.Len() {
		v8.Set(i)
	}
	if index, ok := v8.Search(); ok {
		t.Fatalf("v8.Search:\nhave %d, true\nwant _, false", index)
	}
}

func TestAllocFree(t *testing.T) {
	var v16 V[uint16]
	for i := range 40 {
		if index := v16.Alloc(); index != i {
			t.Fatalf("v16.Alloc:\nhave %d\nwant %d", index, i)
		}
	}
	if n := v16.Len(); n != 48 {
		t.Fatalf("v16.Len:\nhave %d\nwant 48", n)
	}
	v16.Free(17)
	v16.Free(17)
	v16.Free(1000)
	if n := v16.Rem(); n != 9 {
		t.Fatalf("v16.Rem:\nhave %d\nwant 9", n)
	}
	if index := v16.Alloc(); index != 17 {
		t.Fatalf("v16.Alloc:\nhave %d\nwant 17", index)
	}
	v16.Clear()
	if n := v16.Rem(); n != v16.Len() {
		t.Fatalf("v16.Clear: Rem:\nhave %d\nwant %d", n, v16.Len())
	}
}

func TestAll(t *testing.T) {
	var v64 V[uint64]
	if s := slices.Collect(v64.All()); len(s) != 0 {
		t.Fatalf("v64.All:\nhave %v\nwant []", s)
	}
	v64.Grow(3)
	want := []int{0, 5, 63, 64, 130, 191}
	for _, i := range want {
		v64.Set(i)
	}
	if s := slices.Collect(v64.All()); !slices.Equal(s, want) {
		t.Fatalf("v64.All:\nhave %v\nwant %v", s, want)
	}
	for i := range v64.All() {
		if i > 5 {
			t.Fatalf("v64.All: early break:\nhave %d", i)
		}
		if i == 5 {
			break
		}
	}
}
