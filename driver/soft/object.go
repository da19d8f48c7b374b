// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"fmt"

	"github.com/gviegas/rcore/driver"
	"github.com/gviegas/rcore/internal/bitvec"
)

// object is the reference-counted part of every native
// object created by a device.
type object struct {
	d    *device
	kind string
	slot int
	refs int
}

// obj is implemented by every type that embeds object.
type obj interface {
	obj() *object
}

func (o *object) obj() *object { return o }

// table tracks the live objects of a device.
type table struct {
	slots bitvec.V[uint32]
	objs  []*object
	// Kinds of freed objects, in release order.
	freed []string
}

// track registers o as a new object of the given kind
// holding one reference.
func (d *device) track(o *object, kind string) {
	slot := d.tab.slots.Alloc()
	if slot >= len(d.tab.objs) {
		d.tab.objs = append(d.tab.objs, make([]*object, slot+1-len(d.tab.objs))...)
	}
	*o = object{d: d, kind: kind, slot: slot, refs: 1}
	d.tab.objs[slot] = o
}

// addRef adds a reference to o.
func (o *object) addRef() {
	if o.refs <= 0 {
		driver.Logger().Warn("soft: reference to released object", "kind", o.kind)
		return
	}
	o.refs++
}

// release releases a reference to o.
// It returns true if that was the last reference, in
// which case o's slot is freed and the caller must
// dispose of the object.
func (o *object) release() bool {
	if o.d == nil || o.refs <= 0 {
		driver.Logger().Warn("soft: release of released object", "kind", o.kind)
		return false
	}
	o.refs--
	if o.refs > 0 {
		return false
	}
	t := &o.d.tab
	t.objs[o.slot] = nil
	t.slots.Free(o.slot)
	t.freed = append(t.freed, o.kind)
	driver.Logger().Debug("soft: object released", "kind", o.kind, "slot", o.slot)
	return true
}

// LiveObjects implements driver.LeakReporter.
func (d *device) LiveObjects() []string {
	var live []string
	for i := range d.tab.slots.All() {
		o := d.tab.objs[i]
		live = append(live, fmt.Sprintf("%s#%d (refs %d)", o.kind, o.slot, o.refs))
	}
	return live
}

// retain adds a reference to x, which may be nil.
func retain(x any) {
	if o, ok := x.(obj); ok && o.obj().refs > 0 {
		o.obj().addRef()
	}
}

// drop releases a reference to x, which may be nil.
// It calls Destroy so that the object is disposed of
// when the reference was the last one.
func drop(x any) {
	if x == nil {
		return
	}
	if d, ok := x.(driver.Destroyer); ok {
		d.Destroy()
	}
}
