// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package frame

import (
	"github.com/gviegas/rcore/linear"
)

// Constant buffer slots.
const (
	ViewSlot     = 0
	ResizeSlot   = 1
	PerFrameSlot = 2
)

// NeverChanges is the payload of the view tier.
type NeverChanges struct {
	View linear.M4
}

// ChangeOnResize is the payload of the projection tier.
type ChangeOnResize struct {
	Projection linear.M4
}

// ChangesEveryFrame is the payload of the per-frame tier.
type ChangesEveryFrame struct {
	World     linear.M4
	MeshColor linear.V4
}
