// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package engine

import (
	_ "github.com/gviegas/rcore/driver/soft"
)
