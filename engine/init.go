// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"fmt"
	"strings"

	"github.com/gviegas/rcore/driver"
)

var errNoDriver = fmt.Errorf("engine: driver not found: %w", driver.ErrNoDevice)

// loadDriver attempts to open any registered driver whose
// name contains the provided name string. It is case
// insensitive. If name is the empty string, all drivers
// are considered.
// The error of the last driver that failed to open is
// returned when none succeeds.
func loadDriver(name string) (driver.Driver, driver.Device, error) {
	drivers := driver.Drivers()
	err := error(errNoDriver)
	name = strings.ToLower(name)
	for i := range drivers {
		if !strings.Contains(strings.ToLower(drivers[i].Name()), name) {
			continue
		}
		var dev driver.Device
		if dev, err = drivers[i].Open(); err != nil {
			driver.Logger().Warn("engine: driver failed to open", "driver", drivers[i].Name(), "err", err)
			continue
		}
		return drivers[i], dev, nil
	}
	return nil, nil, err
}
