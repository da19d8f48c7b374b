// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package driver defines a set of interfaces encompassing
// the native layer of an immediate-mode GPU API.
// It is designed to allow platform-specific APIs to be
// implemented in a mostly straightforward manner.
//
// A Driver is opened to obtain a Device. The Device is
// the sole factory of GPU objects and owns a single
// immediate Context through which all commands are
// issued. Presentation is reached from the Device
// through the Presenter interface.
package driver

import (
	"errors"
	"strings"
	"sync"
)

// Driver is the interface that provides methods for
// loading and unloading an underlying implementation.
type Driver interface {
	// Open initializes the driver.
	// If it succeeds, further calls with the same receiver
	// have no effect and must return the same Device.
	// Callers should assume that Open is not safe for
	// parallel execution.
	Open() (Device, error)

	// Name returns the name of the driver.
	// It must not cause the driver to be opened.
	Name() string

	// Close deinitializes the driver.
	// Closing a driver that is not open has no effect.
	// Callers should assume that Close is not safe for
	// parallel execution.
	Close()
}

// ErrNotInstalled means that a platform-specific library
// required for the driver to work is not present in the
// system.
var ErrNotInstalled = errors.New("driver: missing required library")

// ErrNoDevice means that no suitable device could be
// found.
var ErrNoDevice = errors.New("driver: no suitable device found")

// ErrFatal means that the driver is in an unrecoverable
// state. Upon encountering such an error, the application
// must destroy everything that it created using the
// driver's Device and then call the Close method. It may
// call Open again to reinitialize the driver for further
// use.
var ErrFatal = errors.New("driver: fatal error")

// Drivers returns the registered Drivers.
// Client code imports specific driver packages, and then
// call this function from init. As such, drivers that do
// not register themselves on init will not be considered
// for selection.
func Drivers() []Driver {
	mu.Lock()
	defer mu.Unlock()
	drv := make([]Driver, len(drivers))
	copy(drv, drivers)
	return drv
}

// Register registers a Driver.
// Driver implementations are expected to call Register
// exactly once, from an init function.
// If a driver with the same name has already been
// registered, it will be replaced by drv.
func Register(drv Driver) {
	mu.Lock()
	defer mu.Unlock()
	for i := range drivers {
		if drivers[i].Name() == drv.Name() {
			drivers[i] = drv
			Logger().Warn("driver replaced", "name", drv.Name())
			return
		}
	}
	drivers = append(drivers, drv)
	Logger().Debug("driver registered", "name", drv.Name())
}

// Lookup returns the first registered Driver whose name
// contains name, ignoring case.
// An empty name matches any driver.
// It returns ErrNoDevice if no driver matches.
func Lookup(name string) (Driver, error) {
	name = strings.ToLower(name)
	for _, drv := range Drivers() {
		if strings.Contains(strings.ToLower(drv.Name()), name) {
			return drv, nil
		}
	}
	return nil, ErrNoDevice
}

// Variables used for driver registration.
var (
	mu      sync.Mutex
	drivers = make([]Driver, 0, 1)
)
