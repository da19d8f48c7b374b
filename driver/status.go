// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package driver

import (
	"errors"
	"fmt"
)

// Status is a native result code.
// The high bit is set for failures. Success codes other
// than SOK carry extra information (e.g., SOccluded) and
// must not be treated as errors.
// Status implements error so that backends can return
// failures directly.
type Status uint32

// Status codes.
const (
	SOK       Status = 0x00000000
	SFalse    Status = 0x00000001
	SOccluded Status = 0x087A0001

	EFail          Status = 0x80004005
	ENotImpl       Status = 0x80004001
	EInvalidArg    Status = 0x80070057
	EOutOfMemory   Status = 0x8007000E
	EInvalidCall   Status = 0x887A0001
	EUnsupported   Status = 0x887A0004
	EDeviceRemoved Status = 0x887A0005
)

var statusNames = map[Status]string{
	SOK:            "ok",
	SFalse:         "false",
	SOccluded:      "occluded",
	EFail:          "unspecified failure",
	ENotImpl:       "not implemented",
	EInvalidArg:    "invalid argument",
	EOutOfMemory:   "out of memory",
	EInvalidCall:   "invalid call",
	EUnsupported:   "unsupported",
	EDeviceRemoved: "device removed",
}

// Failed returns whether s is a failure code.
func (s Status) Failed() bool { return s&0x80000000 != 0 }

// Err returns s as an error if it is a failure code,
// and nil otherwise.
func (s Status) Err() error {
	if s.Failed() {
		return s
	}
	return nil
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return fmt.Sprintf("%s (0x%08X)", n, uint32(s))
	}
	return fmt.Sprintf("status 0x%08X", uint32(s))
}

// Error implements error.
func (s Status) Error() string { return "driver: " + s.String() }

// StatusOf recovers the Status carried by err.
// It returns SOK if err is nil and EFail if err does not
// wrap a Status.
func StatusOf(err error) Status {
	if err == nil {
		return SOK
	}
	var s Status
	if errors.As(err, &s) {
		return s
	}
	return EFail
}
