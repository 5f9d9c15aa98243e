// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package ctxt provides the GPU driver used in the engine.
package ctxt

import (
	"errors"
	"strings"

	"github.com/embergfx/ember/driver"
)

var (
	drv    driver.Driver
	gpu    driver.GPU
	limits driver.Limits
)

var errNoDriver = errors.New("ctxt: driver not found")

// Init attempts to load any driver whose name contains the provided
// name string. It is case-sensitive. If name is the empty string, all
// drivers are considered.
// Calling Init while a driver is loaded has no effect.
func Init(name string) error {
	if gpu != nil {
		return nil
	}
	drivers := driver.Drivers()
	err := errNoDriver
	for i := range drivers {
		if !strings.Contains(drivers[i].Name(), name) {
			continue
		}
		var u driver.GPU
		if u, err = drivers[i].Open(); err != nil {
			continue
		}
		drv = drivers[i]
		gpu = u
		limits = gpu.Limits()
		return nil
	}
	return err
}

// Deinit closes the loaded driver, if any.
func Deinit() {
	if drv != nil {
		drv.Close()
	}
	drv, gpu = nil, nil
	limits = driver.Limits{}
}

// Driver returns the driver.Driver.
func Driver() driver.Driver { return drv }

// GPU returns the driver.GPU.
func GPU() driver.GPU { return gpu }

// Limits returns driver.Limits of the context's GPU.
// This value is retrieved only once. It must not be changed by the
// caller.
func Limits() *driver.Limits { return &limits }
