// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package shield

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/busdriver/regmap"
)

// Tx runs one I²C transaction against the shield, as its slave engine
// would.
//
// Only the address held in the slave_addr register is answered. The first
// written byte sets the register pointer and the following bytes are written
// to consecutive registers. Reads start at the pointer and advance it. A
// transaction without written bytes continues from the current pointer.
//
// Tx implements i2c.Bus.
func (d *Dev) Tx(addr uint16, w, r []byte) error {
	d.mu.Lock()
	if addr != uint16(d.bank.SlaveAddr()) {
		d.mu.Unlock()
		return fmt.Errorf("shield: no device at address %#x", addr)
	}
	var errs []error
	if len(w) > 0 {
		d.ptr = regmap.Register(w[0])
		for _, v := range w[1:] {
			errs = append(errs, d.write(d.ptr, v))
			d.ptr++
		}
	}
	for i := range r {
		r[i] = d.bank.Read(d.ptr)
		d.ptr++
	}
	errs = append(errs, d.unlock())
	return errors.Join(errs...)
}

// SetSpeed implements i2c.Bus. The emulated bus has no clock.
func (d *Dev) SetSpeed(f physic.Frequency) error {
	return nil
}

// Close implements i2c.BusCloser. The registers stay readable.
func (d *Dev) Close() error {
	return nil
}

var _ i2c.BusCloser = &Dev{}
