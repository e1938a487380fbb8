// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package shield

import (
	"errors"

	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/busdriver/regmap"
)

// Sample re-evaluates the four inputs after a pin change. It must be called
// for every change of any monitored pin.
//
// For each input, in order, it applies the invert option, stores the level
// in the status register, clears the matching direction bit when the input
// is active with its limit option set, and asserts every interrupt line
// whose mask selects the input.
func (d *Dev) Sample() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var errs []error
	for id := uint8(0); id < regmap.NumInputs; id++ {
		errs = append(errs, d.sampleInput(id))
	}
	return errors.Join(errs...)
}

// sampleInput handles input id. Bit 1 of id selects the motor whose inopts
// register applies, bit 0 selects I1 or I2 within it. The status, direction
// and mask bit of the input is id itself.
func (d *Dev) sampleInput(id uint8) error {
	opts := d.bank.InOpts(int(id >> 1))
	sub := id & 1

	active := d.hw.ReadPin(inputPin(id)) == gpio.High
	if regmap.Bit(opts, regmap.InOptInvertI1+sub) {
		active = !active
	}
	d.bank[regmap.Status] = regmap.SetBit(d.bank.Status(), id, active)

	var errs []error
	if active && regmap.Bit(opts, regmap.InOptLimitI1+sub) && regmap.Bit(d.bank.Direction(), id) {
		dir := regmap.SetBit(d.bank.Direction(), id, false)
		d.bank[regmap.Direction] = dir
		errs = append(errs, d.driveDirection(dir))
	}

	for l := uint8(0); l < regmap.NumIntLines; l++ {
		if regmap.Bit(d.bank.IntMask(int(l)), id) {
			d.bank[regmap.Status] = regmap.SetBit(d.bank.Status(), regmap.StatusInt0+l, true)
			errs = append(errs, d.hw.SetOutput(intPin(l), true))
		}
	}
	return errors.Join(errs...)
}
