// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package shield

import (
	"errors"

	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/busdriver/regmap"
)

// writeHandler validates v for register r and applies its side effects. It
// returns the value to commit. It runs with d.mu held and reads the bank
// before the commit.
type writeHandler func(d *Dev, r regmap.Register, v byte) (byte, error)

var writeHandlers = [regmap.NumRegisters]writeHandler{
	regmap.SlaveAddr: (*Dev).writeSlaveAddr,
	regmap.Status:    (*Dev).writeStatus,
	regmap.Direction: (*Dev).writeDirection,
	regmap.Reserved:  (*Dev).writeReserved,
	regmap.SpeedM1:   (*Dev).writeSpeed,
	regmap.SpeedM2:   (*Dev).writeSpeed,
	regmap.InOptsM1:  (*Dev).writeInOpts,
	regmap.InOptsM2:  (*Dev).writeInOpts,
	regmap.IntMask0:  (*Dev).writeIntMask,
	regmap.IntMask1:  (*Dev).writeIntMask,
}

// writeSlaveAddr queues the rebind; unlock runs it once d.mu is released.
func (d *Dev) writeSlaveAddr(r regmap.Register, v byte) (byte, error) {
	d.rebindAddr, d.rebindPending = v, true
	return v, nil
}

// writeStatus lets the bus clear interrupt lines. Input bits and interrupt
// bits the bus tries to set keep their current value.
func (d *Dev) writeStatus(r regmap.Register, v byte) (byte, error) {
	var errs []error
	for l := uint8(0); l < regmap.NumIntLines; l++ {
		if !regmap.Bit(v, regmap.StatusInt0+l) {
			errs = append(errs, d.hw.SetOutput(intPin(l), false))
		}
	}
	return (v | ^regmap.StatusIntMask) & d.bank.Status(), errors.Join(errs...)
}

func (d *Dev) writeDirection(r regmap.Register, v byte) (byte, error) {
	v &= regmap.DirMask
	return v, d.driveDirection(v)
}

// driveDirection copies the four direction bits of v to their pins.
func (d *Dev) driveDirection(v byte) error {
	var errs []error
	for i := uint8(0); i < 4; i++ {
		l := gpio.Level(regmap.Bit(v, i))
		errs = append(errs, d.hw.SetPin(dirPin(i), l))
	}
	return errors.Join(errs...)
}

func (d *Dev) writeReserved(r regmap.Register, v byte) (byte, error) {
	return 0, nil
}

func (d *Dev) writeSpeed(r regmap.Register, v byte) (byte, error) {
	ch := Channel(r - regmap.SpeedM1)
	if v == 0 {
		return 0, d.hw.EnablePWM(ch, false)
	}
	return v, errors.Join(d.hw.SetPWMDuty(ch, v), d.hw.EnablePWM(ch, true))
}

func (d *Dev) writeInOpts(r regmap.Register, v byte) (byte, error) {
	first := uint8(r-regmap.InOptsM1) * 2
	return v, errors.Join(
		d.hw.SetPullup(inputPin(first), regmap.Bit(v, regmap.InOptPullupI1)),
		d.hw.SetPullup(inputPin(first+1), regmap.Bit(v, regmap.InOptPullupI2)),
	)
}

func (d *Dev) writeIntMask(r regmap.Register, v byte) (byte, error) {
	return v, nil
}
