// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package busdriver

import (
	"errors"
	"fmt"
	"strings"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"

	"github.com/GermanBionicSystems/busdriver/regmap"
)

// I2CAddr is the address of a shield with blank settings.
const I2CAddr uint16 = regmap.DefaultSlaveAddr

var (
	// ErrConnectionFailed is returned by New when the shield does not answer
	// with its own address.
	ErrConnectionFailed = errors.New("busdriver: failed to connect to shield")

	// ErrInvalidSetting is returned for an out of range motor, line or
	// address.
	ErrInvalidSetting = errors.New("busdriver: invalid setting")
)

// Motor selects one of the two H-bridges.
type Motor int

const (
	M1 Motor = 0
	M2 Motor = 1
)

// Direction is the state of the two direction outputs of a motor.
type Direction uint8

const (
	// Stop leaves both direction outputs low.
	Stop Direction = 0
	// CCW turns the motor counter clockwise.
	CCW Direction = 1
	// CW turns the motor clockwise.
	CW Direction = 2
	// Brake drives both direction outputs high.
	Brake Direction = 3
)

func (d Direction) String() string {
	switch d {
	case Stop:
		return "stop"
	case CCW:
		return "ccw"
	case CW:
		return "cw"
	case Brake:
		return "brake"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Status is the content of the status register.
type Status uint8

// Input reports whether input 0-3 (M1.I1, M1.I2, M2.I1, M2.I2) was active at
// the last sample, after inversion.
func (s Status) Input(id int) bool {
	return id >= 0 && id < regmap.NumInputs && regmap.Bit(byte(s), uint8(id))
}

// Interrupt reports whether interrupt line 0 or 1 is asserted.
func (s Status) Interrupt(line int) bool {
	return line >= 0 && line < regmap.NumIntLines && regmap.Bit(byte(s), regmap.StatusInt0+uint8(line))
}

func (s Status) String() string {
	var b strings.Builder
	for id := 0; id < regmap.NumInputs; id++ {
		if s.Input(id) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	for l := 0; l < regmap.NumIntLines; l++ {
		if s.Interrupt(l) {
			fmt.Fprintf(&b, " INT%d", l)
		}
	}
	return b.String()
}

// InputOptions configures the two inputs of a motor. Index 0 is I1.
type InputOptions struct {
	Pullup [2]bool // Pullup enables the internal pull-up resistor.
	Invert [2]bool // Invert treats a low level as active.
	Limit  [2]bool // Limit stops the matching direction when active.
}

func (o InputOptions) encode() byte {
	var v byte
	for i := uint8(0); i < 2; i++ {
		v = regmap.SetBit(v, regmap.InOptPullupI1+i, o.Pullup[i])
		v = regmap.SetBit(v, regmap.InOptInvertI1+i, o.Invert[i])
		v = regmap.SetBit(v, regmap.InOptLimitI1+i, o.Limit[i])
	}
	return v
}

func decodeInputOptions(v byte) InputOptions {
	var o InputOptions
	for i := uint8(0); i < 2; i++ {
		o.Pullup[i] = regmap.Bit(v, regmap.InOptPullupI1+i)
		o.Invert[i] = regmap.Bit(v, regmap.InOptInvertI1+i)
		o.Limit[i] = regmap.Bit(v, regmap.InOptLimitI1+i)
	}
	return o
}

// Dev is a handle to a BusDriver shield.
type Dev struct {
	d      *i2c.Dev
	inopts [regmap.NumMotors]registerCache
	dir    registerCache
}

// New returns a handle to the shield at addr on bus.
//
// The default address is busdriver.I2CAddr.
func New(bus i2c.Bus, addr uint16) (*Dev, error) {
	d := &Dev{d: &i2c.Dev{Bus: bus, Addr: addr}}
	d.dir = newRegister(d.d, regmap.Direction)
	for m := range d.inopts {
		d.inopts[m] = newRegister(d.d, regmap.InOptsM1+regmap.Register(m))
	}
	v, err := readRegister(d.d, regmap.SlaveAddr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	if uint16(v) != addr {
		return nil, fmt.Errorf("%w: shield reports address %#x", ErrConnectionFailed, v)
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("BusDriver{%s}", d.d)
}

// Halt stops both motors.
//
// Halt implements conn.Resource.
func (d *Dev) Halt() error {
	return wrap(d.d.Tx([]byte{byte(regmap.SpeedM1), 0, 0}, nil))
}

// SetSpeed sets the PWM duty of motor m. 0 disables the H-bridge.
func (d *Dev) SetSpeed(m Motor, speed uint8) error {
	if err := checkMotor(m); err != nil {
		return err
	}
	return wrap(writeRegister(d.d, regmap.SpeedM1+regmap.Register(m), speed))
}

// Speed returns the PWM duty of motor m.
func (d *Dev) Speed(m Motor) (uint8, error) {
	if err := checkMotor(m); err != nil {
		return 0, err
	}
	v, err := readRegister(d.d, regmap.SpeedM1+regmap.Register(m))
	return v, wrap(err)
}

// SetDirection sets the direction outputs of motor m, leaving the other
// motor untouched.
//
// The shield clears a direction on its own when a limit input trips, so the
// register is always read back before being modified.
func (d *Dev) SetDirection(m Motor, dir Direction) error {
	if err := checkMotor(m); err != nil {
		return err
	}
	if dir > Brake {
		return ErrInvalidSetting
	}
	// Both bits change in one write so the bridge never passes through brake.
	v, err := d.dir.readValue(false)
	if err != nil {
		return wrap(err)
	}
	shift := uint8(m) * 2
	v = v&^(byte(Brake)<<shift) | byte(dir)<<shift
	return wrap(d.dir.writeValue(v, false))
}

// Direction returns the direction outputs of motor m.
func (d *Dev) Direction(m Motor) (Direction, error) {
	if err := checkMotor(m); err != nil {
		return Stop, err
	}
	v, err := d.dir.readValue(false)
	if err != nil {
		return Stop, wrap(err)
	}
	return Direction(v>>(uint8(m)*2)) & Brake, nil
}

// Status returns the input and interrupt states.
func (d *Dev) Status() (Status, error) {
	v, err := readRegister(d.d, regmap.Status)
	return Status(v), wrap(err)
}

// ClearInterrupts releases the given interrupt lines. Other lines keep their
// state.
func (d *Dev) ClearInterrupts(lines ...int) error {
	v := byte(0xFF)
	for _, l := range lines {
		if l < 0 || l >= regmap.NumIntLines {
			return ErrInvalidSetting
		}
		v = regmap.SetBit(v, regmap.StatusInt0+uint8(l), false)
	}
	return wrap(writeRegister(d.d, regmap.Status, v))
}

// SetInputOptions configures the inputs of motor m.
func (d *Dev) SetInputOptions(m Motor, o InputOptions) error {
	if err := checkMotor(m); err != nil {
		return err
	}
	return wrap(d.inopts[m].writeValue(o.encode(), true))
}

// InputOptions returns the input configuration of motor m.
func (d *Dev) InputOptions(m Motor) (InputOptions, error) {
	if err := checkMotor(m); err != nil {
		return InputOptions{}, err
	}
	v, err := d.inopts[m].readValue(true)
	return decodeInputOptions(v), wrap(err)
}

// SetInterruptMask selects which inputs assert interrupt line 0 or 1. Bit n
// of mask is input n.
func (d *Dev) SetInterruptMask(line int, mask uint8) error {
	if line < 0 || line >= regmap.NumIntLines {
		return ErrInvalidSetting
	}
	return wrap(writeRegister(d.d, regmap.IntMask0+regmap.Register(line), mask))
}

// SetAddress moves the shield to a new 7 bit address. The handle follows it.
// Call Commit to keep the address across power cycles.
func (d *Dev) SetAddress(addr uint16) error {
	if addr < 0x08 || addr > 0x77 {
		return ErrInvalidSetting
	}
	if err := writeRegister(d.d, regmap.SlaveAddr, uint8(addr)); err != nil {
		return wrap(err)
	}
	d.d.Addr = addr
	return nil
}

// Commit asks the shield to store its registers. The shield writes its
// EEPROM in the background after the call returns.
func (d *Dev) Commit() error {
	return wrap(writeRegister(d.d, regmap.Commit, 0))
}

// Registers reads the whole register bank in one transaction.
func (d *Dev) Registers() (regmap.Bank, error) {
	var b regmap.Bank
	err := d.d.Tx([]byte{byte(regmap.SlaveAddr)}, b[:])
	if err == nil {
		for m := range d.inopts {
			d.inopts[m].refresh(b[regmap.InOptsM1+regmap.Register(m)])
		}
	}
	return b, wrap(err)
}

func checkMotor(m Motor) error {
	if m != M1 && m != M2 {
		return ErrInvalidSetting
	}
	return nil
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("busdriver: %w", err)
}

var _ conn.Resource = &Dev{}
