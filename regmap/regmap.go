// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package regmap

import "strconv"

// NumRegisters is the size of the register bank.
const NumRegisters = 10

// DefaultSlaveAddr is the I²C address of a shield with blank storage.
const DefaultSlaveAddr = 0x26

// Register is an address in the register bank.
type Register uint8

// Registers of the bank, in wire order.
const (
	// SlaveAddr holds the I²C address of the shield.
	SlaveAddr Register = iota
	// Status holds the sampled inputs and the asserted interrupt lines.
	Status
	// Direction holds the direction outputs of both motors.
	Direction
	// Reserved always reads 0.
	Reserved
	// SpeedM1 is the PWM duty of motor 1; 0 disables its bridge.
	SpeedM1
	// SpeedM2 is the PWM duty of motor 2; 0 disables its bridge.
	SpeedM2
	// InOptsM1 holds the pull-up, invert and limit options of M1.I1 and M1.I2.
	InOptsM1
	// InOptsM2 holds the pull-up, invert and limit options of M2.I1 and M2.I2.
	InOptsM2
	// IntMask0 selects the inputs that assert interrupt line 0.
	IntMask0
	// IntMask1 selects the inputs that assert interrupt line 1.
	IntMask1

	// Commit is not backed by storage. A write to it requests that the
	// bank be persisted.
	Commit Register = 127
)

var registerNames = [NumRegisters]string{
	"slave_addr",
	"status",
	"direction",
	"reserved",
	"speed_m1",
	"speed_m2",
	"inopts_m1",
	"inopts_m2",
	"int_mask0",
	"int_mask1",
}

// String returns the register name.
func (r Register) String() string {
	if r < NumRegisters {
		return registerNames[r]
	}
	if r == Commit {
		return "commit"
	}
	return "register(" + strconv.Itoa(int(r)) + ")"
}

// Valid reports whether r addresses a byte of the bank.
func (r Register) Valid() bool {
	return r < NumRegisters
}

// Status register bits.
const (
	StatusM1I1 uint8 = 0
	StatusM1I2 uint8 = 1
	StatusM2I1 uint8 = 2
	StatusM2I2 uint8 = 3
	StatusInt0 uint8 = 4
	StatusInt1 uint8 = 5
)

// Direction register bits.
const (
	DirM1CCW uint8 = 0
	DirM1CW  uint8 = 1
	DirM2CCW uint8 = 2
	DirM2CW  uint8 = 3
)

// Input options register bits. The I2 flag of each pair is the I1 flag + 1.
const (
	InOptPullupI1 uint8 = 0
	InOptPullupI2 uint8 = 1
	InOptInvertI1 uint8 = 2
	InOptInvertI2 uint8 = 3
	InOptLimitI1  uint8 = 4
	InOptLimitI2  uint8 = 5
)

const (
	// DirMask holds the bits of the direction register that may be set.
	DirMask byte = 1<<DirM1CCW | 1<<DirM1CW | 1<<DirM2CCW | 1<<DirM2CW
	// StatusInputMask holds the input state bits of the status register.
	StatusInputMask byte = 0x0F
	// StatusIntMask holds the interrupt line bits of the status register.
	StatusIntMask byte = 1<<StatusInt0 | 1<<StatusInt1
)

// NumInputs is the number of monitored inputs, two per motor.
const NumInputs = 4

// NumMotors is the number of H-bridge channels.
const NumMotors = 2

// NumIntLines is the number of interrupt outputs.
const NumIntLines = 2
