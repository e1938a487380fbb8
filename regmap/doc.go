// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package regmap describes the register bank of the BusDriver motor shield.
//
// The bank is a flat sequence of NumRegisters bytes. Its layout and bit
// assignments are both the I²C wire format and the persisted EEPROM format:
//
//	0  slave_addr   I²C address the shield answers
//	1  status       bits 0-3 input states, bits 4-5 interrupt lines
//	2  direction    bits 0-3 M1 CCW, M1 CW, M2 CCW, M2 CW
//	3  reserved     always 0
//	4  speed M1     PWM duty, 0 disables the channel
//	5  speed M2
//	6  inopts M1    pull-up, invert and limit flags for I1 and I2
//	7  inopts M2
//	8  int_mask 0   inputs that assert interrupt line 0
//	9  int_mask 1   inputs that assert interrupt line 1
//
// Writing any value to register Commit (127) asks the shield to persist the
// bank.
package regmap
