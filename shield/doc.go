// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package shield implements the register-mapped logic of the BusDriver I²C
// motor shield.
//
// The shield drives two H-bridges (a PWM enable and two direction outputs
// each), monitors two inputs per motor (typically limit switches) and raises
// two open drain interrupt lines. Everything is controlled through the ten
// registers described in package regmap.
//
// A Dev is fed by three sources: the bus slave engine calls ReadRegister and
// WriteRegister (or Tx, when the shield is used as an emulated i2c.Bus), the
// pin change interrupt calls Sample, and a background goroutine runs Run to
// persist the bank when a commit is requested. Pins and timers are reached
// through the Hardware interface; PinHardware implements it on periph gpio
// pins.
package shield
