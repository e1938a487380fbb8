// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package busdriver controls a BusDriver dual H-bridge motor shield over I²C.
//
// The shield exposes its whole state as ten registers (see package regmap).
// Each motor has a speed (PWM duty, 0 disables the bridge) and two direction
// outputs. Each motor also has two inputs, typically limit switches, which
// can stop the motor on their own and raise one of two interrupt lines.
//
// Settings are volatile until Commit is called.
package busdriver
