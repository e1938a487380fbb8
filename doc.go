// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package busdriver is a container for the BusDriver motor shield packages.
//
// regmap describes the register bank, shield emulates the device on GPIO
// pins, busdriver is the I²C client and eeprom persists the registers.
package busdriver
