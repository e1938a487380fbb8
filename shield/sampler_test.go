// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package shield

import (
	"testing"

	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/busdriver/regmap"
)

func TestSampleStatus(t *testing.T) {
	data := []struct {
		name   string
		levels [4]gpio.Level
		inopts [2]byte
		want   byte
	}{
		{"all low", [4]gpio.Level{}, [2]byte{}, 0x00},
		{"all high", [4]gpio.Level{gpio.High, gpio.High, gpio.High, gpio.High}, [2]byte{}, 0x0F},
		{"M2 I2 only", [4]gpio.Level{gpio.Low, gpio.Low, gpio.Low, gpio.High}, [2]byte{}, 0x08},
		{"invert M1 I1", [4]gpio.Level{gpio.High}, [2]byte{1 << regmap.InOptInvertI1}, 0x00},
		{"invert M2 I2", [4]gpio.Level{}, [2]byte{0, 1 << regmap.InOptInvertI2}, 0x08},
		{"invert everything", [4]gpio.Level{gpio.High, gpio.Low, gpio.High, gpio.Low}, [2]byte{0x0C, 0x0C}, 0x0A},
	}
	for _, line := range data {
		t.Run(line.name, func(t *testing.T) {
			d, hw, _ := newTestDev(t)
			_ = d.WriteRegister(regmap.InOptsM1, line.inopts[0])
			_ = d.WriteRegister(regmap.InOptsM2, line.inopts[1])
			for i, l := range line.levels {
				hw.in[inputPin(uint8(i))] = l
			}
			if err := d.Sample(); err != nil {
				t.Fatal(err)
			}
			if got := d.ReadRegister(regmap.Status); got != line.want {
				t.Fatalf("status = %#x, want %#x", got, line.want)
			}
		})
	}
}

func TestSampleKeepsInterruptBits(t *testing.T) {
	d, hw, _ := newTestDev(t)
	d.bank[regmap.Status] = 0x3F
	hw.in[PinM1I2] = gpio.High
	if err := d.Sample(); err != nil {
		t.Fatal(err)
	}
	if got := d.ReadRegister(regmap.Status); got != 0x32 {
		t.Fatalf("status = %#x, want 0x32", got)
	}
}

func TestSampleLimitCutoff(t *testing.T) {
	d, hw, _ := newTestDev(t)
	// Motor 1 runs clockwise, its I2 input is the clockwise limit.
	_ = d.WriteRegister(regmap.Direction, 1<<regmap.DirM1CW|1<<regmap.DirM2CCW)
	_ = d.WriteRegister(regmap.InOptsM1, 1<<regmap.InOptLimitI2)
	hw.in[PinM1I2] = gpio.High
	hw.calls = nil
	if err := d.Sample(); err != nil {
		t.Fatal(err)
	}
	if got := d.ReadRegister(regmap.Status); got != 1<<regmap.StatusM1I2 {
		t.Fatalf("status = %#x", got)
	}
	if got := d.ReadRegister(regmap.Direction); got != 1<<regmap.DirM2CCW {
		t.Fatalf("direction = %#x, want only M2 CCW", got)
	}
	if hw.latch[PinDirM1CW] != gpio.Low || hw.latch[PinDirM2CCW] != gpio.High {
		t.Fatalf("direction pins %v", hw.latch[:4])
	}
}

func TestSampleLimitCutoffM1I1(t *testing.T) {
	d, hw, _ := newTestDev(t)
	_ = d.WriteRegister(regmap.Direction, 1<<regmap.DirM1CCW)
	_ = d.WriteRegister(regmap.InOptsM1, 1<<regmap.InOptLimitI1)
	hw.in[PinM1I1] = gpio.High
	if err := d.Sample(); err != nil {
		t.Fatal(err)
	}
	if d.ReadRegister(regmap.Status)&1 != 1 {
		t.Fatal("status bit 0 must be set")
	}
	if d.ReadRegister(regmap.Direction) != 0 || hw.latch[PinDirM1CCW] != gpio.Low {
		t.Fatal("M1 CCW must be cut off")
	}
}

func TestSampleLimitNeedsActiveInput(t *testing.T) {
	data := []struct {
		name   string
		level  gpio.Level
		inopts byte
		dir    byte
	}{
		{"inactive", gpio.Low, 1 << regmap.InOptLimitI1, 1 << regmap.DirM1CCW},
		{"inverted active low", gpio.High, 1<<regmap.InOptLimitI1 | 1<<regmap.InOptInvertI1, 1 << regmap.DirM1CCW},
		{"limit disabled", gpio.High, 0, 1 << regmap.DirM1CCW},
		{"other direction", gpio.High, 1 << regmap.InOptLimitI1, 1 << regmap.DirM1CW},
	}
	for _, line := range data {
		t.Run(line.name, func(t *testing.T) {
			d, hw, _ := newTestDev(t)
			_ = d.WriteRegister(regmap.Direction, line.dir)
			_ = d.WriteRegister(regmap.InOptsM1, line.inopts)
			hw.in[PinM1I1] = line.level
			if err := d.Sample(); err != nil {
				t.Fatal(err)
			}
			if got := d.ReadRegister(regmap.Direction); got != line.dir {
				t.Fatalf("direction = %#x, want %#x", got, line.dir)
			}
		})
	}
}

func TestSampleInterrupt(t *testing.T) {
	d, hw, _ := newTestDev(t)
	_ = d.WriteRegister(regmap.IntMask0, 1<<regmap.StatusM2I1)
	hw.in[PinM2I1] = gpio.High
	if err := d.Sample(); err != nil {
		t.Fatal(err)
	}
	status := d.ReadRegister(regmap.Status)
	if status != 1<<regmap.StatusM2I1|1<<regmap.StatusInt0 {
		t.Fatalf("status = %#x", status)
	}
	if !hw.output[PinInt0] || hw.output[PinInt1] {
		t.Fatal("only interrupt line 0 must be asserted")
	}

	// Clearing bit 4 from the bus releases the line.
	if err := d.WriteRegister(regmap.Status, status&^(1<<regmap.StatusInt0)); err != nil {
		t.Fatal(err)
	}
	if hw.output[PinInt0] {
		t.Fatal("interrupt line 0 must be released")
	}
	if got := d.ReadRegister(regmap.Status); got != 1<<regmap.StatusM2I1 {
		t.Fatalf("status = %#x after clear", got)
	}
}

func TestSampleInterruptBothLines(t *testing.T) {
	d, hw, _ := newTestDev(t)
	_ = d.WriteRegister(regmap.IntMask0, 1<<regmap.StatusM1I1)
	_ = d.WriteRegister(regmap.IntMask1, 1<<regmap.StatusM1I1|1<<regmap.StatusM2I2)
	// Masked inputs raise their line on every event, whatever their level.
	if err := d.Sample(); err != nil {
		t.Fatal(err)
	}
	if got := d.ReadRegister(regmap.Status); got != regmap.StatusIntMask {
		t.Fatalf("status = %#x", got)
	}
	if !hw.output[PinInt0] || !hw.output[PinInt1] {
		t.Fatal("both interrupt lines must be asserted")
	}
}

func TestSampleWithoutMaskLeavesLines(t *testing.T) {
	d, hw, _ := newTestDev(t)
	hw.in[PinM1I1] = gpio.High
	hw.calls = nil
	if err := d.Sample(); err != nil {
		t.Fatal(err)
	}
	if len(hw.calls) != 0 {
		t.Fatalf("unexpected side effects %v", hw.calls)
	}
}
