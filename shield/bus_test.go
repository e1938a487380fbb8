// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package shield

import (
	"bytes"
	"testing"

	"periph.io/x/conn/v3/i2c"

	"github.com/GermanBionicSystems/busdriver/regmap"
)

func TestTxWrongAddress(t *testing.T) {
	d, _, _ := newTestDev(t)
	if err := d.Tx(0x27, []byte{2, 1}, nil); err == nil {
		t.Fatal("expected NACK on a foreign address")
	}
	if d.ReadRegister(regmap.Direction) != 0 {
		t.Fatal("foreign transaction must not write")
	}
}

func TestTxWriteAutoIncrement(t *testing.T) {
	d, hw, _ := newTestDev(t)
	if err := d.Tx(regmap.DefaultSlaveAddr, []byte{byte(regmap.Direction), 0xF6, 0x55, 0x80, 0x00}, nil); err != nil {
		t.Fatal(err)
	}
	got := d.Registers()
	want := regmap.Bank{0x26, 0x00, 0x06, 0x00, 0x80, 0x00, 0, 0, 0, 0}
	if got != want {
		t.Fatalf("registers %v, want %v", got, want)
	}
	if !hw.enabled[0] || hw.duty[0] != 0x80 {
		t.Fatal("speed handler did not run")
	}
}

func TestTxRead(t *testing.T) {
	d, _, _ := newTestDev(t)
	_ = d.WriteRegister(regmap.SpeedM1, 11)
	_ = d.WriteRegister(regmap.SpeedM2, 22)
	r := make([]byte, 2)
	if err := d.Tx(regmap.DefaultSlaveAddr, []byte{byte(regmap.SpeedM1)}, r); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(r, []byte{11, 22}) {
		t.Fatalf("read %v", r)
	}
	// The pointer continues past the end of the bank.
	r = make([]byte, 5)
	if err := d.Tx(regmap.DefaultSlaveAddr, nil, r); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(r, []byte{0, 0, 0, 0, 0}) {
		t.Fatalf("read %v", r)
	}
}

func TestTxCommit(t *testing.T) {
	d, _, store := newTestDev(t)
	if err := d.Tx(regmap.DefaultSlaveAddr, []byte{byte(regmap.Commit), 0}, nil); err != nil {
		t.Fatal(err)
	}
	if !d.Dirty() {
		t.Fatal("commit not requested")
	}
	if err := d.Flush(); err != nil {
		t.Fatal(err)
	}
	if store.Bytes() == nil {
		t.Fatal("bank not stored")
	}
}

func TestTxMovesAddress(t *testing.T) {
	d, _, _ := newTestDev(t)
	dev := &i2c.Dev{Bus: d, Addr: regmap.DefaultSlaveAddr}
	if err := dev.Tx([]byte{byte(regmap.SlaveAddr), 0x31}, nil); err != nil {
		t.Fatal(err)
	}
	if err := dev.Tx([]byte{byte(regmap.SlaveAddr)}, make([]byte, 1)); err == nil {
		t.Fatal("old address must not answer")
	}
	dev.Addr = 0x31
	r := make([]byte, 1)
	if err := dev.Tx([]byte{byte(regmap.SlaveAddr)}, r); err != nil {
		t.Fatal(err)
	}
	if r[0] != 0x31 {
		t.Fatalf("slave_addr = %#x", r[0])
	}
	if d.String() != "BusDriver{0x31}" {
		t.Fatalf("String() = %q", d.String())
	}
}
