// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package eeprom

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"
)

func TestMemory(t *testing.T) {
	var m Memory
	b := make([]byte, 4)
	if err := m.Load(b); !errors.Is(err, ErrBlank) {
		t.Fatalf("Load() on blank memory = %v", err)
	}
	in := []byte{1, 2, 3, 4}
	if err := m.Store(in); err != nil {
		t.Fatal(err)
	}
	in[0] = 9
	if err := m.Load(b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, []byte{1, 2, 3, 4}) {
		t.Fatalf("Load() = %v", b)
	}
	if !bytes.Equal(m.Bytes(), b) {
		t.Fatalf("Bytes() = %v", m.Bytes())
	}
}

func TestAT24Load(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: AT24Addr, W: []byte{0x01, 0x00}, R: []byte{0x26, 0, 1, 0}},
			{Addr: AT24Addr, W: []byte{0x01, 0x00}, R: []byte{0xFF, 0xFF, 0xFF, 0xFF}},
		},
	}
	defer bus.Close()
	e, err := NewAT24(bus, AT24Addr, &AT24Opts{Offset: 0x100, PageSize: 8})
	if err != nil {
		t.Fatal(err)
	}
	b := make([]byte, 4)
	if err := e.Load(b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, []byte{0x26, 0, 1, 0}) {
		t.Fatalf("Load() = %v", b)
	}
	if err := e.Load(b); !errors.Is(err, ErrBlank) {
		t.Fatalf("Load() on erased part = %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestAT24StoreSplitsPages(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: AT24Addr, W: []byte{0x00, 0x06, 0, 1}},
			{Addr: AT24Addr, W: []byte{0x00, 0x08, 2, 3, 4, 5, 6, 7, 8, 9}},
		},
	}
	defer bus.Close()
	e, err := NewAT24(bus, AT24Addr, &AT24Opts{Offset: 6, PageSize: 8})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Store([]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}); err != nil {
		t.Fatal(err)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestAT24InvalidPageSize(t *testing.T) {
	if _, err := NewAT24(&i2ctest.Record{}, AT24Addr, &AT24Opts{}); err == nil {
		t.Fatal("expected error for a zero page size")
	}
}

func TestStorm(t *testing.T) {
	s, err := OpenStorm(filepath.Join(t.TempDir(), "shield.db"), "bank")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	b := make([]byte, 3)
	if err := s.Load(b); !errors.Is(err, ErrBlank) {
		t.Fatalf("Load() on empty db = %v", err)
	}
	if err := s.Store([]byte{0x27, 0x30, 0x02}); err != nil {
		t.Fatal(err)
	}
	if err := s.Load(b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, []byte{0x27, 0x30, 0x02}) {
		t.Fatalf("Load() = %v", b)
	}
}
