// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package eeprom

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
)

// AT24Addr is the default I²C address of a 24Cxx EEPROM with A0-A2 low.
const AT24Addr uint16 = 0x50

// AT24Opts configures an AT24 block.
type AT24Opts struct {
	// Offset is the memory address of the first byte of the block.
	Offset uint16
	// PageSize is the write page of the part. Writes never cross a page
	// boundary.
	PageSize int
	// WriteCycle is how long the part is busy after each page write.
	WriteCycle time.Duration
}

// DefaultAT24Opts fits the 24C32/24C64 family.
var DefaultAT24Opts = AT24Opts{
	PageSize:   32,
	WriteCycle: 5 * time.Millisecond,
}

// AT24 stores the block in a 24Cxx serial EEPROM with 16 bit word
// addressing.
type AT24 struct {
	d    *i2c.Dev
	opts AT24Opts
}

// NewAT24 returns a block at opts.Offset of the EEPROM at addr on bus.
func NewAT24(bus i2c.Bus, addr uint16, opts *AT24Opts) (*AT24, error) {
	if opts == nil {
		opts = &DefaultAT24Opts
	}
	if opts.PageSize <= 0 {
		return nil, errors.New("eeprom: page size must be positive")
	}
	return &AT24{d: &i2c.Dev{Bus: bus, Addr: addr}, opts: *opts}, nil
}

func (e *AT24) String() string {
	return fmt.Sprintf("AT24{%s}@%#04x", e.d, e.opts.Offset)
}

// Load reads len(b) bytes from the EEPROM. An erased block (all 0xFF)
// reports ErrBlank.
func (e *AT24) Load(b []byte) error {
	if err := e.d.Tx(e.word(e.opts.Offset), b); err != nil {
		return fmt.Errorf("eeprom: %w", err)
	}
	for _, v := range b {
		if v != 0xFF {
			return nil
		}
	}
	return ErrBlank
}

// Store writes b page by page, waiting out the write cycle after each one.
func (e *AT24) Store(b []byte) error {
	addr := int(e.opts.Offset)
	for len(b) > 0 {
		n := e.opts.PageSize - addr%e.opts.PageSize
		if n > len(b) {
			n = len(b)
		}
		w := append(e.word(uint16(addr)), b[:n]...)
		if err := e.d.Tx(w, nil); err != nil {
			return fmt.Errorf("eeprom: %w", err)
		}
		time.Sleep(e.opts.WriteCycle)
		addr += n
		b = b[n:]
	}
	return nil
}

func (e *AT24) word(addr uint16) []byte {
	return []byte{byte(addr >> 8), byte(addr)}
}
