// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"

	"github.com/GermanBionicSystems/busdriver/regmap"
)

var (
	bitOn  = color.NRGBA{0x20, 0xD0, 0x20, 0xFF}
	bitOff = color.NRGBA{0x30, 0x30, 0x30, 0xFF}
)

// dumpRegisters writes one line per register: name, hex value and the bits
// from 7 to 0 as colored blocks.
func dumpRegisters(w io.Writer, b regmap.Bank, p *ansi256.Palette) error {
	var buf bytes.Buffer
	for r := regmap.Register(0); r < regmap.NumRegisters; r++ {
		v := b.Read(r)
		fmt.Fprintf(&buf, "%d %-10s 0x%02x ", r, r, v)
		for bit := 7; bit >= 0; bit-- {
			c := bitOff
			if regmap.Bit(v, uint8(bit)) {
				c = bitOn
			}
			buf.WriteString(p.Block(c))
		}
		buf.WriteString("\033[0m\n")
	}
	_, err := buf.WriteTo(w)
	return err
}
