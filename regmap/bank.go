// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package regmap

// Bank is the register bank. The zero value has every register at 0, which
// is not the documented default; use Default for that.
type Bank [NumRegisters]byte

// Default returns the bank of a shield whose storage was never written.
func Default() Bank {
	var b Bank
	b[SlaveAddr] = DefaultSlaveAddr
	return b
}

// Read returns the byte at r, or 0 when r is outside the bank.
func (b Bank) Read(r Register) byte {
	if r >= NumRegisters {
		return 0
	}
	return b[r]
}

// RawWrite stores v at r without validation. Writes outside the bank are
// dropped.
func (b *Bank) RawWrite(r Register, v byte) {
	if r >= NumRegisters {
		return
	}
	b[r] = v
}

// SlaveAddr returns the I²C address the shield answers.
func (b Bank) SlaveAddr() byte { return b[SlaveAddr] }

// Status returns the input levels (bits 0-3) and interrupt lines (bits 4-5).
func (b Bank) Status() byte { return b[Status] }

// Direction returns the four direction bits, Dir* positions.
func (b Bank) Direction() byte { return b[Direction] }

// Speed returns the PWM duty of motor m (0 or 1).
func (b Bank) Speed(m int) byte {
	return b[SpeedM1+Register(m&1)]
}

// InOpts returns the input options of motor m (0 or 1).
func (b Bank) InOpts(m int) byte {
	return b[InOptsM1+Register(m&1)]
}

// IntMask returns the input mask of interrupt line l (0 or 1).
func (b Bank) IntMask(l int) byte {
	return b[IntMask0+Register(l&1)]
}

// Bytes returns a copy of the bank in wire order.
func (b Bank) Bytes() []byte {
	out := make([]byte, NumRegisters)
	copy(out, b[:])
	return out
}

// Load copies p into the bank. Missing trailing bytes are left untouched.
func (b *Bank) Load(p []byte) {
	copy(b[:], p)
}

// Erased reports whether p looks like freshly erased EEPROM (every byte
// 0xFF). An empty p is erased.
func Erased(p []byte) bool {
	for _, v := range p {
		if v != 0xFF {
			return false
		}
	}
	return true
}

// Bit reports whether bit pos of v is set.
func Bit(v byte, pos uint8) bool {
	return v&(1<<pos) != 0
}

// SetBit returns v with bit pos set to on.
func SetBit(v byte, pos uint8, on bool) byte {
	if on {
		return v | 1<<pos
	}
	return v &^ (1 << pos)
}
