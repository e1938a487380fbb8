// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package busdriver

import (
	"periph.io/x/conn/v3/i2c"

	"github.com/GermanBionicSystems/busdriver/regmap"
)

// registerCache mirrors one shield register. Only registers the shield never
// changes on its own may be read from the cache.
type registerCache struct {
	i2c     *i2c.Dev
	address regmap.Register
	got     bool
	cache   uint8
}

func newRegister(i2c *i2c.Dev, address regmap.Register) registerCache {
	return registerCache{
		i2c:     i2c,
		address: address,
	}
}

func readRegister(d *i2c.Dev, address regmap.Register) (uint8, error) {
	rx := make([]byte, 1)
	err := d.Tx([]byte{byte(address)}, rx)
	return rx[0], err
}

func writeRegister(d *i2c.Dev, address regmap.Register, value uint8) error {
	return d.Tx([]byte{byte(address), value}, nil)
}

func (r *registerCache) readValue(cached bool) (uint8, error) {
	if cached && r.got {
		return r.cache, nil
	}
	v, err := readRegister(r.i2c, r.address)
	if err == nil {
		r.got = true
		r.cache = v
	}
	return v, err
}

func (r *registerCache) writeValue(value uint8, cached bool) error {
	if cached && r.got && value == r.cache {
		return nil
	}
	if err := writeRegister(r.i2c, r.address, value); err != nil {
		return err
	}
	r.got = true
	r.cache = value
	return nil
}

// refresh stores a value read by a block transfer.
func (r *registerCache) refresh(v uint8) {
	r.got = true
	r.cache = v
}
