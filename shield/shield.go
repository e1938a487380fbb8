// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package shield

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/GermanBionicSystems/busdriver/eeprom"
	"github.com/GermanBionicSystems/busdriver/regmap"
)

// Storage persists the register bank. Both calls are synchronous and may be
// slow; the shield never calls them from WriteRegister or Sample.
type Storage interface {
	// Load fills b with the stored block. It returns eeprom.ErrBlank when
	// nothing was stored yet.
	Load(b []byte) error
	// Store saves b.
	Store(b []byte) error
}

// Opts holds the optional settings of a Dev.
type Opts struct {
	// Rebind is called every time the slave_addr register is written, with
	// the new address. A bus slave engine uses it to answer the new address.
	//
	// It runs after the device lock is released, so it may call back into
	// the Dev. Its error is returned by the call that wrote the register.
	Rebind func(addr uint8) error
}

// Dev is the shield's register-mapped device.
//
// WriteRegister, ReadRegister and Sample are the entry points of the bus
// slave and the pin change interrupt. They never block on storage. Run
// performs the deferred storage writes.
type Dev struct {
	hw     Hardware
	store  Storage
	rebind func(addr uint8) error

	mu            sync.Mutex
	bank          regmap.Bank
	ptr           regmap.Register
	rebindAddr    uint8
	rebindPending bool

	dirty atomic.Bool
	wake  chan struct{}
}

// New configures the pins, restores the bank from store and replays every
// write handler so the outputs match the restored registers.
//
// The error reports a storage or pin failure; the returned Dev is usable
// with the default registers when storage failed.
func New(hw Hardware, store Storage, opts *Opts) (*Dev, error) {
	d := &Dev{
		hw:    hw,
		store: store,
		wake:  make(chan struct{}, 1),
	}
	if opts != nil {
		d.rebind = opts.Rebind
	}
	d.mu.Lock()
	err := errors.Join(d.setupPins(), d.restore())
	return d, errors.Join(err, d.unlock())
}

func (d *Dev) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fmt.Sprintf("BusDriver{%#02x}", d.bank.SlaveAddr())
}

// Halt stops both motors by writing 0 to their speed registers.
//
// Halt implements conn.Resource.
func (d *Dev) Halt() error {
	return errors.Join(d.WriteRegister(regmap.SpeedM1, 0), d.WriteRegister(regmap.SpeedM2, 0))
}

// ReadRegister returns the committed value of r, or 0 when r is outside the
// bank. No handler runs.
func (d *Dev) ReadRegister(r regmap.Register) byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bank.Read(r)
}

// WriteRegister validates v through the handler of r, applies its side
// effects and commits the sanitized value.
//
// A write to regmap.Commit marks the bank dirty for Run to persist. Writes
// to other addresses outside the bank are ignored. The sanitized value is
// committed even when a pin operation fails; the error reports the failure.
func (d *Dev) WriteRegister(r regmap.Register, v byte) error {
	d.mu.Lock()
	err := d.write(r, v)
	return errors.Join(err, d.unlock())
}

// Registers returns a consistent copy of the bank.
func (d *Dev) Registers() regmap.Bank {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bank
}

// Dirty reports whether a commit was requested and not yet stored.
func (d *Dev) Dirty() bool {
	return d.dirty.Load()
}

// Flush stores the bank if a commit was requested. The bank is copied under
// the device lock and the copy is stored without it.
//
// A failed store is not retried; the next commit request stores again.
func (d *Dev) Flush() error {
	_, err := d.flush()
	return err
}

// flush reports whether a store was attempted.
func (d *Dev) flush() (bool, error) {
	d.mu.Lock()
	if !d.dirty.Load() {
		d.mu.Unlock()
		return false, nil
	}
	snapshot := d.bank
	d.dirty.Store(false)
	d.mu.Unlock()
	if err := d.store.Store(snapshot[:]); err != nil {
		return true, fmt.Errorf("shield: storing registers: %w", err)
	}
	return true, nil
}

// Run flushes the bank every time a commit is requested, until ctx is done.
// A pending commit is flushed before returning.
func (d *Dev) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			if err := d.Flush(); err != nil {
				glog.Errorf("%v", err)
			}
			return ctx.Err()
		case <-d.wake:
			stored, err := d.flush()
			if err != nil {
				glog.Warningf("%v", err)
				continue
			}
			if stored {
				glog.V(1).Info("registers stored")
			}
		}
	}
}

func (d *Dev) write(r regmap.Register, v byte) error {
	switch {
	case r.Valid():
		v, err := writeHandlers[r](d, r, v)
		d.bank.RawWrite(r, v)
		return err
	case r == regmap.Commit:
		d.requestCommit()
	}
	return nil
}

// unlock releases d.mu, then runs the rebind queued by a slave_addr write.
func (d *Dev) unlock() error {
	addr, pending := d.rebindAddr, d.rebindPending
	d.rebindPending = false
	d.mu.Unlock()
	if !pending || d.rebind == nil {
		return nil
	}
	return d.rebind(addr)
}

func (d *Dev) requestCommit() {
	d.dirty.Store(true)
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *Dev) setupPins() error {
	var errs []error
	for i := uint8(0); i < 4; i++ {
		errs = append(errs, d.hw.SetOutput(dirPin(i), true), d.hw.SetOutput(inputPin(i), false))
	}
	for l := uint8(0); l < regmap.NumIntLines; l++ {
		errs = append(errs, d.hw.SetOutput(intPin(l), false))
	}
	errs = append(errs, d.hw.SetOutput(PinEnableM1, true), d.hw.SetOutput(PinEnableM2, true))
	return errors.Join(errs...)
}

// restore loads the bank and replays the handlers in address order.
func (d *Dev) restore() error {
	var loadErr error
	buf := make([]byte, regmap.NumRegisters)
	switch err := d.store.Load(buf); {
	case errors.Is(err, eeprom.ErrBlank):
		d.bank = regmap.Default()
	case err != nil:
		d.bank = regmap.Default()
		loadErr = fmt.Errorf("shield: loading registers: %w", err)
	case regmap.Erased(buf):
		d.bank = regmap.Default()
	default:
		d.bank.Load(buf)
	}
	errs := []error{loadErr}
	for r := regmap.Register(0); r < regmap.NumRegisters; r++ {
		errs = append(errs, d.write(r, d.bank.Read(r)))
	}
	return errors.Join(errs...)
}
