// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// busdriver-sim runs an emulated BusDriver shield on host or simulated GPIO
// pins, with the registers persisted in a local database.
//
// Without arguments it starts an interactive shell; otherwise the arguments
// are processed as a single shell command.
//
// Environment:
//
//	BUSDRIVER_DB      database file holding the committed registers
//	BUSDRIVER_PINMAP  YAML file mapping shield lines to host GPIOs; simulated
//	                  pins are used when empty
//	BUSDRIVER_PWM_HZ  PWM frequency of the enable outputs
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"github.com/GermanBionicSystems/busdriver/eeprom"
	"github.com/GermanBionicSystems/busdriver/shield"
)

func mainImpl() error {
	flag.Parse()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pins, simPins, err := openPins(cfg)
	if err != nil {
		return err
	}
	hw, err := shield.NewPinHardware(pins, cfg.pwmFrequency())
	if err != nil {
		return err
	}
	defer hw.Halt()

	store, err := eeprom.OpenStorm(cfg.DB, "registers")
	if err != nil {
		return err
	}
	defer store.Close()

	dev, err := shield.New(hw, store, &shield.Opts{
		Rebind: func(addr uint8) error {
			glog.Infof("slave address is now %#02x", addr)
			return nil
		},
	})
	if err != nil {
		// The device falls back to its defaults.
		glog.Warningf("%s: %v", dev, err)
	}
	s := &sim{dev: dev, pins: simPins}
	if _, err := s.driver(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return dev.Run(ctx)
	})
	eg.Go(func() error {
		return hw.Watch(ctx, func() {
			if err := dev.Sample(); err != nil {
				glog.Warningf("sampling inputs: %v", err)
			}
		})
	})

	sh := newShell(s)
	if args := flag.Args(); len(args) > 0 {
		err = sh.Process(args...)
	} else {
		sh.Run()
	}
	cancel()
	if werr := eg.Wait(); werr != nil && werr != context.Canceled {
		glog.Errorf("%v", werr)
	}
	return err
}

func main() {
	defer glog.Flush()
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "busdriver-sim: %s.\n", err)
		glog.Flush()
		os.Exit(1)
	}
}
