// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/caarlos0/env"
	"gopkg.in/yaml.v2"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/busdriver/shield"
)

// config is read from the environment.
type config struct {
	DB     string `env:"BUSDRIVER_DB" envDefault:"busdriver.db"`
	PinMap string `env:"BUSDRIVER_PINMAP"`
	PWMHz  int    `env:"BUSDRIVER_PWM_HZ" envDefault:"3906"`
}

// pinMap assigns host GPIO names to the shield lines, e.g.
//
//	pins:
//	  DIR_M1_CCW: GPIO17
//	  M1_I1: GPIO5
type pinMap struct {
	Pins map[string]string `yaml:"pins"`
}

func loadConfig() (*config, error) {
	cfg := &config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.PWMHz <= 0 {
		return nil, fmt.Errorf("invalid BUSDRIVER_PWM_HZ %d", cfg.PWMHz)
	}
	return cfg, nil
}

func (c *config) pwmFrequency() physic.Frequency {
	return physic.Frequency(c.PWMHz) * physic.Hertz
}

func loadPinMap(path string) (*pinMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := &pinMap{}
	if err := yaml.Unmarshal(raw, m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// openPins returns the host pins named in the pin map, or simulated pins
// when no pin map is configured. sim is nil for host pins.
func openPins(cfg *config) (pins [shield.NumPins]gpio.PinIO, sim *[shield.NumPins]*gpiotest.Pin, err error) {
	if cfg.PinMap == "" {
		sim = &[shield.NumPins]*gpiotest.Pin{}
		for i := range sim {
			sim[i] = &gpiotest.Pin{N: shield.Pin(i).String(), Num: i, EdgesChan: make(chan gpio.Level, 1)}
			pins[i] = sim[i]
		}
		return pins, sim, nil
	}
	m, err := loadPinMap(cfg.PinMap)
	if err != nil {
		return pins, nil, err
	}
	if _, err := host.Init(); err != nil {
		return pins, nil, err
	}
	for i := range pins {
		name := shield.Pin(i).String()
		gpioName, ok := m.Pins[name]
		if !ok {
			return pins, nil, fmt.Errorf("%s: pin %s is not mapped", cfg.PinMap, name)
		}
		if pins[i] = gpioreg.ByName(gpioName); pins[i] == nil {
			return pins, nil, fmt.Errorf("%s: no GPIO named %q", cfg.PinMap, gpioName)
		}
	}
	return pins, nil, nil
}
