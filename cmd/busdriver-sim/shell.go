// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/GermanBionicSystems/busdriver/busdriver"
	"github.com/GermanBionicSystems/busdriver/regmap"
	"github.com/GermanBionicSystems/busdriver/shield"
)

// sim is the state shared by the shell commands.
type sim struct {
	dev  *shield.Dev
	pins *[shield.NumPins]*gpiotest.Pin

	client *busdriver.Dev
	addr   uint16
}

// driver returns a client talking to the address currently held in the
// slave_addr register.
func (s *sim) driver() (*busdriver.Dev, error) {
	addr := uint16(s.dev.ReadRegister(regmap.SlaveAddr))
	if s.client == nil || s.addr != addr {
		c, err := busdriver.New(s.dev, addr)
		if err != nil {
			return nil, err
		}
		s.client, s.addr = c, addr
	}
	return s.client, nil
}

func newShell(s *sim) *ishell.Shell {
	sh := ishell.New()
	sh.SetPrompt("busdriver > ")
	cmds := []*ishell.Cmd{
		{Name: "read", Help: "REG: read a register", Func: s.withArgs("read", 1, s.read)},
		{Name: "write", Help: "REG VALUE: write a register through its handler", Func: s.withArgs("write", 2, s.write)},
		{Name: "dump", Help: "show every register", Func: s.withArgs("dump", 0, s.dump)},
		{Name: "speed", Help: "MOTOR VALUE: set a motor speed", Func: s.withArgs("speed", 2, s.speed)},
		{Name: "dir", Help: "MOTOR stop|ccw|cw|brake: set a motor direction", Func: s.withArgs("dir", 2, s.dir)},
		{Name: "status", Help: "show inputs and interrupt lines", Func: s.withArgs("status", 0, s.status)},
		{Name: "clear", Help: "LINE...: release interrupt lines", Func: s.clear},
		{Name: "commit", Help: "request an EEPROM write", Func: s.withArgs("commit", 0, s.commit)},
		{Name: "input", Help: "ID high|low: move a simulated input", Func: s.withArgs("input", 2, s.input)},
	}
	for _, c := range cmds {
		sh.AddCmd(c)
	}
	return sh
}

func (s *sim) withArgs(name string, n int, fn func(c *ishell.Context) error) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if len(c.Args) != n {
			c.Err(fmt.Errorf("%s: expected %d arguments", name, n))
			return
		}
		if err := fn(c); err != nil {
			c.Err(err)
		}
	}
}

func (s *sim) read(c *ishell.Context) error {
	r, err := parseRegister(c.Args[0])
	if err != nil {
		return err
	}
	c.Printf("%s = 0x%02x\n", r, s.dev.ReadRegister(r))
	return nil
}

func (s *sim) write(c *ishell.Context) error {
	r, err := parseRegister(c.Args[0])
	if err != nil {
		return err
	}
	v, err := parseByte(c.Args[1])
	if err != nil {
		return err
	}
	if err := s.dev.WriteRegister(r, v); err != nil {
		return err
	}
	if r.Valid() {
		c.Printf("%s = 0x%02x\n", r, s.dev.ReadRegister(r))
	}
	return nil
}

func (s *sim) dump(c *ishell.Context) error {
	return dumpRegisters(colorable.NewColorableStdout(), s.dev.Registers(), ansi256.Default)
}

func (s *sim) speed(c *ishell.Context) error {
	m, err := parseMotor(c.Args[0])
	if err != nil {
		return err
	}
	v, err := parseByte(c.Args[1])
	if err != nil {
		return err
	}
	client, err := s.driver()
	if err != nil {
		return err
	}
	return client.SetSpeed(m, v)
}

func (s *sim) dir(c *ishell.Context) error {
	m, err := parseMotor(c.Args[0])
	if err != nil {
		return err
	}
	client, err := s.driver()
	if err != nil {
		return err
	}
	for d := busdriver.Stop; d <= busdriver.Brake; d++ {
		if d.String() == strings.ToLower(c.Args[1]) {
			return client.SetDirection(m, d)
		}
	}
	return fmt.Errorf("unknown direction %q", c.Args[1])
}

func (s *sim) status(c *ishell.Context) error {
	client, err := s.driver()
	if err != nil {
		return err
	}
	st, err := client.Status()
	if err != nil {
		return err
	}
	c.Println(st.String())
	return nil
}

func (s *sim) clear(c *ishell.Context) {
	lines := make([]int, 0, len(c.Args))
	for _, a := range c.Args {
		l, err := strconv.Atoi(a)
		if err != nil {
			c.Err(err)
			return
		}
		lines = append(lines, l)
	}
	if len(lines) == 0 {
		lines = []int{0, 1}
	}
	client, err := s.driver()
	if err == nil {
		err = client.ClearInterrupts(lines...)
	}
	if err != nil {
		c.Err(err)
	}
}

func (s *sim) commit(c *ishell.Context) error {
	client, err := s.driver()
	if err != nil {
		return err
	}
	return client.Commit()
}

// input queues an edge on a simulated input; the pin watcher picks it up
// and samples the inputs.
func (s *sim) input(c *ishell.Context) error {
	if s.pins == nil {
		return errors.New("inputs are only writable on simulated pins")
	}
	id, err := strconv.Atoi(c.Args[0])
	if err != nil || id < 0 || id >= regmap.NumInputs {
		return fmt.Errorf("invalid input %q", c.Args[0])
	}
	var l gpio.Level
	switch strings.ToLower(c.Args[1]) {
	case "high", "1":
		l = gpio.High
	case "low", "0":
		l = gpio.Low
	default:
		return fmt.Errorf("invalid level %q", c.Args[1])
	}
	s.pins[shield.PinM1I1+shield.Pin(id)].EdgesChan <- l
	return nil
}

func parseRegister(s string) (regmap.Register, error) {
	for r := regmap.Register(0); r < regmap.NumRegisters; r++ {
		if r.String() == s {
			return r, nil
		}
	}
	if s == regmap.Commit.String() {
		return regmap.Commit, nil
	}
	v, err := parseByte(s)
	return regmap.Register(v), err
}

func parseByte(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	return uint8(v), err
}

func parseMotor(s string) (busdriver.Motor, error) {
	switch strings.ToLower(s) {
	case "1", "m1":
		return busdriver.M1, nil
	case "2", "m2":
		return busdriver.M2, nil
	}
	return 0, fmt.Errorf("invalid motor %q", s)
}
