// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package shield

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Pin identifies a physical line of the shield.
type Pin uint8

const (
	// Direction outputs, in direction register bit order.
	PinDirM1CCW Pin = iota
	PinDirM1CW
	PinDirM2CCW
	PinDirM2CW
	// Monitored inputs, in status register bit order.
	PinM1I1
	PinM1I2
	PinM2I1
	PinM2I2
	// Open drain interrupt outputs.
	PinInt0
	PinInt1
	// PWM enable outputs of the two H-bridges.
	PinEnableM1
	PinEnableM2

	NumPins = iota
)

var pinNames = [NumPins]string{
	"DIR_M1_CCW", "DIR_M1_CW", "DIR_M2_CCW", "DIR_M2_CW",
	"M1_I1", "M1_I2", "M2_I1", "M2_I2",
	"INT0", "INT1",
	"EN_M1", "EN_M2",
}

func (p Pin) String() string {
	if p < NumPins {
		return pinNames[p]
	}
	return fmt.Sprintf("Pin(%d)", uint8(p))
}

// dirPin returns the output driven by direction bit i.
func dirPin(i uint8) Pin { return PinDirM1CCW + Pin(i) }

// inputPin returns the line sampled for input id.
func inputPin(id uint8) Pin { return PinM1I1 + Pin(id) }

// intPin returns the output of interrupt line l.
func intPin(l uint8) Pin { return PinInt0 + Pin(l) }

// Channel is a PWM channel, one per motor.
type Channel uint8

// Hardware is the pin and timer surface the shield drives. Implementations
// must not block.
type Hardware interface {
	// SetPin sets the output latch of p. It reaches the line when p is an
	// output.
	SetPin(p Pin, l gpio.Level) error
	// SetPullup enables or disables the pull-up of input p.
	SetPullup(p Pin, enabled bool) error
	// SetOutput switches p between driven output and high impedance input.
	SetOutput(p Pin, output bool) error
	// SetPWMDuty sets the duty cycle of ch, 255 being always on.
	SetPWMDuty(ch Channel, duty uint8) error
	// EnablePWM connects or disconnects ch from its enable pin.
	EnablePWM(ch Channel, enabled bool) error
	// ReadPin returns the level present on p.
	ReadPin(p Pin) gpio.Level
}

// DefaultPWMFrequency is the rate of an 8 bit fast PWM clocked at 1MHz.
const DefaultPWMFrequency = 3906 * physic.Hertz

// PinHardware implements Hardware on top of periph gpio pins.
//
// The interrupt outputs behave as open drain lines: the latch stays Low, so
// switching them to output pulls the line down and switching them back to
// input releases it.
type PinHardware struct {
	pins [NumPins]gpio.PinIO
	freq physic.Frequency

	mu      sync.Mutex
	latch   [NumPins]gpio.Level
	output  [NumPins]bool
	pullup  [NumPins]bool
	duty    [2]uint8
	enabled [2]bool
}

// NewPinHardware returns a Hardware driving pins, indexed by Pin. Every pin
// is required. freq 0 selects DefaultPWMFrequency.
func NewPinHardware(pins [NumPins]gpio.PinIO, freq physic.Frequency) (*PinHardware, error) {
	for i, p := range pins {
		if p == nil {
			return nil, fmt.Errorf("shield: pin %s is not set", Pin(i))
		}
	}
	if freq == 0 {
		freq = DefaultPWMFrequency
	}
	return &PinHardware{pins: pins, freq: freq}, nil
}

func (h *PinHardware) String() string {
	return "PinHardware"
}

// SetPin implements Hardware.
func (h *PinHardware) SetPin(p Pin, l gpio.Level) error {
	if p >= NumPins {
		return errInvalidPin
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latch[p] = l
	if !h.output[p] {
		return nil
	}
	return h.pins[p].Out(l)
}

// SetPullup implements Hardware.
func (h *PinHardware) SetPullup(p Pin, enabled bool) error {
	if p >= NumPins {
		return errInvalidPin
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pullup[p] = enabled
	if h.output[p] {
		return nil
	}
	return h.in(p)
}

// SetOutput implements Hardware.
func (h *PinHardware) SetOutput(p Pin, output bool) error {
	if p >= NumPins {
		return errInvalidPin
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.output[p] = output
	if output {
		return h.pins[p].Out(h.latch[p])
	}
	return h.in(p)
}

// SetPWMDuty implements Hardware.
func (h *PinHardware) SetPWMDuty(ch Channel, duty uint8) error {
	if ch > 1 {
		return errInvalidChannel
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.duty[ch] = duty
	if !h.enabled[ch] {
		return nil
	}
	return h.pwm(ch)
}

// EnablePWM implements Hardware.
func (h *PinHardware) EnablePWM(ch Channel, enabled bool) error {
	if ch > 1 {
		return errInvalidChannel
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.enabled[ch] = enabled
	if enabled {
		return h.pwm(ch)
	}
	return h.pins[PinEnableM1+Pin(ch)].Out(gpio.Low)
}

// ReadPin implements Hardware.
func (h *PinHardware) ReadPin(p Pin) gpio.Level {
	if p >= NumPins {
		return gpio.Low
	}
	return h.pins[p].Read()
}

// Watch calls fn every time one of the monitored inputs changes, until ctx
// is done. Edges are only reported for inputs configured through SetPullup
// or SetOutput(p, false).
func (h *PinHardware) Watch(ctx context.Context, fn func()) error {
	var wg sync.WaitGroup
	for id := uint8(0); id < 4; id++ {
		p := h.pins[inputPin(id)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				start := time.Now()
				if p.WaitForEdge(watchPoll) {
					fn()
					continue
				}
				// Pins without edge detection return at once.
				if rest := watchPoll - time.Since(start); rest > 0 {
					select {
					case <-ctx.Done():
					case <-time.After(rest):
					}
				}
			}
		}()
	}
	wg.Wait()
	return ctx.Err()
}

// Halt disconnects both PWM channels.
func (h *PinHardware) Halt() error {
	return errors.Join(h.EnablePWM(0, false), h.EnablePWM(1, false))
}

const watchPoll = 100 * time.Millisecond

func (h *PinHardware) in(p Pin) error {
	pull := gpio.Float
	if h.pullup[p] {
		pull = gpio.PullUp
	}
	edge := gpio.NoEdge
	if p >= PinM1I1 && p <= PinM2I2 {
		edge = gpio.BothEdges
	}
	return h.pins[p].In(pull, edge)
}

func (h *PinHardware) pwm(ch Channel) error {
	duty := gpio.Duty(uint64(h.duty[ch]) * uint64(gpio.DutyMax) / 255)
	return h.pins[PinEnableM1+Pin(ch)].PWM(duty, h.freq)
}

var (
	errInvalidPin     = errors.New("shield: invalid pin")
	errInvalidChannel = errors.New("shield: invalid PWM channel")
)

var _ Hardware = &PinHardware{}
