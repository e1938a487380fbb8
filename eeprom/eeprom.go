// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package eeprom provides block storage for the shield's register bank.
//
// Every backend reads and writes one fixed block synchronously. Load returns
// ErrBlank when nothing was ever stored so the caller can fall back to its
// defaults.
package eeprom

import (
	"errors"
	"sync"
)

// ErrBlank is returned by Load when the storage holds no block yet.
var ErrBlank = errors.New("eeprom: storage is blank")

// Memory keeps the block in process memory. The zero value is blank.
type Memory struct {
	mu   sync.Mutex
	data []byte
}

// Load copies the stored block into b.
func (m *Memory) Load(b []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return ErrBlank
	}
	copy(b, m.data)
	return nil
}

// Store replaces the stored block with a copy of b.
func (m *Memory) Store(b []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append(m.data[:0], b...)
	return nil
}

// Bytes returns a copy of the stored block, or nil when blank.
func (m *Memory) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil
	}
	return append([]byte(nil), m.data...)
}

func (m *Memory) String() string {
	return "memory"
}
