// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package eeprom

import (
	"errors"
	"fmt"

	"github.com/asdine/storm"
)

const stormBucket = "eeprom"

// Storm keeps the block under a key of a storm (BoltDB) database. It lets a
// simulated shield keep its settings across restarts.
type Storm struct {
	db  *storm.DB
	key string
}

// NewStorm returns a block stored under key in db.
func NewStorm(db *storm.DB, key string) *Storm {
	return &Storm{db: db, key: key}
}

// OpenStorm opens or creates the database file at path.
func OpenStorm(path, key string) (*Storm, error) {
	db, err := storm.Open(path)
	if err != nil {
		return nil, fmt.Errorf("eeprom: %w", err)
	}
	return NewStorm(db, key), nil
}

func (s *Storm) String() string {
	return "storm:" + s.key
}

// Load copies the stored block into b.
func (s *Storm) Load(b []byte) error {
	var data []byte
	if err := s.db.Get(stormBucket, s.key, &data); err != nil {
		if errors.Is(err, storm.ErrNotFound) {
			return ErrBlank
		}
		return fmt.Errorf("eeprom: %w", err)
	}
	copy(b, data)
	return nil
}

// Store saves a copy of b.
func (s *Storm) Store(b []byte) error {
	if err := s.db.Set(stormBucket, s.key, append([]byte(nil), b...)); err != nil {
		return fmt.Errorf("eeprom: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Storm) Close() error {
	return s.db.Close()
}
