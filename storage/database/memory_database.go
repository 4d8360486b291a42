// Copyright 2026 The swarm-genesis Authors
// This file is part of the swarm-genesis library.
//
// The swarm-genesis library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The swarm-genesis library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the swarm-genesis library. If not, see <http://www.gnu.org/licenses/>.

package database

import "sync"

type memDatabase struct {
	mu sync.RWMutex
	db map[string][]byte
}

func NewMemDatabase() Database {
	return &memDatabase{db: make(map[string][]byte)}
}

func (db *memDatabase) Put(key []byte, value []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	db.db[string(key)] = cp
	return nil
}

func (db *memDatabase) Get(key []byte) ([]byte, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if value, ok := db.db[string(key)]; ok {
		cp := make([]byte, len(value))
		copy(cp, value)
		return cp, nil
	}
	return nil, ErrKeyNotFound
}

func (db *memDatabase) Has(key []byte) (bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	_, ok := db.db[string(key)]
	return ok, nil
}

func (db *memDatabase) Delete(key []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.db, string(key))
	return nil
}

func (db *memDatabase) Close() {}

func (db *memDatabase) Type() DBType {
	return MemoryDB
}
