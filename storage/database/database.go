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

// Package database provides the operator-local key/value store backing the
// sealed snapshot archive.
package database

import (
	"github.com/pkg/errors"

	"github.com/SudoSuOps/swarm-genesis/log"
)

var logger = log.NewModuleLogger(log.StorageDatabase)

type DBType int

const (
	LevelDB DBType = iota
	MemoryDB
)

var ErrKeyNotFound = errors.New("database: key not found")

// Database is the minimal surface the archive needs.
type Database interface {
	Put(key []byte, value []byte) error
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Delete(key []byte) error
	Close()
	Type() DBType
}

// NewDatabase opens a database of the given type at dir. MemoryDB ignores dir.
func NewDatabase(dir string, dbType DBType) (Database, error) {
	switch dbType {
	case LevelDB:
		return NewLDBDatabase(dir)
	case MemoryDB:
		return NewMemDatabase(), nil
	default:
		return nil, errors.Errorf("unknown database type %d", dbType)
	}
}
