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

// Package sidecar is the durable key/value store shared with external
// readers. The daemon is the only writer of the keys it owns.
package sidecar

import (
	"time"

	"github.com/go-redis/redis/v7"
	"github.com/pkg/errors"

	"github.com/SudoSuOps/swarm-genesis/log"
)

var logger = log.NewModuleLogger(log.StorageSidecar)

// ErrNotFound is returned by Get for absent keys.
var ErrNotFound = errors.New("sidecar: key not found")

type Store struct {
	client *redis.Client
}

// New dials the sidecar and verifies connectivity.
func New(url string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parse sidecar url")
	}
	client := redis.NewClient(opts)
	if err := client.Ping().Err(); err != nil {
		return nil, errors.Wrap(err, "ping sidecar")
	}
	logger.Info("Connected to durable sidecar", "addr", opts.Addr)
	return &Store{client: client}, nil
}

// Set writes key=val. A zero ttl means no expiry.
func (s *Store) Set(key, val string, ttl time.Duration) error {
	return s.client.Set(key, val, ttl).Err()
}

// Get reads a key, mapping absence to ErrNotFound.
func (s *Store) Get(key string) (string, error) {
	val, err := s.client.Get(key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	return val, err
}

// LPush prepends values to the list at key, newest first.
func (s *Store) LPush(key string, values ...string) error {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return s.client.LPush(key, args...).Err()
}

// LRange reads list entries [start, stop]; -1 addresses the tail.
func (s *Store) LRange(key string, start, stop int64) ([]string, error) {
	return s.client.LRange(key, start, stop).Result()
}

// LLen returns the length of the list at key.
func (s *Store) LLen(key string) (int64, error) {
	return s.client.LLen(key).Result()
}

// Del removes keys.
func (s *Store) Del(keys ...string) error {
	return s.client.Del(keys...).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
