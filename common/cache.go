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

package common

import (
	"github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// Cache keys are content identifiers or ENS names, both opaque strings.
type Cache interface {
	Add(key string, value interface{}) (evicted bool)
	Get(key string) (value interface{}, ok bool)
	Contains(key string) bool
	Remove(key string)
	Keys() []string
	Len() int
	Purge()
}

type lruCache struct {
	lru *lru.Cache
}

func (cache *lruCache) Add(key string, value interface{}) (evicted bool) {
	return cache.lru.Add(key, value)
}

func (cache *lruCache) Get(key string) (value interface{}, ok bool) {
	value, ok = cache.lru.Get(key)
	return
}

func (cache *lruCache) Contains(key string) bool {
	return cache.lru.Contains(key)
}

func (cache *lruCache) Remove(key string) {
	cache.lru.Remove(key)
}

func (cache *lruCache) Keys() []string {
	raw := cache.lru.Keys()
	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		if s, ok := k.(string); ok {
			keys = append(keys, s)
		}
	}
	return keys
}

func (cache *lruCache) Len() int {
	return cache.lru.Len()
}

func (cache *lruCache) Purge() {
	cache.lru.Purge()
}

type arcCache struct {
	arc *lru.ARCCache
}

func (cache *arcCache) Add(key string, value interface{}) (evicted bool) {
	cache.arc.Add(key, value)
	return false
}

func (cache *arcCache) Get(key string) (value interface{}, ok bool) {
	return cache.arc.Get(key)
}

func (cache *arcCache) Contains(key string) bool {
	return cache.arc.Contains(key)
}

func (cache *arcCache) Remove(key string) {
	cache.arc.Remove(key)
}

func (cache *arcCache) Keys() []string {
	raw := cache.arc.Keys()
	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		if s, ok := k.(string); ok {
			keys = append(keys, s)
		}
	}
	return keys
}

func (cache *arcCache) Len() int {
	return cache.arc.Len()
}

func (cache *arcCache) Purge() {
	cache.arc.Purge()
}

// NewCache builds a cache from the given config.
func NewCache(config CacheConfiger) (Cache, error) {
	if config == nil {
		return nil, errors.New("cache config is nil")
	}
	return config.newCache()
}

type CacheConfiger interface {
	newCache() (Cache, error)
}

type LRUConfig struct {
	CacheSize int
}

func (c LRUConfig) newCache() (Cache, error) {
	inner, err := lru.New(c.CacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "lru")
	}
	return &lruCache{inner}, nil
}

type ARCConfig struct {
	CacheSize int
}

func (c ARCConfig) newCache() (Cache, error) {
	inner, err := lru.NewARC(c.CacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "arc")
	}
	return &arcCache{inner}, nil
}
