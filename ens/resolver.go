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

package ens

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"

	"github.com/SudoSuOps/swarm-genesis/common"
)

const (
	resolveTimeout   = 5 * time.Second
	resolveCacheSize = 4096
)

var ErrUnresolved = errors.New("ens: name does not resolve")

// Resolver maps ENS names to addresses. Names pinned via Pin take priority;
// everything else goes through the resolver gateway and is cached.
type Resolver struct {
	api   string
	http  *fasthttp.Client
	cache common.Cache

	mu     sync.RWMutex
	pinned map[string]string
}

// NewResolver builds a resolver against the given gateway. An empty api
// restricts resolution to pinned names.
func NewResolver(api string) *Resolver {
	cache, _ := common.NewCache(common.LRUConfig{CacheSize: resolveCacheSize})
	return &Resolver{
		api:    api,
		http:   &fasthttp.Client{Name: "swarmpool-ens"},
		cache:  cache,
		pinned: make(map[string]string),
	}
}

// Pin binds name to addr locally, bypassing the gateway.
func (r *Resolver) Pin(name, addr string) {
	r.mu.Lock()
	r.pinned[strings.ToLower(name)] = strings.ToLower(addr)
	r.mu.Unlock()
}

// Resolve returns the 0x address bound to name.
func (r *Resolver) Resolve(name string) (string, error) {
	key := strings.ToLower(name)

	r.mu.RLock()
	addr, pinned := r.pinned[key]
	r.mu.RUnlock()
	if pinned {
		return addr, nil
	}
	if cached, ok := r.cache.Get(key); ok {
		return cached.(string), nil
	}
	if r.api == "" {
		return "", ErrUnresolved
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod("GET")
	req.SetRequestURI(fmt.Sprintf("%s/resolve?name=%s", r.api, key))
	if err := r.http.DoTimeout(req, resp, resolveTimeout); err != nil {
		return "", errors.Wrap(err, "resolver gateway")
	}
	if resp.StatusCode() == fasthttp.StatusNotFound {
		return "", ErrUnresolved
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return "", errors.Errorf("resolver gateway status %d", resp.StatusCode())
	}
	var body struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", errors.Wrap(err, "decode resolver response")
	}
	if body.Address == "" {
		return "", ErrUnresolved
	}
	resolved := strings.ToLower(body.Address)
	r.cache.Add(key, resolved)
	return resolved, nil
}
