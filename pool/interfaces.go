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

package pool

import "time"

// ContentStore is the content-addressed blob store the daemon consumes.
// Returned identifiers are opaque strings.
type ContentStore interface {
	FetchJSON(cid string) (map[string]interface{}, error)
	UploadJSON(obj interface{}) (string, error)
	Pin(cid string) error
}

// Sidecar is the durable key/value + list store for epoch proof logs and
// published state identifiers.
type Sidecar interface {
	Set(key, val string, ttl time.Duration) error
	Get(key string) (string, error)
	LPush(key string, values ...string) error
	LRange(key string, start, stop int64) ([]string, error)
	Del(keys ...string) error
}

// Verifier answers whether payload's signature resolves to the claimed
// identity. It owns canonicalization and sig stripping.
type Verifier interface {
	Verify(payload map[string]interface{}, identity string) bool
}
