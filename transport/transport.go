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

// Package transport names the publish/subscribe contract the daemon
// consumes. Implementations live in subpackages.
package transport

import (
	"time"

	"github.com/pkg/errors"
)

// ErrReceiveTimeout signals an idle receive deadline, not a failure.
var ErrReceiveTimeout = errors.New("transport: receive timed out")

// Message is one inbound record: the full topic it arrived on and the raw
// JSON payload.
type Message struct {
	Topic string
	Data  []byte
}

// Broker is the pub/sub surface the daemon consumes. Per-topic arrival
// order is preserved through the single receive queue.
type Broker interface {
	Subscribe(topics ...string) error
	GetMessage(timeout time.Duration) (*Message, error)
	Publish(topic string, payload interface{}) error
	Close()
}
