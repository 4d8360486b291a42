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

import (
	"time"

	"github.com/SudoSuOps/swarm-genesis/params"
)

// Config carries the operator-provided options.
type Config struct {
	// PoolENS is the pool identity: topic namespace and snapshot field.
	PoolENS string

	// OperatorPrivateKey signs outgoing state and epoch snapshots. Hex
	// encoded, with or without 0x prefix. The daemon refuses to start
	// without it.
	OperatorPrivateKey string

	EpochDuration time.Duration
	ClaimTimeout  time.Duration
	MinerTimeout  time.Duration

	ContentStoreAPI string
	SidecarURL      string

	// DataDir holds the local sealed-snapshot archive; empty disables it.
	DataDir string
}

// DefaultConfig is the baseline configuration; flags override fields.
var DefaultConfig = Config{
	EpochDuration: params.DefaultEpochDuration,
	ClaimTimeout:  params.DefaultClaimTimeout,
	MinerTimeout:  params.DefaultMinerTimeout,
}
