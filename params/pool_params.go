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

package params

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// Snapshot schema version stamped into every signed document.
	SnapshotVersion = "1.0"

	// DefaultEpochDuration is the seal cadence when no override is given.
	DefaultEpochDuration = 3600 * time.Second

	// DefaultClaimTimeout is the horizon after which an unproven claim is
	// reverted and the job returns to the pending set.
	DefaultClaimTimeout = 300 * time.Second

	// DefaultMinerTimeout is the heartbeat staleness threshold for the
	// online -> offline transition.
	DefaultMinerTimeout = 120 * time.Second

	// Supervisor cadences.
	StatePublishInterval    = 10 * time.Second
	EpochCheckInterval      = 60 * time.Second
	ClaimTimeoutInterval    = 30 * time.Second
	HeartbeatCheckInterval  = 30 * time.Second
	TransportReceiveTimeout = 1 * time.Second

	// SettlementScale is the decimal precision of per-miner payouts.
	SettlementScale = 4

	// EmptyMerkleRoot is the root of an epoch with no proofs.
	EmptyMerkleRoot = "0x0000000000000000000000000000000000000000000000000000000000000000"

	// DustPolicyRollForward marks sealed snapshots of zero-job epochs: the
	// undistributed miner pool rolls into the successor epoch.
	DustPolicyRollForward = "rollforward"
)

var (
	// MinerPoolShare of epoch volume is distributed to miners by proof count.
	MinerPoolShare = decimal.RequireFromString("0.75")

	// HiveOpsShare of epoch volume is retained for hive operations.
	HiveOpsShare = decimal.RequireFromString("0.25")
)

// Inbound topic suffixes under the pool namespace.
const (
	TopicJobs       = "jobs"
	TopicClaims     = "claims"
	TopicProofs     = "proofs"
	TopicMiners     = "miners"
	TopicHeartbeats = "heartbeats"
)

// Outbound topic suffixes under the pool namespace.
const (
	TopicJobsNew        = "jobs/new"
	TopicClaimsAccepted = "claims/accepted"
	TopicClaimsTimeout  = "claims/timeout"
	TopicProofsAccepted = "proofs/accepted"
	TopicMinersJoined   = "miners/joined"
	TopicState          = "state"
	TopicEpochsOpened   = "epochs/opened"
	TopicEpochsSealed   = "epochs/sealed"
)

// Sidecar key layout. Only the daemon writes these keys.
const (
	SidecarStateCIDKey     = "pool:state:cid"
	SidecarEpochPrefix     = "pool:epoch:"
	SidecarEpochsHistory   = "pool:epochs:history"
	SidecarProofLogSuffix  = ":proofs"
	SidecarStateTTLSeconds = 0 // latest state cid never expires
)
