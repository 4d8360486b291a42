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

	"github.com/shopspring/decimal"
)

// State is the authoritative in-memory pool state. It is not safe for
// concurrent use: the owning Pool serializes every access behind its mutex.
type State struct {
	PoolENS string

	TotalJobs   uint64
	TotalProofs uint64
	TotalVolume decimal.Decimal

	// pending is the ordered set of announced, unclaimed job cids.
	pending    []string
	pendingSet map[string]bool

	// Claimed maps job cid to its current soft lease.
	Claimed map[string]*ClaimEntry

	// Miners is keyed by identity. Entries are never removed.
	Miners map[string]*MinerInfo

	// Active epoch. Never nil after startup.
	Epoch *Epoch

	// seen holds every job cid the daemon ever accepted, for duplicate
	// suppression and the exactly-one-bucket invariant.
	seen map[string]bool

	LastEpochSeal time.Time
	LastUpdated   time.Time
}

func NewState(poolENS string) *State {
	return &State{
		PoolENS:     poolENS,
		TotalVolume: decimal.Zero,
		pendingSet:  make(map[string]bool),
		Claimed:     make(map[string]*ClaimEntry),
		Miners:      make(map[string]*MinerInfo),
		seen:        make(map[string]bool),
	}
}

// Tracked reports whether cid is known in any bucket: pending, claimed, or
// a proof log the daemon has seen.
func (s *State) Tracked(cid string) bool {
	return s.seen[cid]
}

// AcceptJob appends cid to the pending set and bumps the counters.
func (s *State) AcceptJob(cid string, reward decimal.Decimal) {
	s.pending = append(s.pending, cid)
	s.pendingSet[cid] = true
	s.seen[cid] = true
	s.TotalJobs++
	s.TotalVolume = s.TotalVolume.Add(reward)
	if s.Epoch != nil {
		s.Epoch.Jobs++
		s.Epoch.Volume = s.Epoch.Volume.Add(reward)
	}
}

// AcceptJobRestored re-enters a pending job from a restored snapshot
// without touching lifetime counters.
func (s *State) AcceptJobRestored(cid string) {
	if s.pendingSet[cid] {
		return
	}
	s.pending = append(s.pending, cid)
	s.pendingSet[cid] = true
	s.seen[cid] = true
}

// IsPending reports whether cid awaits a claim.
func (s *State) IsPending(cid string) bool {
	return s.pendingSet[cid]
}

// PendingJobs returns the pending cids in announcement order.
func (s *State) PendingJobs() []string {
	out := make([]string, len(s.pending))
	copy(out, s.pending)
	return out
}

// AcceptClaim moves cid from pending into the claimed mapping.
func (s *State) AcceptClaim(cid, miner string, now time.Time, timeout time.Duration) {
	s.removePending(cid)
	s.Claimed[cid] = &ClaimEntry{
		Miner:     miner,
		ClaimedAt: now,
		TimeoutAt: now.Add(timeout),
	}
}

// ReleaseClaim reverts a timed-out claim: the lease is dropped and the job
// returns to the back of the pending set.
func (s *State) ReleaseClaim(cid string) {
	delete(s.Claimed, cid)
	s.pending = append(s.pending, cid)
	s.pendingSet[cid] = true
}

// AcceptProof retires the claim and appends the proof to the active epoch
// log.
func (s *State) AcceptProof(entry ProofEntry) {
	delete(s.Claimed, entry.JobCID)
	s.TotalProofs++
	if m := s.Miners[entry.Miner]; m != nil {
		m.JobsCompleted++
	}
	if s.Epoch != nil {
		s.Epoch.Proofs = append(s.Epoch.Proofs, entry)
	}
}

// UpsertMiner registers or re-registers a miner, preserving its completed
// job counter across re-registrations.
func (s *State) UpsertMiner(identity string, gpus, models []string, mode string, now time.Time) *MinerInfo {
	prior := s.Miners[identity]
	info := &MinerInfo{
		Identity:      identity,
		RegisteredAt:  now,
		LastHeartbeat: now,
		GPUs:          gpus,
		Models:        models,
		Mode:          mode,
		Status:        MinerOnline,
	}
	if prior != nil {
		info.JobsCompleted = prior.JobsCompleted
	}
	s.Miners[identity] = info
	return info
}

// Heartbeat refreshes a known miner; unknown miners are ignored.
func (s *State) Heartbeat(identity string, now time.Time) bool {
	m := s.Miners[identity]
	if m == nil {
		return false
	}
	m.LastHeartbeat = now
	m.Status = MinerOnline
	return true
}

// OnlineMiners counts miners currently marked online.
func (s *State) OnlineMiners() int {
	n := 0
	for _, m := range s.Miners {
		if m.Status == MinerOnline {
			n++
		}
	}
	return n
}

func (s *State) removePending(cid string) {
	if !s.pendingSet[cid] {
		return
	}
	delete(s.pendingSet, cid)
	for i, c := range s.pending {
		if c == cid {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			break
		}
	}
}

// doc renders the full pool state as a canonical-serializable document.
// The sig field is added by the signer.
func (s *State) doc(now time.Time, version string) map[string]interface{} {
	pending := make([]interface{}, len(s.pending))
	for i, cid := range s.pending {
		pending[i] = cid
	}

	claimed := make(map[string]interface{}, len(s.Claimed))
	for cid, entry := range s.Claimed {
		claimed[cid] = map[string]interface{}{
			"miner":      entry.Miner,
			"claimed_at": num(entry.ClaimedAt.Unix()),
			"timeout_at": num(entry.TimeoutAt.Unix()),
		}
	}

	miners := make(map[string]interface{}, len(s.Miners))
	for id, m := range s.Miners {
		gpus := make([]interface{}, len(m.GPUs))
		for i, g := range m.GPUs {
			gpus[i] = g
		}
		models := make([]interface{}, len(m.Models))
		for i, mod := range m.Models {
			models[i] = mod
		}
		miners[id] = map[string]interface{}{
			"registered_at":  num(m.RegisteredAt.Unix()),
			"last_heartbeat": num(m.LastHeartbeat.Unix()),
			"gpus":           gpus,
			"models":         models,
			"mode":           m.Mode,
			"jobs_completed": num(int64(m.JobsCompleted)),
			"status":         m.Status,
		}
	}

	doc := map[string]interface{}{
		"type":         "pool_state",
		"version":      version,
		"pool":         s.PoolENS,
		"total_jobs":   num(int64(s.TotalJobs)),
		"total_proofs": num(int64(s.TotalProofs)),
		"total_volume": s.TotalVolume.String(),
		"pending_jobs": pending,
		"claimed_jobs": claimed,
		"miners":       miners,
		"last_updated": num(now.Unix()),
	}
	if s.Epoch != nil {
		doc["epoch"] = s.Epoch.doc()
	}
	return doc
}
