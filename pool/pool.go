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

// Package pool implements the SwarmPool operator daemon: a single-writer
// coordinator that ingests job announcements, arbitrates claims, validates
// proofs, tracks miner liveness, seals epochs and publishes authoritative
// pool state onto the append-only ledger.
package pool

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/SudoSuOps/swarm-genesis/log"
	"github.com/SudoSuOps/swarm-genesis/params"
	"github.com/SudoSuOps/swarm-genesis/storage/database"
	"github.com/SudoSuOps/swarm-genesis/transport"
)

var logger = log.NewModuleLogger(log.Pool)

// Pool is the daemon. All pool state mutations happen under mu; adapter
// I/O is kept outside the critical sections so no handler suspends while
// holding the lock.
type Pool struct {
	config *Config

	mu    sync.Mutex
	state *State

	signer    *Signer
	transport transport.Broker
	store     ContentStore
	sidecar   Sidecar
	verifier  Verifier
	archive   database.Database // optional sealed-snapshot archive

	router *Router

	running int32
	quit    chan struct{}
	wg      sync.WaitGroup

	// now is swappable for tests.
	now func() time.Time
}

// New wires a daemon from its collaborators. The archive may be nil.
func New(config *Config, broker transport.Broker, store ContentStore, sc Sidecar, verifier Verifier, archive database.Database) (*Pool, error) {
	if config.PoolENS == "" {
		return nil, errors.New("pool: pool identity not configured")
	}
	signer, err := NewSigner(config.OperatorPrivateKey)
	if err != nil {
		return nil, err
	}
	if config.EpochDuration <= 0 {
		config.EpochDuration = params.DefaultEpochDuration
	}
	if config.ClaimTimeout <= 0 {
		config.ClaimTimeout = params.DefaultClaimTimeout
	}
	if config.MinerTimeout <= 0 {
		config.MinerTimeout = params.DefaultMinerTimeout
	}

	p := &Pool{
		config:    config,
		state:     NewState(config.PoolENS),
		signer:    signer,
		transport: broker,
		store:     store,
		sidecar:   sc,
		verifier:  verifier,
		archive:   archive,
		quit:      make(chan struct{}),
		now:       time.Now,
	}
	p.router = NewRouter(p)
	return p, nil
}

// Start restores durable state, opens the first epoch if none is active and
// launches the router and supervisor loops.
func (p *Pool) Start() error {
	if !atomic.CompareAndSwapInt32(&p.running, 0, 1) {
		return errors.New("pool: already started")
	}

	topics := []string{
		p.topic(params.TopicJobs),
		p.topic(params.TopicClaims),
		p.topic(params.TopicProofs),
		p.topic(params.TopicMiners),
		p.topic(params.TopicHeartbeats),
	}
	if err := p.transport.Subscribe(topics...); err != nil {
		atomic.StoreInt32(&p.running, 0)
		return errors.Wrap(err, "subscribe")
	}

	p.restore()

	p.mu.Lock()
	var opened map[string]interface{}
	if p.state.Epoch == nil {
		opened = p.openEpoch(p.now())
	}
	p.mu.Unlock()
	if opened != nil {
		p.emit(params.TopicEpochsOpened, opened)
	}

	p.wg.Add(5)
	go p.router.loop(&p.wg)
	go p.statePublishLoop()
	go p.epochManagerLoop()
	go p.claimTimeoutLoop()
	go p.heartbeatMonitorLoop()

	logger.Info("Pool daemon started", "pool", p.config.PoolENS, "operator", p.signer.Address())
	return nil
}

// Stop flips the running flag and waits for in-flight work to finish.
func (p *Pool) Stop() {
	if !atomic.CompareAndSwapInt32(&p.running, 1, 0) {
		return
	}
	close(p.quit)
	p.wg.Wait()
	logger.Info("Pool daemon stopped", "pool", p.config.PoolENS)
}

func (p *Pool) isRunning() bool {
	return atomic.LoadInt32(&p.running) == 1
}

func (p *Pool) topic(suffix string) string {
	return p.config.PoolENS + "/" + suffix
}

// emit signs payload with the operator key and publishes it. Publish
// failures are logged and swallowed: the ledger is authoritative, and what
// was not published did not happen.
func (p *Pool) emit(suffix string, payload map[string]interface{}) {
	if err := p.signer.SignDocument(payload); err != nil {
		logger.Error("failed to sign announcement", "topic", suffix, "err", err)
		return
	}
	if err := p.transport.Publish(p.topic(suffix), payload); err != nil {
		logger.Error("failed to publish announcement", "topic", suffix, "err", err)
	}
}

// restore rebuilds in-memory state from the last published snapshot. All
// prior claims expire; the current epoch's proof log is reread from the
// sidecar. Any failure falls back to a fresh state.
func (p *Pool) restore() {
	cid, err := p.sidecar.Get(params.SidecarStateCIDKey)
	if err != nil {
		logger.Info("No previous state snapshot; starting fresh")
		return
	}
	doc, err := p.store.FetchJSON(cid)
	if err != nil {
		logger.Warn("Previous state snapshot unreadable; starting fresh", "cid", cid, "err", err)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if jobs, ok := doc["total_jobs"].(json.Number); ok {
		if v, err := jobs.Int64(); err == nil {
			p.state.TotalJobs = uint64(v)
		}
	}
	if proofs, ok := doc["total_proofs"].(json.Number); ok {
		if v, err := proofs.Int64(); err == nil {
			p.state.TotalProofs = uint64(v)
		}
	}
	if vol, ok := docDecimal(doc, "total_volume"); ok {
		p.state.TotalVolume = vol
	}
	for _, cid := range docStrings(doc, "pending_jobs") {
		p.state.AcceptJobRestored(cid)
	}
	if miners, ok := doc["miners"].(map[string]interface{}); ok {
		for id, raw := range miners {
			m, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			info := &MinerInfo{
				Identity: id,
				GPUs:     docStrings(m, "gpus"),
				Models:   docStrings(m, "models"),
				Status:   MinerOffline,
			}
			if mode, ok := docString(m, "mode"); ok {
				info.Mode = mode
			}
			if reg, ok := m["registered_at"].(json.Number); ok {
				if v, err := reg.Int64(); err == nil {
					info.RegisteredAt = time.Unix(v, 0)
				}
			}
			if hb, ok := m["last_heartbeat"].(json.Number); ok {
				if v, err := hb.Int64(); err == nil {
					info.LastHeartbeat = time.Unix(v, 0)
				}
			}
			if done, ok := m["jobs_completed"].(json.Number); ok {
				if v, err := done.Int64(); err == nil {
					info.JobsCompleted = uint64(v)
				}
			}
			p.state.Miners[id] = info
		}
	}

	epochDoc, ok := doc["epoch"].(map[string]interface{})
	if !ok {
		logger.Warn("State snapshot carries no active epoch; opening fresh")
		return
	}
	id, _ := docString(epochDoc, "epoch_id")
	name, _ := docString(epochDoc, "name")
	epoch := &Epoch{ID: id, Name: name, Status: EpochActive, Volume: decimal.Zero}
	if open, ok := epochDoc["open_at"].(json.Number); ok {
		if v, err := open.Int64(); err == nil {
			epoch.OpenAt = time.Unix(v, 0)
		}
	}
	if jobs, ok := epochDoc["jobs"].(json.Number); ok {
		if v, err := jobs.Int64(); err == nil {
			epoch.Jobs = uint64(v)
		}
	}
	if vol, ok := docDecimal(epochDoc, "volume"); ok {
		epoch.Volume = vol
	}

	// Reread the durable proof log; sidecar entries are newest first.
	entries, err := p.sidecar.LRange(proofLogKey(id), 0, -1)
	if err != nil {
		logger.Warn("Failed to reread epoch proof log", "epoch", id, "err", err)
	}
	for i := len(entries) - 1; i >= 0; i-- {
		var entry ProofEntry
		if err := json.Unmarshal([]byte(entries[i]), &entry); err != nil {
			logger.Warn("Skipping malformed proof log entry", "epoch", id, "err", err)
			continue
		}
		epoch.Proofs = append(epoch.Proofs, entry)
		p.state.seen[entry.JobCID] = true
	}

	p.state.Epoch = epoch
	p.state.LastEpochSeal = epoch.OpenAt
	logger.Info("Restored pool state", "epoch", id, "proofs", len(epoch.Proofs),
		"pending", len(p.state.pending), "miners", len(p.state.Miners))
}

func proofLogKey(epochID string) string {
	return params.SidecarEpochPrefix + epochID + params.SidecarProofLogSuffix
}

