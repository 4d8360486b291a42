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
	"strings"
	"sync"
	"time"

	"github.com/SudoSuOps/swarm-genesis/common"
	"github.com/SudoSuOps/swarm-genesis/log"
	"github.com/SudoSuOps/swarm-genesis/metrics"
	"github.com/SudoSuOps/swarm-genesis/params"
	"github.com/SudoSuOps/swarm-genesis/transport"
)

var routerLogger = log.NewModuleLogger(log.PoolRouter)

var (
	jobsAcceptedCounter   = metrics.NewRegisteredCounter("pool/router/jobs/accepted")
	jobsDroppedCounter    = metrics.NewRegisteredCounter("pool/router/jobs/dropped")
	claimsAcceptedCounter = metrics.NewRegisteredCounter("pool/router/claims/accepted")
	claimsDroppedCounter  = metrics.NewRegisteredCounter("pool/router/claims/dropped")
	proofsAcceptedCounter = metrics.NewRegisteredCounter("pool/router/proofs/accepted")
	proofsDroppedCounter  = metrics.NewRegisteredCounter("pool/router/proofs/dropped")
	minersJoinedCounter   = metrics.NewRegisteredCounter("pool/router/miners/joined")
	messagesMeter         = metrics.NewRegisteredMeter("pool/router/messages")
)

const seenCacheSize = 65536

// Router is the single ingestion loop: messages are dequeued one at a time
// and each handler runs to completion before the next dequeue. Handler
// panics are logged and swallowed; they never terminate the loop.
type Router struct {
	pool *Pool

	// seenCache is the fast path for duplicate announcements; the state's
	// seen set stays authoritative.
	seenCache common.Cache
}

func NewRouter(p *Pool) *Router {
	cache, _ := common.NewCache(common.LRUConfig{CacheSize: seenCacheSize})
	return &Router{pool: p, seenCache: cache}
}

func (r *Router) loop(wg *sync.WaitGroup) {
	defer wg.Done()
	for r.pool.isRunning() {
		msg, err := r.pool.transport.GetMessage(params.TransportReceiveTimeout)
		if err == transport.ErrReceiveTimeout {
			continue
		}
		if err != nil {
			routerLogger.Error("transport read failed", "err", err)
			time.Sleep(time.Second)
			continue
		}
		r.dispatch(msg)
	}
}

func (r *Router) dispatch(msg *transport.Message) {
	defer func() {
		if rec := recover(); rec != nil {
			routerLogger.Error("handler panicked", "topic", msg.Topic, "panic", rec)
		}
	}()
	messagesMeter.Mark(1)

	doc, err := common.DecodeJSON(msg.Data)
	if err != nil {
		routerLogger.Debug("dropping non-JSON message", "topic", msg.Topic, "err", err)
		return
	}

	switch {
	case strings.Contains(msg.Topic, params.TopicHeartbeats):
		r.handleHeartbeat(doc)
	case strings.Contains(msg.Topic, params.TopicMiners):
		r.handleRegistration(doc)
	case strings.Contains(msg.Topic, params.TopicClaims):
		r.handleClaim(doc)
	case strings.Contains(msg.Topic, params.TopicProofs):
		r.handleProof(doc)
	case strings.Contains(msg.Topic, params.TopicJobs):
		r.handleJob(doc)
	default:
		routerLogger.Debug("message on unexpected topic", "topic", msg.Topic)
	}
}

// handleJob processes one announcement: fetch, verify, admit, pin, emit.
// A cid that is already tracked anywhere is a silent no-op.
func (r *Router) handleJob(msg map[string]interface{}) {
	cid, ok := docString(msg, "cid")
	if !ok {
		jobsDroppedCounter.Inc(1)
		return
	}
	client, ok := docString(msg, "client")
	if !ok {
		jobsDroppedCounter.Inc(1)
		return
	}

	if r.seenCache.Contains(cid) {
		return
	}
	p := r.pool
	p.mu.Lock()
	tracked := p.state.Tracked(cid)
	p.mu.Unlock()
	if tracked {
		return
	}

	job, err := p.store.FetchJSON(cid)
	if err != nil {
		routerLogger.Debug("job blob unavailable", "cid", cid, "err", err)
		jobsDroppedCounter.Inc(1)
		return
	}
	if !p.verifier.Verify(job, client) {
		routerLogger.Debug("job signature rejected", "cid", cid, "client", client)
		jobsDroppedCounter.Inc(1)
		return
	}
	jobType, ok := docString(job, "job_type")
	if !ok {
		jobsDroppedCounter.Inc(1)
		return
	}
	model, ok := docString(job, "model")
	if !ok {
		jobsDroppedCounter.Inc(1)
		return
	}
	reward, ok := docDecimal(job, "reward")
	if !ok || reward.IsNegative() {
		jobsDroppedCounter.Inc(1)
		return
	}

	p.mu.Lock()
	if p.state.Tracked(cid) {
		p.mu.Unlock()
		return
	}
	p.state.AcceptJob(cid, reward)
	p.mu.Unlock()
	r.seenCache.Add(cid, struct{}{})
	jobsAcceptedCounter.Inc(1)

	if err := p.store.Pin(cid); err != nil {
		routerLogger.Warn("failed to pin job blob", "cid", cid, "err", err)
	}
	routerLogger.Info("Job accepted", "cid", cid, "type", jobType, "model", model, "reward", reward)
	p.emit(params.TopicJobsNew, map[string]interface{}{
		"cid":       cid,
		"job_type":  jobType,
		"model":     model,
		"reward":    reward.String(),
		"timestamp": num(p.now().Unix()),
	})
}

// handleClaim arbitrates a claim. Among concurrent claims for one job the
// first observed wins; later ones are dropped silently.
func (r *Router) handleClaim(msg map[string]interface{}) {
	jobCID, ok := docString(msg, "job_cid")
	if !ok {
		claimsDroppedCounter.Inc(1)
		return
	}
	miner, ok := docString(msg, "miner")
	if !ok {
		claimsDroppedCounter.Inc(1)
		return
	}
	if _, ok := docString(msg, "sig"); !ok {
		claimsDroppedCounter.Inc(1)
		return
	}

	p := r.pool
	// Signature check happens before any state mutation.
	if !p.verifier.Verify(msg, miner) {
		routerLogger.Debug("claim signature rejected", "job", jobCID, "miner", miner)
		claimsDroppedCounter.Inc(1)
		return
	}

	now := p.now()
	p.mu.Lock()
	if !p.state.IsPending(jobCID) || p.state.Miners[miner] == nil {
		p.mu.Unlock()
		claimsDroppedCounter.Inc(1)
		return
	}
	p.state.AcceptClaim(jobCID, miner, now, p.config.ClaimTimeout)
	p.mu.Unlock()
	claimsAcceptedCounter.Inc(1)

	routerLogger.Info("Claim accepted", "job", jobCID, "miner", miner)
	p.emit(params.TopicClaimsAccepted, map[string]interface{}{
		"job_cid":   jobCID,
		"miner":     miner,
		"timestamp": num(now.Unix()),
	})
}

// handleProof validates a completed-work proof from the claimant and
// appends it to the active epoch's durable log.
func (r *Router) handleProof(msg map[string]interface{}) {
	jobCID, ok := docString(msg, "job_cid")
	if !ok {
		proofsDroppedCounter.Inc(1)
		return
	}
	proofCID, ok := docString(msg, "proof_cid")
	if !ok {
		proofsDroppedCounter.Inc(1)
		return
	}
	miner, ok := docString(msg, "miner")
	if !ok {
		proofsDroppedCounter.Inc(1)
		return
	}

	p := r.pool
	p.mu.Lock()
	claim := p.state.Claimed[jobCID]
	p.mu.Unlock()
	if claim == nil || claim.Miner != miner {
		routerLogger.Debug("proof from non-claimant", "job", jobCID, "miner", miner)
		proofsDroppedCounter.Inc(1)
		return
	}

	proof, err := p.store.FetchJSON(proofCID)
	if err != nil {
		routerLogger.Debug("proof blob unavailable", "proof", proofCID, "err", err)
		proofsDroppedCounter.Inc(1)
		return
	}
	if !p.verifier.Verify(proof, miner) {
		routerLogger.Debug("proof signature rejected", "proof", proofCID, "miner", miner)
		proofsDroppedCounter.Inc(1)
		return
	}
	declared, ok := docString(proof, "job_cid")
	if !ok || declared != jobCID {
		proofsDroppedCounter.Inc(1)
		return
	}
	for _, field := range []string{"status", "output_cid", "proof_hash"} {
		if _, ok := docString(proof, field); !ok {
			proofsDroppedCounter.Inc(1)
			return
		}
	}
	if _, ok := proof["metrics"].(map[string]interface{}); !ok {
		proofsDroppedCounter.Inc(1)
		return
	}

	now := p.now()
	entry := ProofEntry{JobCID: jobCID, ProofCID: proofCID, Miner: miner, Timestamp: now.Unix()}

	p.mu.Lock()
	// Re-check the lease; it may have timed out while the blob was fetched.
	claim = p.state.Claimed[jobCID]
	if claim == nil || claim.Miner != miner {
		p.mu.Unlock()
		proofsDroppedCounter.Inc(1)
		return
	}
	p.state.AcceptProof(entry)
	epochID := p.state.Epoch.ID
	p.mu.Unlock()
	proofsAcceptedCounter.Inc(1)

	if raw, err := entry.marshal(); err == nil {
		if err := p.sidecar.LPush(proofLogKey(epochID), raw); err != nil {
			routerLogger.Warn("failed to append proof to durable log", "epoch", epochID, "err", err)
		}
	}
	if err := p.store.Pin(proofCID); err != nil {
		routerLogger.Warn("failed to pin proof blob", "proof", proofCID, "err", err)
	}

	routerLogger.Info("Proof accepted", "job", jobCID, "proof", proofCID, "miner", miner)
	p.emit(params.TopicProofsAccepted, map[string]interface{}{
		"job_cid":   jobCID,
		"proof_cid": proofCID,
		"miner":     miner,
		"timestamp": num(now.Unix()),
	})
}

// handleRegistration upserts a miner. Completed-job counters survive
// re-registration of the same identity.
func (r *Router) handleRegistration(msg map[string]interface{}) {
	identity, ok := docString(msg, "identity")
	if !ok {
		return
	}
	p := r.pool
	if !p.verifier.Verify(msg, identity) {
		routerLogger.Debug("registration signature rejected", "miner", identity)
		return
	}
	mode, ok := docString(msg, "mode")
	if !ok {
		mode = ModeSolo
	}

	now := p.now()
	p.mu.Lock()
	p.state.UpsertMiner(identity, docStrings(msg, "gpus"), docStrings(msg, "models"), mode, now)
	p.mu.Unlock()
	minersJoinedCounter.Inc(1)

	routerLogger.Info("Miner joined", "miner", identity, "mode", mode)
	p.emit(params.TopicMinersJoined, map[string]interface{}{
		"miner":     identity,
		"timestamp": num(now.Unix()),
	})
}

// handleHeartbeat refreshes liveness for a registered miner. Unknown
// miners are ignored; registration comes first.
func (r *Router) handleHeartbeat(msg map[string]interface{}) {
	miner, ok := docString(msg, "miner")
	if !ok {
		return
	}
	p := r.pool
	if !p.verifier.Verify(msg, miner) {
		routerLogger.Debug("heartbeat signature rejected", "miner", miner)
		return
	}
	now := p.now()
	p.mu.Lock()
	known := p.state.Heartbeat(miner, now)
	p.mu.Unlock()
	if !known {
		routerLogger.Debug("heartbeat from unregistered miner", "miner", miner)
	}
}
