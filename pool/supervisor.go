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

	"github.com/SudoSuOps/swarm-genesis/log"
	"github.com/SudoSuOps/swarm-genesis/metrics"
	"github.com/SudoSuOps/swarm-genesis/params"
)

var supLogger = log.NewModuleLogger(log.PoolSupervisor)

var (
	statePublishCounter  = metrics.NewRegisteredCounter("pool/supervisor/statepublish")
	claimTimeoutCounter  = metrics.NewRegisteredCounter("pool/supervisor/claimtimeout")
	minersOfflineCounter = metrics.NewRegisteredCounter("pool/supervisor/mineroffline")
	pendingJobsGauge     = metrics.NewRegisteredGauge("pool/pending")
	claimedJobsGauge     = metrics.NewRegisteredGauge("pool/claimed")
	minersOnlineGauge    = metrics.NewRegisteredGauge("pool/miners/online")
)

// tick sleeps for interval, returning false when the daemon is shutting
// down. Periodic tasks observe the quit signal at their loop head.
func (p *Pool) tick(interval time.Duration) bool {
	select {
	case <-p.quit:
		return false
	case <-time.After(interval):
		return p.isRunning()
	}
}

// statePublishLoop canonicalizes, signs and uploads the full pool state,
// then caches the latest identifier in the sidecar. A missed tick is
// non-fatal; consumers tolerate stale state.
func (p *Pool) statePublishLoop() {
	defer p.wg.Done()
	for p.tick(params.StatePublishInterval) {
		p.publishState()
	}
}

func (p *Pool) publishState() {
	now := p.now()

	p.mu.Lock()
	doc := p.state.doc(now, params.SnapshotVersion)
	p.state.LastUpdated = now
	pendingJobsGauge.Update(int64(len(p.state.pending)))
	claimedJobsGauge.Update(int64(len(p.state.Claimed)))
	minersOnlineGauge.Update(int64(p.state.OnlineMiners()))
	p.mu.Unlock()

	if err := p.signer.SignDocument(doc); err != nil {
		supLogger.Error("failed to sign state snapshot", "err", err)
		return
	}
	cid, err := p.store.UploadJSON(doc)
	if err != nil {
		supLogger.Warn("failed to upload state snapshot; retrying next tick", "err", err)
		return
	}
	if err := p.store.Pin(cid); err != nil {
		supLogger.Debug("failed to pin state snapshot", "cid", cid, "err", err)
	}
	if err := p.sidecar.Set(params.SidecarStateCIDKey, cid, 0); err != nil {
		supLogger.Warn("failed to cache state identifier", "cid", cid, "err", err)
	}
	statePublishCounter.Inc(1)

	p.emit(params.TopicState, map[string]interface{}{
		"cid":       cid,
		"timestamp": num(now.Unix()),
	})
}

// epochManagerLoop checks the seal condition and invokes the epoch engine.
func (p *Pool) epochManagerLoop() {
	defer p.wg.Done()
	for p.tick(params.EpochCheckInterval) {
		if err := p.sealEpochIfDue(); err != nil {
			supLogger.Error("epoch seal failed; epoch stays active", "err", err)
		}
	}
}

// claimTimeoutLoop reverts expired claims: the job returns to the pending
// set and the previous claimant may re-claim.
func (p *Pool) claimTimeoutLoop() {
	defer p.wg.Done()
	for p.tick(params.ClaimTimeoutInterval) {
		p.expireClaims()
	}
}

func (p *Pool) expireClaims() {
	now := p.now()
	type expired struct {
		jobCID string
		miner  string
	}
	var timedOut []expired

	p.mu.Lock()
	for cid, claim := range p.state.Claimed {
		if claim.TimeoutAt.Before(now) {
			timedOut = append(timedOut, expired{jobCID: cid, miner: claim.Miner})
		}
	}
	for _, e := range timedOut {
		p.state.ReleaseClaim(e.jobCID)
	}
	p.mu.Unlock()

	for _, e := range timedOut {
		claimTimeoutCounter.Inc(1)
		supLogger.Info("Claim timed out", "job", e.jobCID, "miner", e.miner)
		p.emit(params.TopicClaimsTimeout, map[string]interface{}{
			"job_cid":   e.jobCID,
			"miner":     e.miner,
			"timestamp": num(now.Unix()),
		})
	}
}

// heartbeatMonitorLoop flips stale miners offline. Offline miners are
// retained for statistics and future re-registration.
func (p *Pool) heartbeatMonitorLoop() {
	defer p.wg.Done()
	for p.tick(params.HeartbeatCheckInterval) {
		p.markStaleMiners()
	}
}

func (p *Pool) markStaleMiners() {
	now := p.now()
	p.mu.Lock()
	for _, m := range p.state.Miners {
		if m.Status == MinerOnline && m.LastHeartbeat.Add(p.config.MinerTimeout).Before(now) {
			m.Status = MinerOffline
			minersOfflineCounter.Inc(1)
			supLogger.Info("Miner went offline", "miner", m.Identity, "lastHeartbeat", m.LastHeartbeat)
		}
	}
	p.mu.Unlock()
}
