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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/SudoSuOps/swarm-genesis/log"
	"github.com/SudoSuOps/swarm-genesis/metrics"
	"github.com/SudoSuOps/swarm-genesis/params"
)

var epochLogger = log.NewModuleLogger(log.PoolEpoch)

var (
	epochsSealedCounter  = metrics.NewRegisteredCounter("pool/epoch/sealed")
	epochSealFailCounter = metrics.NewRegisteredCounter("pool/epoch/sealfail")
)

// openEpoch starts a fresh active epoch named from its open time and
// returns the announcement payload. Caller holds p.mu and emits after
// unlocking. The volume starts at zero; openEpochWithDust seeds it with the
// dust of a zero-proof predecessor.
func (p *Pool) openEpoch(now time.Time) map[string]interface{} {
	return p.openEpochWithDust(now, decimal.Zero)
}

func (p *Pool) openEpochWithDust(now time.Time, dust decimal.Decimal) map[string]interface{} {
	epoch := &Epoch{
		ID:     fmt.Sprintf("epoch-%d", now.Unix()),
		Name:   now.UTC().Format("epoch-20060102-150405"),
		OpenAt: now,
		Status: EpochActive,
		Volume: dust,
	}
	p.state.Epoch = epoch
	p.state.LastEpochSeal = now
	epochLogger.Info("Epoch opened", "epoch", epoch.ID, "name", epoch.Name, "dust", dust)
	return map[string]interface{}{
		"epoch_id":  epoch.ID,
		"name":      epoch.Name,
		"timestamp": num(now.Unix()),
	}
}

// MerkleRoot reduces a proof log to its published root: proof content
// identifiers sorted lexicographically, concatenated with no separator,
// SHA-256, hex, 0x prefix. Not a tree; kept for wire compatibility with
// existing verifiers.
func MerkleRoot(proofs []ProofEntry) string {
	if len(proofs) == 0 {
		return params.EmptyMerkleRoot
	}
	cids := make([]string, len(proofs))
	for i, p := range proofs {
		cids[i] = p.ProofCID
	}
	sort.Strings(cids)
	h := sha256.New()
	for _, cid := range cids {
		h.Write([]byte(cid))
	}
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// ComputeSettlements splits an epoch's volume 75/25 between miners (by
// proof count, 4-decimal rounding) and hive operations. A zero-proof epoch
// yields no miner payouts; the whole miner pool is returned as dust.
func ComputeSettlements(e *Epoch) (settlements map[string]interface{}, dust decimal.Decimal) {
	minerPool := e.Volume.Mul(params.MinerPoolShare)
	hiveOps := e.Volume.Mul(params.HiveOpsShare)

	miners := make(map[string]interface{})
	settlements = map[string]interface{}{
		"miners":     miners,
		"miner_pool": minerPool.StringFixed(params.SettlementScale),
		"hive_ops":   hiveOps.StringFixed(params.SettlementScale),
	}

	total := int64(len(e.Proofs))
	if total == 0 {
		settlements["dust_policy"] = params.DustPolicyRollForward
		settlements["dust"] = minerPool.StringFixed(params.SettlementScale)
		return settlements, minerPool
	}

	byMiner := make(map[string]int64)
	for _, proof := range e.Proofs {
		byMiner[proof.Miner]++
	}
	totalDec := decimal.NewFromInt(total)
	for miner, count := range byMiner {
		payout := minerPool.Mul(decimal.NewFromInt(count)).Div(totalDec).Round(params.SettlementScale)
		miners[miner] = payout.StringFixed(params.SettlementScale)
	}
	return settlements, decimal.Zero
}

// sealEpochIfDue seals the active epoch once its duration has elapsed. The
// whole seal runs under the state mutex: sealing is the one periodic task
// whose critical section includes its uploads, so a proof can never land
// between the manifest snapshot and the successor epoch opening.
func (p *Pool) sealEpochIfDue() error {
	now := p.now()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.Epoch == nil || now.Before(p.state.LastEpochSeal.Add(p.config.EpochDuration)) {
		return nil
	}
	epoch := p.state.Epoch

	// Restart protection: a snapshot already recorded for this identifier,
	// or the identifier already in the epoch history, means the seal
	// happened and only the reopen was lost.
	sealed := false
	if cid, err := p.sidecar.Get(params.SidecarEpochPrefix + epoch.ID); err == nil && cid != "" {
		sealed = true
	} else if history, err := p.sidecar.LRange(params.SidecarEpochsHistory, 0, -1); err == nil {
		for _, id := range history {
			if id == epoch.ID {
				sealed = true
				break
			}
		}
	}
	if sealed {
		epochLogger.Warn("Epoch already sealed; reopening successor", "epoch", epoch.ID)
		opened := p.openEpochWithDust(now, decimal.Zero)
		go p.emit(params.TopicEpochsOpened, opened)
		return nil
	}

	settlements, dust := ComputeSettlements(epoch)
	root := MerkleRoot(epoch.Proofs)

	doc := map[string]interface{}{
		"type":         "epoch",
		"version":      params.SnapshotVersion,
		"epoch_id":     epoch.ID,
		"name":         epoch.Name,
		"status":       EpochSealed,
		"open_at":      num(epoch.OpenAt.Unix()),
		"close_at":     num(now.Unix()),
		"jobs":         num(int64(epoch.Jobs)),
		"proofs":       num(int64(len(epoch.Proofs))),
		"total_volume": epoch.Volume.String(),
		"proofs_list":  proofsDoc(epoch.Proofs),
		"settlements":  settlements,
		"merkle_root":  root,
		"pool":         p.state.PoolENS,
		"timestamp":    num(now.Unix()),
	}
	if err := p.signer.SignDocument(doc); err != nil {
		epochSealFailCounter.Inc(1)
		return errors.Wrap(err, "sign sealed epoch")
	}

	cid, err := p.store.UploadJSON(doc)
	if err != nil {
		// Epoch stays active; the supervisor retries on the next tick.
		epochSealFailCounter.Inc(1)
		return errors.Wrap(err, "upload sealed epoch")
	}
	if err := p.store.Pin(cid); err != nil {
		epochLogger.Warn("failed to pin sealed epoch", "epoch", epoch.ID, "cid", cid, "err", err)
	}
	if err := p.sidecar.Set(params.SidecarEpochPrefix+epoch.ID, cid, 0); err != nil {
		epochLogger.Warn("failed to record sealed epoch", "epoch", epoch.ID, "err", err)
	}
	if err := p.sidecar.LPush(params.SidecarEpochsHistory, epoch.ID); err != nil {
		epochLogger.Warn("failed to extend epoch history", "epoch", epoch.ID, "err", err)
	}
	p.archiveSnapshot(epoch.ID, doc)

	epoch.Status = EpochSealed
	epoch.CloseAt = now
	sealedJobs := epoch.Jobs
	sealedVolume := epoch.Volume

	opened := p.openEpochWithDust(now, dust)
	epochsSealedCounter.Inc(1)
	epochLogger.Info("Epoch sealed", "epoch", epoch.ID, "cid", cid,
		"jobs", sealedJobs, "proofs", len(epoch.Proofs), "volume", sealedVolume, "root", root)

	// Publishes happen off the lock path.
	go func() {
		p.emit(params.TopicEpochsSealed, map[string]interface{}{
			"epoch_id":  epoch.ID,
			"cid":       cid,
			"jobs":      num(int64(sealedJobs)),
			"volume":    sealedVolume.String(),
			"timestamp": num(now.Unix()),
		})
		p.emit(params.TopicEpochsOpened, opened)
	}()
	return nil
}

func proofsDoc(proofs []ProofEntry) []interface{} {
	out := make([]interface{}, len(proofs))
	for i, p := range proofs {
		out[i] = map[string]interface{}{
			"job_cid":   p.JobCID,
			"proof_cid": p.ProofCID,
			"miner":     p.Miner,
			"timestamp": num(p.Timestamp),
		}
	}
	return out
}

// archiveSnapshot keeps an operator-local copy of the sealed manifest.
// Failure is non-fatal: the sidecar and content store remain the record.
func (p *Pool) archiveSnapshot(epochID string, doc map[string]interface{}) {
	if p.archive == nil {
		return
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		epochLogger.Warn("failed to encode archive snapshot", "epoch", epochID, "err", err)
		return
	}
	if err := p.archive.Put([]byte("epoch:"+epochID), raw); err != nil {
		epochLogger.Warn("failed to archive sealed epoch", "epoch", epochID, "err", err)
	}
}
