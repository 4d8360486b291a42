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
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SudoSuOps/swarm-genesis/transport"
)

func TestJobClaimProofLifecycle(t *testing.T) {
	env := newTestEnv(t)

	env.register(t, "alice.eth")
	env.announce(t, "bafyjob1", "client.eth", "1.00")
	env.claim(t, "bafyjob1", "alice.eth")
	env.prove(t, "bafyjob1", "bafyproof1", "alice.eth")

	state := env.pool.state
	assert.Equal(t, uint64(1), state.TotalProofs)
	require.Len(t, state.Epoch.Proofs, 1)
	assert.Equal(t, "bafyjob1", state.Epoch.Proofs[0].JobCID)
	assert.Equal(t, "bafyproof1", state.Epoch.Proofs[0].ProofCID)
	assert.Equal(t, "alice.eth", state.Epoch.Proofs[0].Miner)
	assert.Equal(t, uint64(1), state.Miners["alice.eth"].JobsCompleted)

	// the claim is retired and the job is no longer pending
	assert.Nil(t, state.Claimed["bafyjob1"])
	assert.False(t, state.IsPending("bafyjob1"))

	// durable proof log got the entry
	entries, err := env.sidecar.LRange("pool:epoch:"+state.Epoch.ID+":proofs", 0, -1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	var logged ProofEntry
	require.NoError(t, json.Unmarshal([]byte(entries[0]), &logged))
	assert.Equal(t, "bafyproof1", logged.ProofCID)

	// announcements went out
	assert.Len(t, env.trans.publishedOn("jobs/new"), 1)
	assert.Len(t, env.trans.publishedOn("claims/accepted"), 1)
	assert.Len(t, env.trans.publishedOn("proofs/accepted"), 1)
}

func TestClaimArbitrationFirstObservedWins(t *testing.T) {
	env := newTestEnv(t)

	env.register(t, "alice.eth")
	env.register(t, "bob.eth")
	env.announce(t, "bafyjob1", "client.eth", "1.00")

	env.claim(t, "bafyjob1", "alice.eth")
	env.claim(t, "bafyjob1", "bob.eth")

	claim := env.pool.state.Claimed["bafyjob1"]
	require.NotNil(t, claim)
	assert.Equal(t, "alice.eth", claim.Miner)
	// bob's claim was dropped silently: only one acceptance announced
	assert.Len(t, env.trans.publishedOn("claims/accepted"), 1)
}

func TestDuplicateAnnouncementIsNoop(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 5; i++ {
		env.announce(t, "bafyjob1", "client.eth", "2.50")
	}

	state := env.pool.state
	assert.Equal(t, uint64(1), state.TotalJobs)
	assert.Equal(t, "2.5", state.TotalVolume.String())
	assert.Equal(t, []string{"bafyjob1"}, state.PendingJobs())
	assert.Len(t, env.trans.publishedOn("jobs/new"), 1)
}

func TestAnnouncementSignerMismatchDropped(t *testing.T) {
	env := newTestEnv(t)

	// blob signed by carol, announcement claims alice
	env.store.put("bafyjob1", map[string]interface{}{
		"job_type": "inference",
		"model":    "llama3-70b",
		"reward":   json.Number("1.00"),
		"client":   "alice.eth",
		"sig":      "sig:carol.eth",
	})
	env.pool.router.handleJob(map[string]interface{}{
		"cid":    "bafyjob1",
		"client": "alice.eth",
	})

	assert.Equal(t, uint64(0), env.pool.state.TotalJobs)
	assert.Empty(t, env.pool.state.PendingJobs())
	assert.Empty(t, env.trans.publishedOn("jobs/new"))
}

func TestAnnouncementStructuralChecks(t *testing.T) {
	env := newTestEnv(t)

	for name, blob := range map[string]map[string]interface{}{
		"missing job_type": {
			"model":  "llama3-70b",
			"reward": json.Number("1.00"),
			"sig":    "sig:client.eth",
		},
		"missing model": {
			"job_type": "inference",
			"reward":   json.Number("1.00"),
			"sig":      "sig:client.eth",
		},
		"unparsable reward": {
			"job_type": "inference",
			"model":    "llama3-70b",
			"reward":   json.Number("not-a-number"),
			"sig":      "sig:client.eth",
		},
	} {
		cid := "bafybad-" + name
		env.store.put(cid, blob)
		env.pool.router.handleJob(map[string]interface{}{"cid": cid, "client": "client.eth"})
		assert.False(t, env.pool.state.Tracked(cid), name)
	}
	assert.Equal(t, uint64(0), env.pool.state.TotalJobs)
}

func TestAnnouncementFetchMissDropped(t *testing.T) {
	env := newTestEnv(t)

	env.pool.router.handleJob(map[string]interface{}{
		"cid":    "bafymissing",
		"client": "client.eth",
	})
	assert.Equal(t, uint64(0), env.pool.state.TotalJobs)
	assert.Empty(t, env.trans.publishedOn("jobs/new"))
}

func TestClaimRequiresPendingJobAndKnownMiner(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice.eth")

	// claim on unknown job
	env.claim(t, "bafyghost", "alice.eth")
	assert.Nil(t, env.pool.state.Claimed["bafyghost"])

	// claim from unregistered miner
	env.announce(t, "bafyjob1", "client.eth", "1.00")
	env.claim(t, "bafyjob1", "mallory.eth")
	assert.Nil(t, env.pool.state.Claimed["bafyjob1"])
	assert.True(t, env.pool.state.IsPending("bafyjob1"))
}

func TestClaimBadSignatureLeavesStateUntouched(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice.eth")
	env.announce(t, "bafyjob1", "client.eth", "1.00")

	env.pool.router.handleClaim(map[string]interface{}{
		"job_cid":   "bafyjob1",
		"miner":     "alice.eth",
		"nonce":     "n1",
		"timestamp": json.Number("1700000001"),
		"sig":       "sig:bob.eth", // recovers to someone else
	})

	assert.True(t, env.pool.state.IsPending("bafyjob1"))
	assert.Empty(t, env.pool.state.Claimed)
}

func TestProofFromNonClaimantDropped(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice.eth")
	env.register(t, "bob.eth")
	env.announce(t, "bafyjob1", "client.eth", "1.00")
	env.claim(t, "bafyjob1", "alice.eth")

	env.prove(t, "bafyjob1", "bafyproofX", "bob.eth")

	assert.Equal(t, uint64(0), env.pool.state.TotalProofs)
	require.NotNil(t, env.pool.state.Claimed["bafyjob1"])
	assert.Equal(t, "alice.eth", env.pool.state.Claimed["bafyjob1"].Miner)
}

func TestProofMissingFieldsDropped(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice.eth")
	env.announce(t, "bafyjob1", "client.eth", "1.00")
	env.claim(t, "bafyjob1", "alice.eth")

	// proof blob lacks proof_hash and metrics
	env.store.put("bafyproof1", map[string]interface{}{
		"job_cid":    "bafyjob1",
		"status":     "completed",
		"output_cid": "bafyout",
		"sig":        "sig:alice.eth",
	})
	env.pool.router.handleProof(map[string]interface{}{
		"job_cid":   "bafyjob1",
		"proof_cid": "bafyproof1",
		"miner":     "alice.eth",
	})

	assert.Equal(t, uint64(0), env.pool.state.TotalProofs)
	assert.NotNil(t, env.pool.state.Claimed["bafyjob1"])
}

func TestProofJobMismatchDropped(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice.eth")
	env.announce(t, "bafyjob1", "client.eth", "1.00")
	env.announce(t, "bafyjob2", "client.eth", "1.00")
	env.claim(t, "bafyjob1", "alice.eth")

	// blob declares a different job than the message
	env.store.put("bafyproof1", map[string]interface{}{
		"job_cid":    "bafyjob2",
		"status":     "completed",
		"output_cid": "bafyout",
		"metrics":    map[string]interface{}{"confidence": json.Number("0.9")},
		"proof_hash": "0xdead",
		"sig":        "sig:alice.eth",
	})
	env.pool.router.handleProof(map[string]interface{}{
		"job_cid":   "bafyjob1",
		"proof_cid": "bafyproof1",
		"miner":     "alice.eth",
	})

	assert.Equal(t, uint64(0), env.pool.state.TotalProofs)
}

func TestRegistrationPreservesCompletedJobs(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice.eth")
	env.announce(t, "bafyjob1", "client.eth", "1.00")
	env.claim(t, "bafyjob1", "alice.eth")
	env.prove(t, "bafyjob1", "bafyproof1", "alice.eth")
	require.Equal(t, uint64(1), env.pool.state.Miners["alice.eth"].JobsCompleted)

	env.register(t, "alice.eth")
	assert.Equal(t, uint64(1), env.pool.state.Miners["alice.eth"].JobsCompleted)
	assert.Equal(t, MinerOnline, env.pool.state.Miners["alice.eth"].Status)
}

func TestRegistrationBadSignatureDropped(t *testing.T) {
	env := newTestEnv(t)
	env.pool.router.handleRegistration(map[string]interface{}{
		"identity": "alice.eth",
		"sig":      "sig:mallory.eth",
	})
	assert.Nil(t, env.pool.state.Miners["alice.eth"])
}

func TestHeartbeatUnknownMinerIgnored(t *testing.T) {
	env := newTestEnv(t)
	env.pool.router.handleHeartbeat(map[string]interface{}{
		"miner": "ghost.eth",
		"sig":   "sig:ghost.eth",
	})
	assert.Empty(t, env.pool.state.Miners)
}

func TestDispatchByTopicSubstring(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice.eth")

	hb, _ := json.Marshal(map[string]interface{}{
		"miner": "alice.eth",
		"sig":   "sig:alice.eth",
	})
	before := env.pool.state.Miners["alice.eth"].LastHeartbeat
	env.clock.Advance(30 * time.Second)

	env.pool.router.dispatch(&transport.Message{Topic: "hive.eth/heartbeats", Data: hb})
	after := env.pool.state.Miners["alice.eth"].LastHeartbeat
	assert.True(t, after.After(before))
}
