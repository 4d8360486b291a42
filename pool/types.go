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
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Miner status values.
const (
	MinerOnline  = "online"
	MinerOffline = "offline"
)

// Epoch status values.
const (
	EpochActive = "active"
	EpochSealed = "sealed"
)

// Miner mode values. Mode is advisory metadata; settlement is by proof
// count either way.
const (
	ModeSolo     = "solo"
	ModeSmoothed = "smoothed"
)

// ClaimEntry is the soft lease a miner holds on a claimed job.
type ClaimEntry struct {
	Miner     string
	ClaimedAt time.Time
	TimeoutAt time.Time
}

// MinerInfo is the daemon-side record of a registered miner. Miners are
// never evicted; offline ones are retained for statistics and
// re-registration.
type MinerInfo struct {
	Identity      string
	RegisteredAt  time.Time
	LastHeartbeat time.Time
	GPUs          []string
	Models        []string
	Mode          string
	JobsCompleted uint64
	Status        string
}

// ProofEntry is one accepted proof in an epoch log. Entries are durable:
// once appended they are never deleted.
type ProofEntry struct {
	JobCID    string `json:"job_cid"`
	ProofCID  string `json:"proof_cid"`
	Miner     string `json:"miner"`
	Timestamp int64  `json:"timestamp"`
}

func (p ProofEntry) marshal() (string, error) {
	raw, err := json.Marshal(p)
	return string(raw), err
}

// Epoch is the interval proofs accumulate over.
type Epoch struct {
	ID      string
	Name    string
	OpenAt  time.Time
	CloseAt time.Time // zero until sealed
	Status  string
	Jobs    uint64
	Volume  decimal.Decimal
	Proofs  []ProofEntry
}

func (e *Epoch) doc() map[string]interface{} {
	proofs := make([]interface{}, len(e.Proofs))
	for i, p := range e.Proofs {
		proofs[i] = map[string]interface{}{
			"job_cid":   p.JobCID,
			"proof_cid": p.ProofCID,
			"miner":     p.Miner,
			"timestamp": num(p.Timestamp),
		}
	}
	return map[string]interface{}{
		"epoch_id": e.ID,
		"name":     e.Name,
		"open_at":  num(e.OpenAt.Unix()),
		"jobs":     num(int64(e.Jobs)),
		"proofs":   proofs,
		"volume":   e.Volume.String(),
	}
}

// num renders an integer for canonical serialization.
func num(i int64) json.Number {
	return json.Number(strconv.FormatInt(i, 10))
}

// docString reads a non-empty string field from a tolerant document.
func docString(doc map[string]interface{}, key string) (string, bool) {
	v, ok := doc[key].(string)
	return v, ok && v != ""
}

// docDecimal reads a reward-like amount that may arrive as JSON number or
// string.
func docDecimal(doc map[string]interface{}, key string) (decimal.Decimal, bool) {
	switch v := doc[key].(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(v)
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}

// docStrings reads an optional list-of-strings field.
func docStrings(doc map[string]interface{}, key string) []string {
	raw, ok := doc[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
