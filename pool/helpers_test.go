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
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SudoSuOps/swarm-genesis/transport"
)

// A fixed, obviously non-production operator key for tests.
const testOperatorKey = "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Unix(1700000000, 0)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fakeTransport records publishes and serves queued inbound messages.
type fakeTransport struct {
	mu        sync.Mutex
	queue     []*transport.Message
	published []publishedMsg
}

type publishedMsg struct {
	Topic   string
	Payload map[string]interface{}
}

func (t *fakeTransport) Subscribe(topics ...string) error { return nil }

func (t *fakeTransport) GetMessage(timeout time.Duration) (*transport.Message, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.queue) == 0 {
		return nil, transport.ErrReceiveTimeout
	}
	msg := t.queue[0]
	t.queue = t.queue[1:]
	return msg, nil
}

func (t *fakeTransport) Publish(topic string, payload interface{}) error {
	doc, ok := payload.(map[string]interface{})
	if !ok {
		return fmt.Errorf("unexpected payload type %T", payload)
	}
	t.mu.Lock()
	t.published = append(t.published, publishedMsg{Topic: topic, Payload: doc})
	t.mu.Unlock()
	return nil
}

func (t *fakeTransport) Close() {}

func (t *fakeTransport) publishedOn(suffix string) []publishedMsg {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []publishedMsg
	for _, m := range t.published {
		if strings.HasSuffix(m.Topic, suffix) {
			out = append(out, m)
		}
	}
	return out
}

// fakeStore is an in-memory content store issuing sequential identifiers.
type fakeStore struct {
	mu      sync.Mutex
	blobs   map[string]map[string]interface{}
	pinned  map[string]bool
	nextCID int
	failing bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		blobs:  make(map[string]map[string]interface{}),
		pinned: make(map[string]bool),
	}
}

func (s *fakeStore) put(cid string, doc map[string]interface{}) {
	s.mu.Lock()
	s.blobs[cid] = doc
	s.mu.Unlock()
}

func (s *fakeStore) FetchJSON(cid string) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.blobs[cid]
	if !ok {
		return nil, fmt.Errorf("no blob at %s", cid)
	}
	return doc, nil
}

func (s *fakeStore) UploadJSON(obj interface{}) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return "", fmt.Errorf("store unavailable")
	}
	s.nextCID++
	cid := fmt.Sprintf("bafyupload%04d", s.nextCID)
	// round trip through JSON to mimic what readers will decode
	raw, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}
	var doc map[string]interface{}
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return "", err
	}
	s.blobs[cid] = doc
	return cid, nil
}

func (s *fakeStore) Pin(cid string) error {
	s.mu.Lock()
	s.pinned[cid] = true
	s.mu.Unlock()
	return nil
}

func (s *fakeStore) uploads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextCID
}

// fakeSidecar is an in-memory rendition of the durable sidecar.
type fakeSidecar struct {
	mu   sync.Mutex
	kv   map[string]string
	list map[string][]string
}

func newFakeSidecar() *fakeSidecar {
	return &fakeSidecar{kv: make(map[string]string), list: make(map[string][]string)}
}

func (s *fakeSidecar) Set(key, val string, ttl time.Duration) error {
	s.mu.Lock()
	s.kv[key] = val
	s.mu.Unlock()
	return nil
}

func (s *fakeSidecar) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.kv[key]
	if !ok {
		return "", fmt.Errorf("no key %s", key)
	}
	return val, nil
}

func (s *fakeSidecar) LPush(key string, values ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range values {
		s.list[key] = append([]string{v}, s.list[key]...)
	}
	return nil
}

func (s *fakeSidecar) LRange(key string, start, stop int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.list[key]
	if start != 0 || stop != -1 {
		return nil, fmt.Errorf("fake sidecar only serves full ranges")
	}
	out := make([]string, len(entries))
	copy(out, entries)
	return out, nil
}

func (s *fakeSidecar) Del(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.kv, k)
		delete(s.list, k)
	}
	return nil
}

// fakeVerifier accepts payloads whose sig field equals "sig:" + the
// identity that actually signed. A claimed identity that differs from the
// signer fails, mirroring recovery-based verification.
type fakeVerifier struct{}

func (v *fakeVerifier) Verify(payload map[string]interface{}, identity string) bool {
	sig, ok := payload["sig"].(string)
	if !ok {
		return false
	}
	return sig == "sig:"+identity
}

type testEnv struct {
	pool    *Pool
	clock   *testClock
	trans   *fakeTransport
	store   *fakeStore
	sidecar *fakeSidecar
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &Config{
		PoolENS:            "hive.eth",
		OperatorPrivateKey: testOperatorKey,
		EpochDuration:      3600 * time.Second,
		ClaimTimeout:       300 * time.Second,
		MinerTimeout:       120 * time.Second,
	}
	trans := &fakeTransport{}
	store := newFakeStore()
	sc := newFakeSidecar()
	p, err := New(cfg, trans, store, sc, &fakeVerifier{}, nil)
	if err != nil {
		t.Fatalf("failed to build pool: %v", err)
	}
	clock := newTestClock()
	p.now = clock.Now

	p.mu.Lock()
	p.openEpoch(clock.Now())
	p.mu.Unlock()

	return &testEnv{pool: p, clock: clock, trans: trans, store: store, sidecar: sc}
}

// register pushes a valid registration through the handler.
func (e *testEnv) register(t *testing.T, identity string) {
	t.Helper()
	e.pool.router.handleRegistration(map[string]interface{}{
		"identity": identity,
		"gpus":     []interface{}{"rtx4090"},
		"models":   []interface{}{"llama3-70b"},
		"mode":     ModeSolo,
		"sig":      "sig:" + identity,
	})
	if e.pool.state.Miners[identity] == nil {
		t.Fatalf("miner %s did not register", identity)
	}
}

// announce stores a signed job blob and pushes its announcement.
func (e *testEnv) announce(t *testing.T, cid, client, reward string) {
	t.Helper()
	e.store.put(cid, map[string]interface{}{
		"job_id":    cid + "-id",
		"job_type":  "inference",
		"model":     "llama3-70b",
		"input_cid": "bafyinput",
		"reward":    json.Number(reward),
		"client":    client,
		"timestamp": json.Number("1700000000"),
		"nonce":     "n-" + cid,
		"sig":       "sig:" + client,
	})
	e.pool.router.handleJob(map[string]interface{}{
		"cid":       cid,
		"client":    client,
		"timestamp": json.Number("1700000000"),
	})
}

// claim pushes a claim through the handler.
func (e *testEnv) claim(t *testing.T, jobCID, miner string) {
	t.Helper()
	e.pool.router.handleClaim(map[string]interface{}{
		"job_cid":   jobCID,
		"miner":     miner,
		"nonce":     "cn-" + jobCID,
		"timestamp": json.Number("1700000001"),
		"sig":       "sig:" + miner,
	})
}

// prove stores a signed proof blob and pushes the proof message.
func (e *testEnv) prove(t *testing.T, jobCID, proofCID, miner string) {
	t.Helper()
	e.store.put(proofCID, map[string]interface{}{
		"job_cid":    jobCID,
		"status":     "completed",
		"output_cid": "bafyout-" + jobCID,
		"metrics": map[string]interface{}{
			"inference_seconds": json.Number("3.2"),
			"confidence":        json.Number("0.97"),
			"model_version":     "llama3-70b-q4",
		},
		"proof_hash": "0xabc123",
		"miner":      miner,
		"sig":        "sig:" + miner,
	})
	e.pool.router.handleProof(map[string]interface{}{
		"job_cid":   jobCID,
		"proof_cid": proofCID,
		"miner":     miner,
		"timestamp": json.Number("1700000002"),
	})
}
