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

package ens

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SudoSuOps/swarm-genesis/common"
	"github.com/SudoSuOps/swarm-genesis/crypto"
)

func signedPayload(t *testing.T, key *crypto.PrivateKey) map[string]interface{} {
	t.Helper()
	payload := map[string]interface{}{
		"job_id":    "job-1",
		"job_type":  "inference",
		"model":     "llama3-70b",
		"reward":    json.Number("1.25"),
		"timestamp": json.Number("1700000000"),
		"nonce":     "abc123",
	}
	canonical, err := common.Canonicalize(payload)
	require.NoError(t, err)
	sig, err := key.Sign(crypto.Keccak256(canonical))
	require.NoError(t, err)
	payload["sig"] = sig
	return payload
}

func TestVerifyPinnedIdentity(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	resolver := NewResolver("")
	resolver.Pin("alice.eth", key.Address())
	verifier := NewVerifier(resolver)

	payload := signedPayload(t, key)
	assert.True(t, verifier.Verify(payload, "alice.eth"))
}

func TestVerifyBareAddressIdentity(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	verifier := NewVerifier(NewResolver(""))

	payload := signedPayload(t, key)
	assert.True(t, verifier.Verify(payload, key.Address()))
}

func TestVerifyRejectsWrongIdentity(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	other, err := crypto.GenerateKey()
	require.NoError(t, err)

	resolver := NewResolver("")
	resolver.Pin("alice.eth", other.Address())
	verifier := NewVerifier(resolver)

	// signed by key, claimed as alice who is bound to another address
	payload := signedPayload(t, key)
	assert.False(t, verifier.Verify(payload, "alice.eth"))
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	verifier := NewVerifier(NewResolver(""))

	payload := signedPayload(t, key)
	payload["reward"] = json.Number("99.99")
	assert.False(t, verifier.Verify(payload, key.Address()))
}

func TestVerifyRejectsMissingSignature(t *testing.T) {
	verifier := NewVerifier(NewResolver(""))
	assert.False(t, verifier.Verify(map[string]interface{}{"f": "v"}, "alice.eth"))
}

func TestVerifyRejectsUnresolvableName(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	verifier := NewVerifier(NewResolver(""))
	payload := signedPayload(t, key)
	assert.False(t, verifier.Verify(payload, "nobody.eth"))
}
