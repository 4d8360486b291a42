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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SudoSuOps/swarm-genesis/ens"
)

func TestNewSignerRequiresKey(t *testing.T) {
	_, err := NewSigner("")
	assert.Error(t, err)

	_, err = NewSigner("zz-not-hex")
	assert.Error(t, err)
}

func TestSignedSnapshotVerifiesAgainstOperator(t *testing.T) {
	signer, err := NewSigner(testOperatorKey)
	require.NoError(t, err)

	doc := map[string]interface{}{
		"type":         "pool_state",
		"version":      "1.0",
		"pool":         "hive.eth",
		"total_jobs":   json.Number("3"),
		"total_volume": "4.25",
	}
	require.NoError(t, signer.SignDocument(doc))
	require.NotEmpty(t, doc["sig"])

	resolver := ens.NewResolver("")
	resolver.Pin("hive.eth", signer.Address())
	verifier := ens.NewVerifier(resolver)

	assert.True(t, verifier.Verify(doc, "hive.eth"))
	assert.True(t, verifier.Verify(doc, signer.Address()))

	// any mutation invalidates the signature
	doc["total_jobs"] = json.Number("4")
	assert.False(t, verifier.Verify(doc, "hive.eth"))
}

func TestSignDocumentDeterministicAcrossKeyOrder(t *testing.T) {
	signer, err := NewSigner(testOperatorKey)
	require.NoError(t, err)

	a := map[string]interface{}{"x": "1", "y": "2", "z": map[string]interface{}{"k": "v", "j": "w"}}
	b := map[string]interface{}{"z": map[string]interface{}{"j": "w", "k": "v"}, "y": "2", "x": "1"}

	require.NoError(t, signer.SignDocument(a))
	require.NoError(t, signer.SignDocument(b))
	assert.Equal(t, a["sig"], b["sig"])
}
