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

package crypto

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeccak256KnownVector(t *testing.T) {
	// keccak256("") is the well-known empty digest
	assert.Equal(t,
		"c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		hex.EncodeToString(Keccak256(nil)))
}

func TestSignRecoverRoundTrip(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	digest := Keccak256([]byte("canonical payload bytes"))
	sig, err := key.Sign(digest)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sig, "0x"))
	assert.Len(t, sig, 2+2*SignatureLength)

	recovered, err := Ecrecover(digest, sig)
	require.NoError(t, err)
	assert.Equal(t, strings.ToLower(key.Address()), strings.ToLower(recovered))
}

func TestRecoverDifferentDigestYieldsDifferentAddress(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	sig, err := key.Sign(Keccak256([]byte("payload one")))
	require.NoError(t, err)

	recovered, err := Ecrecover(Keccak256([]byte("payload two")), sig)
	if err == nil {
		assert.NotEqual(t, strings.ToLower(key.Address()), strings.ToLower(recovered))
	}
}

func TestHexToPrivateKeyRejectsBadInput(t *testing.T) {
	for _, input := range []string{
		"",
		"0x",
		"0xdeadbeef", // too short
		"0x" + strings.Repeat("00", 32), // zero scalar
	} {
		_, err := HexToPrivateKey(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestHexToPrivateKeyAcceptsPrefixedAndBare(t *testing.T) {
	const scalar = "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
	withPrefix, err := HexToPrivateKey("0x" + scalar)
	require.NoError(t, err)
	bare, err := HexToPrivateKey(scalar)
	require.NoError(t, err)
	assert.Equal(t, withPrefix.Address(), bare.Address())
}

func TestEcrecoverRejectsMalformedSignature(t *testing.T) {
	digest := Keccak256([]byte("x"))
	_, err := Ecrecover(digest, "0x1234")
	assert.Equal(t, ErrInvalidSignature, err)
}

func TestSignRequires32ByteDigest(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)
	_, err = key.Sign([]byte("short"))
	assert.Error(t, err)
}
