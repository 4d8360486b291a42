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
	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"

	"github.com/SudoSuOps/swarm-genesis/common"
)

// SignatureLength is r || s || v, v in {0, 1}.
const SignatureLength = 65

var (
	ErrInvalidKey       = errors.New("invalid secp256k1 private key")
	ErrInvalidSignature = errors.New("invalid signature encoding")
)

// PrivateKey wraps a secp256k1 scalar; Address derives its address on demand.
type PrivateKey struct {
	key *btcec.PrivateKey
}

// Keccak256 computes the legacy Keccak-256 digest of the concatenated input.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// HexToPrivateKey parses a 32-byte hex scalar, with or without 0x prefix.
func HexToPrivateKey(hexkey string) (*PrivateKey, error) {
	raw := common.Hex2Bytes(common.Strip0x(hexkey))
	if len(raw) != 32 {
		return nil, ErrInvalidKey
	}
	key, _ := btcec.PrivKeyFromBytes(raw)
	if key.Key.IsZero() {
		return nil, ErrInvalidKey
	}
	return &PrivateKey{key: key}, nil
}

// Address returns the 0x-prefixed hex address bound to the key, derived as
// the trailing twenty bytes of the Keccak-256 digest of the public key.
func (p *PrivateKey) Address() string {
	return PubkeyToAddress(p.key.PubKey())
}

// Sign produces a 65-byte r || s || v signature over the 32-byte digest,
// hex encoded with a 0x prefix.
func (p *PrivateKey) Sign(digest []byte) (string, error) {
	if len(digest) != 32 {
		return "", errors.Errorf("digest must be 32 bytes, got %d", len(digest))
	}
	compact, err := btcecdsa.SignCompact(p.key, digest, false)
	if err != nil {
		return "", errors.Wrap(err, "sign compact")
	}
	// btcec emits the recovery byte first; rotate to r || s || v.
	sig := make([]byte, SignatureLength)
	copy(sig, compact[1:])
	sig[64] = compact[0] - 27
	return "0x" + common.Bytes2Hex(sig), nil
}

// Ecrecover returns the 0x-prefixed address that produced sig over digest.
func Ecrecover(digest []byte, sig string) (string, error) {
	raw := common.Hex2Bytes(common.Strip0x(sig))
	if len(raw) != SignatureLength {
		return "", ErrInvalidSignature
	}
	v := raw[64]
	if v >= 27 {
		v -= 27
	}
	compact := make([]byte, SignatureLength)
	compact[0] = v + 27
	copy(compact[1:], raw[:64])
	pub, _, err := btcecdsa.RecoverCompact(compact, digest)
	if err != nil {
		return "", errors.Wrap(err, "recover compact")
	}
	return PubkeyToAddress(pub), nil
}

// PubkeyToAddress derives the 0x-prefixed hex address of a public key.
func PubkeyToAddress(pub *btcec.PublicKey) string {
	uncompressed := pub.SerializeUncompressed()
	digest := Keccak256(uncompressed[1:])
	return "0x" + common.Bytes2Hex(digest[12:])
}

// GenerateKey creates a fresh random private key. Test helper and keyfile
// bootstrap only; the operator key normally arrives via configuration.
func GenerateKey() (*PrivateKey, error) {
	key, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "generate key")
	}
	return &PrivateKey{key: key}, nil
}
