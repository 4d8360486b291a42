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
	"github.com/pkg/errors"

	"github.com/SudoSuOps/swarm-genesis/common"
	"github.com/SudoSuOps/swarm-genesis/crypto"
)

// Signer signs every outgoing snapshot and announcement with the operator
// key. Canonicalization mirrors what external verifiers expect: sig field
// stripped, keys sorted at every level, no insignificant whitespace.
type Signer struct {
	key     *crypto.PrivateKey
	address string
}

// NewSigner parses the operator key. A missing or malformed key is fatal
// to startup.
func NewSigner(hexkey string) (*Signer, error) {
	if hexkey == "" {
		return nil, errors.New("pool: operator private key not configured")
	}
	key, err := crypto.HexToPrivateKey(hexkey)
	if err != nil {
		return nil, errors.Wrap(err, "operator private key")
	}
	return &Signer{key: key, address: key.Address()}, nil
}

// Address is the operator's derived 0x address.
func (s *Signer) Address() string {
	return s.address
}

// SignDocument canonicalizes doc and stores the signature in its sig field.
func (s *Signer) SignDocument(doc map[string]interface{}) error {
	canonical, err := common.Canonicalize(doc)
	if err != nil {
		return errors.Wrap(err, "canonicalize")
	}
	sig, err := s.key.Sign(crypto.Keccak256(canonical))
	if err != nil {
		return errors.Wrap(err, "sign")
	}
	doc[common.SigField] = sig
	return nil
}
