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

// Package ens resolves ENS identities and verifies payload signatures
// against them.
package ens

import (
	"strings"

	"github.com/SudoSuOps/swarm-genesis/common"
	"github.com/SudoSuOps/swarm-genesis/crypto"
	"github.com/SudoSuOps/swarm-genesis/log"
)

var logger = log.NewModuleLogger(log.ENS)

// Verifier answers whether a signed payload resolves to the claimed
// identity. Canonicalization and sig stripping happen here, symmetric with
// the daemon's own snapshot signing.
type Verifier struct {
	resolver *Resolver
}

func NewVerifier(resolver *Resolver) *Verifier {
	return &Verifier{resolver: resolver}
}

// Verify recovers the signer of payload and checks it against identity.
// identity may be an ENS name or a bare 0x address.
func (v *Verifier) Verify(payload map[string]interface{}, identity string) bool {
	sig, ok := payload[common.SigField].(string)
	if !ok || sig == "" {
		return false
	}
	canonical, err := common.Canonicalize(payload)
	if err != nil {
		logger.Debug("canonicalization failed", "identity", identity, "err", err)
		return false
	}
	recovered, err := crypto.Ecrecover(crypto.Keccak256(canonical), sig)
	if err != nil {
		logger.Debug("signature recovery failed", "identity", identity, "err", err)
		return false
	}

	bound := identity
	if !common.Has0xPrefix(identity) {
		bound, err = v.resolver.Resolve(identity)
		if err != nil {
			logger.Debug("identity resolution failed", "identity", identity, "err", err)
			return false
		}
	}
	return strings.EqualFold(recovered, bound)
}
