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

package log

// ModuleID identifies the subsystem a logger belongs to. The id is attached
// to every record the logger emits so operators can filter per module.
type ModuleID int

const (
	ModuleNone ModuleID = iota
	CMDSwarmd
	CmdUtils
	Common
	Crypto
	Pool
	PoolEpoch
	PoolRouter
	PoolSupervisor
	TransportKafka
	StorageContentStore
	StorageSidecar
	StorageDatabase
	ENS
	ModuleLast
)

var moduleNames = [ModuleLast]string{
	ModuleNone:          "none",
	CMDSwarmd:           "cmd/swarmd",
	CmdUtils:            "cmd/utils",
	Common:              "common",
	Crypto:              "crypto",
	Pool:                "pool",
	PoolEpoch:           "pool/epoch",
	PoolRouter:          "pool/router",
	PoolSupervisor:      "pool/supervisor",
	TransportKafka:      "transport/kafka",
	StorageContentStore: "storage/contentstore",
	StorageSidecar:      "storage/sidecar",
	StorageDatabase:     "storage/database",
	ENS:                 "ens",
}

func (m ModuleID) String() string {
	if m < ModuleNone || m >= ModuleLast {
		return "unknown"
	}
	return moduleNames[m]
}
