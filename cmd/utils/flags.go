// Copyright 2026 The swarm-genesis Authors
// This file is part of swarm-genesis.
//
// swarm-genesis is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// swarm-genesis is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with swarm-genesis. If not, see <http://www.gnu.org/licenses/>.

package utils

import (
	"io/ioutil"
	"strings"
	"time"

	"gopkg.in/urfave/cli.v1"

	"github.com/SudoSuOps/swarm-genesis/pool"
)

var (
	PoolENSFlag = cli.StringFlag{
		Name:  "pool",
		Usage: "Pool ENS identity, used as topic namespace and signed into snapshots",
	}
	OperatorKeyFlag = cli.StringFlag{
		Name:  "operatorkey",
		Usage: "Operator private key as hex (for testing only; prefer --operatorkeyfile)",
	}
	OperatorKeyFileFlag = cli.StringFlag{
		Name:  "operatorkeyfile",
		Usage: "File containing the operator private key as hex",
	}
	EpochDurationFlag = cli.IntFlag{
		Name:  "epochduration",
		Usage: "Epoch seal cadence in seconds",
		Value: 3600,
	}
	ClaimTimeoutFlag = cli.IntFlag{
		Name:  "claimtimeout",
		Usage: "Claim reclamation horizon in seconds",
		Value: 300,
	}
	MinerTimeoutFlag = cli.IntFlag{
		Name:  "minertimeout",
		Usage: "Heartbeat staleness threshold in seconds for the offline transition",
		Value: 120,
	}
	ContentStoreAPIFlag = cli.StringFlag{
		Name:  "contentstore",
		Usage: "Address of the content-store API",
		Value: "http://127.0.0.1:5001",
	}
	SidecarURLFlag = cli.StringFlag{
		Name:  "sidecar",
		Usage: "URL of the durable sidecar",
		Value: "redis://127.0.0.1:6379/0",
	}
	KafkaBrokersFlag = cli.StringFlag{
		Name:  "kafka.brokers",
		Usage: "Comma separated kafka broker URLs",
		Value: "127.0.0.1:9092",
	}
	KafkaReplicasFlag = cli.IntFlag{
		Name:  "kafka.replicas",
		Usage: "Replication factor for pool topics",
		Value: 1,
	}
	ENSResolverFlag = cli.StringFlag{
		Name:  "ensresolver",
		Usage: "Address of the ENS resolver gateway (empty restricts to pinned identities)",
	}
	PinnedIdentityFlag = cli.StringSliceFlag{
		Name:  "pin.identity",
		Usage: "Pin an identity binding as name=0xaddress (repeatable)",
	}
	DataDirFlag = cli.StringFlag{
		Name:  "datadir",
		Usage: "Directory for the local sealed-snapshot archive (empty disables it)",
	}
	MemDBFlag = cli.BoolFlag{
		Name:  "memdb",
		Usage: "Keep the snapshot archive in memory instead of leveldb",
	}
	MetricsEnabledFlag = cli.BoolFlag{
		Name:  "metrics",
		Usage: "Enable metrics collection and reporting",
	}
	PrometheusExporterFlag = cli.BoolFlag{
		Name:  "prometheus",
		Usage: "Enable the prometheus exporter",
	}
	PrometheusExporterPortFlag = cli.IntFlag{
		Name:  "prometheusport",
		Usage: "Prometheus exporter listening port",
		Value: 61001,
	}
	VerbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value: 3,
	}
)

// SetPoolConfig applies command line overrides to the daemon config.
func SetPoolConfig(ctx *cli.Context, cfg *pool.Config) {
	if ctx.GlobalIsSet(PoolENSFlag.Name) {
		cfg.PoolENS = ctx.GlobalString(PoolENSFlag.Name)
	}
	if ctx.GlobalIsSet(OperatorKeyFlag.Name) {
		cfg.OperatorPrivateKey = ctx.GlobalString(OperatorKeyFlag.Name)
	}
	if file := ctx.GlobalString(OperatorKeyFileFlag.Name); file != "" {
		raw, err := ioutil.ReadFile(file)
		if err != nil {
			Fatalf("Failed to read operator key file: %v", err)
		}
		cfg.OperatorPrivateKey = strings.TrimSpace(string(raw))
	}
	if ctx.GlobalIsSet(EpochDurationFlag.Name) {
		cfg.EpochDuration = time.Duration(ctx.GlobalInt(EpochDurationFlag.Name)) * time.Second
	}
	if ctx.GlobalIsSet(ClaimTimeoutFlag.Name) {
		cfg.ClaimTimeout = time.Duration(ctx.GlobalInt(ClaimTimeoutFlag.Name)) * time.Second
	}
	if ctx.GlobalIsSet(MinerTimeoutFlag.Name) {
		cfg.MinerTimeout = time.Duration(ctx.GlobalInt(MinerTimeoutFlag.Name)) * time.Second
	}
	if v := ctx.GlobalString(ContentStoreAPIFlag.Name); v != "" && (ctx.GlobalIsSet(ContentStoreAPIFlag.Name) || cfg.ContentStoreAPI == "") {
		cfg.ContentStoreAPI = v
	}
	if v := ctx.GlobalString(SidecarURLFlag.Name); v != "" && (ctx.GlobalIsSet(SidecarURLFlag.Name) || cfg.SidecarURL == "") {
		cfg.SidecarURL = v
	}
	if ctx.GlobalIsSet(DataDirFlag.Name) {
		cfg.DataDir = ctx.GlobalString(DataDirFlag.Name)
	}
}

// SplitAndTrim splits input separated by a comma and trims excessive white
// space from the substrings.
func SplitAndTrim(input string) []string {
	result := strings.Split(input, ",")
	for i, r := range result {
		result[i] = strings.TrimSpace(r)
	}
	return result
}
