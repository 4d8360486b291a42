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

package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/urfave/cli.v1"

	"github.com/SudoSuOps/swarm-genesis/cmd/utils"
	"github.com/SudoSuOps/swarm-genesis/ens"
	"github.com/SudoSuOps/swarm-genesis/log"
	"github.com/SudoSuOps/swarm-genesis/metrics"
	prometheusmetrics "github.com/SudoSuOps/swarm-genesis/metrics/prometheus"
	"github.com/SudoSuOps/swarm-genesis/pool"
	"github.com/SudoSuOps/swarm-genesis/storage/contentstore"
	"github.com/SudoSuOps/swarm-genesis/storage/database"
	"github.com/SudoSuOps/swarm-genesis/storage/sidecar"
	"github.com/SudoSuOps/swarm-genesis/transport/kafka"
)

var (
	logger = log.NewModuleLogger(log.CMDSwarmd)

	gitCommit = ""

	// The app that holds all commands and flags.
	app = utils.NewApp(gitCommit, "The SwarmPool operator daemon")

	nodeFlags = []cli.Flag{
		utils.PoolENSFlag,
		utils.OperatorKeyFlag,
		utils.OperatorKeyFileFlag,
		utils.EpochDurationFlag,
		utils.ClaimTimeoutFlag,
		utils.MinerTimeoutFlag,
		utils.ContentStoreAPIFlag,
		utils.SidecarURLFlag,
		utils.KafkaBrokersFlag,
		utils.KafkaReplicasFlag,
		utils.ENSResolverFlag,
		utils.PinnedIdentityFlag,
		utils.DataDirFlag,
		utils.MemDBFlag,
		utils.MetricsEnabledFlag,
		utils.PrometheusExporterFlag,
		utils.PrometheusExporterPortFlag,
		utils.VerbosityFlag,
		configFileFlag,
	}
)

func init() {
	app.Action = runSwarmd
	app.HideVersion = true // we have a command to print the version
	app.Copyright = "Copyright 2026 The swarm-genesis Authors"
	app.Commands = []cli.Command{
		versionCommand,
		dumpConfigCommand,
	}
	sort.Sort(cli.CommandsByName(app.Commands))
	app.Flags = append(app.Flags, nodeFlags...)

	app.Before = func(ctx *cli.Context) error {
		runtime.GOMAXPROCS(runtime.NumCPU())
		log.ChangeGlobalLogLevel(log.Lvl(ctx.GlobalInt(utils.VerbosityFlag.Name)))

		metrics.Enabled = ctx.GlobalBool(utils.MetricsEnabledFlag.Name)
		metrics.EnabledPrometheusExport = ctx.GlobalBool(utils.PrometheusExporterFlag.Name)
		if metrics.Enabled {
			logger.Info("Enabling metrics collection")
			if metrics.EnabledPrometheusExport {
				logger.Info("Enabling Prometheus Exporter")
				pClient := prometheusmetrics.NewPrometheusProvider(metrics.DefaultRegistry, "swarmpool",
					"", prometheus.DefaultRegisterer, 3*time.Second)
				go pClient.UpdatePrometheusMetrics()
				http.Handle("/metrics", promhttp.Handler())
				port := ctx.GlobalInt(utils.PrometheusExporterPortFlag.Name)
				go func() {
					err := http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
					if err != nil {
						logger.Error("PrometheusExporter starting failed:", "port", port, "err", err)
					}
				}()
			}
			go metrics.CollectProcessMetrics(3 * time.Second)
		}
		return nil
	}
}

func runSwarmd(ctx *cli.Context) error {
	cfg := makeConfig(ctx)

	broker, err := kafka.New(makeBrokerConfig(ctx, cfg.Pool.PoolENS))
	if err != nil {
		utils.Fatalf("Failed to connect to kafka: %v", err)
	}
	store := contentstore.NewClient(cfg.Pool.ContentStoreAPI)
	sc, err := sidecar.New(cfg.Pool.SidecarURL)
	if err != nil {
		utils.Fatalf("Failed to connect to sidecar: %v", err)
	}

	resolver := ens.NewResolver(ctx.GlobalString(utils.ENSResolverFlag.Name))
	for _, pin := range ctx.GlobalStringSlice(utils.PinnedIdentityFlag.Name) {
		parts := strings.SplitN(pin, "=", 2)
		if len(parts) != 2 {
			utils.Fatalf("Malformed --pin.identity %q, want name=0xaddress", pin)
		}
		resolver.Pin(parts[0], parts[1])
	}

	var archive database.Database
	if cfg.Pool.DataDir != "" {
		dbType := database.LevelDB
		if ctx.GlobalBool(utils.MemDBFlag.Name) {
			dbType = database.MemoryDB
		}
		archive, err = database.NewDatabase(cfg.Pool.DataDir, dbType)
		if err != nil {
			utils.Fatalf("Failed to open snapshot archive: %v", err)
		}
		defer archive.Close()
	}

	daemon, err := pool.New(&cfg.Pool, broker, store, sc, ens.NewVerifier(resolver), archive)
	if err != nil {
		utils.Fatalf("Failed to assemble pool daemon: %v", err)
	}
	if err := daemon.Start(); err != nil {
		utils.Fatalf("Failed to start pool daemon: %v", err)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigc
	logger.Info("Got interrupt, shutting down...", "signal", sig)

	daemon.Stop()
	broker.Close()
	sc.Close()
	return nil
}

func makeBrokerConfig(ctx *cli.Context, groupID string) *kafka.BrokerConfig {
	cfg := kafka.GetDefaultBrokerConfig()
	cfg.Brokers = utils.SplitAndTrim(ctx.GlobalString(utils.KafkaBrokersFlag.Name))
	cfg.GroupID = groupID
	if ctx.GlobalIsSet(utils.KafkaReplicasFlag.Name) {
		cfg.Replicas = int16(ctx.GlobalInt(utils.KafkaReplicasFlag.Name))
	}
	return cfg
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
