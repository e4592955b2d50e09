// Copyright (c) 2024 The Pylon developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/inconshreveable/log15"
	"gopkg.in/urfave/cli.v1"

	"github.com/pylonchain/pylon/api"
	"github.com/pylonchain/pylon/delegation"
	"github.com/pylonchain/pylon/metrics"
	"github.com/pylonchain/pylon/monitor"
	"github.com/pylonchain/pylon/pylon"
)

var (
	version   string
	gitCommit string
	gitTag    string

	log = log15.New()
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Pylon",
		Usage:     "Heavyweight delegation index service for the Pylon network",
		Copyright: "2024 The Pylon developers",
		Flags: []cli.Flag{
			dataDirFlag,
			apiAddrFlag,
			apiCorsFlag,
			verbosityFlag,
			enableMetricsFlag,
			cacheFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "dump",
				Usage: "Print all stored delegation certificates as JSON lines",
				Flags: []cli.Flag{
					dataDirFlag,
					verbosityFlag,
				},
				Action: dumpAction,
			},
			{
				Name:      "resolve",
				Usage:     "Resolve the delegation forest rooted at the given stakeholder ids",
				ArgsUsage: "ID [ID...]",
				Flags: []cli.Flag{
					dataDirFlag,
					verbosityFlag,
				},
				Action: resolveAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	dataDir := makeDataDir(ctx)
	db := openMainDB(ctx, dataDir)
	defer func() { log.Info("closing certificate database..."); db.Close() }()

	idx := delegation.New(db, delegation.Options{
		CertCacheSize: ctx.Int(cacheFlag.Name),
	})
	mon := monitor.New(monitor.DefaultStaleTipLimit)

	handler := api.New(idx, mon, api.Options{
		AllowedOrigins: ctx.String(apiCorsFlag.Name),
		EnableMetrics:  ctx.Bool(enableMetricsFlag.Name),
	})
	url, closeAPI, err := startAPIServer(ctx, handler)
	if err != nil {
		return err
	}
	defer func() { log.Info("stopping API server..."); closeAPI() }()

	log.Info("starting Pylon",
		"version", fullVersion(),
		"dataDir", dataDir,
		"apiURL", url,
	)

	exitCtx := handleExitSignal()
	<-exitCtx.Done()
	return nil
}

func dumpAction(ctx *cli.Context) error {
	initLogger(ctx)
	db := openMainDB(ctx, makeDataDir(ctx))
	defer db.Close()

	idx := delegation.New(db, delegation.Options{})
	enc := json.NewEncoder(os.Stdout)
	return idx.View(func(r *delegation.Reader) error {
		it := r.NewIterator()
		defer it.Release()
		for it.Next() {
			if err := enc.Encode(it.Certificate()); err != nil {
				return err
			}
		}
		return it.Error()
	})
}

func resolveAction(ctx *cli.Context) error {
	initLogger(ctx)
	if ctx.NArg() < 1 {
		return cli.NewExitError("at least one stakeholder id required", 1)
	}
	roots := make([]pylon.StakeholderID, 0, ctx.NArg())
	for _, arg := range ctx.Args() {
		id, err := pylon.ParseStakeholderID(arg)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("invalid stakeholder id [%v]: %v", arg, err), 1)
		}
		roots = append(roots, id)
	}

	db := openMainDB(ctx, makeDataDir(ctx))
	defer db.Close()

	idx := delegation.New(db, delegation.Options{})
	return idx.View(func(r *delegation.Reader) error {
		mapping, err := r.ResolveForest(roots)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		out := make(map[string]*delegation.Certificate, len(mapping))
		for issuer, cert := range mapping {
			out[issuer.StakeholderID().String()] = cert
		}
		return enc.Encode(out)
	})
}
