//go:build windows

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Microsoft/go-winio"
	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"
	"go.opencensus.io/trace"

	"github.com/vss-tools/vsswriters/internal/oc"
	"github.com/vss-tools/vsswriters/internal/vss"
	"github.com/vss-tools/vsswriters/internal/winapi"
)

// Flag names.
const (
	debugFlagName   = "debug"
	traceFlagName   = "trace"
	jsonFlagName    = "json"
	verboseFlagName = "verbose"
)

func main() {
	if err := app().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func app() *cli.App {
	return &cli.App{
		Name:  "vsswriters",
		Usage: "List Volume Shadow Copy Service writers and their state",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  debugFlagName,
				Usage: "Enable debug logs",
			},
			&cli.BoolFlag{
				Name:  traceFlagName,
				Usage: "Enable trace logs (implies debug logs)",
			},
			&cli.BoolFlag{
				Name:  jsonFlagName,
				Usage: "Emit writer records as JSON instead of the text listing",
			},
			&cli.BoolFlag{
				Name:    verboseFlagName,
				Aliases: []string{"v"},
				Usage:   "Also print writer state and failure lines",
			},
		},
		Before: setup,
		Action: listWriters,
	}
}

func setup(cCtx *cli.Context) error {
	if !winapi.IsElevated() {
		return fmt.Errorf("%s must be run in an elevated context", cCtx.App.Name)
	}

	// configure logging/tracing
	trace.ApplyConfig(trace.Config{DefaultSampler: oc.DefaultSampler})
	trace.RegisterExporter(&oc.LogrusExporter{})

	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl := logrus.WarnLevel
	if cCtx.Bool(traceFlagName) {
		if cCtx.Bool(debugFlagName) {
			logrus.Warn(`"debug" and "trace" flags are mutually exclusive`)
		}
		lvl = logrus.TraceLevel
	} else if cCtx.Bool(debugFlagName) {
		lvl = logrus.DebugLevel
	}
	logrus.SetLevel(lvl)

	// Elevation is usually enough to query writer status, so a missing
	// backup privilege is not fatal.
	if err := winio.EnableProcessPrivileges([]string{winio.SeBackupPrivilege}); err != nil {
		logrus.WithError(err).Warning("could not enable " + winio.SeBackupPrivilege)
	}
	return nil
}

func listWriters(cCtx *cli.Context) error {
	writers, err := vss.EnumerateWriters(cCtx.Context)
	if err != nil {
		err = fmt.Errorf("enumerate VSS writers: %w", err)
	}

	if cCtx.Bool(jsonFlagName) {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if jErr := enc.Encode(writers); jErr != nil && err == nil {
			err = jErr
		}
		return err
	}

	// The header is part of the output contract and is printed even when
	// enumeration failed and the list is empty.
	fmt.Println("List of VSS Writers:")
	for _, w := range writers {
		fmt.Printf("Id: %s\n", w.ID)
		fmt.Printf("Name: %s\n", w.Name)
		if cCtx.Bool(verboseFlagName) {
			fmt.Printf("State: %s\n", w.State)
			if w.Failure != "" {
				fmt.Printf("Failure: %s\n", w.Failure)
			}
		}
	}
	return err
}
