// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// mediawiki-operator is the hook entry point of the mediawiki charm.
// The platform symlinks every hook to this binary, which routes the
// event named on the command line to its handler.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo/v2"

	"github.com/juju/mediawiki-operator/internal/hooktool"
	"github.com/juju/mediawiki-operator/internal/operator"
	"github.com/juju/mediawiki-operator/internal/state"
	"github.com/juju/mediawiki-operator/internal/wiki"
	"github.com/juju/mediawiki-operator/internal/wiki/dblock"
)

var logger = loggo.GetLogger("mediawiki")

func main() {
	os.Exit(Main(os.Args[1:]))
}

// Main runs one event dispatch and returns the process exit code.
func Main(args []string) int {
	flags := gnuflag.NewFlagSet("mediawiki-operator", gnuflag.ContinueOnError)
	stateDir := flags.String("state-dir", "/var/lib/mediawiki-operator", "directory holding operator state")
	configDir := flags.String("config-dir", "/etc/mediawiki", "mediawiki configuration directory")
	debug := flags.Bool("debug", false, "enable debug logging")
	if err := flags.Parse(true, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if flags.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: mediawiki-operator [options] <event>")
		return 2
	}
	level := "INFO"
	if *debug {
		level = "DEBUG"
	}
	if err := loggo.ConfigureLoggers("<root>=" + level); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := dispatch(operator.Kind(flags.Arg(0)), *stateDir, *configDir); err != nil {
		logger.Errorf("%v", err)
		return 1
	}
	return 0
}

func dispatch(kind operator.Kind, stateDir, configDir string) error {
	client, err := hooktool.NewClient(hooktool.NewRunner(), os.Getenv("JUJU_UNIT_NAME"))
	if err != nil {
		return errors.Trace(err)
	}
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return errors.Trace(err)
	}
	paths := wiki.DefaultPaths()
	paths.ConfigDir = configDir
	paths.DataDir = stateDir
	runner := wiki.ExecRunner{}
	op, err := operator.NewOperator(operator.OperatorConfig{
		Store:      client,
		Leadership: client,
		Status:     client,
		Config:     client,
		State:      state.NewFile(filepath.Join(stateDir, "state.yaml")),
		Packages:   wiki.NewPackageInstaller(runner),
		Installer:  wiki.NewInstaller(paths, runner, dblock.Acquire),
		Configurer: wiki.NewConfigurer(paths),
		Reloader:   wiki.NewReloader(runner),
		Admins:     wiki.NewAdminManager(paths, runner),
		Logo:       wiki.NewLogoFetcher(nil, stateDir),
		Clock:      clock.WallClock,
	})
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(op.HandleEvent(context.Background(), kind))
}
