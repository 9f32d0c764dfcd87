// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package wiki

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/utils/v4"

	"github.com/juju/mediawiki-operator/core/relation"
)

// Initial admin account created by the install script. Operators add
// their own accounts through the admins config option.
const (
	installWikiName  = "Charmed Wiki"
	installAdminUser = "generic_charm_admin"
)

// LockFunc acquires an exclusive installation lock against the given
// database and returns a release function. See the dblock package for
// the production implementation.
type LockFunc func(ctx context.Context, endpoint relation.DbEndpoint) (release func() error, err error)

// Installer performs the one-time wiki installation and its reversal.
type Installer struct {
	paths Paths
	run   CommandRunner
	lock  LockFunc
}

// NewInstaller returns an Installer using run for external commands
// and lock to serialise the destructive step.
func NewInstaller(paths Paths, run CommandRunner, lock LockFunc) *Installer {
	return &Installer{paths: paths, run: run, lock: lock}
}

// Install runs the wiki install script against the given database.
// The script creates the database tables if they do not exist,
// creates the initial admin account and generates LocalSettings.php.
// Table creation is destructive on first run, so the whole call is
// serialised under a write lock on the database itself; if two units
// ever reach this path at once they run one after the other and the
// second finds the tables already present.
func (i *Installer) Install(ctx context.Context, endpoint relation.DbEndpoint) error {
	if err := endpoint.Validate(); err != nil {
		return errors.Trace(err)
	}
	release, err := i.lock(ctx, endpoint)
	if err != nil {
		return errors.Annotate(err, "cannot lock database for install")
	}
	defer func() {
		if err := release(); err != nil {
			logger.Errorf("cannot release database lock: %v", err)
		}
	}()

	password, err := utils.RandomPassword()
	if err != nil {
		return errors.Trace(err)
	}
	err = i.run.Run(ctx, "php", i.paths.InstallScript(),
		"--dbserver", endpoint.Host,
		"--dbname", endpoint.Database,
		"--dbuser", endpoint.User,
		"--dbpass", endpoint.Password,
		"--confpath", i.paths.ConfigDir,
		"--installdbuser", endpoint.User,
		"--installdbpass", endpoint.Password,
		"--pass", password,
		installWikiName,
		installAdminUser,
	)
	if err != nil {
		return errors.Annotate(err, "install script failed")
	}
	return errors.Trace(i.includeConfigPHP())
}

// EnsureConfigured writes LocalSettings.php for the given database
// endpoint without touching the database. This is the follower path:
// the tables already exist by the time a follower observes the
// "connected" signal, so only the local files need to match.
func (i *Installer) EnsureConfigured(endpoint relation.DbEndpoint) error {
	if err := endpoint.Validate(); err != nil {
		return errors.Trace(err)
	}
	settings := fmt.Sprintf(localSettingsTemplate,
		endpoint.Host, endpoint.Database, endpoint.User, endpoint.Password)
	if err := os.WriteFile(i.paths.LocalSettings(), []byte(settings), 0644); err != nil {
		return errors.Annotate(err, "cannot write LocalSettings.php")
	}
	return errors.Trace(i.includeConfigPHP())
}

// Uninstall removes the files created by Install, returning the wiki
// to its unconfigured state. Files already absent are not an error.
func (i *Installer) Uninstall() error {
	for _, path := range []string{i.paths.LocalSettings(), i.paths.ConfigPHP()} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.Annotatef(err, "cannot remove %q", path)
		}
	}
	return nil
}

// includeConfigPHP makes sure config.php exists and is included from
// LocalSettings.php, so that later config changes only rewrite
// config.php.
func (i *Installer) includeConfigPHP() error {
	f, err := os.OpenFile(i.paths.ConfigPHP(), os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return errors.Trace(err)
	}
	if err := f.Close(); err != nil {
		return errors.Trace(err)
	}
	if err := os.Chmod(i.paths.ConfigPHP(), 0644); err != nil {
		return errors.Trace(err)
	}
	settings, err := os.ReadFile(i.paths.LocalSettings())
	if err != nil {
		return errors.Annotate(err, "cannot read LocalSettings.php")
	}
	include := fmt.Sprintf("include('%s');", i.paths.ConfigPHP())
	if containsLine(string(settings), include) {
		return nil
	}
	f, err = os.OpenFile(i.paths.LocalSettings(), os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Trace(err)
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "\n%s\n", include); err != nil {
		return errors.Annotate(err, "cannot append include to LocalSettings.php")
	}
	return nil
}

func containsLine(text, line string) bool {
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) == line {
			return true
		}
	}
	return false
}

const localSettingsTemplate = `<?php
# Generated by the mediawiki operator; local edits will be lost.
$wgDBtype = "mysql";
$wgDBserver = "%s";
$wgDBname = "%s";
$wgDBuser = "%s";
$wgDBpassword = "%s";
`
