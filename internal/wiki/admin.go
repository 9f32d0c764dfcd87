// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package wiki

import (
	"context"

	"github.com/juju/errors"

	"github.com/juju/mediawiki-operator/internal/config"
)

// AdminManager creates and updates wiki administrator accounts.
type AdminManager struct {
	paths Paths
	run   CommandRunner
}

// NewAdminManager returns an AdminManager using run.
func NewAdminManager(paths Paths, run CommandRunner) *AdminManager {
	return &AdminManager{paths: paths, run: run}
}

// EnsureAdmins upserts each account in turn. The admins list has
// already been validated as a whole; a script failure stops the batch
// at that entry.
func (m *AdminManager) EnsureAdmins(ctx context.Context, admins []config.Admin) error {
	for _, admin := range admins {
		err := m.run.Run(ctx, "php", m.paths.PromoteScript(),
			"--conf", m.paths.LocalSettings(),
			"--force",
			"--sysop", "--bureaucrat",
			admin.Username, admin.Password,
		)
		if err != nil {
			return errors.Annotatef(err, "cannot ensure admin %q", admin.Username)
		}
	}
	return nil
}
