// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package wiki

import (
	"context"

	"github.com/juju/errors"
)

// Reloader reloads the web server so configuration changes take
// effect.
type Reloader struct {
	run CommandRunner
}

// NewReloader returns a Reloader using run.
func NewReloader(run CommandRunner) *Reloader {
	return &Reloader{run: run}
}

// Reload reloads apache.
func (r *Reloader) Reload(ctx context.Context) error {
	if err := r.run.Run(ctx, "service", "apache2", "reload"); err != nil {
		return errors.Annotate(err, "cannot reload apache")
	}
	return nil
}
