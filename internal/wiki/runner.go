// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package wiki

import (
	"context"
	"os/exec"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
)

var logger = loggo.GetLogger("mediawiki.wiki")

// CommandRunner runs an external command to completion.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run is part of the CommandRunner interface.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	logger.Debugf("running %s %v", name, args)
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return errors.Annotatef(err, "%s failed: %s", name, out)
	}
	return nil
}
