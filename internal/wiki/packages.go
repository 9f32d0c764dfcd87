// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package wiki

import (
	"context"

	"github.com/juju/errors"
)

// Packages required for the wiki to run.
var wikiPackages = []string{"mediawiki", "imagemagick"}

// PackageInstaller installs the workload's system packages.
type PackageInstaller struct {
	run CommandRunner
}

// NewPackageInstaller returns a PackageInstaller using run.
func NewPackageInstaller(run CommandRunner) *PackageInstaller {
	return &PackageInstaller{run: run}
}

// InstallPackages installs the mediawiki packages. It is safe to call
// again; apt treats installed packages as satisfied.
func (p *PackageInstaller) InstallPackages(ctx context.Context) error {
	args := append([]string{"install", "-y"}, wikiPackages...)
	if err := p.run.Run(ctx, "apt-get", args...); err != nil {
		return errors.Annotate(err, "cannot install mediawiki packages")
	}
	return nil
}
