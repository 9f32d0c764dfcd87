// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package wiki_test

import (
	"context"

	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/mediawiki-operator/internal/config"
	"github.com/juju/mediawiki-operator/internal/wiki"
)

type adminSuite struct{}

var _ = gc.Suite(&adminSuite{})

func adminPaths() wiki.Paths {
	return wiki.Paths{
		ConfigDir:      "/etc/mediawiki",
		MaintenanceDir: "/usr/share/mediawiki/maintenance",
	}
}

func (*adminSuite) TestEnsureAdmins(c *gc.C) {
	runner := &fakeRunner{}
	manager := wiki.NewAdminManager(adminPaths(), runner)
	err := manager.EnsureAdmins(context.Background(), []config.Admin{
		{Username: "alice", Password: "pw1"},
		{Username: "bob", Password: "pw2"},
	})
	c.Assert(err, jc.ErrorIsNil)

	c.Assert(runner.calls, gc.HasLen, 2)
	c.Check(runner.calls[0], jc.DeepEquals, []string{
		"php", "/usr/share/mediawiki/maintenance/createAndPromote.php",
		"--conf", "/etc/mediawiki/LocalSettings.php",
		"--force",
		"--sysop", "--bureaucrat",
		"alice", "pw1",
	})
	c.Check(runner.calls[1][len(runner.calls[1])-2:], jc.DeepEquals, []string{"bob", "pw2"})
}

func (*adminSuite) TestEnsureAdminsStopsOnFailure(c *gc.C) {
	runner := &fakeRunner{hook: func(name string, args []string) error {
		if args[len(args)-2] == "bob" {
			return errors.New("script failed")
		}
		return nil
	}}
	manager := wiki.NewAdminManager(adminPaths(), runner)
	err := manager.EnsureAdmins(context.Background(), []config.Admin{
		{Username: "alice", Password: "pw1"},
		{Username: "bob", Password: "pw2"},
		{Username: "carol", Password: "pw3"},
	})
	c.Assert(err, gc.ErrorMatches, `cannot ensure admin "bob": script failed`)
	// carol was never attempted.
	c.Check(runner.calls, gc.HasLen, 2)
}

type packagesSuite struct{}

var _ = gc.Suite(&packagesSuite{})

func (*packagesSuite) TestInstallPackages(c *gc.C) {
	runner := &fakeRunner{}
	err := wiki.NewPackageInstaller(runner).InstallPackages(context.Background())
	c.Assert(err, jc.ErrorIsNil)
	c.Check(runner.calls, jc.DeepEquals, [][]string{
		{"apt-get", "install", "-y", "mediawiki", "imagemagick"},
	})
}

func (*packagesSuite) TestInstallPackagesFailure(c *gc.C) {
	runner := &fakeRunner{hook: func(string, []string) error {
		return errors.New("exit status 100")
	}}
	err := wiki.NewPackageInstaller(runner).InstallPackages(context.Background())
	c.Assert(err, gc.ErrorMatches, "cannot install mediawiki packages: exit status 100")
}

type reloadSuite struct{}

var _ = gc.Suite(&reloadSuite{})

func (*reloadSuite) TestReload(c *gc.C) {
	runner := &fakeRunner{}
	err := wiki.NewReloader(runner).Reload(context.Background())
	c.Assert(err, jc.ErrorIsNil)
	c.Check(runner.calls, jc.DeepEquals, [][]string{
		{"service", "apache2", "reload"},
	})
}
