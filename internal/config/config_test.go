// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package config_test

import (
	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/mediawiki-operator/internal/config"
)

type configSuite struct{}

var _ = gc.Suite(&configSuite{})

func (*configSuite) TestDefaults(c *gc.C) {
	cfg, err := config.New(nil)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cfg, jc.DeepEquals, &config.Config{
		Name:     "Charmed Wiki",
		Language: "en",
		Skin:     "vector",
		Admins:   []config.Admin{},
	})
}

func (*configSuite) TestFullConfig(c *gc.C) {
	cfg, err := config.New(map[string]interface{}{
		"name":           "My Wiki",
		"language":       "fr",
		"skin":           "monobook",
		"server_address": "https://wiki.example.com",
		"logo":           "https://example.com/logo.png",
		"debug":          true,
		"admins":         "alice:pw1 bob:pw2",
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cfg, jc.DeepEquals, &config.Config{
		Name:          "My Wiki",
		Language:      "fr",
		Skin:          "monobook",
		ServerAddress: "https://wiki.example.com",
		Logo:          "https://example.com/logo.png",
		Debug:         true,
		Admins: []config.Admin{
			{Username: "alice", Password: "pw1"},
			{Username: "bob", Password: "pw2"},
		},
	})
}

func (*configSuite) TestDebugCoercedFromString(c *gc.C) {
	cfg, err := config.New(map[string]interface{}{"debug": "true"})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cfg.Debug, jc.IsTrue)
}

func (*configSuite) TestUnknownOptionRejected(c *gc.C) {
	_, err := config.New(map[string]interface{}{"wiki-name": "My Wiki"})
	c.Assert(err, jc.Satisfies, errors.IsNotValid)
	c.Assert(err, gc.ErrorMatches, `unknown option "wiki-name" not valid`)
}

func (*configSuite) TestMalformedAdminsFailWholeConfig(c *gc.C) {
	_, err := config.New(map[string]interface{}{"admins": "alice:pw1 bob"})
	c.Assert(err, jc.Satisfies, errors.IsNotValid)
	c.Assert(err, gc.ErrorMatches, `admin entry "bob" not valid`)
}

func (*configSuite) TestParseAdmins(c *gc.C) {
	admins, err := config.ParseAdmins("  alice:pw1\tbob:pw2 ")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(admins, jc.DeepEquals, []config.Admin{
		{Username: "alice", Password: "pw1"},
		{Username: "bob", Password: "pw2"},
	})
}

func (*configSuite) TestParseAdminsEmpty(c *gc.C) {
	admins, err := config.ParseAdmins("")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(admins, gc.HasLen, 0)
}

func (*configSuite) TestParseAdminsMissingColon(c *gc.C) {
	_, err := config.ParseAdmins("alice:pw1 bob")
	c.Assert(err, jc.Satisfies, errors.IsNotValid)
}

func (*configSuite) TestParseAdminsEmptyUsername(c *gc.C) {
	_, err := config.ParseAdmins(":pw1")
	c.Assert(err, jc.Satisfies, errors.IsNotValid)
}
