// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hooktool_test

import (
	"strings"

	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/mediawiki-operator/core/relation"
	"github.com/juju/mediawiki-operator/core/status"
	"github.com/juju/mediawiki-operator/internal/hooktool"
)

// fakeRunner maps full command lines to canned stdout.
type fakeRunner struct {
	outputs map[string]string
	calls   []string
}

func (r *fakeRunner) Output(name string, args ...string) ([]byte, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	r.calls = append(r.calls, key)
	out, ok := r.outputs[key]
	if !ok {
		return nil, errors.Errorf("unexpected command %q", key)
	}
	return []byte(out), nil
}

type hooktoolSuite struct {
	runner *fakeRunner
	client *hooktool.Client
}

var _ = gc.Suite(&hooktoolSuite{})

func (s *hooktoolSuite) SetUpTest(c *gc.C) {
	s.runner = &fakeRunner{outputs: make(map[string]string)}
	client, err := hooktool.NewClient(s.runner, "mediawiki/0")
	c.Assert(err, jc.ErrorIsNil)
	s.client = client
}

func (s *hooktoolSuite) TestNewClientRejectsBadUnitName(c *gc.C) {
	_, err := hooktool.NewClient(s.runner, "mediawiki")
	c.Assert(err, jc.Satisfies, errors.IsNotValid)
}

func (s *hooktoolSuite) TestRelation(c *gc.C) {
	s.runner.outputs["relation-ids db --format=yaml"] = "- db:0\n"
	s.runner.outputs["relation-list -r db:0 --format=yaml"] = "- mysql/0\n"
	s.runner.outputs["relation-list -r db:0 --app --format=yaml"] = "mysql\n"
	s.runner.outputs["relation-get -r db:0 - mysql/0 --format=yaml"] = `
private-address: 10.0.0.1
database: wiki
user: u
password: p
slave: "False"
`
	s.runner.outputs["relation-get -r db:0 --app - mysql --format=yaml"] = "{}\n"
	s.runner.outputs["relation-get -r db:0 - mediawiki/0 --format=yaml"] = "private-address: 10.3.0.5\n"

	snap, err := s.client.Relation("db")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(snap.Name, gc.Equals, "db")
	c.Check(snap.RemoteApplication, gc.Equals, "mysql")
	c.Check(snap.Members, jc.DeepEquals, []string{"mysql/0"})
	c.Check(snap.UnitSettings("mysql/0").Map(), jc.DeepEquals, map[string]string{
		"private-address": "10.0.0.1",
		"database":        "wiki",
		"user":            "u",
		"password":        "p",
		"slave":           "False",
	})
	host, ok := snap.Local.Get(relation.PrivateAddressKey)
	c.Check(ok, jc.IsTrue)
	c.Check(host, gc.Equals, "10.3.0.5")
}

func (s *hooktoolSuite) TestRelationNotFound(c *gc.C) {
	s.runner.outputs["relation-ids db --format=yaml"] = "[]\n"
	_, err := s.client.Relation("db")
	c.Assert(err, jc.Satisfies, errors.IsNotFound)
}

func (s *hooktoolSuite) TestRelationNormalisesValues(c *gc.C) {
	s.runner.outputs["relation-ids cache --format=yaml"] = "- cache:3\n"
	s.runner.outputs["relation-list -r cache:3 --format=yaml"] = "- memcached/0\n"
	s.runner.outputs["relation-list -r cache:3 --app --format=yaml"] = "memcached\n"
	// The platform may yaml-type values; settings are strings.
	s.runner.outputs["relation-get -r cache:3 - memcached/0 --format=yaml"] = "port: 11211\n"
	s.runner.outputs["relation-get -r cache:3 --app - memcached --format=yaml"] = "{}\n"
	s.runner.outputs["relation-get -r cache:3 - mediawiki/0 --format=yaml"] = "{}\n"

	snap, err := s.client.Relation("cache")
	c.Assert(err, jc.ErrorIsNil)
	port, ok := snap.UnitSettings("memcached/0").Get("port")
	c.Check(ok, jc.IsTrue)
	c.Check(port, gc.Equals, "11211")
}

func (s *hooktoolSuite) TestFlushLocal(c *gc.C) {
	s.runner.outputs["relation-ids website --format=yaml"] = "- website:7\n"
	s.runner.outputs["relation-set -r website:7 port=80"] = ""

	err := s.client.FlushLocal("website", map[string]string{"port": "80"})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(s.runner.calls[len(s.runner.calls)-1], gc.Equals, "relation-set -r website:7 port=80")
}

func (s *hooktoolSuite) TestFlushApplication(c *gc.C) {
	s.runner.outputs["relation-ids peer --format=yaml"] = "- peer:1\n"
	s.runner.outputs["relation-set -r peer:1 --app status=connected"] = ""

	err := s.client.FlushApplication("peer", map[string]string{"status": "connected"})
	c.Assert(err, jc.ErrorIsNil)
}

func (s *hooktoolSuite) TestFlushNothing(c *gc.C) {
	c.Assert(s.client.FlushLocal("website", nil), jc.ErrorIsNil)
	c.Check(s.runner.calls, gc.HasLen, 0)
}

func (s *hooktoolSuite) TestFlushMissingRelation(c *gc.C) {
	s.runner.outputs["relation-ids peer --format=yaml"] = "[]\n"
	err := s.client.FlushApplication("peer", map[string]string{"status": "connected"})
	c.Assert(err, jc.Satisfies, errors.IsNotFound)
}

func (s *hooktoolSuite) TestIsLeader(c *gc.C) {
	s.runner.outputs["is-leader --format=yaml"] = "true\n"
	leader, err := s.client.IsLeader()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(leader, jc.IsTrue)

	s.runner.outputs["is-leader --format=yaml"] = "false\n"
	leader, err = s.client.IsLeader()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(leader, jc.IsFalse)
}

func (s *hooktoolSuite) TestSetStatus(c *gc.C) {
	s.runner.outputs["status-set blocked Missing db relation"] = ""
	err := s.client.SetStatus(status.StatusInfo{
		Status:  status.Blocked,
		Message: "Missing db relation",
	})
	c.Assert(err, jc.ErrorIsNil)
}

func (s *hooktoolSuite) TestSetStatusRejectsUnknown(c *gc.C) {
	err := s.client.SetStatus(status.StatusInfo{Status: status.Status("confused")})
	c.Assert(err, jc.Satisfies, errors.IsNotValid)
	c.Check(s.runner.calls, gc.HasLen, 0)
}

func (s *hooktoolSuite) TestConfigAttributes(c *gc.C) {
	s.runner.outputs["config-get --format=yaml"] = "name: My Wiki\ndebug: false\n"
	attrs, err := s.client.ConfigAttributes()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(attrs, jc.DeepEquals, map[string]interface{}{
		"name":  "My Wiki",
		"debug": false,
	})
}
