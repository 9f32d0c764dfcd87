// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package hooktool backs the operator's platform interfaces with the
// hook tools the platform puts on the path of a running hook:
// relation-ids, relation-list, relation-get, relation-set, is-leader,
// status-set and config-get.
package hooktool

import (
	"fmt"
	"os/exec"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/names/v5"
	"gopkg.in/yaml.v2"

	"github.com/juju/mediawiki-operator/core/relation"
	"github.com/juju/mediawiki-operator/core/status"
)

var logger = loggo.GetLogger("mediawiki.hooktool")

// Runner runs a hook tool and returns its stdout.
type Runner interface {
	Output(name string, args ...string) ([]byte, error)
}

type execRunner struct{}

// NewRunner returns a Runner executing hook tools from the path.
func NewRunner() Runner {
	return execRunner{}
}

// Output is part of the Runner interface.
func (execRunner) Output(name string, args ...string) ([]byte, error) {
	logger.Debugf("running %s %v", name, args)
	out, err := exec.Command(name, args...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, errors.Annotatef(err, "%s failed: %s", name, exitErr.Stderr)
		}
		return nil, errors.Annotatef(err, "%s failed", name)
	}
	return out, nil
}

// Client implements relation.Store, leadership via IsLeader,
// status.StatusSetter and the operator's ConfigGetter over hook
// tools.
type Client struct {
	run      Runner
	unitName string
}

// NewClient returns a Client for the given unit.
func NewClient(run Runner, unitName string) (*Client, error) {
	if !names.IsValidUnit(unitName) {
		return nil, errors.NotValidf("unit name %q", unitName)
	}
	return &Client{run: run, unitName: unitName}, nil
}

// Relation is part of the relation.Store interface.
func (c *Client) Relation(name string) (*relation.Snapshot, error) {
	id, err := c.relationID(name)
	if err != nil {
		return nil, errors.Trace(err)
	}
	var members []string
	if err := c.yamlOutput(&members, "relation-list", "-r", id); err != nil {
		return nil, errors.Trace(err)
	}
	var remoteApp string
	if err := c.yamlOutput(&remoteApp, "relation-list", "-r", id, "--app"); err != nil {
		return nil, errors.Trace(err)
	}
	units := make(map[string]*relation.Settings, len(members))
	for _, member := range members {
		settings, err := c.relationSettings(id, member, false)
		if err != nil {
			return nil, errors.Trace(err)
		}
		units[member] = settings
	}
	app, err := c.relationSettings(id, remoteApp, true)
	if err != nil {
		return nil, errors.Trace(err)
	}
	local, err := c.relationSettings(id, c.unitName, false)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &relation.Snapshot{
		Name:              name,
		RemoteApplication: remoteApp,
		Members:           members,
		Units:             units,
		Application:       app,
		Local:             local,
	}, nil
}

// FlushLocal is part of the relation.Store interface.
func (c *Client) FlushLocal(name string, changes map[string]string) error {
	return errors.Trace(c.flush(name, changes, false))
}

// FlushApplication is part of the relation.Store interface.
func (c *Client) FlushApplication(name string, changes map[string]string) error {
	return errors.Trace(c.flush(name, changes, true))
}

// IsLeader implements leadership.Tracker.
func (c *Client) IsLeader() (bool, error) {
	var leader bool
	if err := c.yamlOutput(&leader, "is-leader"); err != nil {
		return false, errors.Trace(err)
	}
	return leader, nil
}

// SetStatus implements status.StatusSetter.
func (c *Client) SetStatus(info status.StatusInfo) error {
	if !info.Status.KnownWorkloadStatus() {
		return errors.NotValidf("status %q", info.Status)
	}
	_, err := c.run.Output("status-set", info.Status.String(), info.Message)
	return errors.Trace(err)
}

// ConfigAttributes implements the operator's ConfigGetter.
func (c *Client) ConfigAttributes() (map[string]interface{}, error) {
	var attrs map[string]interface{}
	if err := c.yamlOutput(&attrs, "config-get"); err != nil {
		return nil, errors.Trace(err)
	}
	return attrs, nil
}

func (c *Client) flush(name string, changes map[string]string, app bool) error {
	if len(changes) == 0 {
		return nil
	}
	id, err := c.relationID(name)
	if err != nil {
		return errors.Trace(err)
	}
	args := []string{"-r", id}
	if app {
		args = append(args, "--app")
	}
	for key, value := range changes {
		args = append(args, key+"="+value)
	}
	_, err = c.run.Output("relation-set", args...)
	return errors.Trace(err)
}

// relationID resolves a relation endpoint name to the platform's
// relation identifier, e.g. "db" to "db:0". Endpoints can in
// principle have several relations; this charm's endpoints never do,
// so the first is taken.
func (c *Client) relationID(name string) (string, error) {
	var ids []string
	if err := c.yamlOutput(&ids, "relation-ids", name); err != nil {
		return "", errors.Trace(err)
	}
	if len(ids) == 0 {
		return "", errors.NotFoundf("relation %q", name)
	}
	return ids[0], nil
}

func (c *Client) relationSettings(id, entity string, app bool) (*relation.Settings, error) {
	args := []string{"-r", id}
	if app {
		args = append(args, "--app")
	}
	args = append(args, "-", entity)
	var raw map[string]interface{}
	if err := c.yamlOutput(&raw, "relation-get", args...); err != nil {
		return nil, errors.Trace(err)
	}
	values := make(map[string]string, len(raw))
	for key, value := range raw {
		if value == nil {
			continue
		}
		values[key] = fmt.Sprint(value)
	}
	return relation.MakeSettings(values), nil
}

func (c *Client) yamlOutput(result interface{}, name string, args ...string) error {
	out, err := c.run.Output(name, append(args, "--format=yaml")...)
	if err != nil {
		return errors.Trace(err)
	}
	if err := yaml.Unmarshal(out, result); err != nil {
		return errors.Annotatef(err, "cannot parse %s output", name)
	}
	return nil
}
