// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package state implements persistent local storage of the operator's
// installation state. The state survives process restarts and is the
// only memory the coordinator keeps between events.
package state

import (
	"os"

	"github.com/juju/errors"
	"github.com/juju/utils/v4"
)

// State holds the unit-local facts the coordinator reasons over.
type State struct {
	// Installed records that the one-time database initialisation
	// completed successfully on this unit's watch, or that this unit
	// has written its local configuration after observing a peer
	// signal. Cleared when the db relation departs.
	Installed bool `yaml:"installed"`

	// Revision is the largest peer-status revision this unit has
	// published or observed. The leader increments it before each
	// "connected" publish so stale reads are distinguishable.
	Revision int `yaml:"revision,omitempty"`
}

// File persists a State at a fixed path as yaml.
type File struct {
	path string
}

// NewFile returns a File persisting at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Read loads the current state. A missing file is not an error; it
// reads as the zero state, which is correct for a fresh unit.
func (f *File) Read() (*State, error) {
	var st State
	if err := utils.ReadYaml(f.path, &st); err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return &State{}, nil
		}
		return nil, errors.Annotatef(err, "cannot read state from %q", f.path)
	}
	return &st, nil
}

// Write atomically replaces the persisted state.
func (f *File) Write(st *State) error {
	if err := utils.WriteYaml(f.path, st); err != nil {
		return errors.Annotatef(err, "cannot write state to %q", f.path)
	}
	return nil
}
