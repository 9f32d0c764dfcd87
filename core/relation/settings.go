// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package relation

import (
	"github.com/juju/collections/set"
)

// Settings is a mutable view over one relation data bucket. Reads
// reflect the bucket as delivered by the platform plus any local
// writes; writes are tracked so that a handler's changes can be
// flushed back to the platform in a single call.
type Settings struct {
	values map[string]string
	dirty  set.Strings
}

// MakeSettings wraps values in a Settings. The map is not copied;
// callers must not retain it.
func MakeSettings(values map[string]string) *Settings {
	if values == nil {
		values = make(map[string]string)
	}
	return &Settings{values: values, dirty: set.NewStrings()}
}

// Get returns the value for key and whether it is present. Empty
// values are treated as absent, matching the platform's behaviour
// of unsetting a key written with an empty value.
func (s *Settings) Get(key string) (string, bool) {
	v, ok := s.values[key]
	if v == "" {
		return "", false
	}
	return v, ok
}

// Set records a new value for key.
func (s *Settings) Set(key, value string) {
	s.values[key] = value
	s.dirty.Add(key)
}

// Delete unsets key. On flush the platform sees an empty write,
// which removes the key from the bucket.
func (s *Settings) Delete(key string) {
	s.values[key] = ""
	s.dirty.Add(key)
}

// Map returns a copy of all settings currently visible, omitting
// unset keys.
func (s *Settings) Map() map[string]string {
	result := make(map[string]string, len(s.values))
	for k, v := range s.values {
		if v == "" {
			continue
		}
		result[k] = v
	}
	return result
}

// Changes returns the keys written since construction, with their
// current values; an empty value means the key was unset. A nil
// result means nothing needs flushing.
func (s *Settings) Changes() map[string]string {
	if s.dirty.IsEmpty() {
		return nil
	}
	changes := make(map[string]string, s.dirty.Size())
	for _, k := range s.dirty.Values() {
		changes[k] = s.values[k]
	}
	return changes
}
