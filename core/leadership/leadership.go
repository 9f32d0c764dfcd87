// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package leadership exposes the platform's leader-election primitive
// to the operator. At most one unit of the application holds
// leadership at any instant; the platform may migrate it at any time.
package leadership

// Tracker reports whether this unit currently holds application
// leadership. The answer is only valid at the moment of the call and
// must be re-queried on every event, never cached across events.
type Tracker interface {
	IsLeader() (bool, error)
}

// TrackerFunc adapts a function to the Tracker interface.
type TrackerFunc func() (bool, error)

// IsLeader is part of the Tracker interface.
func (f TrackerFunc) IsLeader() (bool, error) {
	return f()
}
