// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package relation models the replicated key-value channels through
// which the operator exchanges data with related applications and
// with its own peer units. It is the only communication path between
// units; nothing here talks to the database or the workload directly.
package relation

// Snapshot is one relation's full data view at the time an event was
// delivered. It is reconstructed from the platform on every event and
// never cached across events.
type Snapshot struct {
	// Name is the local endpoint name, e.g. "db".
	Name string

	// RemoteApplication is the application on the other side of the
	// relation. For the peer relation it is the local application.
	RemoteApplication string

	// Members lists the remote units currently participating.
	Members []string

	// Units holds the per-unit buckets of the remote units, keyed by
	// unit name. Writable only by the owning unit; read-only here.
	Units map[string]*Settings

	// Application is the remote application bucket. On the peer
	// relation this is the leader-writable bucket shared by all units.
	Application *Settings

	// Local is this unit's own bucket on the relation.
	Local *Settings
}

// UnitSettings returns the bucket for the named remote unit, or an
// empty Settings if the unit has published nothing yet.
func (s *Snapshot) UnitSettings(unit string) *Settings {
	if settings, ok := s.Units[unit]; ok {
		return settings
	}
	return MakeSettings(nil)
}

// Store gives access to the relations this unit participates in.
// Implementations are backed by the platform's hook tools in
// production and by in-memory fakes in tests.
type Store interface {
	// Relation returns a snapshot of the named relation. It returns
	// an error satisfying errors.IsNotFound if no relation is
	// established on that endpoint.
	Relation(name string) (*Snapshot, error)

	// FlushLocal writes changes into this unit's own bucket on the
	// named relation. An empty value unsets the key.
	FlushLocal(name string, changes map[string]string) error

	// FlushApplication writes changes into the application bucket of
	// the named relation. Only the leader may call this; the platform
	// rejects writes from non-leaders.
	FlushApplication(name string, changes map[string]string) error
}
