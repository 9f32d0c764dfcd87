// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package operator

import (
	"github.com/juju/errors"
	"github.com/juju/names/v5"
	"github.com/juju/naturalsort"

	"github.com/juju/mediawiki-operator/core/relation"
)

// ResolveEndpoint derives the authoritative database endpoint from a
// db relation snapshot. Participants are considered in natural unit
// order, skipping any whose name does not belong to the remote
// application; the first non-replica with a usable endpoint wins.
//
// Multiple non-replica participants are not expected; deployments
// guarantee a single primary externally and this resolver does not
// enforce it. Sorting only makes the pick deterministic across units.
//
// It returns an error satisfying errors.IsNotFound when no
// participant qualifies.
func ResolveEndpoint(snap *relation.Snapshot) (relation.DbEndpoint, error) {
	members := append([]string(nil), snap.Members...)
	naturalsort.Sort(members)
	for _, member := range members {
		if !names.IsValidUnit(member) {
			logger.Debugf("ignoring db relation entry %q: not a unit name", member)
			continue
		}
		if appName, err := names.UnitApplication(member); err != nil || appName != snap.RemoteApplication {
			// Defensive filter against same-relation self entries.
			logger.Debugf("ignoring db relation entry %q: not a %q unit", member, snap.RemoteApplication)
			continue
		}
		if endpoint, ok := relation.ParseDbEndpoint(snap.UnitSettings(member)); ok {
			return endpoint, nil
		}
	}
	return relation.DbEndpoint{}, errors.NotFoundf("database endpoint in relation %q", snap.Name)
}
