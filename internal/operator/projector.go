// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package operator

import (
	"time"

	"github.com/juju/errors"

	"github.com/juju/mediawiki-operator/core/relation"
	"github.com/juju/mediawiki-operator/core/status"
)

// Status messages reported to the operator of the model.
const (
	missingDbMessage      = "Missing db relation"
	waitingForDbMessage   = "Waiting for connection data from db relation"
	waitingInstallMessage = "Waiting to install Mediawiki"
)

// ProjectStatus derives the unit's reported status from current
// observable state alone. It has no side effects and may be called at
// any time; nothing it reports is ever cached.
//
// dbRelation is nil when no db relation exists. installed is the
// local install marker.
func ProjectStatus(dbRelation *relation.Snapshot, installed bool, now time.Time) status.StatusInfo {
	info := status.StatusInfo{Since: &now}
	switch {
	case dbRelation == nil:
		info.Status = status.Blocked
		info.Message = missingDbMessage
	case !endpointResolvable(dbRelation):
		info.Status = status.Waiting
		info.Message = waitingForDbMessage
	case installed:
		info.Status = status.Active
	default:
		info.Status = status.Waiting
		info.Message = waitingInstallMessage
	}
	return info
}

func endpointResolvable(snap *relation.Snapshot) bool {
	_, err := ResolveEndpoint(snap)
	return !errors.IsNotFound(err)
}
