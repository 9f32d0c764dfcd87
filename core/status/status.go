// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package status defines the workload statuses reported by the operator,
// mirroring the status values understood by the platform.
package status

import (
	"time"
)

// Status represents the operational state of the unit's workload.
type Status string

const (
	// Maintenance indicates the operator is actively performing an
	// operation on the workload, such as installing packages.
	Maintenance Status = "maintenance"

	// Blocked indicates the workload cannot proceed without operator
	// or topology intervention, such as adding a missing relation.
	Blocked Status = "blocked"

	// Waiting indicates the workload is waiting on data or progress
	// from a related application.
	Waiting Status = "waiting"

	// Active indicates the workload is installed and serving.
	Active Status = "active"
)

// String returns a string representation of the Status.
func (s Status) String() string {
	return string(s)
}

// KnownWorkloadStatus reports whether s is a status the platform
// accepts from a workload status-set call.
func (s Status) KnownWorkloadStatus() bool {
	switch s {
	case Maintenance, Blocked, Waiting, Active:
		return true
	}
	return false
}

// StatusInfo holds a Status and associated information.
type StatusInfo struct {
	Status  Status
	Message string
	Since   *time.Time
}

// StatusSetter represents a type whose status can be set.
type StatusSetter interface {
	SetStatus(StatusInfo) error
}
