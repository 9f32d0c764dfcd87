// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package relation

import (
	"github.com/juju/errors"
)

// DbEndpoint identifies the primary database server derived from a db
// relation. It is never stored; it is re-derived from relation data
// on each evaluation.
type DbEndpoint struct {
	Host     string
	Database string
	User     string
	Password string
}

// Validate returns an error if the endpoint is not usable for an
// install.
func (e DbEndpoint) Validate() error {
	if e.Host == "" {
		return errors.NotValidf("endpoint with empty host")
	}
	if e.Database == "" {
		return errors.NotValidf("endpoint with empty database")
	}
	return nil
}

// ParseDbEndpoint reads a database participant's bucket into a
// DbEndpoint. The second result is false when the participant is a
// replica, or has not yet published enough data to be usable as the
// primary.
func ParseDbEndpoint(settings *Settings) (DbEndpoint, bool) {
	slave, ok := settings.Get(DbSlaveKey)
	if !ok || slave != DbSlaveFalse {
		return DbEndpoint{}, false
	}
	database, ok := settings.Get(DbDatabaseKey)
	if !ok {
		return DbEndpoint{}, false
	}
	host, _ := settings.Get(DbHostKey)
	user, _ := settings.Get(DbUserKey)
	password, _ := settings.Get(DbPasswordKey)
	endpoint := DbEndpoint{
		Host:     host,
		Database: database,
		User:     user,
		Password: password,
	}
	if err := endpoint.Validate(); err != nil {
		return DbEndpoint{}, false
	}
	return endpoint, true
}
