// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package dblock serialises wiki installation attempts using a
// table-level write lock on the wiki database itself. Leadership is
// the primary arbitration mechanism; this lock is the fallback that
// turns a leader-election violation into serialised installs rather
// than concurrent table creation.
package dblock

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/juju/errors"

	"github.com/juju/mediawiki-operator/core/relation"
)

// lockTable is the table the write lock is taken on. Only one write
// lock can be held on a table at a time.
const lockTable = "charm_lock"

// DSN renders the endpoint as a mysql driver connection string.
func DSN(endpoint relation.DbEndpoint) string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s",
		endpoint.User, endpoint.Password, endpoint.Host, endpoint.Database)
}

// Acquire takes the installation lock against the given database,
// creating the lock table if it does not exist. The returned release
// function unlocks and closes the connection; callers must invoke it
// exactly once, normally via defer.
func Acquire(ctx context.Context, endpoint relation.DbEndpoint) (release func() error, err error) {
	db, err := sql.Open("mysql", DSN(endpoint))
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer func() {
		if err != nil {
			_ = db.Close()
		}
	}()

	// LOCK TABLES is session state, so everything must go through a
	// single connection.
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, errors.Annotate(err, "cannot connect to database")
	}
	defer func() {
		if err != nil {
			_ = conn.Close()
		}
	}()
	if _, err = conn.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS "+lockTable+" (n INT)"); err != nil {
		return nil, errors.Annotate(err, "cannot create lock table")
	}
	if _, err = conn.ExecContext(ctx, "LOCK TABLES "+lockTable+" WRITE"); err != nil {
		return nil, errors.Annotate(err, "cannot lock database")
	}
	release = func() error {
		defer db.Close()
		defer conn.Close()
		if _, err := conn.ExecContext(context.Background(), "UNLOCK TABLES"); err != nil {
			return errors.Annotate(err, "cannot unlock database")
		}
		return nil
	}
	return release, nil
}
