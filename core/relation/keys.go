// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package relation

// Relation endpoint names from the charm metadata.
const (
	// Db connects to the database provider.
	Db = "db"

	// Peer connects the units of this application to each other.
	Peer = "peer"

	// Cache connects to a memcached provider.
	Cache = "cache"

	// Website is consumed by a reverse proxy in front of the wiki.
	Website = "website"
)

// PrivateAddressKey is published by the platform in every unit
// bucket, including this unit's own.
const PrivateAddressKey = "private-address"

// Keys published by the database provider in its unit buckets.
const (
	DbHostKey     = "private-address"
	DbDatabaseKey = "database"
	DbUserKey     = "user"
	DbPasswordKey = "password"

	// DbSlaveKey flags replica participants. The provider writes the
	// literal strings "True" and "False".
	DbSlaveKey = "slave"
)

// DbSlaveFalse is the only value of DbSlaveKey that marks a
// participant as the primary.
const DbSlaveFalse = "False"

// Keys written by the leader into the peer relation's application
// bucket to signal installation state to the other units.
const (
	PeerStatusKey   = "status"
	PeerRevisionKey = "revision"
)

// Values of PeerStatusKey.
const (
	PeerConnected    = "connected"
	PeerDisconnected = "disconnected"
)

// Keys published by a memcached provider.
const (
	CacheHostKey = "private-address"
	CachePortKey = "port"
)

// Keys published to website consumers.
const (
	WebsitePortKey     = "port"
	WebsiteHostnameKey = "hostname"
)
