// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package operator

// Kind identifies a lifecycle or relation event delivered by the
// platform. Events are delivered one at a time; a handler runs to
// completion before the next event is dispatched.
type Kind string

const (
	// Install fires once when the unit is first deployed.
	Install Kind = "install"

	// ConfigChanged fires when charm configuration changes, and at
	// least once after install.
	ConfigChanged Kind = "config-changed"

	// DbRelationJoined fires when a database unit joins the db
	// relation.
	DbRelationJoined Kind = "db-relation-joined"

	// DbRelationChanged fires whenever any bucket of the db relation
	// changes. The platform re-delivers it on every data mutation,
	// which is what stands in for retry timers here.
	DbRelationChanged Kind = "db-relation-changed"

	// DbRelationDeparted fires when the database leaves the relation.
	DbRelationDeparted Kind = "db-relation-departed"

	// PeerRelationChanged fires when a peer unit or the leader writes
	// to the peer relation.
	PeerRelationChanged Kind = "peer-relation-changed"

	// CacheRelationChanged fires when the memcached relation data
	// changes.
	CacheRelationChanged Kind = "cache-relation-changed"

	// CacheRelationDeparted fires when the memcached provider leaves.
	CacheRelationDeparted Kind = "cache-relation-departed"

	// WebsiteRelationJoined fires when a proxy joins the website
	// relation.
	WebsiteRelationJoined Kind = "website-relation-joined"
)

// String is the hook name of the event.
func (k Kind) String() string {
	return string(k)
}
