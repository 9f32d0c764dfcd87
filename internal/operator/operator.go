// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package operator implements the coordination core of the mediawiki
// charm: the state machine that decides, per unit, whether and when
// the one-time destructive database initialisation may run, how the
// leader signals completion to the other units, and how the group
// reacts to the database going away.
//
// Arbitration is leader/follower by construction: only the leader
// runs the destructive install path; followers wait for the leader's
// "connected" signal in the peer relation and then only bring their
// local files in line. There are no retry timers anywhere; a step
// that cannot proceed yet logs and returns, relying on the platform
// re-delivering relation events on any data mutation.
package operator

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/naturalsort"

	"github.com/juju/mediawiki-operator/core/leadership"
	"github.com/juju/mediawiki-operator/core/relation"
	"github.com/juju/mediawiki-operator/core/status"
	"github.com/juju/mediawiki-operator/internal/config"
	"github.com/juju/mediawiki-operator/internal/state"
)

var logger = loggo.GetLogger("mediawiki.operator")

// Installer performs the one-time wiki installation and its reversal.
type Installer interface {
	// Install runs the destructive install path. Only the leader may
	// call it, and only when the local install marker is unset.
	Install(ctx context.Context, endpoint relation.DbEndpoint) error

	// EnsureConfigured brings the local configuration files in line
	// with the endpoint without touching the database.
	EnsureConfigured(endpoint relation.DbEndpoint) error

	// Uninstall removes the files created by Install. Files already
	// absent are not an error.
	Uninstall() error
}

// PackageInstaller installs the workload's system packages.
type PackageInstaller interface {
	InstallPackages(ctx context.Context) error
}

// Configurer rewrites the configuration rendered from charm config.
type Configurer interface {
	Configure(cfg *config.Config, logoPath string, cacheServers []string) error
}

// Reloader reloads the web server.
type Reloader interface {
	Reload(ctx context.Context) error
}

// AdminManager upserts wiki administrator accounts.
type AdminManager interface {
	EnsureAdmins(ctx context.Context, admins []config.Admin) error
}

// LogoFetcher downloads the wiki logo, caching by URL.
type LogoFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ConfigGetter reads the raw charm configuration.
type ConfigGetter interface {
	ConfigAttributes() (map[string]interface{}, error)
}

// OperatorConfig holds the dependencies of an Operator.
type OperatorConfig struct {
	Store      relation.Store
	Leadership leadership.Tracker
	State      *state.File
	Status     status.StatusSetter
	Packages   PackageInstaller
	Installer  Installer
	Configurer Configurer
	Reloader   Reloader
	Admins     AdminManager
	Logo       LogoFetcher
	Config     ConfigGetter
	Clock      clock.Clock
}

// Validate returns an error if the config cannot be used.
func (c OperatorConfig) Validate() error {
	if c.Store == nil {
		return errors.NotValidf("nil Store")
	}
	if c.Leadership == nil {
		return errors.NotValidf("nil Leadership")
	}
	if c.State == nil {
		return errors.NotValidf("nil State")
	}
	if c.Status == nil {
		return errors.NotValidf("nil Status")
	}
	if c.Packages == nil {
		return errors.NotValidf("nil Packages")
	}
	if c.Installer == nil {
		return errors.NotValidf("nil Installer")
	}
	if c.Configurer == nil {
		return errors.NotValidf("nil Configurer")
	}
	if c.Reloader == nil {
		return errors.NotValidf("nil Reloader")
	}
	if c.Admins == nil {
		return errors.NotValidf("nil Admins")
	}
	if c.Logo == nil {
		return errors.NotValidf("nil Logo")
	}
	if c.Config == nil {
		return errors.NotValidf("nil Config")
	}
	if c.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	return nil
}

// Operator routes platform events to their handlers and carries the
// installation state machine. It processes one event at a time; the
// platform never delivers events concurrently to a unit.
type Operator struct {
	config OperatorConfig
	routes map[Kind]func(context.Context) error
}

// NewOperator returns an Operator with its event routing table
// constructed.
func NewOperator(cfg OperatorConfig) (*Operator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	o := &Operator{config: cfg}
	o.routes = map[Kind]func(context.Context) error{
		Install:               o.handleInstall,
		ConfigChanged:         o.handleConfigChanged,
		DbRelationJoined:      o.handleDbRelationJoined,
		DbRelationChanged:     o.handleDbRelationChanged,
		DbRelationDeparted:    o.handleDbRelationDeparted,
		PeerRelationChanged:   o.handlePeerRelationChanged,
		CacheRelationChanged:  o.handleConfigChanged,
		CacheRelationDeparted: o.handleConfigChanged,
		WebsiteRelationJoined: o.handleWebsiteRelationJoined,
	}
	return o, nil
}

// blockedMessages names the failed phase for operator diagnosis.
var blockedMessages = map[Kind]string{
	Install:               "Failed to install packages",
	ConfigChanged:         "Failed to configure mediawiki",
	CacheRelationChanged:  "Failed to configure mediawiki",
	CacheRelationDeparted: "Failed to configure mediawiki",
	DbRelationChanged:     "Failed to install mediawiki",
	PeerRelationChanged:   "Failed to install mediawiki",
	DbRelationDeparted:    "Failed to remove mediawiki",
}

// HandleEvent dispatches one event to completion. Handler failures
// are caught here: they surface as a blocked status naming the failed
// phase and never propagate past the event, leaving the unit eligible
// to retry on the next triggering event. The returned error is
// non-nil only for events this operator has no handler for.
func (o *Operator) HandleEvent(ctx context.Context, kind Kind) error {
	handler, ok := o.routes[kind]
	if !ok {
		return errors.NotFoundf("handler for event %q", kind)
	}
	logger.Debugf("handling %s", kind)
	if err := handler(ctx); err != nil {
		logger.Errorf("%s failed: %v", kind, err)
		message := blockedMessages[kind]
		if message == "" {
			message = fmt.Sprintf("Failed to handle %s", kind)
		}
		o.setStatus(status.Blocked, message)
	}
	return nil
}

func (o *Operator) handleInstall(ctx context.Context) error {
	o.setStatus(status.Maintenance, "Installing packages")
	if err := o.config.Packages.InstallPackages(ctx); err != nil {
		return errors.Trace(err)
	}
	o.updateStatus()
	return nil
}

func (o *Operator) handleConfigChanged(ctx context.Context) error {
	o.setStatus(status.Maintenance, "Configuring Mediawiki")
	attrs, err := o.config.Config.ConfigAttributes()
	if err != nil {
		return errors.Trace(err)
	}
	cfg, err := config.New(attrs)
	if err != nil {
		return errors.Trace(err)
	}
	var logoPath string
	if cfg.Logo != "" {
		if logoPath, err = o.config.Logo.Fetch(ctx, cfg.Logo); err != nil {
			return errors.Trace(err)
		}
	}
	if err := o.config.Configurer.Configure(cfg, logoPath, o.cacheServers()); err != nil {
		return errors.Trace(err)
	}
	st, err := o.config.State.Read()
	if err != nil {
		return errors.Trace(err)
	}
	// The promote script needs an installed wiki; until then the
	// parsed admins are only validated.
	if st.Installed && len(cfg.Admins) > 0 {
		if err := o.config.Admins.EnsureAdmins(ctx, cfg.Admins); err != nil {
			return errors.Trace(err)
		}
	}
	if err := o.config.Reloader.Reload(ctx); err != nil {
		return errors.Trace(err)
	}
	o.updateStatus()
	return nil
}

func (o *Operator) handleDbRelationJoined(ctx context.Context) error {
	o.updateStatus()
	return nil
}

func (o *Operator) handleDbRelationChanged(ctx context.Context) error {
	snap, err := o.config.Store.Relation(relation.Db)
	if errors.IsNotFound(err) {
		o.updateStatus()
		return nil
	} else if err != nil {
		return errors.Trace(err)
	}
	leader, err := o.config.Leadership.IsLeader()
	if err != nil {
		return errors.Trace(err)
	}
	if !leader {
		// Followers act on the leader's peer signal, not on db data.
		logger.Debugf("not leader, waiting for peer install signal")
		o.updateStatus()
		return nil
	}
	endpoint, err := ResolveEndpoint(snap)
	if errors.IsNotFound(err) {
		logger.Infof("db relation has no usable endpoint yet")
		o.updateStatus()
		return nil
	} else if err != nil {
		return errors.Trace(err)
	}
	if err := o.ensureInstalled(ctx, endpoint, true); err != nil {
		return errors.Trace(err)
	}
	if err := o.publishPeerStatus(relation.PeerConnected); err != nil {
		return errors.Trace(err)
	}
	o.updateStatus()
	return nil
}

func (o *Operator) handlePeerRelationChanged(ctx context.Context) error {
	leader, err := o.config.Leadership.IsLeader()
	if err != nil {
		return errors.Trace(err)
	}
	if leader {
		// The leader wrote the signal; nothing to react to.
		logger.Debugf("leader ignores peer install signals")
		return nil
	}
	snap, err := o.config.Store.Relation(relation.Peer)
	if errors.IsNotFound(err) {
		return nil
	} else if err != nil {
		return errors.Trace(err)
	}
	if err := o.recordObservedRevision(snap); err != nil {
		return errors.Trace(err)
	}
	value, ok := snap.Application.Get(relation.PeerStatusKey)
	if !ok || value != relation.PeerConnected {
		o.updateStatus()
		return nil
	}
	dbSnap, err := o.config.Store.Relation(relation.Db)
	if errors.IsNotFound(err) {
		logger.Infof("peer status is connected but db relation is missing")
		o.updateStatus()
		return nil
	} else if err != nil {
		return errors.Trace(err)
	}
	endpoint, err := ResolveEndpoint(dbSnap)
	if errors.IsNotFound(err) {
		// No usable endpoint yet; the next db-relation-changed
		// event retries this path.
		logger.Infof("peer status is connected but db endpoint is unresolved")
		o.updateStatus()
		return nil
	} else if err != nil {
		return errors.Trace(err)
	}
	if err := o.ensureInstalled(ctx, endpoint, false); err != nil {
		return errors.Trace(err)
	}
	o.updateStatus()
	return nil
}

func (o *Operator) handleDbRelationDeparted(ctx context.Context) error {
	st, err := o.config.State.Read()
	if err != nil {
		return errors.Trace(err)
	}
	st.Installed = false
	if err := o.config.State.Write(st); err != nil {
		return errors.Trace(err)
	}
	if err := o.config.Installer.Uninstall(); err != nil {
		return errors.Trace(err)
	}
	leader, err := o.config.Leadership.IsLeader()
	if err != nil {
		return errors.Trace(err)
	}
	if leader {
		if err := o.publishPeerStatus(relation.PeerDisconnected); err != nil {
			return errors.Trace(err)
		}
	}
	o.updateStatus()
	return nil
}

func (o *Operator) handleWebsiteRelationJoined(ctx context.Context) error {
	snap, err := o.config.Store.Relation(relation.Website)
	if errors.IsNotFound(err) {
		return nil
	} else if err != nil {
		return errors.Trace(err)
	}
	changes := map[string]string{relation.WebsitePortKey: "80"}
	if hostname, ok := snap.Local.Get(relation.PrivateAddressKey); ok {
		changes[relation.WebsiteHostnameKey] = hostname
	}
	return errors.Trace(o.config.Store.FlushLocal(relation.Website, changes))
}

// ensureInstalled drives the unit to the installed state for the
// given endpoint. The destructive install script runs at most once
// per database generation, and only on the leader: once the local
// marker is set, or on any follower, only the local configuration is
// refreshed.
func (o *Operator) ensureInstalled(ctx context.Context, endpoint relation.DbEndpoint, leader bool) error {
	st, err := o.config.State.Read()
	if err != nil {
		return errors.Trace(err)
	}
	if !st.Installed && leader {
		if err := o.config.Installer.Install(ctx, endpoint); err != nil {
			return errors.Trace(err)
		}
	} else {
		if err := o.config.Installer.EnsureConfigured(endpoint); err != nil {
			return errors.Trace(err)
		}
	}
	if !st.Installed {
		st.Installed = true
		if err := o.config.State.Write(st); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(o.config.Reloader.Reload(ctx))
}

// publishPeerStatus writes the install status into the peer
// relation's leader-writable bucket. A "connected" publish carries a
// revision one greater than any this unit has published or observed,
// so followers can disambiguate stale reads after a leader handoff.
func (o *Operator) publishPeerStatus(value string) error {
	changes := map[string]string{relation.PeerStatusKey: value}
	if value == relation.PeerConnected {
		st, err := o.config.State.Read()
		if err != nil {
			return errors.Trace(err)
		}
		if snap, err := o.config.Store.Relation(relation.Peer); err == nil {
			if rev, ok := peerRevision(snap.Application); ok && rev > st.Revision {
				st.Revision = rev
			}
		}
		st.Revision++
		if err := o.config.State.Write(st); err != nil {
			return errors.Trace(err)
		}
		changes[relation.PeerRevisionKey] = strconv.Itoa(st.Revision)
	}
	err := o.config.Store.FlushApplication(relation.Peer, changes)
	if errors.IsNotFound(err) {
		// Single-unit deployments have no peer relation to signal on.
		logger.Debugf("no peer relation to publish %q to", value)
		return nil
	}
	return errors.Trace(err)
}

// recordObservedRevision keeps the local revision high-water mark up
// to date, so this unit publishes a strictly larger revision if it is
// ever granted leadership.
func (o *Operator) recordObservedRevision(snap *relation.Snapshot) error {
	rev, ok := peerRevision(snap.Application)
	if !ok {
		return nil
	}
	st, err := o.config.State.Read()
	if err != nil {
		return errors.Trace(err)
	}
	if rev <= st.Revision {
		return nil
	}
	st.Revision = rev
	return errors.Trace(o.config.State.Write(st))
}

// peerRevision reads the revision counter from the peer application
// bucket. Malformed values are logged and treated as absent.
func peerRevision(settings *relation.Settings) (int, bool) {
	value, ok := settings.Get(relation.PeerRevisionKey)
	if !ok {
		return 0, false
	}
	rev, err := strconv.Atoi(value)
	if err != nil {
		logger.Warningf("ignoring malformed peer revision %q", value)
		return 0, false
	}
	return rev, true
}

// cacheServers collects memcached "host:port" addresses from the
// cache relation, in natural unit order. No cache relation means no
// servers.
func (o *Operator) cacheServers() []string {
	snap, err := o.config.Store.Relation(relation.Cache)
	if err != nil {
		if !errors.IsNotFound(err) {
			logger.Errorf("cannot read cache relation: %v", err)
		}
		return nil
	}
	members := append([]string(nil), snap.Members...)
	naturalsort.Sort(members)
	var servers []string
	for _, member := range members {
		settings := snap.UnitSettings(member)
		host, ok := settings.Get(relation.CacheHostKey)
		if !ok {
			continue
		}
		port, ok := settings.Get(relation.CachePortKey)
		if !ok {
			continue
		}
		servers = append(servers, net.JoinHostPort(host, port))
	}
	return servers
}

// updateStatus re-derives and reports the unit status from current
// state. Failures to report are logged; they never fail the event.
func (o *Operator) updateStatus() {
	var snap *relation.Snapshot
	s, err := o.config.Store.Relation(relation.Db)
	if err == nil {
		snap = s
	} else if !errors.IsNotFound(err) {
		logger.Errorf("cannot read db relation for status: %v", err)
		return
	}
	st, err := o.config.State.Read()
	if err != nil {
		logger.Errorf("cannot read local state for status: %v", err)
		return
	}
	info := ProjectStatus(snap, st.Installed, o.config.Clock.Now())
	if err := o.config.Status.SetStatus(info); err != nil {
		logger.Errorf("cannot set status: %v", err)
	}
}

func (o *Operator) setStatus(s status.Status, message string) {
	now := o.config.Clock.Now()
	err := o.config.Status.SetStatus(status.StatusInfo{
		Status:  s,
		Message: message,
		Since:   &now,
	})
	if err != nil {
		logger.Errorf("cannot set status: %v", err)
	}
}
