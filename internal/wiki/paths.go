// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package wiki wraps the external operations the operator performs on
// the MediaWiki workload: package installation, the install script,
// configuration files, the web server and administrator accounts.
// Everything here is a single-shot side effect; all coordination
// decisions live in internal/operator.
package wiki

import (
	"path/filepath"
)

// Paths locates the workload's files on disk.
type Paths struct {
	// ConfigDir holds LocalSettings.php and the generated config.php.
	ConfigDir string

	// MaintenanceDir holds the MediaWiki maintenance scripts.
	MaintenanceDir string

	// DataDir holds fetched assets, such as the wiki logo.
	DataDir string

	// LogDir holds the debug log when debug is enabled.
	LogDir string
}

// DefaultPaths are the locations used by the Ubuntu mediawiki package.
func DefaultPaths() Paths {
	return Paths{
		ConfigDir:      "/etc/mediawiki",
		MaintenanceDir: "/usr/share/mediawiki/maintenance",
		DataDir:        "/var/lib/mediawiki-operator",
		LogDir:         "/var/log/mediawiki",
	}
}

// ConfigPHP is the file holding configuration generated from charm
// config. LocalSettings.php includes it, so charm config changes only
// ever rewrite this one file.
func (p Paths) ConfigPHP() string {
	return filepath.Join(p.ConfigDir, "config.php")
}

// LocalSettings is the main settings file generated at install time.
func (p Paths) LocalSettings() string {
	return filepath.Join(p.ConfigDir, "LocalSettings.php")
}

// InstallScript is the script that creates the database tables, the
// initial admin account and LocalSettings.php.
func (p Paths) InstallScript() string {
	return filepath.Join(p.MaintenanceDir, "install.php")
}

// PromoteScript is the script that creates or updates an
// administrator account.
func (p Paths) PromoteScript() string {
	return filepath.Join(p.MaintenanceDir, "createAndPromote.php")
}

// DebugLog is the wiki debug log path.
func (p Paths) DebugLog() string {
	return filepath.Join(p.LogDir, "debug.log")
}
