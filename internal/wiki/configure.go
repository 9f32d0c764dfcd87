// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package wiki

import (
	"bytes"
	"os"
	"text/template"

	"github.com/juju/errors"

	"github.com/juju/mediawiki-operator/internal/config"
)

// configPHPTemplate renders the configuration that comes from charm
// config. It is included from LocalSettings.php, so rewriting it never
// disturbs the installed state.
var configPHPTemplate = template.Must(template.New("config.php").Parse(`<?php
# Generated by the mediawiki operator; local edits will be lost.
$wgSitename = "{{.Name}}";
$wgLanguageCode = "{{.Language}}";
$wgDefaultSkin = "{{.Skin}}";
{{- if .ServerAddress}}
$wgServer = "{{.ServerAddress}}";
{{- end}}
{{- if .LogoPath}}
$wgLogo = "{{.LogoPath}}";
{{- end}}
{{- if .DebugLog}}
$wgDebugLogFile = "{{.DebugLog}}";
{{- end}}
{{- if .CacheServers}}
$wgMainCacheType = CACHE_MEMCACHED;
$wgMemCachedServers = array({{range $i, $s := .CacheServers}}{{if $i}}, {{end}}"{{$s}}"{{end}});
{{- end}}
`))

type configPHPParams struct {
	Name          string
	Language      string
	Skin          string
	ServerAddress string
	LogoPath      string
	DebugLog      string
	CacheServers  []string
}

// Configurer renders config.php from charm configuration.
type Configurer struct {
	paths Paths
}

// NewConfigurer returns a Configurer writing under paths.
func NewConfigurer(paths Paths) *Configurer {
	return &Configurer{paths: paths}
}

// Configure overwrites config.php with the given configuration.
// logoPath is the locally fetched logo file, or empty; cacheServers
// are "host:port" memcached addresses, possibly none.
func (c *Configurer) Configure(cfg *config.Config, logoPath string, cacheServers []string) error {
	params := configPHPParams{
		Name:          cfg.Name,
		Language:      cfg.Language,
		Skin:          cfg.Skin,
		ServerAddress: cfg.ServerAddress,
		LogoPath:      logoPath,
		CacheServers:  cacheServers,
	}
	if cfg.Debug {
		params.DebugLog = c.paths.DebugLog()
	}
	var rendered bytes.Buffer
	if err := configPHPTemplate.Execute(&rendered, params); err != nil {
		return errors.Annotate(err, "cannot render config.php")
	}
	if err := os.WriteFile(c.paths.ConfigPHP(), rendered.Bytes(), 0644); err != nil {
		return errors.Annotate(err, "cannot write config.php")
	}
	return nil
}
