// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package config interprets the charm configuration for the wiki.
// Raw attribute maps from the platform are coerced into a typed
// Config at the boundary; nothing downstream sees loose strings.
package config

import (
	"strings"

	"github.com/juju/errors"
	"github.com/juju/schema"
)

// Recognised configuration options.
const (
	NameKey          = "name"
	LanguageKey      = "language"
	SkinKey          = "skin"
	ServerAddressKey = "server_address"
	LogoKey          = "logo"
	DebugKey         = "debug"
	AdminsKey        = "admins"
)

var configFields = schema.Fields{
	NameKey:          schema.String(),
	LanguageKey:      schema.String(),
	SkinKey:          schema.String(),
	ServerAddressKey: schema.String(),
	LogoKey:          schema.String(),
	DebugKey:         schema.Bool(),
	AdminsKey:        schema.String(),
}

var configDefaults = schema.Defaults{
	NameKey:          "Charmed Wiki",
	LanguageKey:      "en",
	SkinKey:          "vector",
	ServerAddressKey: "",
	LogoKey:          "",
	DebugKey:         false,
	AdminsKey:        "",
}

// Admin is one wiki administrator account to create or update.
type Admin struct {
	Username string
	Password string
}

// Config is the validated charm configuration.
type Config struct {
	// Name is the wiki display name.
	Name string

	// Language is the wiki locale code.
	Language string

	// Skin is the default wiki skin.
	Skin string

	// ServerAddress overrides the base URL the wiki advertises.
	ServerAddress string

	// Logo is the URL of a logo image to fetch, or empty.
	Logo string

	// Debug enables the wiki debug log.
	Debug bool

	// Admins are the administrator accounts to ensure exist.
	Admins []Admin
}

// New validates and coerces a raw attribute map into a Config.
// Unknown attributes are rejected.
func New(attrs map[string]interface{}) (*Config, error) {
	if attrs == nil {
		attrs = map[string]interface{}{}
	}
	for key := range attrs {
		if _, ok := configFields[key]; !ok {
			return nil, errors.NotValidf("unknown option %q", key)
		}
	}
	coerced, err := schema.FieldMap(configFields, configDefaults).Coerce(attrs, nil)
	if err != nil {
		return nil, errors.Annotate(err, "invalid charm configuration")
	}
	m := coerced.(map[string]interface{})
	admins, err := ParseAdmins(m[AdminsKey].(string))
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Config{
		Name:          m[NameKey].(string),
		Language:      m[LanguageKey].(string),
		Skin:          m[SkinKey].(string),
		ServerAddress: m[ServerAddressKey].(string),
		Logo:          m[LogoKey].(string),
		Debug:         m[DebugKey].(bool),
		Admins:        admins,
	}, nil
}

// ParseAdmins parses a whitespace-separated list of "user:password"
// entries. Any malformed entry fails the whole list, before any
// account operation has been attempted.
func ParseAdmins(value string) ([]Admin, error) {
	fields := strings.Fields(value)
	admins := make([]Admin, 0, len(fields))
	for _, field := range fields {
		username, password, ok := strings.Cut(field, ":")
		if !ok || username == "" {
			return nil, errors.NotValidf("admin entry %q", field)
		}
		admins = append(admins, Admin{Username: username, Password: password})
	}
	return admins, nil
}
