// Package config builds the runtime configuration of the library service: settings from
// the environment (optionally seeded from a .env file), database connections for every
// supported driver, and the OpenTelemetry providers.
//
// This package is part of the shell (infrastructure) layer.
package config
