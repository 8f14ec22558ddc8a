// Package config loads server configuration from a YAML file with
// environment variable overrides and built-in defaults.
package config
