// Package config handles configuration management for overlink.
// Settings come from embedded TOML defaults, an optional user config
// file and OVERLINK_* environment variables, merged in that order.
package config
