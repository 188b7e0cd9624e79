// Package config reads service settings from the environment, with
// .env files loaded by the entrypoints before first use.
package config

import "os"

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
