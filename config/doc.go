// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Unset fields fall back to production defaults via ApplyDefaults.
package config
