// Package config defines the service configuration and its HCL loader.
package config

import (
	"fmt"
	"time"
)

// BusyPolicy selects how concurrent mutations of the same interface are
// handled: fail fast with a conflict, or queue behind the in-flight one.
type BusyPolicy string

const (
	BusyReject BusyPolicy = "reject"
	BusyBlock  BusyPolicy = "block"
)

// Config is the root service configuration.
type Config struct {
	// ListenAddr is the HTTP listen address, e.g. "127.0.0.1:8080".
	ListenAddr string `hcl:"listen_addr,optional"`

	// AdminPasswordHash is the argon2id PHC string the login password is
	// verified against. Required for serving.
	AdminPasswordHash string `hcl:"admin_password_hash"`

	// TokenTTL is the bearer token validity window (e.g. "15m").
	TokenTTL string `hcl:"token_ttl,optional"`

	// LoginCooldown throttles session creation: a login succeeding within
	// this window of the previous session's creation is rejected (e.g. "15s").
	LoginCooldown string `hcl:"login_cooldown,optional"`

	// BusyPolicy is "reject" or "block".
	BusyPolicy string `hcl:"busy_policy,optional"`

	// Interfaces optionally restricts which interface names may be managed.
	// Empty means every interface the OS reports.
	Interfaces []string `hcl:"interfaces,optional"`

	// AuditDB is the path of the sqlite audit database. Empty disables
	// persistent auditing.
	AuditDB string `hcl:"audit_db,optional"`

	// AuditRetentionDays bounds how long audit events are kept.
	AuditRetentionDays int `hcl:"audit_retention_days,optional"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `hcl:"log_level,optional"`
}

// Default returns a config with defaults applied, without a credential.
func Default() *Config {
	return &Config{
		ListenAddr:         "127.0.0.1:8080",
		TokenTTL:           "15m",
		LoginCooldown:      "15s",
		BusyPolicy:         string(BusyReject),
		AuditRetentionDays: 90,
		LogLevel:           "info",
	}
}

// ApplyDefaults fills unset fields with defaults.
func (c *Config) ApplyDefaults() {
	d := Default()
	if c.ListenAddr == "" {
		c.ListenAddr = d.ListenAddr
	}
	if c.TokenTTL == "" {
		c.TokenTTL = d.TokenTTL
	}
	if c.LoginCooldown == "" {
		c.LoginCooldown = d.LoginCooldown
	}
	if c.BusyPolicy == "" {
		c.BusyPolicy = d.BusyPolicy
	}
	if c.AuditRetentionDays == 0 {
		c.AuditRetentionDays = d.AuditRetentionDays
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

// Validate checks the config for serving.
func (c *Config) Validate() error {
	if c.AdminPasswordHash == "" {
		return fmt.Errorf("admin_password_hash is required")
	}
	if _, err := c.TokenTTLDuration(); err != nil {
		return fmt.Errorf("invalid token_ttl: %w", err)
	}
	if _, err := c.LoginCooldownDuration(); err != nil {
		return fmt.Errorf("invalid login_cooldown: %w", err)
	}
	switch BusyPolicy(c.BusyPolicy) {
	case BusyReject, BusyBlock:
	default:
		return fmt.Errorf("invalid busy_policy %q (want %q or %q)", c.BusyPolicy, BusyReject, BusyBlock)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}

// TokenTTLDuration parses TokenTTL.
func (c *Config) TokenTTLDuration() (time.Duration, error) {
	return time.ParseDuration(c.TokenTTL)
}

// LoginCooldownDuration parses LoginCooldown.
func (c *Config) LoginCooldownDuration() (time.Duration, error) {
	return time.ParseDuration(c.LoginCooldown)
}

// ManagesInterface reports whether the named interface is within the
// configured allowlist (or no allowlist is set).
func (c *Config) ManagesInterface(name string) bool {
	if len(c.Interfaces) == 0 {
		return true
	}
	for _, n := range c.Interfaces {
		if n == name {
			return true
		}
	}
	return false
}
