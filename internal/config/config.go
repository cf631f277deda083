package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig describes the primary pool and the optional replica pool.
type DatabaseConfig struct {
	// PrimaryURL is the write-capable database.
	PrimaryURL string `mapstructure:"primary_url" validate:"required,url"`
	// ReplicaURL is an optional read replica. Empty means reads use the primary.
	ReplicaURL string `mapstructure:"replica_url" validate:"omitempty,url"`

	MaxConns        int32         `mapstructure:"max_conns" validate:"gt=0"`
	MinConns        int32         `mapstructure:"min_conns" validate:"gte=0,ltefield=MaxConns"`
	ReplicaMaxConns int32         `mapstructure:"replica_max_conns" validate:"gte=0"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout" validate:"gt=0"`

	// ReplicaReadOnly makes the replica pool reject writes at the session
	// level, catching writes routed through Read in production as well.
	ReplicaReadOnly bool `mapstructure:"replica_read_only"`
}

// HasReplica reports whether a replica URL is configured.
func (c DatabaseConfig) HasReplica() bool {
	return c.ReplicaURL != ""
}

// EffectiveReplicaMaxConns returns ReplicaMaxConns, or MaxConns when unset.
func (c DatabaseConfig) EffectiveReplicaMaxConns() int32 {
	if c.ReplicaMaxConns > 0 {
		return c.ReplicaMaxConns
	}
	return c.MaxConns
}
