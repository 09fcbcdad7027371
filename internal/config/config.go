// Package config holds the operator's process-level configuration.
//
// The Config struct is built once at startup from the environment, validated,
// and then passed by reference into every reconcile pass. Reconciliation
// logic never reads the environment directly, which keeps the diff
// computation pure and testable.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// configValidator is a package-level validator instance that is reused across
// all loads. validator.Validator is thread-safe.
var configValidator = validator.New()

// Config is the immutable operator configuration.
type Config struct {
	// EnableBackup turns on reconciliation of backup CronJobs for instances
	// that request backups.
	EnableBackup bool

	// EnableVolumeSnapshot turns on storage-level snapshots in addition to
	// logical backups.
	EnableVolumeSnapshot bool

	// VolumeSnapshotClass is the VolumeSnapshotClass applied when volume
	// snapshots are enabled.
	VolumeSnapshotClass string `validate:"required_with=EnableVolumeSnapshot"`

	// DataPlaneBaseDomain is the base domain external ingress routes are
	// created under. Empty disables ingress route reconciliation.
	DataPlaneBaseDomain string `validate:"omitempty,fqdn"`

	// ReconcileTTL is the steady-state requeue interval. Each requeue adds
	// up to ReconcileJitter on top to spread load across instances.
	ReconcileTTL time.Duration `validate:"min=10s"`

	// ReconcileJitter is the maximum random addition to ReconcileTTL.
	ReconcileJitter time.Duration `validate:"min=0"`

	// FullReconcileTimestampTTL is the minimum time between updates to the
	// lastFullReconcile status timestamp, to avoid status churn.
	FullReconcileTimestampTTL time.Duration `validate:"min=0"`

	// MaxConcurrentReconciles bounds the worker pool. Reconciles for
	// distinct instances run in parallel up to this limit; a single instance
	// is never reconciled concurrently.
	MaxConcurrentReconciles int `validate:"min=1"`
}

// Load builds the configuration from the environment, applying defaults and
// validating the result.
func Load() (*Config, error) {
	cfg := &Config{
		EnableBackup:              fromEnvBool("ENABLE_BACKUP", true),
		EnableVolumeSnapshot:      fromEnvBool("ENABLE_VOLUME_SNAPSHOT", false),
		VolumeSnapshotClass:       fromEnvDefault("VOLUME_SNAPSHOT_CLASS", "pgforge-snapshot"),
		DataPlaneBaseDomain:       os.Getenv("DATA_PLANE_BASEDOMAIN"),
		ReconcileTTL:              fromEnvSeconds("RECONCILE_TTL", 90*time.Second),
		ReconcileJitter:           fromEnvSeconds("RECONCILE_JITTER", 60*time.Second),
		FullReconcileTimestampTTL: fromEnvSeconds("RECONCILE_TIMESTAMP_TTL", 30*time.Second),
		MaxConcurrentReconciles:   fromEnvInt("MAX_CONCURRENT_RECONCILES", 4),
	}

	if err := configValidator.Struct(cfg); err != nil {
		return nil, fmt.Errorf("operator config validation failed: %w", err)
	}
	return cfg, nil
}

// IngressEnabled reports whether external ingress routes are reconciled.
func (c *Config) IngressEnabled() bool {
	return c.DataPlaneBaseDomain != ""
}

func fromEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fromEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func fromEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func fromEnvSeconds(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return time.Duration(n) * time.Second
}
