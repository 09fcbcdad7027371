package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.EnableBackup)
	assert.False(t, cfg.EnableVolumeSnapshot)
	assert.Equal(t, "", cfg.DataPlaneBaseDomain)
	assert.Equal(t, 90*time.Second, cfg.ReconcileTTL)
	assert.Equal(t, 60*time.Second, cfg.ReconcileJitter)
	assert.Equal(t, 30*time.Second, cfg.FullReconcileTimestampTTL)
	assert.Equal(t, 4, cfg.MaxConcurrentReconciles)
	assert.False(t, cfg.IngressEnabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENABLE_BACKUP", "false")
	t.Setenv("ENABLE_VOLUME_SNAPSHOT", "true")
	t.Setenv("VOLUME_SNAPSHOT_CLASS", "csi-snapclass")
	t.Setenv("DATA_PLANE_BASEDOMAIN", "db.example.com")
	t.Setenv("RECONCILE_TTL", "120")
	t.Setenv("RECONCILE_JITTER", "15")
	t.Setenv("MAX_CONCURRENT_RECONCILES", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.EnableBackup)
	assert.True(t, cfg.EnableVolumeSnapshot)
	assert.Equal(t, "csi-snapclass", cfg.VolumeSnapshotClass)
	assert.Equal(t, "db.example.com", cfg.DataPlaneBaseDomain)
	assert.Equal(t, 120*time.Second, cfg.ReconcileTTL)
	assert.Equal(t, 15*time.Second, cfg.ReconcileJitter)
	assert.Equal(t, 8, cfg.MaxConcurrentReconciles)
	assert.True(t, cfg.IngressEnabled())
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Run("reconcile ttl too small", func(t *testing.T) {
		t.Setenv("RECONCILE_TTL", "1")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ReconcileTTL")
	})

	t.Run("base domain not a fqdn", func(t *testing.T) {
		t.Setenv("DATA_PLANE_BASEDOMAIN", "not a domain")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DataPlaneBaseDomain")
	})
}

func TestLoadMalformedValuesFallBack(t *testing.T) {
	t.Setenv("ENABLE_BACKUP", "yes-please")
	t.Setenv("RECONCILE_TTL", "ninety")
	t.Setenv("MAX_CONCURRENT_RECONCILES", "lots")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.EnableBackup)
	assert.Equal(t, 90*time.Second, cfg.ReconcileTTL)
	assert.Equal(t, 4, cfg.MaxConcurrentReconciles)
}
