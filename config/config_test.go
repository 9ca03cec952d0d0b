package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "course-registrar", cfg.App.Name)
	assert.True(t, cfg.IsDevelopment())
	assert.Empty(t, cfg.Catalog.Path)
	assert.Equal(t, "registrar:events", cfg.Redis.Channel)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 4, cfg.Database.MaxConns)
	assert.Equal(t, "text", cfg.Observability.LogFormat)

	assert.True(t, cfg.Features.IsEnabled(FeatureSampleCatalog))
	assert.True(t, cfg.Features.IsEnabled(FeatureStartupVerify))
	assert.False(t, cfg.Features.IsEnabled(FeatureAuditJournal))
	assert.False(t, cfg.Features.IsEnabled(FeatureRedisFanout))
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CATALOG_PATH", "/etc/registrar/catalog.yaml")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DIAL_TIMEOUT", "250ms")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "registrar")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("FEATURE_EVENTS_AUDIT_JOURNAL", "true")
	t.Setenv("FEATURE_CATALOG_SAMPLES", "false")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/etc/registrar/catalog.yaml", cfg.Catalog.Path)
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Redis.DialTimeout)
	assert.Equal(t, "postgres://registrar:secret@db:5432/postgres?sslmode=disable", cfg.Database.URL)
	assert.True(t, cfg.Features.IsEnabled(FeatureAuditJournal))
	assert.False(t, cfg.Features.IsEnabled(FeatureSampleCatalog))
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("REDIS_PORT", "not-a-port")
	t.Setenv("FEATURE_STARTUP_VERIFY", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.True(t, cfg.Features.IsEnabled(FeatureStartupVerify))
}

func TestValidate(t *testing.T) {
	t.Setenv("FEATURE_EVENTS_AUDIT_JOURNAL", "true")
	t.Setenv("LOG_FORMAT", "xml")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestFeatureFlags(t *testing.T) {
	ff := LoadFeatureFlags()

	assert.False(t, ff.IsEnabled("no.such.feature"))
	assert.ErrorIs(t, ff.SetEnabled("no.such.feature", true), ErrFeatureNotFound)

	require.NoError(t, ff.SetEnabled(FeatureRedisFanout, true))
	assert.True(t, ff.IsEnabled(FeatureRedisFanout))

	assert.Equal(t, []string{
		FeatureSampleCatalog,
		FeatureAuditJournal,
		FeatureEventMetrics,
		FeatureRedisFanout,
		FeatureStartupVerify,
	}, ff.Names())
}
