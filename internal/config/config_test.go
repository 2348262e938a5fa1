package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "portfolio", cfg.Database.Name)
	assert.Equal(t, 10*time.Second, cfg.Pricing.Timeout)
	assert.True(t, cfg.Snapshot.Enabled)
	assert.Equal(t, 1, cfg.Snapshot.Hour)
	assert.Equal(t, 0, cfg.Snapshot.Minute)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("SNAPSHOT_HOUR", "3")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 3, cfg.Snapshot.Hour)
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Name:     "portfolio",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=postgres dbname=portfolio sslmode=disable",
		db.DSN(),
	)
}
