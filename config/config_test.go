package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	conf := FromViper(newViper())

	assert.Equal(t, "3000", conf.Port)
	assert.Equal(t, "postgres", conf.DBDriver)
	assert.Equal(t, 24*time.Hour, conf.JWTTTL)
	assert.Equal(t, 10*time.Second, conf.ContentStoreTimeout)
	assert.Equal(t, 1, conf.ContentStoreRetries)
	assert.Equal(t, "@every 15m", conf.ProgressSweepSpec)
}

func TestFromViperEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("CONTENT_STORE_URL", "http://store.local/")
	t.Setenv("CONTENT_STORE_TIMEOUT", "3s")
	t.Setenv("SALT_ROUND", "12")

	conf := FromViper(newViper())

	assert.Equal(t, "8080", conf.Port)
	assert.Equal(t, "sqlite", conf.DBDriver)
	assert.Equal(t, "http://store.local", conf.ContentStoreURL)
	assert.Equal(t, 3*time.Second, conf.ContentStoreTimeout)
	assert.Equal(t, 12, conf.SaltRound)
}
