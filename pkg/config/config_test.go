package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("X_INT", "42")
	t.Setenv("X_BAD_INT", "nope")
	t.Setenv("X_DUR", "90s")
	t.Setenv("X_BAD_DUR", "-1s")

	assert.Equal(t, 42, EnvIntDefault("X_INT", 1))
	assert.Equal(t, 1, EnvIntDefault("X_BAD_INT", 1))
	assert.Equal(t, 7, EnvIntDefault("X_MISSING", 7))
	assert.Equal(t, 90*time.Second, EnvDurationDefault("X_DUR", time.Minute))
	assert.Equal(t, time.Minute, EnvDurationDefault("X_BAD_DUR", time.Minute))
	assert.Equal(t, "def", EnvDefault("X_MISSING", "def"))
}

func TestLoad(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, "food_items", cfg.ESIndex)
}
