package config

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseViper(t *testing.T, overrides map[string]any) *viper.Viper {
	t.Helper()

	v := newViper()
	v.Set("APP_NAME", "nasu-match")
	v.Set("APP_ENV", "test")
	v.Set("HTTP_PORT", "8080")
	v.Set("STORE_DRIVER", StoreDriverMemory)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(baseViper(t, nil))
	require.NoError(t, err)

	assert.Equal(t, "nasu-match", cfg.App.AppName)
	assert.Equal(t, StoreDriverMemory, cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Lead.Multiplier)
	assert.Equal(t, 50, cfg.Lead.MatchesLimit)
	assert.Equal(t, 99, cfg.Scoring.Ceiling)
	assert.Equal(t, 600*time.Second, cfg.Redis.TTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFrom_MissingRequired(t *testing.T) {
	v := newViper()
	v.Set("STORE_DRIVER", StoreDriverMemory)

	_, err := LoadFrom(v)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errMissingRequiredEnv))
	assert.Contains(t, err.Error(), "APP_NAME")
	assert.Contains(t, err.Error(), "HTTP_PORT")
}

func TestLoadFrom_PostgresRequiresDatabaseKeys(t *testing.T) {
	_, err := LoadFrom(baseViper(t, map[string]any{"STORE_DRIVER": "postgres"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST")
	assert.Contains(t, err.Error(), "DB_NAME")
}

func TestLoadFrom_PostgresComplete(t *testing.T) {
	cfg, err := LoadFrom(baseViper(t, map[string]any{
		"STORE_DRIVER":      "postgres",
		"DB_HOST":           "db",
		"DB_PORT":           "5432",
		"DB_NAME":           "nasu",
		"DB_USER":           "nasu",
		"DB_POOL_MAX_CONNS": 8,
	}))
	require.NoError(t, err)
	assert.Equal(t, "db", cfg.Database.DBHost)
	assert.Equal(t, int32(8), cfg.Database.PoolMaxConns)
	assert.Equal(t, "disable", cfg.Database.DBSSLMode)
}

func TestLoadFrom_ScoringOverrides(t *testing.T) {
	cfg, err := LoadFrom(baseViper(t, map[string]any{
		"SCORE_SALARY_WEIGHT": 40,
		"SCORE_SKILL_CAP":     10,
		"LEAD_MULTIPLIER":     5,
	}))
	require.NoError(t, err)
	assert.Equal(t, 40.0, cfg.Scoring.SalaryWeight)
	assert.Equal(t, 10.0, cfg.Scoring.SkillCap)
	assert.Equal(t, 5, cfg.Lead.Multiplier)
}

func TestLoadFrom_InvalidValues(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
	}{
		{name: "unknown driver", overrides: map[string]any{"STORE_DRIVER": "firestore"}},
		{name: "zero multiplier", overrides: map[string]any{"LEAD_MULTIPLIER": 0}},
		{name: "negative weight", overrides: map[string]any{"SCORE_LOCATION_WEIGHT": -1}},
		{name: "negative ceiling", overrides: map[string]any{"SCORE_CEILING": -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(baseViper(t, tt.overrides))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errInvalidValue))
		})
	}
}

func TestLoadScoringFrom_IgnoresServiceKeys(t *testing.T) {
	v := newViper()
	v.Set("SCORE_SALARY_WEIGHT", 40)
	v.Set("SCORE_CEILING", 80)

	sc, err := LoadScoringFrom(v)
	require.NoError(t, err)
	assert.Equal(t, 40.0, sc.SalaryWeight)
	assert.Equal(t, 80, sc.Ceiling)

	v.Set("SCORE_SKILL_CAP", -1)
	_, err = LoadScoringFrom(v)
	assert.True(t, errors.Is(err, errInvalidValue))
}
