package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{"STORE_DRIVER": "memory"}))
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "recipe-costing.db", cfg.SQLitePath)
	assert.Equal(t, 5*time.Second, cfg.TxTimeout)
	assert.False(t, cfg.ApplySchema)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"STORE_DRIVER": "Postgres",
		"DATABASE_URL": "postgres://localhost/costing",
		"SERVER_PORT":  "9090",
		"LOG_LEVEL":    "DEBUG",
		"LOG_FORMAT":   "text",
		"TX_TIMEOUT":   "750ms",
		"APPLY_SCHEMA": "true",
	}))
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 750*time.Millisecond, cfg.TxTimeout)
	assert.True(t, cfg.ApplySchema)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"postgres without url", map[string]string{}},
		{"unknown driver", map[string]string{"STORE_DRIVER": "mongo"}},
		{"bad timeout", map[string]string{"STORE_DRIVER": "memory", "TX_TIMEOUT": "soon"}},
		{"negative timeout", map[string]string{"STORE_DRIVER": "memory", "TX_TIMEOUT": "-1s"}},
		{"bad bool", map[string]string{"STORE_DRIVER": "memory", "APPLY_SCHEMA": "maybe"}},
		{"bad level", map[string]string{"STORE_DRIVER": "memory", "LOG_LEVEL": "loud"}},
		{"bad format", map[string]string{"STORE_DRIVER": "memory", "LOG_FORMAT": "xml"}},
		{"bad port", map[string]string{"STORE_DRIVER": "memory", "SERVER_PORT": "http"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(envOf(tt.env))
			assert.Error(t, err)
		})
	}
}
