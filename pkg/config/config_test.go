package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("STORAGE_BACKEND")
	os.Unsetenv("SERVER_PORT")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage.Backend)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "casalist", cfg.Database.Database)
}

func TestLoad_StorageBackend(t *testing.T) {
	os.Setenv("STORAGE_BACKEND", "POSTGRES")
	defer os.Unsetenv("STORAGE_BACKEND")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, StoragePostgres, cfg.Storage.Backend)
}

func TestLoad_UnknownBackend(t *testing.T) {
	os.Setenv("STORAGE_BACKEND", "cassandra")
	defer os.Unsetenv("STORAGE_BACKEND")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "app",
		Password: "secret",
		Database: "casalist",
		SSLMode:  "require",
	}
	assert.Equal(t, "host=db port=5433 user=app password=secret dbname=casalist sslmode=require", cfg.DatabaseDSN())
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", cfg.RedisAddr())
}
