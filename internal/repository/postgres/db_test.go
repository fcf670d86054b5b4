package postgres

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"figcheck/internal/config"
)

func TestConfigurePool(t *testing.T) {
	cfg := &config.DBConfig{
		Host: "localhost", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable",
		MaxOpen: 7, MaxIdle: 3, ConnMaxLifetime: time.Minute,
	}
	// Open does not dial, so no server is needed.
	db, err := sqlx.Open("pgx", cfg.DSN())
	require.NoError(t, err)
	defer db.Close()

	configurePool(db, cfg)
	assert.Equal(t, 7, db.Stats().MaxOpenConnections)
}
