package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-costing/internal/config"
	"recipe-costing/internal/core"
	"recipe-costing/internal/logging"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		cfg := config.Default()
		cfg.StoreDriver = config.DriverMemory
		h, err := Open(ctx, cfg, logging.Discard())
		require.NoError(t, err)
		assert.NotNil(t, h.Store)
		assert.Nil(t, h.ApplySchema)
		assert.NoError(t, h.Close())
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := config.Default()
		cfg.StoreDriver = config.DriverSQLite
		cfg.SQLitePath = filepath.Join(t.TempDir(), "data", "costing.db")
		h, err := Open(ctx, cfg, logging.Discard())
		require.NoError(t, err)
		assert.Equal(t, config.DriverSQLite, h.Driver)
		assert.FileExists(t, cfg.SQLitePath)
		assert.NoError(t, h.Close())
	})

	for _, driver := range []string{config.DriverMemory, config.DriverSQLite} {
		t.Run(driver+" honours tx timeout", func(t *testing.T) {
			cfg := config.Default()
			cfg.StoreDriver = driver
			cfg.SQLitePath = filepath.Join(t.TempDir(), "costing.db")
			cfg.TxTimeout = 20 * time.Millisecond
			h, err := Open(ctx, cfg, logging.Discard())
			require.NoError(t, err)
			defer h.Close()

			err = h.Store.WithTx(ctx, func(ctx context.Context, q core.Queries) error {
				if err := q.InsertIngredient(ctx, core.Ingredient{ID: "ing-slow", Name: "Slow", Unit: "g"}); err != nil {
					return err
				}
				time.Sleep(100 * time.Millisecond)
				return nil
			})
			require.ErrorIs(t, err, core.ErrTransactionFailure)
			_, err = h.Store.GetIngredient(ctx, "ing-slow")
			assert.ErrorIs(t, err, core.ErrNotFound)
		})
	}

	t.Run("postgres without url", func(t *testing.T) {
		cfg := config.Default()
		_, err := Open(ctx, cfg, logging.Discard())
		assert.ErrorContains(t, err, "DATABASE_URL")
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := config.Default()
		cfg.StoreDriver = "bolt"
		_, err := Open(ctx, cfg, logging.Discard())
		assert.ErrorContains(t, err, `unknown store driver "bolt"`)
	})

	t.Run("nil handle closes", func(t *testing.T) {
		var h *Handle
		assert.NoError(t, h.Close())
	})
}
