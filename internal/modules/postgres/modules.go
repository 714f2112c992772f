package postgres

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"

	"signal_bot/pkg/db"
)

const connectTimeout = 10 * time.Second

// Connect открывает пул по dsn и закрывает его при остановке приложения.
func Connect(lc fx.Lifecycle, dsn string) (*db.PgTxManager, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	poolMaster, err := db.NewPool(ctx, db.PoolConfig{
		DSN: dsn,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create poolMaster: %w", err)
	}

	tx := db.NewPgTxManager(poolMaster)
	lc.Append(fx.StopHook(tx.Close))
	return tx, nil
}
