package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"signal_bot/internal/models"
	"signal_bot/pkg/db"
)

// Свечи пишет внешний сборщик, бот только читает.
const selectCandles = `SELECT ts, close FROM candles
WHERE symbol = $1 AND interval = $2 AND ts >= $3
ORDER BY ts`

// Candles: PriceProvider поверх таблицы candles.
type Candles struct {
	tx  db.TxManager
	now func() time.Time
	log *zap.Logger
}

func NewCandles(tx db.TxManager, log *zap.Logger) *Candles {
	return &Candles{tx: tx, now: time.Now, log: log.Named("candles")}
}

func (c *Candles) GetSeries(ctx context.Context, symbol string, lookback, interval time.Duration) (models.PriceSeries, error) {
	since := c.now().Add(-lookback)
	symbol = strings.ToUpper(symbol)

	var series models.PriceSeries
	err := c.tx.RunReadOnly(ctx, func(ctx context.Context, tx db.Transaction) error {
		rows, err := tx.Query(ctx, selectCandles, symbol, IntervalParam(interval), since)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var p models.PricePoint
			if err := rows.Scan(&p.Time, &p.Close); err != nil {
				return err
			}
			if n := len(series); n > 0 && !p.Time.After(series[n-1].Time) {
				continue
			}
			series = append(series, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, errors.Wrapf(err, "candles: %s", symbol)
	}
	c.log.Debug("series loaded", zap.String("symbol", symbol), zap.Int("points", len(series)))
	return series, nil
}
