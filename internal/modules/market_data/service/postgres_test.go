package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"signal_bot/pkg/db"
)

type row struct {
	ts    time.Time
	close float64
}

type fakeRows struct {
	rows []row
	i    int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.i >= len(r.rows) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	cur := r.rows[r.i-1]
	*dest[0].(*time.Time) = cur.ts
	*dest[1].(*float64) = cur.close
	return nil
}

type fakeTx struct {
	rows     *fakeRows
	queryErr error
	args     []any
}

func (f *fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (f *fakeTx) Query(_ context.Context, _ string, args ...interface{}) (pgx.Rows, error) {
	f.args = args
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.rows, nil
}

func (f *fakeTx) QueryRow(context.Context, string, ...interface{}) pgx.Row { return nil }

type fakeManager struct{ tx *fakeTx }

func (m *fakeManager) RunReadOnly(ctx context.Context, fn func(context.Context, db.Transaction) error) error {
	return fn(ctx, m.tx)
}

func (m *fakeManager) Conn() db.Transaction { return m.tx }

func TestCandlesGetSeries(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	tx := &fakeTx{rows: &fakeRows{rows: []row{
		{base, 100},
		{base.Add(time.Hour), 101},
		{base.Add(time.Hour), 555},
		{base.Add(2 * time.Hour), 102},
	}}}
	c := NewCandles(&fakeManager{tx: tx}, zap.NewNop())
	now := base.Add(3 * time.Hour)
	c.now = func() time.Time { return now }

	series, err := c.GetSeries(context.Background(), "btc-usd", 24*time.Hour, time.Hour)
	if err != nil {
		t.Fatalf("GetSeries returned error: %v", err)
	}
	if got := series.Closes(); len(got) != 3 || got[0] != 100 || got[1] != 101 || got[2] != 102 {
		t.Fatalf("unexpected closes %v", got)
	}
	if tx.args[0] != "BTC-USD" || tx.args[1] != "1h" {
		t.Fatalf("unexpected query args %v", tx.args)
	}
	if since := tx.args[2].(time.Time); !since.Equal(now.Add(-24 * time.Hour)) {
		t.Fatalf("unexpected since %s", since)
	}
}

func TestCandlesErrors(t *testing.T) {
	boom := errors.New("boom")

	c := NewCandles(&fakeManager{tx: &fakeTx{queryErr: boom}}, zap.NewNop())
	if _, err := c.GetSeries(context.Background(), "BTC-USD", time.Hour, time.Hour); !errors.Is(err, boom) {
		t.Fatalf("expected query error, got %v", err)
	}

	c = NewCandles(&fakeManager{tx: &fakeTx{rows: &fakeRows{err: boom}}}, zap.NewNop())
	if _, err := c.GetSeries(context.Background(), "BTC-USD", time.Hour, time.Hour); !errors.Is(err, boom) {
		t.Fatalf("expected rows error, got %v", err)
	}
}
