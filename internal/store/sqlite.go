package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"PortfolioSentinel/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists portfolio data to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets request handlers read while the sync cycle writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS holdings (
			symbol   TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			buyin    REAL NOT NULL,
			quantity REAL NOT NULL,
			price    REAL NOT NULL DEFAULT 0,
			currency TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS timestamps (
			name      TEXT PRIMARY KEY,
			timestamp INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS candles (
			symbol    TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			open      REAL NOT NULL,
			high      REAL NOT NULL,
			low       REAL NOT NULL,
			close     REAL NOT NULL,
			PRIMARY KEY (symbol, timestamp)
		)`,
	}

	for _, st := range stmts {
		if _, err := s.db.Exec(st); err != nil {
			return fmt.Errorf("exec %q: %w", st[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) AllHoldings(ctx context.Context) ([]model.Holding, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT symbol, name, buyin, quantity, price, currency FROM holdings ORDER BY rowid`)
	if err != nil {
		return nil, wrap("all holdings", err)
	}
	defer rows.Close()

	var holdings []model.Holding
	for rows.Next() {
		var h model.Holding
		if err := rows.Scan(&h.Symbol, &h.Name, &h.BuyIn, &h.Quantity, &h.Price, &h.Currency); err != nil {
			return nil, wrap("all holdings", err)
		}
		holdings = append(holdings, h)
	}
	return holdings, wrap("all holdings", rows.Err())
}

func (s *SQLiteStore) InsertHolding(ctx context.Context, h model.Holding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM holdings WHERE symbol = ?)`, h.Symbol).Scan(&exists); err != nil {
		return wrap("insert holding", err)
	}
	if exists {
		return wrap("insert holding", fmt.Errorf("%s: %w", h.Symbol, ErrExists))
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO holdings
		(symbol, name, buyin, quantity, price, currency)
		VALUES (?,?,?,?,?,?)`,
		h.Symbol, h.Name, h.BuyIn, h.Quantity, h.Price, h.Currency,
	)
	return wrap("insert holding", err)
}

func (s *SQLiteStore) UpdateHoldingPrice(ctx context.Context, symbol string, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `UPDATE holdings SET price = ? WHERE symbol = ?`, price, symbol)
	return wrap("update price", affected(res, err, symbol))
}

func (s *SQLiteStore) DeleteHolding(ctx context.Context, symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM holdings WHERE symbol = ?`, symbol)
	return wrap("delete holding", affected(res, err, symbol))
}

func affected(res sql.Result, err error, symbol string) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", symbol, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) AllTimestamps(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, timestamp FROM timestamps`)
	if err != nil {
		return nil, wrap("all timestamps", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var name string
		var ts int64
		if err := rows.Scan(&name, &ts); err != nil {
			return nil, wrap("all timestamps", err)
		}
		out[name] = ts
	}
	return out, wrap("all timestamps", rows.Err())
}

func (s *SQLiteStore) SaveTimestamp(ctx context.Context, name string, seconds int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `INSERT INTO timestamps (name, timestamp) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET timestamp = MAX(timestamp, excluded.timestamp)`,
		name, seconds,
	)
	return wrap("save timestamp", err)
}

func (s *SQLiteStore) AllCandleRows(ctx context.Context) ([]model.CandlePoint, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT symbol, timestamp, open, high, low, close
		FROM candles ORDER BY symbol, timestamp ASC`)
	if err != nil {
		return nil, wrap("all candles", err)
	}
	defer rows.Close()

	var points []model.CandlePoint
	for rows.Next() {
		var p model.CandlePoint
		if err := rows.Scan(&p.Symbol, &p.Timestamp, &p.Open, &p.High, &p.Low, &p.Close); err != nil {
			return nil, wrap("all candles", err)
		}
		points = append(points, p)
	}
	return points, wrap("all candles", rows.Err())
}

// InsertCandles upserts historical candle rows.
func (s *SQLiteStore) InsertCandles(ctx context.Context, points []model.CandlePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrap("insert candles", err)
	}
	defer tx.Rollback()

	for _, p := range points {
		if _, err := tx.ExecContext(ctx, `INSERT INTO candles
			(symbol, timestamp, open, high, low, close) VALUES (?,?,?,?,?,?)
			ON CONFLICT(symbol, timestamp) DO UPDATE SET
				open = excluded.open, high = excluded.high, low = excluded.low, close = excluded.close`,
			p.Symbol, p.Timestamp, p.Open, p.High, p.Low, p.Close,
		); err != nil {
			return wrap("insert candles", err)
		}
	}
	return wrap("insert candles", tx.Commit())
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
