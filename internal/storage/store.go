package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/glebarez/go-sqlite"
)

// Store is the SQLite-backed Recorder.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the audit database with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma %s: %w", pragma, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS decisions (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			ts          INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			signal      TEXT NOT NULL,
			rsi         REAL,
			has_rsi     INTEGER NOT NULL,
			macd        REAL,
			macd_signal REAL,
			has_macd    INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_ts ON decisions(ts)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			ts       INTEGER NOT NULL,
			symbol   TEXT NOT NULL,
			side     TEXT NOT NULL,
			quantity TEXT NOT NULL,
			status   TEXT NOT NULL,
			response TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_ts ON orders(ts)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordDecision stores one signal evaluation.
func (s *Store) RecordDecision(ctx context.Context, d Decision) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO decisions (ts, symbol, signal, rsi, has_rsi, macd, macd_signal, has_macd)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.TsUnixMilli, d.Symbol, d.Signal.String(),
		d.RSI, boolToInt(d.HasRSI), d.MACD, d.MACDSignal, boolToInt(d.HasMACD),
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

// RecordOrder stores one order attempt. Quantity is stored as text to
// keep decimal precision intact.
func (s *Store) RecordOrder(ctx context.Context, o OrderAttempt) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO orders (ts, symbol, side, quantity, status, response)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		o.TsUnixMilli, o.Symbol, string(o.Side), o.Quantity.String(), o.Status, o.Response,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
