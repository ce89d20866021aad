package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "tradecoach/internal/errors"
	"tradecoach/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open database")
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, apperrors.Wrap(err, "failed to initialize schema")
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS imports (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		trade_count INTEGER NOT NULL,
		first_trade INTEGER NOT NULL,
		last_trade INTEGER NOT NULL,
		risk_score INTEGER NOT NULL,
		imported_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Timestamps are epoch milliseconds as delivered by the importer.
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT NOT NULL,
		import_id TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		side TEXT NOT NULL,
		asset TEXT NOT NULL,
		pnl REAL NOT NULL,
		entry_price REAL,
		exit_price REAL,
		account_balance REAL,
		qty REAL,
		position_size REAL,
		hold_minutes REAL,
		PRIMARY KEY (import_id, id),
		FOREIGN KEY (import_id) REFERENCES imports(id)
	);
	CREATE INDEX IF NOT EXISTS idx_trades_import_ts ON trades(import_id, timestamp);

	CREATE TABLE IF NOT EXISTS journal_entries (
		id TEXT PRIMARY KEY,
		date DATETIME NOT NULL,
		content TEXT NOT NULL,
		tags TEXT,
		mood TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_journal_date ON journal_entries(date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveImport writes the record and its trades in one transaction.
func (s *SQLiteStore) SaveImport(ctx context.Context, rec *models.ImportRecord, trades []models.Trade) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(err, "begin import tx")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO imports (id, source, trade_count, first_trade, last_trade, risk_score, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Source, rec.TradeCount,
		rec.FirstTrade.UnixMilli(), rec.LastTrade.UnixMilli(),
		rec.RiskScore, rec.ImportedAt)
	if err != nil {
		return apperrors.Wrap(err, "insert import record")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO trades
		(id, import_id, timestamp, side, asset, pnl, entry_price, exit_price, account_balance, qty, position_size, hold_minutes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return apperrors.Wrap(err, "prepare trade insert")
	}
	defer stmt.Close()

	for _, t := range trades {
		_, err := stmt.ExecContext(ctx,
			t.ID, rec.ID, t.Timestamp, string(t.Side), t.Asset, t.PnL,
			nullable(t.EntryPrice), nullable(t.ExitPrice), nullable(t.AccountBalance),
			nullable(t.Qty), nullable(t.PositionSize), nullable(t.HoldMinutes))
		if err != nil {
			return apperrors.Wrapf(err, "insert trade %s", t.ID)
		}
	}

	return tx.Commit()
}

// GetImport returns one import record by id.
func (s *SQLiteStore) GetImport(ctx context.Context, id string) (*models.ImportRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, trade_count, first_trade, last_trade, risk_score, imported_at
		FROM imports WHERE id = ?`, id)
	return scanImport(row)
}

// GetLatestImport returns the most recently imported dataset.
func (s *SQLiteStore) GetLatestImport(ctx context.Context) (*models.ImportRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, trade_count, first_trade, last_trade, risk_score, imported_at
		FROM imports ORDER BY imported_at DESC, id DESC LIMIT 1`)
	return scanImport(row)
}

// ListImports returns import records newest first.
func (s *SQLiteStore) ListImports(ctx context.Context, limit int) ([]models.ImportRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, trade_count, first_trade, last_trade, risk_score, imported_at
		FROM imports ORDER BY imported_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "query imports")
	}
	defer rows.Close()

	var out []models.ImportRecord
	for rows.Next() {
		rec, err := scanImport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// GetTrades returns an import's trades ordered by timestamp.
func (s *SQLiteStore) GetTrades(ctx context.Context, importID string) ([]models.Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, side, asset, pnl, entry_price, exit_price, account_balance, qty, position_size, hold_minutes
		FROM trades WHERE import_id = ? ORDER BY timestamp ASC`, importID)
	if err != nil {
		return nil, apperrors.Wrap(err, "query trades")
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var t models.Trade
		var side string
		var entry, exit, balance, qty, size, hold sql.NullFloat64
		if err := rows.Scan(&t.ID, &t.Timestamp, &side, &t.Asset, &t.PnL,
			&entry, &exit, &balance, &qty, &size, &hold); err != nil {
			return nil, apperrors.Wrap(err, "scan trade")
		}
		t.Side = models.Side(side)
		t.EntryPrice = fromNull(entry)
		t.ExitPrice = fromNull(exit)
		t.AccountBalance = fromNull(balance)
		t.Qty = fromNull(qty)
		t.PositionSize = fromNull(size)
		t.HoldMinutes = fromNull(hold)
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(trades) == 0 {
		return nil, apperrors.Wrapf(apperrors.ErrDataNotFound, "import %s", importID)
	}
	return trades, nil
}

// SaveJournalEntry persists one journal note.
func (s *SQLiteStore) SaveJournalEntry(ctx context.Context, entry *models.JournalEntry) error {
	tags, err := json.Marshal(entry.Tags)
	if err != nil {
		return apperrors.Wrap(err, "marshal tags")
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO journal_entries (id, date, content, tags, mood, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Date, entry.Content, string(tags), entry.Mood, entry.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "insert journal entry")
	}
	return nil
}

// GetJournal returns entries matching the filter, newest first.
func (s *SQLiteStore) GetJournal(ctx context.Context, filter JournalFilter) ([]models.JournalEntry, error) {
	query := `SELECT id, date, content, tags, mood, created_at FROM journal_entries WHERE 1=1`
	var args []interface{}

	if !filter.StartDate.IsZero() {
		query += " AND date >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND date <= ?"
		args = append(args, filter.EndDate)
	}
	if filter.Search != "" {
		query += " AND content LIKE ?"
		args = append(args, "%"+filter.Search+"%")
	}
	query += " ORDER BY date DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "query journal")
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		var e models.JournalEntry
		var tags sql.NullString
		if err := rows.Scan(&e.ID, &e.Date, &e.Content, &tags, &e.Mood, &e.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "scan journal entry")
		}
		if tags.Valid && tags.String != "" {
			if err := json.Unmarshal([]byte(tags.String), &e.Tags); err != nil {
				return nil, apperrors.Wrap(err, "unmarshal tags")
			}
		}
		if matchesTags(e.Tags, filter.Tags) {
			entries = append(entries, e)
		}
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// matchesTags reports whether entry tags contain every requested tag.
func matchesTags(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if strings.EqualFold(h, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func nullable(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func fromNull(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanImport(row rowScanner) (*models.ImportRecord, error) {
	var rec models.ImportRecord
	var first, last int64
	err := row.Scan(&rec.ID, &rec.Source, &rec.TradeCount, &first, &last, &rec.RiskScore, &rec.ImportedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrDataNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "scan import record")
	}
	rec.FirstTrade = time.UnixMilli(first)
	rec.LastTrade = time.UnixMilli(last)
	return &rec, nil
}

var _ DataStore = (*SQLiteStore)(nil)
