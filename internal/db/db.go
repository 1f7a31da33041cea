package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"earn-dashboard/internal/models"
)

// Store is the local activity journal backing the history page.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at path and brings the schema up to date.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	conn.SetMaxOpenConns(1)

	s := &Store{db: conn}
	if err := s.createTables(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	log.Info().Str("path", path).Msg("activity journal opened")
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS activity (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		telegram_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		amount REAL NOT NULL DEFAULT 0,
		ad_id INTEGER,
		method TEXT,
		mobile TEXT,
		created_at DATETIME NOT NULL
	)
	`)
	if err != nil {
		return err
	}

	// request_id was added after the first release; old files need the column.
	has, err := s.hasColumn("activity", "request_id")
	if err != nil {
		return err
	}
	if !has {
		if _, err := s.db.Exec("ALTER TABLE activity ADD COLUMN request_id TEXT"); err != nil {
			return err
		}
	}

	_, err = s.db.Exec("CREATE INDEX IF NOT EXISTS idx_activity_user ON activity(telegram_id, created_at)")
	return err
}

func (s *Store) hasColumn(table, column string) (bool, error) {
	rows, err := s.db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notnull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// RecordActivity appends a to the journal and fills in its ID and CreatedAt.
func (s *Store) RecordActivity(ctx context.Context, a *models.Activity) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO activity (telegram_id, kind, amount, ad_id, method, mobile, request_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.TelegramID, string(a.Kind), a.Amount, nullInt(a.AdID), nullString(a.Method),
		nullString(a.Mobile), nullString(a.RequestID), a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	a.ID, _ = res.LastInsertId()
	return nil
}

// RecentActivity returns up to limit journal rows for the user, newest first.
func (s *Store) RecentActivity(ctx context.Context, telegramID int64, limit int) ([]models.Activity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, telegram_id, kind, amount, ad_id, method, mobile, request_id, created_at
		FROM activity
		WHERE telegram_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, telegramID, limit)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	var out []models.Activity
	for rows.Next() {
		var (
			a                         models.Activity
			kind                      string
			adID                      sql.NullInt64
			method, mobile, requestID sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.TelegramID, &kind, &a.Amount, &adID, &method, &mobile, &requestID, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Kind = models.ActivityKind(kind)
		a.AdID = adID.Int64
		a.Method = method.String
		a.Mobile = mobile.String
		a.RequestID = requestID.String
		out = append(out, a)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}
