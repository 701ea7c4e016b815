// Package store keeps the local working draft for halftime in SQLite: the
// ordered participant list being edited and the schedules drawn from it.
//
// Drawn schedules are stored as share tokens only. Whatever is displayed is
// rebuilt from the token, so the store can never disagree with a link that
// was handed out.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/daviddao/halftime/pkg/model"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a participant position or draw does not exist.
var ErrNotFound = errors.New("not found")

// timeFormat is fixed-width so created_at sorts correctly as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages all SQLite operations with WAL mode.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database and initializes the schema.
func New(path string) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// retryOnContention wraps retryOp from retry.go with the default config.
func retryOnContention(fn func() error) error {
	return retryOp(defaultRetryConfig, fn)
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS participants (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		position INTEGER NOT NULL,
		name     TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_participants_position ON participants(position);

	CREATE TABLE IF NOT EXISTS draws (
		id         TEXT PRIMARY KEY,
		token      TEXT NOT NULL,
		surprise   INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_draws_created ON draws(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// NormalizeName trims surrounding space and puts the name in Unicode NFC so
// the same name typed on different keyboards encodes identically.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// ---------------------------------------------------------------------------
// Participants
// ---------------------------------------------------------------------------

// ListParticipants returns the draft participant list in order.
func (s *Store) ListParticipants() ([]model.Participant, error) {
	rows, err := s.db.Query(`SELECT name FROM participants ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Participant{}
	for rows.Next() {
		var p model.Participant
		if err := rows.Scan(&p.Name); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AddParticipant appends a participant and returns its 0-based position.
// Duplicate names are allowed.
func (s *Store) AddParticipant(name string) (int, error) {
	var pos int
	err := retryOnContention(func() error {
		return s.db.QueryRow(
			`INSERT INTO participants (position, name)
			 SELECT COUNT(*), ? FROM participants
			 RETURNING position`, NormalizeName(name),
		).Scan(&pos)
	})
	return pos, err
}

// RenameParticipant replaces the name at a 0-based position.
func (s *Store) RenameParticipant(pos int, name string) error {
	return retryOnContention(func() error {
		res, err := s.db.Exec(`UPDATE participants SET name = ? WHERE position = ?`,
			NormalizeName(name), pos)
		if err != nil {
			return err
		}
		return requireRow(res, "participant", pos)
	})
}

// RemoveParticipant deletes the participant at a 0-based position and closes
// the gap so positions stay contiguous.
func (s *Store) RemoveParticipant(pos int) error {
	return retryOnContention(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

		res, err := tx.Exec(`DELETE FROM participants WHERE position = ?`, pos)
		if err != nil {
			return err
		}
		if err := requireRow(res, "participant", pos); err != nil {
			return err
		}
		if _, err := tx.Exec(`UPDATE participants SET position = position - 1 WHERE position > ?`, pos); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// ClearParticipants empties the draft list.
func (s *Store) ClearParticipants() error {
	return retryOnContention(func() error {
		_, err := s.db.Exec(`DELETE FROM participants`)
		return err
	})
}

// ---------------------------------------------------------------------------
// Draws
// ---------------------------------------------------------------------------

// SaveDraw remembers a drawn schedule by its share token.
func (s *Store) SaveDraw(token string, surprise bool) (*model.Draw, error) {
	d := &model.Draw{
		ID:        uuid.NewString(),
		Token:     token,
		Surprise:  surprise,
		CreatedAt: time.Now().UTC(),
	}
	err := retryOnContention(func() error {
		_, err := s.db.Exec(
			`INSERT INTO draws (id, token, surprise, created_at) VALUES (?, ?, ?, ?)`,
			d.ID, d.Token, boolToInt(d.Surprise), d.CreatedAt.Format(timeFormat),
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// GetDraw retrieves a draw by ID.
func (s *Store) GetDraw(id string) (*model.Draw, error) {
	row := s.db.QueryRow(`SELECT id, token, surprise, created_at FROM draws WHERE id = ?`, id)
	return scanDraw(row)
}

// LatestDraw returns the most recent draw, or ErrNotFound.
func (s *Store) LatestDraw() (*model.Draw, error) {
	row := s.db.QueryRow(
		`SELECT id, token, surprise, created_at FROM draws ORDER BY created_at DESC, rowid DESC LIMIT 1`,
	)
	return scanDraw(row)
}

// ListDraws returns up to limit draws, newest first.
func (s *Store) ListDraws(limit int) ([]model.Draw, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, token, surprise, created_at FROM draws
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var draws []model.Draw
	for rows.Next() {
		d, err := scanDraw(rows)
		if err != nil {
			return nil, err
		}
		draws = append(draws, *d)
	}
	return draws, rows.Err()
}

// DeleteDraws forgets every drawn schedule and returns how many were removed.
// The participant list is left alone.
func (s *Store) DeleteDraws() (int64, error) {
	var n int64
	err := retryOnContention(func() error {
		res, err := s.db.Exec(`DELETE FROM draws`)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	return n, err
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type scanner interface {
	Scan(dest ...any) error
}

func scanDraw(row scanner) (*model.Draw, error) {
	var d model.Draw
	var surprise int
	var createdStr string
	if err := row.Scan(&d.ID, &d.Token, &surprise, &createdStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("draw: %w", ErrNotFound)
		}
		return nil, err
	}
	d.Surprise = surprise != 0
	var parseErr error
	d.CreatedAt, parseErr = time.Parse(timeFormat, createdStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parse created_at for draw %s: %w", d.ID, parseErr)
	}
	return &d, nil
}

func requireRow(res sql.Result, what string, pos int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s #%d: %w", what, pos+1, ErrNotFound)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
