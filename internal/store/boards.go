package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when no board has the requested id or code.
	ErrNotFound = errors.New("board not found")

	// ErrConflict is returned when a save would give two boards the same
	// code or name.
	ErrConflict = errors.New("board code or name already in use")
)

// RawConfig is a board configuration as persisted: the validated config form
// plus the identity columns extracted from it.
type RawConfig struct {
	ID            int64
	Code          string
	Name          string
	OwningUserKey string
	Config        []byte
	ConfigHash    string
}

// Record is a stored board with its current revision.
type Record struct {
	RawConfig
	Revision string
	Seq      int64
}

// Summary is a board listing entry without the configuration blob.
type Summary struct {
	ID            int64
	Code          string
	Name          string
	OwningUserKey string
	Revision      string
}

// Revision is one historical save of a board.
type Revision struct {
	Revision   string
	BoardID    int64
	UserKey    string
	ConfigHash string
	Seq        int64
}

// SaveRawConfig persists a configuration. ID 0 inserts a new board; any other
// id replaces that board's configuration, creating it if absent. Every save
// appends a revision attributed to userKey.
func (s *Store) SaveRawConfig(ctx context.Context, userKey string, cfg RawConfig) (Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, fmt.Errorf("save board: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx,
		`UPDATE revision_seq SET value = value + 1 WHERE id = 1 RETURNING value`).Scan(&seq); err != nil {
		return Record{}, fmt.Errorf("save board: next seq: %w", err)
	}
	rev := s.revisions.Generate()

	id := cfg.ID
	if id == 0 {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO boards (code, name, owning_user_key, config, config_hash, revision, seq)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, cfg.Code, cfg.Name, cfg.OwningUserKey, string(cfg.Config), cfg.ConfigHash, rev, seq)
		if err != nil {
			return Record{}, saveError(cfg, err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return Record{}, fmt.Errorf("save board: %w", err)
		}
	} else {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO boards (id, code, name, owning_user_key, config, config_hash, revision, seq)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				code = excluded.code,
				name = excluded.name,
				owning_user_key = excluded.owning_user_key,
				config = excluded.config,
				config_hash = excluded.config_hash,
				revision = excluded.revision,
				seq = excluded.seq
		`, id, cfg.Code, cfg.Name, cfg.OwningUserKey, string(cfg.Config), cfg.ConfigHash, rev, seq)
		if err != nil {
			return Record{}, saveError(cfg, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO board_revisions (revision, board_id, user_key, config, config_hash, seq)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rev, id, userKey, string(cfg.Config), cfg.ConfigHash, seq)
	if err != nil {
		return Record{}, fmt.Errorf("save board: revision: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("save board: commit: %w", err)
	}

	cfg.ID = id
	return Record{RawConfig: cfg, Revision: rev, Seq: seq}, nil
}

// saveError maps unique-constraint violations to ErrConflict.
func saveError(cfg RawConfig, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return fmt.Errorf("save board %q (%s): %w", cfg.Code, cfg.Name, ErrConflict)
	}
	return fmt.Errorf("save board %q: %w", cfg.Code, err)
}

const selectRecord = `
	SELECT id, code, name, owning_user_key, config, config_hash, revision, seq
	FROM boards
`

// LoadRawConfig returns the current configuration of a board.
func (s *Store) LoadRawConfig(ctx context.Context, id int64) (Record, error) {
	row := s.db.QueryRowContext(ctx, selectRecord+`WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err != nil {
		return Record{}, fmt.Errorf("load board %d: %w", id, err)
	}
	return rec, nil
}

// LoadRawConfigByCode returns the current configuration of the board with
// the given code.
func (s *Store) LoadRawConfigByCode(ctx context.Context, code string) (Record, error) {
	row := s.db.QueryRowContext(ctx, selectRecord+`WHERE code = ?`, code)
	rec, err := scanRecord(row)
	if err != nil {
		return Record{}, fmt.Errorf("load board %q: %w", code, err)
	}
	return rec, nil
}

func scanRecord(row *sql.Row) (Record, error) {
	var rec Record
	var config string
	err := row.Scan(&rec.ID, &rec.Code, &rec.Name, &rec.OwningUserKey, &config, &rec.ConfigHash, &rec.Revision, &rec.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	rec.Config = []byte(config)
	return rec, nil
}

// ListBoards returns every board ordered by id.
// Returns an empty slice (not nil) when there are no boards.
func (s *Store) ListBoards(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, code, name, owning_user_key, revision
		FROM boards
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query boards: %w", err)
	}
	defer rows.Close()

	boards := []Summary{}
	for rows.Next() {
		var b Summary
		if err := rows.Scan(&b.ID, &b.Code, &b.Name, &b.OwningUserKey, &b.Revision); err != nil {
			return nil, fmt.Errorf("scan board: %w", err)
		}
		boards = append(boards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate boards: %w", err)
	}
	return boards, nil
}

// ListRevisions returns the save history of a board, oldest first.
func (s *Store) ListRevisions(ctx context.Context, boardID int64) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT revision, board_id, user_key, config_hash, seq
		FROM board_revisions
		WHERE board_id = ?
		ORDER BY seq ASC, revision COLLATE BINARY ASC
	`, boardID)
	if err != nil {
		return nil, fmt.Errorf("query revisions: %w", err)
	}
	defer rows.Close()

	revisions := []Revision{}
	for rows.Next() {
		var r Revision
		if err := rows.Scan(&r.Revision, &r.BoardID, &r.UserKey, &r.ConfigHash, &r.Seq); err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		revisions = append(revisions, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate revisions: %w", err)
	}
	return revisions, nil
}

// DeleteBoard removes a board and its revision history.
func (s *Store) DeleteBoard(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete board %d: %w", id, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM board_revisions WHERE board_id = ?`, id); err != nil {
		return fmt.Errorf("delete board %d: revisions: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete board %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete board %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete board %d: %w", id, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete board %d: commit: %w", id, err)
	}
	return nil
}
