// Package manager ties board validation to persistence.
//
// Every write goes through the same path: resolve the submitted document
// against the host catalog, persist the canonical config content, and hand
// back the board resolved under its assigned id. Nothing is stored unless
// the whole document validates.
package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/jirban/internal/boardcfg"
	"github.com/roach88/jirban/internal/ir"
	"github.com/roach88/jirban/internal/store"
)

// Manager validates, stores and re-resolves board configurations.
//
// Thread-safety: safe for concurrent use. Boards are immutable and the
// store serializes writes.
type Manager struct {
	store       *store.Store
	host        boardcfg.Host
	rankFieldID int64
	logger      *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// New creates a Manager over s, resolving boards against host.
func New(s *store.Store, host boardcfg.Host, rankFieldID int64, opts ...Option) *Manager {
	m := &Manager{
		store:       s,
		host:        host,
		rankFieldID: rankFieldID,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Saved is the outcome of a successful save.
type Saved struct {
	Board    *boardcfg.BoardConfig
	Revision string
	Hash     string
}

// Validate resolves a document without storing it.
func (m *Manager) Validate(data []byte) (*boardcfg.BoardConfig, error) {
	cfg, err := boardcfg.Load(m.host, 0, "", data, m.rankFieldID)
	if err != nil {
		m.logRejected(0, err)
		return nil, err
	}
	return cfg, nil
}

// Save validates data and stores it as board id, or as a new board when id
// is 0. The creator of a board stays its owner across later saves.
func (m *Manager) Save(ctx context.Context, id int64, userKey string, data []byte) (*Saved, error) {
	owner := userKey
	if id != 0 {
		existing, err := m.store.LoadRawConfig(ctx, id)
		switch {
		case err == nil:
			owner = existing.OwningUserKey
		case !errors.Is(err, store.ErrNotFound):
			return nil, fmt.Errorf("save board %d: %w", id, err)
		}
	}

	cfg, err := boardcfg.Load(m.host, id, owner, data, m.rankFieldID)
	if err != nil {
		m.logRejected(id, err)
		return nil, err
	}

	content, err := ir.MarshalCanonical(cfg.ConfigContent())
	if err != nil {
		return nil, fmt.Errorf("save board %q: %w", cfg.Code(), err)
	}
	hash, err := cfg.ConfigHash()
	if err != nil {
		return nil, fmt.Errorf("save board %q: %w", cfg.Code(), err)
	}
	// The stored content must resolve on its own before it is written.
	if _, err := boardcfg.Load(m.host, id, owner, content, m.rankFieldID); err != nil {
		m.logRejected(id, err)
		return nil, err
	}

	rec, err := m.store.SaveRawConfig(ctx, userKey, store.RawConfig{
		ID:            id,
		Code:          cfg.Code(),
		Name:          cfg.Name(),
		OwningUserKey: owner,
		Config:        content,
		ConfigHash:    hash,
	})
	if err != nil {
		m.logger.Warn("board not saved",
			"id", id,
			"code", cfg.Code(),
			"error", err,
		)
		return nil, err
	}

	// Resolve again under the assigned id so callers never see id 0.
	board, err := m.resolve(rec)
	if err != nil {
		return nil, err
	}

	m.logger.Info("board saved",
		"id", rec.ID,
		"code", rec.Code,
		"user", userKey,
		"revision", rec.Revision,
		"hash", hash,
	)
	return &Saved{Board: board, Revision: rec.Revision, Hash: hash}, nil
}

// Get loads and resolves a stored board.
func (m *Manager) Get(ctx context.Context, id int64) (*boardcfg.BoardConfig, error) {
	rec, err := m.store.LoadRawConfig(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.resolve(rec)
}

// GetByCode loads and resolves a stored board by its code.
func (m *Manager) GetByCode(ctx context.Context, code string) (*boardcfg.BoardConfig, error) {
	rec, err := m.store.LoadRawConfigByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return m.resolve(rec)
}

// BoardView returns the board payload of a stored board as canonical JSON.
func (m *Manager) BoardView(ctx context.Context, id int64) ([]byte, error) {
	cfg, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return cfg.MarshalForBoard()
}

// ConfigView returns the editable form of a stored board as canonical JSON.
func (m *Manager) ConfigView(ctx context.Context, id int64) ([]byte, error) {
	cfg, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return cfg.MarshalForConfig()
}

// List returns all stored boards.
func (m *Manager) List(ctx context.Context) ([]store.Summary, error) {
	return m.store.ListBoards(ctx)
}

// History returns the save history of a board.
func (m *Manager) History(ctx context.Context, id int64) ([]store.Revision, error) {
	if _, err := m.store.LoadRawConfig(ctx, id); err != nil {
		return nil, err
	}
	return m.store.ListRevisions(ctx, id)
}

// Delete removes a stored board.
func (m *Manager) Delete(ctx context.Context, id int64) error {
	if err := m.store.DeleteBoard(ctx, id); err != nil {
		return err
	}
	m.logger.Info("board deleted", "id", id)
	return nil
}

// resolve re-validates a stored blob. A stored board can stop resolving when
// the host catalog changes underneath it.
func (m *Manager) resolve(rec store.Record) (*boardcfg.BoardConfig, error) {
	cfg, err := boardcfg.Load(m.host, rec.ID, rec.OwningUserKey, rec.Config, m.rankFieldID)
	if err != nil {
		m.logger.Error("stored board no longer resolves",
			"id", rec.ID,
			"code", rec.Code,
			"revision", rec.Revision,
			"error", err,
		)
		return nil, fmt.Errorf("board %d (%s): %w", rec.ID, rec.Code, err)
	}
	m.logger.Debug("board resolved", "id", rec.ID, "code", rec.Code, "revision", rec.Revision)
	return cfg, nil
}

func (m *Manager) logRejected(id int64, err error) {
	attrs := []any{"id", id, "error", err}
	var verr *boardcfg.ValidationError
	if errors.As(err, &verr) {
		attrs = append(attrs, "code", verr.Code, "field", verr.Field)
	}
	m.logger.Warn("board rejected", attrs...)
}
