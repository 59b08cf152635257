// Package sqlite keeps save statistics in a SQLite database.
//
// Every loaded [statistics] block is stored whole, with one summary row per [scenario]
// child so past scenarios can be queried without decoding the blocks.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/savestate/internal/logging"
	"github.com/aretw0/savestate/pkg/document"
	_ "modernc.org/sqlite"
)

// ScenarioSummary is one scenario row of a stored block.
type ScenarioSummary struct {
	BlockID  int64
	Position int
	Scenario string
	Turns    int
}

// Statistics implements ports.Statistics on SQLite.
// The port methods cannot return errors, so Reset and Load log failures; ResetContext and
// Store report them.
type Statistics struct {
	db     *sql.DB
	logger *slog.Logger
}

// Option configures Statistics.
type Option func(*Statistics)

// WithLogger sets the logger failures of Reset and Load are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Statistics) {
		s.logger = logger
	}
}

// Open opens (creating if needed) the database at path and applies pending migrations.
func Open(path string, opts ...Option) (*Statistics, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection serializes writers and keeps ":memory:" databases on a single handle.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set sqlite pragmas: %w", err)
	}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Statistics{db: db, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database.
func (s *Statistics) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Reset drops every stored block.
func (s *Statistics) Reset() {
	if err := s.ResetContext(context.Background()); err != nil {
		s.logger.Error("failed to reset statistics", "err", err)
	}
}

// Load stores block.
func (s *Statistics) Load(block *document.Config) {
	if _, err := s.Store(context.Background(), block); err != nil {
		s.logger.Error("failed to store statistics", "err", err)
	}
}

// ResetContext drops every stored block.
func (s *Statistics) ResetContext(ctx context.Context) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM statistics_scenarios`); err != nil {
			return fmt.Errorf("clear scenarios: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM statistics_blocks`); err != nil {
			return fmt.Errorf("clear blocks: %w", err)
		}
		return nil
	})
}

// Store saves block with its scenario summaries and returns the new block id.
func (s *Statistics) Store(ctx context.Context, block *document.Config) (int64, error) {
	body, err := document.Marshal(block)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO statistics_blocks (loaded_at, body) VALUES (?, ?)`,
			time.Now().UTC().Format(time.RFC3339Nano), string(body))
		if err != nil {
			return fmt.Errorf("insert block: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("block id: %w", err)
		}

		for i, sc := range block.ChildRange("scenario") {
			name := sc.Get("scenario").Str()
			if name == "" {
				name = sc.Get("id").Str()
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO statistics_scenarios (block_id, position, scenario, turns) VALUES (?, ?, ?, ?)`,
				id, i, name, sc.Get("turns").Int(0)); err != nil {
				return fmt.Errorf("insert scenario %q: %w", name, err)
			}
		}
		return nil
	})
	return id, err
}

// Latest returns the most recently stored block, or an empty document when none is held.
func (s *Statistics) Latest(ctx context.Context) (*document.Config, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM statistics_blocks ORDER BY id DESC LIMIT 1`).Scan(&body)
	if err == sql.ErrNoRows {
		return document.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest block: %w", err)
	}
	return document.Unmarshal([]byte(body))
}

// Scenarios lists the scenario summaries of every stored block in load order.
func (s *Statistics) Scenarios(ctx context.Context) ([]ScenarioSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT block_id, position, scenario, turns FROM statistics_scenarios ORDER BY block_id, position`)
	if err != nil {
		return nil, fmt.Errorf("query scenarios: %w", err)
	}
	defer rows.Close()

	var out []ScenarioSummary
	for rows.Next() {
		var sum ScenarioSummary
		if err := rows.Scan(&sum.BlockID, &sum.Position, &sum.Scenario, &sum.Turns); err != nil {
			return nil, fmt.Errorf("scan scenario: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *Statistics) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
