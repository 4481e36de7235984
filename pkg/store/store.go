// Package store persists dashboard boards to SQLite and loads the
// application's YAML configuration.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"dashgrid/pkg/model"
)

// DB handles board persistence.
type DB struct {
	db *sql.DB
}

// Open opens or creates the board database at the given path.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &DB{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS board (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		linkage TEXT NOT NULL DEFAULT 'linked'
	);

	CREATE TABLE IF NOT EXISTS widgets (
		id TEXT PRIMARY KEY,
		widget_type TEXT NOT NULL,
		wide_x INTEGER NOT NULL,
		wide_y INTEGER NOT NULL,
		wide_w INTEGER NOT NULL,
		wide_h INTEGER NOT NULL,
		narrow_x INTEGER,
		narrow_y INTEGER,
		narrow_w INTEGER,
		narrow_h INTEGER,
		config TEXT DEFAULT '',
		position INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_widgets_position ON widgets(position);
	`
	_, err := d.db.Exec(schema)
	return err
}

// LoadAll reads the persisted board. A fresh database yields an empty,
// linked board rather than an error.
func (d *DB) LoadAll(ctx context.Context) (model.Board, error) {
	board := model.Board{Linkage: model.LinkageLinked}

	var linkage string
	err := d.db.QueryRowContext(ctx, `SELECT linkage FROM board WHERE id = 1`).Scan(&linkage)
	switch {
	case err == sql.ErrNoRows:
		// fresh database
	case err != nil:
		return board, fmt.Errorf("load board row: %w", err)
	default:
		if l := model.Linkage(linkage); l.IsValid() {
			board.Linkage = l
		}
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT id, widget_type, wide_x, wide_y, wide_w, wide_h,
		       narrow_x, narrow_y, narrow_w, narrow_h, config
		FROM widgets
		ORDER BY position, id
	`)
	if err != nil {
		return board, fmt.Errorf("load widgets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var w model.Widget
		var nx, ny, nw, nh sql.NullInt64
		var rawConfig string
		if err := rows.Scan(&w.ID, &w.Type,
			&w.Wide.X, &w.Wide.Y, &w.Wide.W, &w.Wide.H,
			&nx, &ny, &nw, &nh, &rawConfig); err != nil {
			return board, fmt.Errorf("scan widget: %w", err)
		}
		if nx.Valid && ny.Valid && nw.Valid && nh.Valid {
			w.Narrow = &model.Layout{
				X: int(nx.Int64), Y: int(ny.Int64),
				W: int(nw.Int64), H: int(nh.Int64),
			}
		}
		cfg, err := model.DecodeConfig(rawConfig)
		if err != nil {
			return board, fmt.Errorf("widget %s: %w", w.ID, err)
		}
		w.Config = cfg
		board.Widgets = append(board.Widgets, w)
	}
	return board, rows.Err()
}

// SaveAll replaces the persisted board in a single transaction, so a failed
// save never leaves a partial write behind.
func (d *DB) SaveAll(ctx context.Context, board model.Board) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	linkage := board.Linkage
	if !linkage.IsValid() {
		linkage = model.LinkageLinked
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO board (id, linkage) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET linkage = excluded.linkage
	`, string(linkage)); err != nil {
		return fmt.Errorf("save board row: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM widgets`); err != nil {
		return fmt.Errorf("clear widgets: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO widgets (id, widget_type, wide_x, wide_y, wide_w, wide_h,
		                     narrow_x, narrow_y, narrow_w, narrow_h, config, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare widget insert: %w", err)
	}
	defer stmt.Close()

	for i, w := range board.Widgets {
		var nx, ny, nw, nh interface{}
		if w.Narrow != nil {
			nx, ny, nw, nh = w.Narrow.X, w.Narrow.Y, w.Narrow.W, w.Narrow.H
		}
		rawConfig, err := model.EncodeConfig(w.Config)
		if err != nil {
			return fmt.Errorf("widget %s: %w", w.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, w.ID, w.Type,
			w.Wide.X, w.Wide.Y, w.Wide.W, w.Wide.H,
			nx, ny, nw, nh, rawConfig, i); err != nil {
			return fmt.Errorf("insert widget %s: %w", w.ID, err)
		}
	}

	return tx.Commit()
}
