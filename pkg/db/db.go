// Package db archives snapshots of porch files in SQLite.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/mscrnt/porchconf/pkg/porch"
	"github.com/mscrnt/porchconf/pkg/timing"
)

// ErrSnapshotNotFound is returned for an unknown snapshot ID
var ErrSnapshotNotFound = errors.New("snapshot not found")

// DB wraps the SQL database connection
type DB struct {
	conn *sql.DB
	path string
}

// Open creates or opens a SQLite database
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{
		conn: conn,
		path: path,
	}

	if err := db.Migrate(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// Migrate creates or updates the database schema
func (db *DB) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		note TEXT,
		count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS confs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		snapshot_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		uuid TEXT NOT NULL,
		name TEXT NOT NULL,
		mode TEXT NOT NULL,
		inputs TEXT NOT NULL,
		outputs TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (snapshot_id) REFERENCES snapshots(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_source ON snapshots(source);
	CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots(created_at);
	CREATE INDEX IF NOT EXISTS idx_confs_snapshot ON confs(snapshot_id, position);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// CreateSnapshot stores the whole working set in one transaction
func (db *DB) CreateSnapshot(source, note string, confs []porch.Conf) (*Snapshot, error) {
	snap := &Snapshot{
		Source:    source,
		Note:      note,
		Count:     len(confs),
		CreatedAt: time.Now().UTC(),
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// Only rollback if we haven't committed
		_ = tx.Rollback()
	}()

	result, err := tx.Exec(
		`INSERT INTO snapshots (source, note, count, created_at) VALUES (?, ?, ?, ?)`,
		snap.Source, snap.Note, snap.Count, snap.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot: %w", err)
	}
	snap.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO confs (snapshot_id, position, uuid, name, mode, inputs, outputs)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, c := range confs {
		_, err := stmt.Exec(
			snap.ID, i, c.ID.String(), c.Name, c.Mode.String(),
			InputMap(c.Inputs), OutputMap(c.Mode, c.Outputs),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert conf %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return snap, nil
}

// GetSnapshot retrieves a snapshot by ID
func (db *DB) GetSnapshot(id int64) (*Snapshot, error) {
	snap := &Snapshot{}
	var note sql.NullString
	err := db.conn.QueryRow(
		`SELECT id, source, note, count, created_at FROM snapshots WHERE id = ?`,
		id,
	).Scan(&snap.ID, &snap.Source, &note, &snap.Count, &snap.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	snap.Note = note.String
	return snap, nil
}

// ListSnapshots retrieves snapshots based on filters, newest first
func (db *DB) ListSnapshots(filter SnapshotFilter) ([]*Snapshot, error) {
	query := `SELECT id, source, note, count, created_at FROM snapshots WHERE 1=1`
	args := []interface{}{}

	if filter.Source != "" {
		query += " AND source = ?"
		args = append(args, filter.Source)
	}

	if filter.Since != nil {
		query += " AND created_at >= ?"
		args = append(args, filter.Since.UTC())
	}

	if filter.Until != nil {
		query += " AND created_at <= ?"
		args = append(args, filter.Until.UTC())
	}

	query += " ORDER BY created_at DESC, id DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)

		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snaps []*Snapshot
	for rows.Next() {
		snap := &Snapshot{}
		var note sql.NullString
		if err := rows.Scan(&snap.ID, &snap.Source, &note, &snap.Count, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snap.Note = note.String
		snaps = append(snaps, snap)
	}

	return snaps, rows.Err()
}

// GetArchivedConfs retrieves the stored rows of a snapshot in position order
func (db *DB) GetArchivedConfs(snapshotID int64) ([]*ArchivedConf, error) {
	rows, err := db.conn.Query(
		`SELECT id, snapshot_id, position, uuid, name, mode, inputs, outputs, created_at
		 FROM confs WHERE snapshot_id = ? ORDER BY position`,
		snapshotID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get confs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*ArchivedConf
	for rows.Next() {
		a := &ArchivedConf{}
		err := rows.Scan(
			&a.ID, &a.SnapshotID, &a.Position, &a.UUID, &a.Name,
			&a.Mode, &a.Inputs, &a.Outputs, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conf: %w", err)
		}
		out = append(out, a)
	}

	return out, rows.Err()
}

// GetConfs rebuilds the porch confs of a snapshot
func (db *DB) GetConfs(snapshotID int64) ([]porch.Conf, error) {
	if _, err := db.GetSnapshot(snapshotID); err != nil {
		return nil, err
	}
	rows, err := db.GetArchivedConfs(snapshotID)
	if err != nil {
		return nil, err
	}

	confs := make([]porch.Conf, 0, len(rows))
	for _, a := range rows {
		c, err := a.Conf()
		if err != nil {
			return nil, err
		}
		confs = append(confs, c)
	}
	return confs, nil
}

// Conf converts the row back to a porch conf
func (a *ArchivedConf) Conf() (porch.Conf, error) {
	mode, err := timing.ParseMode(a.Mode)
	if err != nil {
		return porch.Conf{}, fmt.Errorf("conf %d: %w", a.ID, err)
	}
	id, err := uuid.Parse(a.UUID)
	if err != nil {
		id = uuid.New()
	}
	return porch.Conf{
		ID:      id,
		Name:    a.Name,
		Mode:    mode,
		Inputs:  a.Inputs.Inputs(),
		Outputs: a.Outputs.Outputs(),
	}, nil
}

// DeleteSnapshot removes a snapshot and its confs
func (db *DB) DeleteSnapshot(id int64) error {
	result, err := db.conn.Exec(`DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrSnapshotNotFound, id)
	}
	return nil
}
