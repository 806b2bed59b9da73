// Copyright 2026 ShipKit HQ
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package history keeps a local ledger of release attempts in a SQLite
// database under the state directory. Every run of the workflow records an
// entry, successful or not, giving the operator an audit trail of what was
// released when and what went wrong.
package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// _ import for sqlite driver registration
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Release outcomes recorded in the ledger.
const (
	OutcomeReleased = "released"
	OutcomeFailed   = "failed"
	OutcomeAborted  = "aborted"
)

// Entry is one row of the release ledger.
type Entry struct {
	ID         int64
	Project    string
	Version    string
	Tag        string
	Commit     string
	Outcome    string
	Error      string
	Artifacts  int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Ledger wraps the SQLite database holding release history.
type Ledger struct {
	db *sql.DB
}

// Open ensures the parent directory exists, opens the ledger database, and
// creates the schema if it does not exist.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply ledger schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Record inserts a release attempt into the ledger.
func (l *Ledger) Record(e Entry) error {
	_, err := l.db.Exec(
		`INSERT INTO releases (project, version, tag, commit_hash, outcome, error, artifacts, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Project, e.Version, e.Tag, e.Commit, e.Outcome, e.Error, e.Artifacts,
		e.StartedAt.UTC(), e.FinishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("record release: %w", err)
	}
	return nil
}

// List returns the most recent entries for a project, newest first. A
// limit of 0 or less means no limit.
func (l *Ledger) List(project string, limit int) ([]Entry, error) {
	query := `SELECT id, project, version, tag, commit_hash, outcome, error, artifacts, started_at, finished_at
	          FROM releases WHERE project = ? ORDER BY started_at DESC, id DESC`
	args := []interface{}{project}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list releases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Project, &e.Version, &e.Tag, &e.Commit,
			&e.Outcome, &e.Error, &e.Artifacts, &e.StartedAt, &e.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan release row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LastReleased returns the newest successful release for a project, or nil
// when the project has never released.
func (l *Ledger) LastReleased(project string) (*Entry, error) {
	rows, err := l.List(project, 0)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].Outcome == OutcomeReleased {
			return &rows[i], nil
		}
	}
	return nil, nil
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	return l.db.Close()
}
