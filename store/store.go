// Package store keeps evaluation sheets in a SQLite database so that runs
// can be compared later without recomputing predictions.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/linkpred/golinkpred/evaluation"
	"github.com/sirupsen/logrus"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("evaluation not found")

const schema = `
CREATE TABLE IF NOT EXISTS evaluations (
	run_id TEXT NOT NULL,
	dataset TEXT NOT NULL,
	predictor TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	PRIMARY KEY (run_id, dataset, predictor)
);

CREATE TABLE IF NOT EXISTS evaluation_rows (
	run_id TEXT NOT NULL,
	dataset TEXT NOT NULL,
	predictor TEXT NOT NULL,
	step INTEGER NOT NULL,
	tp INTEGER NOT NULL,
	fp INTEGER NOT NULL,
	fn INTEGER NOT NULL,
	tn INTEGER NOT NULL,
	PRIMARY KEY (run_id, dataset, predictor, step)
);

CREATE INDEX IF NOT EXISTS idx_evaluations_created ON evaluations(created_at);
`

// Store is a SQLite backed collection of evaluation sheets, keyed by run,
// dataset and predictor.
type Store struct {
	db   *sql.DB
	path string
}

// Record describes a stored evaluation sheet.
type Record struct {
	Run       uuid.UUID
	Dataset   string
	Predictor string
	Steps     int
	CreatedAt time.Time
}

// OpenExisting opens the database at path, failing with ErrNotFound
// instead of creating it.
func OpenExisting(path string) (*Store, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: no database at %s", ErrNotFound, path)
	} else if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return Open(path)
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	logrus.Debugf("Opened evaluation store %s", path)
	return &Store{db: db, path: path}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores sheet, replacing any sheet saved before under the same key.
func (s *Store) Save(run uuid.UUID, dataset, predictor string, sheet *evaluation.EvaluationSheet) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	key := []any{run.String(), dataset, predictor}
	if _, err := tx.Exec(`DELETE FROM evaluation_rows WHERE run_id = ? AND dataset = ? AND predictor = ?`, key...); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO evaluations (run_id, dataset, predictor, created_at)
		VALUES (?, ?, ?, ?)`, append(key, time.Now().UnixNano())...); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO evaluation_rows (run_id, dataset, predictor, step, tp, fp, fn, tn)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i := 0; i < sheet.Len(); i++ {
		r := sheet.Row(i)
		if _, err := stmt.Exec(run.String(), dataset, predictor, i, r[0], r[1], r[2], r[3]); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	logrus.Debugf("Stored %d evaluation rows for %s/%s in run %s", sheet.Len(), dataset, predictor, run)
	return nil
}

// Load returns the sheet saved under the given key, or ErrNotFound.
func (s *Store) Load(run uuid.UUID, dataset, predictor string) (*evaluation.EvaluationSheet, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM evaluations WHERE run_id = ? AND dataset = ? AND predictor = ?`,
		run.String(), dataset, predictor).Scan(&n)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s/%s in run %s", ErrNotFound, dataset, predictor, run)
	}

	rows, err := s.db.Query(`
		SELECT tp, fp, fn, tn FROM evaluation_rows
		WHERE run_id = ? AND dataset = ? AND predictor = ?
		ORDER BY step`, run.String(), dataset, predictor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var data [][4]int
	for rows.Next() {
		var r [4]int
		if err := rows.Scan(&r[0], &r[1], &r[2], &r[3]); err != nil {
			return nil, err
		}
		data = append(data, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return evaluation.NewEvaluationSheetFromRows(data), nil
}

// Records lists the stored sheets, oldest first.
func (s *Store) Records() ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT e.run_id, e.dataset, e.predictor, e.created_at, COUNT(r.step)
		FROM evaluations e
		LEFT JOIN evaluation_rows r
			ON r.run_id = e.run_id AND r.dataset = e.dataset AND r.predictor = e.predictor
		GROUP BY e.run_id, e.dataset, e.predictor, e.created_at
		ORDER BY e.created_at, e.dataset, e.predictor`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []Record
	for rows.Next() {
		var rec Record
		var run string
		var created int64
		if err := rows.Scan(&run, &rec.Dataset, &rec.Predictor, &created, &rec.Steps); err != nil {
			return nil, err
		}
		rec.CreatedAt = time.Unix(0, created)
		if rec.Run, err = uuid.Parse(run); err != nil {
			return nil, fmt.Errorf("bad run id %q: %w", run, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
