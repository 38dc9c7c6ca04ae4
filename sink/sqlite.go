package sink

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrRunNotFound is returned when a run ID is not in the store.
var ErrRunNotFound = errors.New("sink: run not found")

// SQLite stores runs and per-point assignments in a SQLite database.
type SQLite struct {
	db   *sql.DB
	path string
}

// RunSummary is one row of the runs table.
type RunSummary struct {
	ID       string
	Input    string
	Eps      float64
	MinPts   int
	Seed     int64
	Started  time.Time
	Elapsed  time.Duration
	Points   int
	Clusters int
	Noise    int
}

// OpenSQLite opens (or creates) the database at path and ensures the schema.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sink: open database: %w", err)
	}

	s := &SQLite{db: db, path: path}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) init() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("sink: pragma failed: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id         TEXT PRIMARY KEY,
			input      TEXT NOT NULL,
			eps        REAL NOT NULL,
			min_pts    INTEGER NOT NULL,
			seed       INTEGER NOT NULL,
			started_at INTEGER NOT NULL,
			elapsed_ns INTEGER NOT NULL,
			points     INTEGER NOT NULL,
			clusters   INTEGER NOT NULL,
			noise      INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS assignments (
			run_id     TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			point_id   INTEGER NOT NULL,
			x          REAL NOT NULL,
			y          REAL NOT NULL,
			cluster_id INTEGER NOT NULL,
			PRIMARY KEY (run_id, point_id)
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("sink: schema creation failed: %w", err)
	}
	return nil
}

// Write implements Sink. An empty run.ID is replaced with a fresh UUID.
func (s *SQLite) Write(ctx context.Context, run Run) error {
	if run.Result == nil {
		return ErrResultNil
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	res := run.Result

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, input, eps, min_pts, seed, started_at, elapsed_ns, points, clusters, noise)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Input, run.Eps, run.MinPts, run.Seed,
		run.Started.UnixNano(), int64(run.Elapsed),
		res.Len(), res.NumClusters(), len(res.NoiseIDs()))
	if err != nil {
		return fmt.Errorf("sink: insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO assignments (run_id, point_id, x, y, cluster_id) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range res.Clusters() {
		for i, id := range c.IDs {
			p := c.Points[i]
			if _, err := stmt.ExecContext(ctx, run.ID, id, p.X, p.Y, c.ID); err != nil {
				return fmt.Errorf("sink: insert point %d: %w", id, err)
			}
		}
	}
	noise := res.Noise()
	for i, id := range res.NoiseIDs() {
		p := noise[i]
		if _, err := stmt.ExecContext(ctx, run.ID, id, p.X, p.Y, 0); err != nil {
			return fmt.Errorf("sink: insert point %d: %w", id, err)
		}
	}

	return tx.Commit()
}

// Runs lists stored runs, newest first.
func (s *SQLite) Runs(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input, eps, min_pts, seed, started_at, elapsed_ns, points, clusters, noise
		 FROM runs ORDER BY started_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			r                  RunSummary
			started, elapsedNs int64
		)
		if err := rows.Scan(&r.ID, &r.Input, &r.Eps, &r.MinPts, &r.Seed, &started, &elapsedNs,
			&r.Points, &r.Clusters, &r.Noise); err != nil {
			return nil, err
		}
		r.Started = time.Unix(0, started)
		r.Elapsed = time.Duration(elapsedNs)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Labels returns the stored per-point labels of a run; index i holds the
// ClusterId of point i+1, 0 for noise.
func (s *SQLite) Labels(ctx context.Context, runID string) ([]int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT points FROM runs WHERE id = ?", runID).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT point_id, cluster_id FROM assignments WHERE run_id = ? ORDER BY point_id", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := make([]int, n)
	for rows.Next() {
		var id, cluster int
		if err := rows.Scan(&id, &cluster); err != nil {
			return nil, err
		}
		if id < 1 || id > n {
			return nil, fmt.Errorf("sink: run %s: point %d out of range", runID, id)
		}
		labels[id-1] = cluster
	}
	return labels, rows.Err()
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}
