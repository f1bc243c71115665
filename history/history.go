// Package history records evaluation runs in SQLite so results can be
// listed and compared later.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/psam/db"
	"github.com/teranos/psam/errors"
	"github.com/teranos/psam/eval"
	"github.com/teranos/psam/logger"
)

// DefaultLimit is the number of runs List returns when limit <= 0.
const DefaultLimit = 20

// Run is one recorded evaluation.
type Run struct {
	ID             string             `json:"id"`
	Algorithm      string             `json:"algorithm"`
	Params         map[string]float64 `json:"params,omitempty"`
	CrossVal       *int               `json:"crossval,omitempty"`
	Seed           uint64             `json:"seed"`
	Corpus         string             `json:"corpus"`
	Instances      int                `json:"instances"`
	Features       int                `json:"features"`
	Folds          []eval.FoldResult  `json:"folds,omitempty"`
	MeanAccuracy   float64            `json:"mean_accuracy"`
	StdDevAccuracy float64            `json:"stddev_accuracy"`
	Version        string             `json:"version"`
	CreatedAt      time.Time          `json:"created_at"`
}

// Store reads and writes runs.
type Store struct {
	conn   *sql.DB
	logger *zap.SugaredLogger
}

// NewStore wraps an already-migrated database.
func NewStore(conn *sql.DB, logger *zap.SugaredLogger) *Store {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Store{conn: conn, logger: logger}
}

// Record inserts run and its folds in one transaction. An empty ID is
// filled with a fresh UUID and a zero CreatedAt with the current time.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	params, err := json.Marshal(run.Params)
	if err != nil {
		return errors.Wrap(err, "failed to encode run params")
	}
	var crossval sql.NullInt64
	if run.CrossVal != nil {
		crossval = sql.NullInt64{Int64: int64(*run.CrossVal), Valid: true}
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if db.IsDatabaseClosed(err) {
		return errors.Wrapf(db.ErrDatabaseClosed, "cannot record run %s", run.ID)
	}
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO runs (
			id, algorithm, params, crossval, seed, corpus, instances, features,
			mean_accuracy, stddev_accuracy, version, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Algorithm, string(params), crossval, int64(run.Seed), run.Corpus,
		run.Instances, run.Features, run.MeanAccuracy, run.StdDevAccuracy,
		run.Version, run.CreatedAt,
	)
	if err != nil {
		return errors.Wrapf(err, "failed to insert run %s", run.ID)
	}

	for _, f := range run.Folds {
		_, err = tx.ExecContext(ctx, `INSERT INTO folds (
				run_id, fold, training, test, n00, n01, n10, n11, accuracy, duration_ns
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, f.Fold, f.Training, f.Test,
			f.Confusion[0], f.Confusion[1], f.Confusion[2], f.Confusion[3],
			f.Accuracy, int64(f.Duration),
		)
		if err != nil {
			return errors.Wrapf(err, "failed to insert fold %d of run %s", f.Fold, run.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, "failed to commit run %s", run.ID)
	}

	s.logger.Debugw("Recorded run",
		logger.FieldRunID, run.ID,
		logger.FieldAlgorithm, run.Algorithm,
		logger.FieldFolds, len(run.Folds),
	)
	return nil
}

const runColumns = `id, algorithm, params, crossval, seed, corpus, instances, features,
	mean_accuracy, stddev_accuracy, version, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		run      Run
		params   string
		crossval sql.NullInt64
		seed     int64
	)
	err := row.Scan(&run.ID, &run.Algorithm, &params, &crossval, &seed, &run.Corpus,
		&run.Instances, &run.Features, &run.MeanAccuracy, &run.StdDevAccuracy,
		&run.Version, &run.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(params), &run.Params); err != nil {
		return nil, errors.Wrapf(err, "run %s has malformed params", run.ID)
	}
	if crossval.Valid {
		n := int(crossval.Int64)
		run.CrossVal = &n
	}
	run.Seed = uint64(seed)
	return &run, nil
}

// List returns the most recent runs, newest first, without their folds.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if db.IsDatabaseClosed(err) {
		return nil, errors.Wrap(db.ErrDatabaseClosed, "cannot list runs")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan run")
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate runs")
	}
	return runs, nil
}

// Get returns one run with its folds. Unknown ids yield errors.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithHint(errors.NewNotFoundError("run %s", id),
			"list recorded runs with: psam history ls")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load run %s", id)
	}

	folds, err := s.folds(ctx, id)
	if err != nil {
		return nil, err
	}
	run.Folds = folds
	return run, nil
}

func (s *Store) folds(ctx context.Context, id string) ([]eval.FoldResult, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT fold, training, test, n00, n01, n10, n11, accuracy, duration_ns
		FROM folds WHERE run_id = ? ORDER BY fold`, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query folds of run %s", id)
	}
	defer rows.Close()

	var folds []eval.FoldResult
	for rows.Next() {
		var (
			f  eval.FoldResult
			ns int64
		)
		err := rows.Scan(&f.Fold, &f.Training, &f.Test,
			&f.Confusion[0], &f.Confusion[1], &f.Confusion[2], &f.Confusion[3],
			&f.Accuracy, &ns)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to scan fold of run %s", id)
		}
		f.Duration = time.Duration(ns)
		folds = append(folds, f)
	}
	return folds, errors.Wrapf(rows.Err(), "failed to iterate folds of run %s", id)
}
