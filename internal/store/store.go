// Package store persists simulation runs in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"creutz/internal/sims/creutz"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when a run, point or histogram does not exist.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	created_at  TEXT NOT NULL,
	width       INTEGER NOT NULL,
	height      INTEGER NOT NULL,
	sweeps      INTEGER NOT NULL,
	seed        INTEGER NOT NULL,
	params_json TEXT NOT NULL,
	points      INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS points (
	run_id         TEXT NOT NULL,
	idx            INTEGER NOT NULL,
	initial_energy INTEGER NOT NULL,
	start_energy   INTEGER NOT NULL,
	temperature    REAL,
	magnetization  REAL,
	slope          REAL NOT NULL,
	intercept      REAL NOT NULL,
	fitted_bins    INTEGER NOT NULL,
	equilibration  INTEGER NOT NULL,
	accepted       INTEGER NOT NULL,
	rejected       INTEGER NOT NULL,
	final_energy   INTEGER NOT NULL,
	PRIMARY KEY (run_id, idx),
	FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS histogram_bins (
	run_id  TEXT NOT NULL,
	idx     INTEGER NOT NULL,
	energy  INTEGER NOT NULL,
	count   INTEGER NOT NULL,
	PRIMARY KEY (run_id, idx, energy),
	FOREIGN KEY (run_id, idx) REFERENCES points(run_id, idx) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_points_energy ON points(run_id, initial_energy);
`

// Run describes a stored batch of simulations sharing one configuration.
type Run struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	Sweeps    int           `json:"sweeps"`
	Seed      int64         `json:"seed"`
	Params    creutz.Params `json:"params"`
	Points    int           `json:"points"`
}

// PointRecord is one stored summary row. NaN values round-trip through NULL.
type PointRecord struct {
	Index         int
	Point         creutz.Point
	StartEnergy   int
	Intercept     float64
	FittedBins    int
	Equilibration int
	Accepted      int64
	Rejected      int64
	FinalEnergy   int
}

// Store wraps a SQLite connection.
type Store struct {
	db *sqlx.DB
}

type runRow struct {
	ID         string `db:"id"`
	CreatedAt  string `db:"created_at"`
	Width      int    `db:"width"`
	Height     int    `db:"height"`
	Sweeps     int    `db:"sweeps"`
	Seed       int64  `db:"seed"`
	ParamsJSON string `db:"params_json"`
	Points     int    `db:"points"`
}

type pointRow struct {
	RunID         string          `db:"run_id"`
	Idx           int             `db:"idx"`
	InitialEnergy int             `db:"initial_energy"`
	StartEnergy   int             `db:"start_energy"`
	Temperature   sql.NullFloat64 `db:"temperature"`
	Magnetization sql.NullFloat64 `db:"magnetization"`
	Slope         float64         `db:"slope"`
	Intercept     float64         `db:"intercept"`
	FittedBins    int             `db:"fitted_bins"`
	Equilibration int             `db:"equilibration"`
	Accepted      int64           `db:"accepted"`
	Rejected      int64           `db:"rejected"`
	FinalEnergy   int             `db:"final_energy"`
}

type binRow struct {
	RunID  string `db:"run_id"`
	Idx    int    `db:"idx"`
	Energy int    `db:"energy"`
	Count  int64  `db:"count"`
}

// Open opens or creates a SQLite database at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON", "PRAGMA busy_timeout=5000"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores cfg and its results under a new run ID.
func (s *Store) SaveRun(ctx context.Context, cfg creutz.Config, results []creutz.Result) (Run, error) {
	paramsJSON, err := json.Marshal(cfg.Params)
	if err != nil {
		return Run{}, fmt.Errorf("marshal params: %w", err)
	}
	run := Run{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Width:     cfg.Width,
		Height:    cfg.Height,
		Sweeps:    cfg.Sweeps,
		Seed:      cfg.Seed,
		Params:    cfg.Params,
		Points:    len(results),
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx,
		`INSERT INTO runs (id, created_at, width, height, sweeps, seed, params_json, points)
		 VALUES (:id, :created_at, :width, :height, :sweeps, :seed, :params_json, :points)`,
		runRow{
			ID:         run.ID,
			CreatedAt:  run.CreatedAt.Format(timeLayout),
			Width:      run.Width,
			Height:     run.Height,
			Sweeps:     run.Sweeps,
			Seed:       run.Seed,
			ParamsJSON: string(paramsJSON),
			Points:     run.Points,
		})
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	for idx, res := range results {
		_, err := tx.NamedExecContext(ctx,
			`INSERT INTO points (run_id, idx, initial_energy, start_energy, temperature, magnetization,
				slope, intercept, fitted_bins, equilibration, accepted, rejected, final_energy)
			 VALUES (:run_id, :idx, :initial_energy, :start_energy, :temperature, :magnetization,
				:slope, :intercept, :fitted_bins, :equilibration, :accepted, :rejected, :final_energy)`,
			pointRow{
				RunID:         run.ID,
				Idx:           idx,
				InitialEnergy: res.InitialEnergy,
				StartEnergy:   res.StartEnergy,
				Temperature:   nullable(res.Fit.Temperature),
				Magnetization: nullable(res.Magnetization),
				Slope:         res.Fit.Slope,
				Intercept:     res.Fit.Intercept,
				FittedBins:    res.Fit.Bins,
				Equilibration: res.Equilibration,
				Accepted:      res.Stats.Accepted,
				Rejected:      res.Stats.Rejected,
				FinalEnergy:   res.FinalEnergy,
			})
		if err != nil {
			return Run{}, fmt.Errorf("insert point %d: %w", idx, err)
		}
		for _, b := range res.Histogram {
			_, err := tx.NamedExecContext(ctx,
				`INSERT INTO histogram_bins (run_id, idx, energy, count) VALUES (:run_id, :idx, :energy, :count)`,
				binRow{RunID: run.ID, Idx: idx, Energy: b.Energy, Count: b.Count})
			if err != nil {
				return Run{}, fmt.Errorf("insert histogram bin: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit: %w", err)
	}
	return run, nil
}

// ListRuns returns every stored run, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	var rows []runRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM runs ORDER BY created_at DESC, id`); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	runs := make([]Run, 0, len(rows))
	for _, row := range rows {
		run, err := row.toRun()
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// GetRun returns the run with the given ID.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	var row runRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM runs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	return row.toRun()
}

// Points returns the summary rows of a run in input order.
func (s *Store) Points(ctx context.Context, runID string) ([]PointRecord, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	var rows []pointRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM points WHERE run_id = ? ORDER BY idx`, runID); err != nil {
		return nil, fmt.Errorf("list points: %w", err)
	}
	points := make([]PointRecord, 0, len(rows))
	for _, row := range rows {
		points = append(points, row.toRecord())
	}
	return points, nil
}

// Histogram returns the populated bins recorded for the first point of the
// run with the given initial energy, in ascending energy order.
func (s *Store) Histogram(ctx context.Context, runID string, initialEnergy int) ([]creutz.Bin, error) {
	var idx int
	err := s.db.GetContext(ctx, &idx,
		`SELECT idx FROM points WHERE run_id = ? AND initial_energy = ? ORDER BY idx LIMIT 1`,
		runID, initialEnergy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s energy %d: %w", runID, initialEnergy, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find point: %w", err)
	}
	var bins []creutz.Bin
	err = s.db.SelectContext(ctx, &bins,
		`SELECT energy, count FROM histogram_bins WHERE run_id = ? AND idx = ? ORDER BY energy`,
		runID, idx)
	if err != nil {
		return nil, fmt.Errorf("list bins: %w", err)
	}
	return bins, nil
}

func (r runRow) toRun() (Run, error) {
	created, err := time.Parse(timeLayout, r.CreatedAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at for run %s: %w", r.ID, err)
	}
	var params creutz.Params
	if err := json.Unmarshal([]byte(r.ParamsJSON), &params); err != nil {
		return Run{}, fmt.Errorf("parse params for run %s: %w", r.ID, err)
	}
	return Run{
		ID:        r.ID,
		CreatedAt: created,
		Width:     r.Width,
		Height:    r.Height,
		Sweeps:    r.Sweeps,
		Seed:      r.Seed,
		Params:    params,
		Points:    r.Points,
	}, nil
}

func (r pointRow) toRecord() PointRecord {
	return PointRecord{
		Index: r.Idx,
		Point: creutz.Point{
			InitialEnergy: r.InitialEnergy,
			Temperature:   fromNullable(r.Temperature),
			Magnetization: fromNullable(r.Magnetization),
			Slope:         r.Slope,
		},
		StartEnergy:   r.StartEnergy,
		Intercept:     r.Intercept,
		FittedBins:    r.FittedBins,
		Equilibration: r.Equilibration,
		Accepted:      r.Accepted,
		Rejected:      r.Rejected,
		FinalEnergy:   r.FinalEnergy,
	}
}

// nullable maps NaN and infinities to NULL; SQLite cannot store them.
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func fromNullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
