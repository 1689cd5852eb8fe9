// Package registry は成功した学習の実行履歴を SQLite に記録します。
package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/YuminosukeSato/hpml/artifact"
	"github.com/YuminosukeSato/hpml/pkg/errors"
	"github.com/YuminosukeSato/hpml/training"
)

const schema = `
CREATE TABLE IF NOT EXISTS training_runs (
	run_id      TEXT PRIMARY KEY,
	trained_at  TEXT NOT NULL,
	target      TEXT NOT NULL,
	n_samples   INTEGER NOT NULL,
	features    TEXT NOT NULL,
	mae         REAL NOT NULL,
	r2          REAL NOT NULL,
	rmse        REAL NOT NULL,
	naive_mae   REAL NOT NULL,
	model_path  TEXT NOT NULL,
	meta_path   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_training_runs_trained_at ON training_runs(trained_at);
`

// Run は1回の学習の記録です。RunID はモデルの model_version と同じ値です。
type Run struct {
	RunID     string
	TrainedAt time.Time
	Target    string
	NSamples  int
	Features  []string
	Metrics   training.Metrics
	ModelPath string
	MetaPath  string
}

// NewRun は学習結果と成果物のパスから Run を作成します。
func NewRun(res *training.Result, paths artifact.Paths) Run {
	return Run{
		RunID:     res.ModelVersion,
		TrainedAt: res.TrainedAt.UTC(),
		Target:    res.Target,
		NSamples:  res.NSamples,
		Features:  append([]string(nil), res.FeaturesUsed...),
		Metrics:   res.Metrics,
		ModelPath: paths.Model,
		MetaPath:  paths.Meta,
	}
}

// Store は実行履歴のデータベースです。
type Store struct {
	db *sql.DB
}

// Open は path の SQLite データベースを開き、スキーマを作成します。
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrapf(err, "create directory for %s", path)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open registry")
	}
	// :memory: は接続ごとに別のデータベースになる
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "pragma")
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "migrate")
	}
	return &Store{db: db}, nil
}

// Close はデータベース接続を閉じます。
func (s *Store) Close() error {
	return s.db.Close()
}

// Record は実行を1件追加します。同じ RunID の再記録はエラーです。
func (s *Store) Record(ctx context.Context, r Run) error {
	features, err := json.Marshal(r.Features)
	if err != nil {
		return errors.Wrap(err, "marshal features")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO training_runs
		 (run_id, trained_at, target, n_samples, features, mae, r2, rmse, naive_mae, model_path, meta_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.TrainedAt.UTC().Format(time.RFC3339Nano), r.Target, r.NSamples, string(features),
		r.Metrics.MAE, r.Metrics.R2, r.Metrics.RMSE, r.Metrics.NaiveMAE, r.ModelPath, r.MetaPath,
	)
	if err != nil {
		return errors.Wrapf(err, "insert run %s", r.RunID)
	}
	return nil
}

// List は新しい順に最大 limit 件の実行を返します。limit が0以下なら全件です。
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT run_id, trained_at, target, n_samples, features, mae, r2, rmse, naive_mae, model_path, meta_path
		 FROM training_runs ORDER BY trained_at DESC, run_id`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, errors.WithStack(rows.Err())
}

// Get は run_id の実行を返します。見つからなければ sql.ErrNoRows を包んだエラーです。
func (s *Store) Get(ctx context.Context, runID string) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, trained_at, target, n_samples, features, mae, r2, rmse, naive_mae, model_path, meta_path
		 FROM training_runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if err != nil {
		return Run{}, errors.Wrapf(err, "get run %s", runID)
	}
	return r, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r         Run
		trainedAt string
		features  string
	)
	err := sc.Scan(&r.RunID, &trainedAt, &r.Target, &r.NSamples, &features,
		&r.Metrics.MAE, &r.Metrics.R2, &r.Metrics.RMSE, &r.Metrics.NaiveMAE, &r.ModelPath, &r.MetaPath)
	if err != nil {
		return Run{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, trainedAt)
	if err != nil {
		return Run{}, errors.Wrapf(err, "parse trained_at of %s", r.RunID)
	}
	r.TrainedAt = t
	if err := json.Unmarshal([]byte(features), &r.Features); err != nil {
		return Run{}, errors.Wrapf(err, "decode features of %s", r.RunID)
	}
	return r, nil
}
