// Package training は住宅価格モデルの学習手順をまとめます。
//
// 行数の下限確認、目的変数の決定、列ガバナンス、パイプライン構築、学習、
// 学習データ上での評価、係数の抽出をこの順に行います。評価指標は学習データ上の値です。
package training

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/hpml/core/frame"
	"github.com/YuminosukeSato/hpml/governance"
	"github.com/YuminosukeSato/hpml/linear"
	"github.com/YuminosukeSato/hpml/metrics"
	"github.com/YuminosukeSato/hpml/pipeline"
	"github.com/YuminosukeSato/hpml/pkg/errors"
	"github.com/YuminosukeSato/hpml/pkg/log"
)

// MinRows は学習に必要な最小行数
const MinRows = 10

// Metrics は学習データ上の評価指標です。
type Metrics struct {
	MAE  float64
	R2   float64
	RMSE float64
	// NaiveMAE は常に学習平均を予測した場合のMAE
	NaiveMAE float64
}

// Lift はベースラインに対するMAEの改善幅です。
func (m Metrics) Lift() float64 {
	return m.NaiveMAE - m.MAE
}

// Result は1回の学習の成果物です。
type Result struct {
	ModelVersion string
	TrainedAt    time.Time

	Pipeline   *pipeline.Pipeline
	Target     string
	TargetRule governance.TargetRule
	Governance *governance.Report
	// FeaturesUsed は推論時に選択する列の順序
	FeaturesUsed []string
	NSamples     int
	TrainMean    float64

	Metrics      Metrics
	Coefficients CoefficientReport

	// Actual と Predicted は学習データ上の実測値と予測値
	Actual    []float64
	Predicted []float64
}

// Trainer は Policy に従ってモデルを学習します。
type Trainer struct {
	governor *governance.Governor
	alpha    float64
	logger   log.Logger
	now      func() time.Time
}

// Option は Trainer の設定を変更する関数
type Option func(*Trainer)

// WithAlpha は Ridge の正則化の強さを設定します。
func WithAlpha(alpha float64) Option {
	return func(t *Trainer) { t.alpha = alpha }
}

// WithLogger はロガーを設定します。
func WithLogger(l log.Logger) Option {
	return func(t *Trainer) { t.logger = l }
}

// WithClock は学習時刻の取得関数を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(t *Trainer) { t.now = now }
}

// New は policy を使う Trainer を作成します。
func New(policy governance.Policy, opts ...Option) *Trainer {
	t := &Trainer{alpha: linear.DefaultAlpha, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = log.GetLoggerWithName("training")
	}
	t.governor = governance.NewGovernor(policy, t.logger)
	return t
}

// Train は data でモデルを学習します。requestedTarget は空でもかまいません。
// 行数不足、使える特徴量なし、数値でない目的変数は成果物を作る前にエラーになります。
func (t *Trainer) Train(ctx context.Context, data *frame.Frame, requestedTarget string) (*Result, error) {
	start := t.now()
	if data.NRows() < MinRows {
		return nil, errors.NewInsufficientDataError(data.NRows(), MinRows)
	}

	columns := data.Columns()
	target, rule := governance.ResolveTarget(columns, requestedTarget)
	if rule == governance.TargetNone {
		return nil, errors.NewValidationError("data", "table has no columns", columns)
	}
	t.logger.Info("Target resolved", log.TargetKey, target, log.TargetRuleKey, rule.String())

	// 目的変数は特徴量から外す
	report, err := t.governor.Govern(columns, target)
	if err != nil {
		return nil, err
	}

	yValues, err := data.Float64Column(target)
	if err != nil {
		return nil, errors.Wrapf(err, "target column %q must be numeric", target)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := pipeline.Build(data, report.Usable, pipeline.WithAlpha(t.alpha), pipeline.WithLogger(t.logger))
	if err != nil {
		return nil, err
	}
	y := mat.NewVecDense(len(yValues), yValues)
	if err := p.Fit(data, y); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pred, err := p.Predict(data)
	if err != nil {
		return nil, err
	}
	m, err := evaluate(y, pred)
	if err != nil {
		return nil, err
	}

	coefs := coefficientReport(p)
	if !coefs.OK() {
		t.logger.Warn("Coefficient extraction failed; continuing without coefficients", coefs.Err)
		errors.Warn(coefs.Err)
	}

	res := &Result{
		ModelVersion: uuid.NewString(),
		TrainedAt:    t.now().UTC(),
		Pipeline:     p,
		Target:       target,
		TargetRule:   rule,
		Governance:   report,
		FeaturesUsed: append([]string(nil), report.Usable...),
		NSamples:     data.NRows(),
		TrainMean:    stat.Mean(yValues, nil),
		Metrics:      m,
		Coefficients: coefs,
		Actual:       yValues,
		Predicted:    mat.Col(nil, 0, pred),
	}
	t.logger.Info("Training completed",
		log.PhaseKey, log.PhaseTraining,
		log.ModelVersionKey, res.ModelVersion,
		log.SamplesKey, res.NSamples,
		log.FeaturesKey, len(res.FeaturesUsed),
		log.MAEKey, m.MAE,
		log.R2ScoreKey, m.R2,
		log.RMSEKey, m.RMSE,
		log.NaiveMAEKey, m.NaiveMAE,
		log.DurationMsKey, t.now().Sub(start).Milliseconds(),
	)
	return res, nil
}

func evaluate(y, pred *mat.VecDense) (Metrics, error) {
	var m Metrics
	var err error
	if m.MAE, err = metrics.MAE(y, pred); err != nil {
		return m, err
	}
	if m.RMSE, err = metrics.RMSE(y, pred); err != nil {
		return m, err
	}
	if m.NaiveMAE, err = metrics.NaiveMAE(y); err != nil {
		return m, err
	}
	m.R2, err = metrics.R2Score(y, pred)
	if errors.Is(err, metrics.ErrZeroVariance) {
		errors.Warn(errors.NewUndefinedMetricWarning("r2", "constant target", 0))
		m.R2, err = 0, nil
	}
	return m, err
}
