// Package pipeline は前処理と回帰モデルを1つの学習・推論単位にまとめます。
//
// Build で学習データから列の型を判定して固定し、Fit と Predict は同じ
// 学習済みの前処理パラメータを使います。推論時に列の型は再判定しません。
package pipeline

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/hpml/core/frame"
	"github.com/YuminosukeSato/hpml/core/model"
	"github.com/YuminosukeSato/hpml/linear"
	"github.com/YuminosukeSato/hpml/pkg/errors"
	"github.com/YuminosukeSato/hpml/pkg/log"
	"github.com/YuminosukeSato/hpml/preprocessing"
)

// Pipeline は ColumnTransformer と Ridge をつなげたモデル
// gob でそのまま保存できるよう、状態は全て公開フィールドで持つ。
type Pipeline struct {
	// Features は入力列名（学習時の順序）
	Features []string
	// Kinds は Features と同じ順序の列の型
	Kinds []preprocessing.Kind

	Preprocessor *preprocessing.ColumnTransformer
	Regressor    *linear.Ridge

	State *model.StateManager

	logger log.Logger
}

// Option は Build の設定を変更する関数
type Option func(*buildConfig)

type buildConfig struct {
	alpha  float64
	logger log.Logger
}

// WithAlpha は回帰モデルの正則化の強さを設定する
func WithAlpha(alpha float64) Option {
	return func(c *buildConfig) { c.alpha = alpha }
}

// WithLogger はロガーを設定する
func WithLogger(l log.Logger) Option {
	return func(c *buildConfig) { c.logger = l }
}

// Build は features の各列を train の値から Numeric / Categorical に分類し、
// 未学習の Pipeline を作成する。
func Build(train *frame.Frame, features []string, opts ...Option) (*Pipeline, error) {
	cfg := buildConfig{alpha: linear.DefaultAlpha}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(features) == 0 {
		return nil, errors.NewValidationError("features", "at least one feature is required", features)
	}

	kinds := make([]preprocessing.Kind, len(features))
	var numeric, categorical []string
	for i, name := range features {
		values, err := train.Column(name)
		if err != nil {
			return nil, err
		}
		kinds[i] = preprocessing.ClassifyColumn(values)
		if kinds[i] == preprocessing.Numeric {
			numeric = append(numeric, name)
		} else {
			categorical = append(categorical, name)
		}
	}

	p := &Pipeline{
		Features:     append([]string(nil), features...),
		Kinds:        kinds,
		Preprocessor: preprocessing.NewColumnTransformer(numeric, categorical),
		Regressor:    linear.NewRidge(linear.WithAlpha(cfg.alpha)),
		State:        model.NewStateManager(),
		logger:       cfg.logger,
	}
	p.log().Debug("Pipeline built",
		log.OperationKey, "build",
		log.PhaseKey, log.PhasePreprocessing,
		"numeric_columns", numeric,
		"categorical_columns", categorical,
	)
	return p, nil
}

func (p *Pipeline) log() log.Logger {
	if p.logger == nil {
		p.logger = log.GetLoggerWithName("Pipeline")
	}
	return p.logger
}

// SetLogger はロガーを差し替える。読み込んだ Pipeline に使う。
func (p *Pipeline) SetLogger(l log.Logger) {
	p.logger = l
}

// IsFitted は学習済みかどうかを返す
func (p *Pipeline) IsFitted() bool {
	return p != nil && p.State.IsFitted()
}

// Fit は前処理を学習して変換し、その結果で回帰モデルを学習する
func (p *Pipeline) Fit(X *frame.Frame, y mat.Vector) error {
	if y.Len() != X.NRows() {
		return errors.NewDimensionError("Pipeline.Fit", X.NRows(), y.Len(), 0)
	}
	if p.State == nil {
		p.State = model.NewStateManager()
	}

	sel, err := X.Select(p.Features)
	if err != nil {
		return err
	}
	Xt, err := p.Preprocessor.FitTransform(sel)
	if err != nil {
		return errors.Wrap(err, "failed to fit step 'preprocessor'")
	}
	if err := p.Regressor.Fit(Xt, vectorAsColumn(y)); err != nil {
		return errors.Wrap(err, "failed to fit final step 'regressor'")
	}

	_, nOut := Xt.Dims()
	p.State.SetDimensions(len(p.Features), X.NRows())
	p.State.SetFitted()
	p.log().Info("Pipeline fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, X.NRows(),
		log.FeaturesKey, len(p.Features),
		"expanded_features", nOut,
		log.RegularizationKey, p.Regressor.Alpha,
	)
	return nil
}

// Predict は X の Features 列を選択し、前処理と回帰モデルで予測する
func (p *Pipeline) Predict(X *frame.Frame) (*mat.VecDense, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "Predict")
	}
	sel, err := X.Select(p.Features)
	if err != nil {
		return nil, err
	}
	Xt, err := p.Preprocessor.Transform(sel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to transform at step 'preprocessor'")
	}
	pred, err := p.Regressor.Predict(Xt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to predict at step 'regressor'")
	}
	rows, _ := pred.Dims()
	return mat.NewVecDense(rows, mat.Col(nil, 0, pred)), nil
}

// FeatureNamesOut は前処理後の展開された列名を返す
func (p *Pipeline) FeatureNamesOut() []string {
	return p.Preprocessor.FeatureNamesOut()
}

// String はパイプラインの構成を返す
func (p *Pipeline) String() string {
	return fmt.Sprintf("Pipeline(preprocessor=ColumnTransformer(num=[%s], cat=[%s]), regressor=%s)",
		strings.Join(p.Preprocessor.NumericColumns, ", "),
		strings.Join(p.Preprocessor.CategoricalColumns, ", "),
		p.Regressor.String())
}

func vectorAsColumn(v mat.Vector) *mat.Dense {
	out := mat.NewDense(v.Len(), 1, nil)
	for i := 0; i < v.Len(); i++ {
		out.Set(i, 0, v.AtVec(i))
	}
	return out
}
