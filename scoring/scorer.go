// Package scoring は保存済みの成果物を読み込み、新しいデータに対して予測します。
//
// 推論専用で、正解値があっても評価指標は計算しません。
package scoring

import (
	"context"
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/hpml/artifact"
	"github.com/YuminosukeSato/hpml/core/frame"
	"github.com/YuminosukeSato/hpml/pkg/errors"
	"github.com/YuminosukeSato/hpml/pkg/log"
)

// Report は1回のスコアリングの要約です。
type Report struct {
	Rows           int
	Features       []string
	TrainMeanPrice float64
	MeanPrediction float64
	MinPrediction  float64
	MaxPrediction  float64
	ModelVersion   string
}

// Result は予測結果です。Inputs は Features の順に選択した入力列です。
type Result struct {
	Report      Report
	Inputs      *frame.Frame
	Predictions []float64
}

// Scorer は読み込んだバンドルとメタデータで予測します。
// 読み込み後は変更されないため、複数の goroutine から同時に使えます。
type Scorer struct {
	bundle   *artifact.Bundle
	meta     *artifact.Metadata
	features []string
	logger   log.Logger
}

// Load は modelPath と metaPath の成果物を読み込んで Scorer を作成します。
func Load(modelPath, metaPath string, logger log.Logger) (*Scorer, error) {
	bundle, err := artifact.LoadBundle(modelPath)
	if err != nil {
		return nil, err
	}
	meta, err := artifact.LoadMetadata(metaPath)
	if err != nil {
		return nil, err
	}
	return New(bundle, meta, logger)
}

// New は読み込み済みのバンドルとメタデータから Scorer を作成します。
func New(bundle *artifact.Bundle, meta *artifact.Metadata, logger log.Logger) (*Scorer, error) {
	if logger == nil {
		logger = log.GetLoggerWithName("scoring")
	}
	features, key := bundle.FeatureList()
	if len(features) == 0 {
		return nil, errors.NewModelError("scoring.New", "bundle has no feature list", nil)
	}
	if meta == nil {
		return nil, errors.NewValidationError("meta", "metadata is required", nil)
	}
	bundle.Pipeline.SetLogger(logger)
	logger.Info("Model loaded",
		log.OperationKey, log.OperationLoad,
		log.FeatureNamesKey, features,
		"feature_list_key", key,
		log.TargetKey, bundle.TargetName(),
		log.ModelVersionKey, meta.ModelVersion,
	)
	return &Scorer{bundle: bundle, meta: meta, features: features, logger: logger}, nil
}

// Features は推論時に必要な列を順に返します。
func (s *Scorer) Features() []string {
	return append([]string(nil), s.features...)
}

// Metadata は読み込んだメタデータを返します。
func (s *Scorer) Metadata() *artifact.Metadata {
	return s.meta
}

// Target は目的変数名を返します。
func (s *Scorer) Target() string {
	return s.bundle.TargetName()
}

// Score は data から学習時の特徴量列を選択して予測します。
// 足りない列があれば、その全てを列挙した MissingFeaturesError を返します。
func (s *Scorer) Score(ctx context.Context, data *frame.Frame) (*Result, error) {
	inputs, err := data.Select(s.features)
	if err != nil {
		return nil, err
	}
	if inputs.NRows() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "scoring data has no rows")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pred, err := s.bundle.Pipeline.Predict(inputs)
	if err != nil {
		return nil, err
	}
	values := make([]float64, pred.Len())
	for i := range values {
		values[i] = pred.AtVec(i)
	}
	if err := errors.CheckFinite("Scorer.Score", values); err != nil {
		return nil, err
	}

	report := Report{
		Rows:           inputs.NRows(),
		Features:       s.Features(),
		TrainMeanPrice: s.meta.TrainMeanPrice,
		MeanPrediction: errors.SafeDivide(floats.Sum(values), float64(len(values))),
		MinPrediction:  floats.Min(values),
		MaxPrediction:  floats.Max(values),
		ModelVersion:   s.meta.ModelVersion,
	}
	s.logger.Info("Scoring finished",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseInference,
		log.PredsKey, report.Rows,
		log.PredsMeanKey, report.MeanPrediction,
		log.PredsMinKey, report.MinPrediction,
		log.PredsMaxKey, report.MaxPrediction,
	)
	return &Result{Report: report, Inputs: inputs, Predictions: values}, nil
}

// PredictOne は列名から値への対応1件を予測します。値は数値または文字列です。
func (s *Scorer) PredictOne(ctx context.Context, values map[string]interface{}) (float64, error) {
	row := make([]string, len(s.features))
	var missing []string
	for i, name := range s.features {
		v, ok := values[name]
		if !ok || v == nil {
			missing = append(missing, name)
			continue
		}
		row[i] = formatCell(v)
	}
	if len(missing) > 0 {
		return 0, errors.NewMissingFeaturesError(missing)
	}
	f, err := frame.New(s.features, [][]string{row})
	if err != nil {
		return 0, err
	}
	res, err := s.Score(ctx, f)
	if err != nil {
		return 0, err
	}
	return res.Predictions[0], nil
}

func formatCell(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
