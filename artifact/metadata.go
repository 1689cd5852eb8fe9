package artifact

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/YuminosukeSato/hpml/pkg/errors"
	"github.com/YuminosukeSato/hpml/training"
)

// TrainingMetrics は学習データ上の評価指標です。
type TrainingMetrics struct {
	MAE  float64 `json:"mae"`
	R2   float64 `json:"r2"`
	RMSE float64 `json:"rmse"`
}

// Metadata は監査と再スコアリングのためのモデル情報です。
type Metadata struct {
	ModelVersion string    `json:"model_version"`
	TrainedAt    time.Time `json:"trained_at"`

	Target         string   `json:"target"`
	NSamples       int      `json:"n_samples"`
	FeaturesUsed   []string `json:"features_used"`
	TrainMeanPrice float64  `json:"train_mean_price"`
	// BaselineNaiveMAE は常に学習平均を予測した場合のMAE
	BaselineNaiveMAE float64 `json:"baseline_naive_mae"`
	// MetricsOnTrainingSet は学習データ上の指標（汎化性能ではない）
	MetricsOnTrainingSet TrainingMetrics `json:"metrics_on_training_set"`

	Model        string             `json:"model"`
	Coefficients map[string]float64 `json:"coefficients"`
	Intercept    *float64           `json:"intercept"`
}

// NewMetadata は学習結果からメタデータを作成します。
func NewMetadata(res *training.Result) *Metadata {
	coefs := res.Coefficients.Coefficients
	if coefs == nil {
		coefs = map[string]float64{}
	}
	return &Metadata{
		ModelVersion:     res.ModelVersion,
		TrainedAt:        res.TrainedAt,
		Target:           res.Target,
		NSamples:         res.NSamples,
		FeaturesUsed:     append([]string(nil), res.FeaturesUsed...),
		TrainMeanPrice:   res.TrainMean,
		BaselineNaiveMAE: res.Metrics.NaiveMAE,
		MetricsOnTrainingSet: TrainingMetrics{
			MAE:  res.Metrics.MAE,
			R2:   res.Metrics.R2,
			RMSE: res.Metrics.RMSE,
		},
		Model:        res.Pipeline.Regressor.String(),
		Coefficients: coefs,
		Intercept:    res.Coefficients.Intercept,
	}
}

// SaveMetadata はメタデータを path にインデント付きJSONで保存します。
func SaveMetadata(path string, m *Metadata) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode metadata")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.Wrapf(err, "write metadata %s", path)
	}
	return nil
}

// LoadMetadata は path からメタデータを読み込みます。
func LoadMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read metadata %s", path)
	}
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "decode metadata %s", path)
	}
	return &m, nil
}
