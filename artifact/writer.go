package artifact

import (
	"github.com/YuminosukeSato/hpml/pkg/errors"
	"github.com/YuminosukeSato/hpml/pkg/log"
	"github.com/YuminosukeSato/hpml/training"
)

// Paths は成果物の保存先です。
type Paths struct {
	Model string
	Meta  string
}

// WriteAll は学習結果からバンドルとメタデータを作成し、両方の保存を試みます。
// 片方が失敗してももう片方は書き込みます。原子性は保証しません。
func WriteAll(res *training.Result, paths Paths, logger log.Logger) (*Bundle, *Metadata, error) {
	if logger == nil {
		logger = log.GetLoggerWithName("artifact")
	}
	bundle := NewBundle(res)
	meta := NewMetadata(res)

	var errs []error
	if err := SaveBundle(paths.Model, bundle); err != nil {
		logger.Error("Failed to save model bundle", err, log.PathKey, paths.Model)
		errs = append(errs, err)
	} else {
		logger.Info("Model bundle saved", log.OperationKey, log.OperationSave, log.PathKey, paths.Model)
	}
	if err := SaveMetadata(paths.Meta, meta); err != nil {
		logger.Error("Failed to save metadata", err, log.PathKey, paths.Meta)
		errs = append(errs, err)
	} else {
		logger.Info("Model metadata saved", log.OperationKey, log.OperationSave, log.PathKey, paths.Meta)
	}

	return bundle, meta, errors.Join(errs...)
}
