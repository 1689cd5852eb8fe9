package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/hpml/core/frame"
	"github.com/YuminosukeSato/hpml/core/model"
	"github.com/YuminosukeSato/hpml/core/parallel"
	"github.com/YuminosukeSato/hpml/pkg/errors"
)

const (
	numericPrefix     = "num__"
	categoricalPrefix = "cat__"

	// この行数を超えると行列の組み立てを並列化する
	parallelRowThreshold = 2048
)

// ColumnTransformer は数値列を StandardScaler、カテゴリ列を OneHotEncoder で変換し、
// 数値ブロック、カテゴリブロックの順に連結した1つの行列を出力する。
// 列の分類は構築時に固定され、推論時に再判定しない。
type ColumnTransformer struct {
	NumericColumns     []string
	CategoricalColumns []string

	Scaler  *StandardScaler
	Encoder *OneHotEncoder

	State *model.StateManager
}

// NewColumnTransformer は列の分類を固定した ColumnTransformer を作成する
func NewColumnTransformer(numeric, categorical []string) *ColumnTransformer {
	return &ColumnTransformer{
		NumericColumns:     append([]string(nil), numeric...),
		CategoricalColumns: append([]string(nil), categorical...),
		Scaler:             NewStandardScalerDefault(),
		Encoder:            NewOneHotEncoder(),
		State:              model.NewStateManager(),
	}
}

// IsFitted は学習済みかどうかを返す
func (ct *ColumnTransformer) IsFitted() bool {
	return ct != nil && ct.State.IsFitted()
}

// Fit は f の学習データから各ブロックの統計量を学習する
func (ct *ColumnTransformer) Fit(f *frame.Frame) error {
	if f.NRows() == 0 {
		return errors.NewModelError("ColumnTransformer.Fit", "empty data", errors.ErrEmptyData)
	}
	if ct.State == nil {
		ct.State = model.NewStateManager()
	}

	if len(ct.NumericColumns) > 0 {
		X, err := numericMatrix(f, ct.NumericColumns)
		if err != nil {
			return err
		}
		if err := ct.Scaler.Fit(X); err != nil {
			return err
		}
	}
	if len(ct.CategoricalColumns) > 0 {
		cols, err := stringColumns(f, ct.CategoricalColumns)
		if err != nil {
			return err
		}
		if err := ct.Encoder.Fit(cols); err != nil {
			return err
		}
	}

	ct.State.SetDimensions(len(ct.NumericColumns)+len(ct.CategoricalColumns), f.NRows())
	ct.State.SetFitted()
	return nil
}

// Transform は f を学習済みのパラメータで変換する
func (ct *ColumnTransformer) Transform(f *frame.Frame) (*mat.Dense, error) {
	if err := ct.State.RequireFitted("ColumnTransformer", "Transform"); err != nil {
		return nil, err
	}
	rows := f.NRows()
	if rows == 0 {
		return nil, errors.NewModelError("ColumnTransformer.Transform", "empty data", errors.ErrEmptyData)
	}

	var numBlock, catBlock mat.Matrix
	nNum, nCat := 0, 0
	if len(ct.NumericColumns) > 0 {
		X, err := numericMatrix(f, ct.NumericColumns)
		if err != nil {
			return nil, err
		}
		if numBlock, err = ct.Scaler.Transform(X); err != nil {
			return nil, err
		}
		_, nNum = numBlock.Dims()
	}
	if len(ct.CategoricalColumns) > 0 {
		cols, err := stringColumns(f, ct.CategoricalColumns)
		if err != nil {
			return nil, err
		}
		enc, err := ct.Encoder.Transform(cols)
		if err != nil {
			return nil, err
		}
		catBlock = enc
		nCat = ct.Encoder.NOutputs()
	}

	out := mat.NewDense(rows, nNum+nCat, nil)
	// 行ごとに書き込み先が異なるため並列に組み立てられる
	parallel.ParallelizeWithThreshold(rows, parallelRowThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < nNum; j++ {
				out.Set(i, j, numBlock.At(i, j))
			}
			for j := 0; j < nCat; j++ {
				out.Set(i, nNum+j, catBlock.At(i, j))
			}
		}
	})
	return out, nil
}

// FitTransform は Fit と Transform を続けて実行する
func (ct *ColumnTransformer) FitTransform(f *frame.Frame) (*mat.Dense, error) {
	if err := ct.Fit(f); err != nil {
		return nil, err
	}
	return ct.Transform(f)
}

// FeatureNamesOut は展開後の列名を出力列の順に返す
// 数値列は "num__<col>"、カテゴリ列は "cat__<col>_<category>"。
func (ct *ColumnTransformer) FeatureNamesOut() []string {
	names := make([]string, 0, len(ct.NumericColumns))
	for _, c := range ct.NumericColumns {
		names = append(names, numericPrefix+c)
	}
	if len(ct.CategoricalColumns) > 0 && ct.Encoder.IsFitted() {
		names = append(names, ct.Encoder.FeatureNamesOut(categoricalPrefix, ct.CategoricalColumns)...)
	}
	return names
}

func numericMatrix(f *frame.Frame, columns []string) (*mat.Dense, error) {
	X := mat.NewDense(f.NRows(), len(columns), nil)
	for j, name := range columns {
		values, err := f.Float64Column(name)
		if err != nil {
			return nil, err
		}
		X.SetCol(j, values)
	}
	return X, nil
}

func stringColumns(f *frame.Frame, columns []string) ([][]string, error) {
	out := make([][]string, len(columns))
	for j, name := range columns {
		values, err := f.Column(name)
		if err != nil {
			return nil, err
		}
		out[j] = values
	}
	return out, nil
}
