package preprocessing

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/hpml/core/model"
	"github.com/YuminosukeSato/hpml/pkg/errors"
)

// OneHotEncoder はカテゴリ列を0/1の指示変数に展開する
// カテゴリは学習時に列ごとにソートして固定し、未知のカテゴリは全て0として符号化する。
type OneHotEncoder struct {
	// Categories は列ごとのソート済みカテゴリ
	Categories [][]string

	State *model.StateManager
}

// NewOneHotEncoder は新しいOneHotEncoderを作成する
func NewOneHotEncoder() *OneHotEncoder {
	return &OneHotEncoder{State: model.NewStateManager()}
}

// IsFitted は学習済みかどうかを返す
func (e *OneHotEncoder) IsFitted() bool {
	return e != nil && e.State.IsFitted()
}

// Fit は列ごとのカテゴリを学習する。columns[j] は j 番目の列の全行の値。
func (e *OneHotEncoder) Fit(columns [][]string) error {
	if len(columns) == 0 || len(columns[0]) == 0 {
		return errors.NewModelError("OneHotEncoder.Fit", "empty data", errors.ErrEmptyData)
	}
	if e.State == nil {
		e.State = model.NewStateManager()
	}

	e.Categories = make([][]string, len(columns))
	for j, values := range columns {
		seen := make(map[string]struct{})
		for _, v := range values {
			seen[v] = struct{}{}
		}
		cats := make([]string, 0, len(seen))
		for v := range seen {
			cats = append(cats, v)
		}
		sort.Strings(cats)
		e.Categories[j] = cats
	}

	e.State.SetDimensions(len(columns), len(columns[0]))
	e.State.SetFitted()
	return nil
}

// NOutputs は展開後の列数を返す
func (e *OneHotEncoder) NOutputs() int {
	n := 0
	for _, cats := range e.Categories {
		n += len(cats)
	}
	return n
}

// Transform は columns を指示変数の行列に変換する
func (e *OneHotEncoder) Transform(columns [][]string) (*mat.Dense, error) {
	if err := e.State.RequireFitted("OneHotEncoder", "Transform"); err != nil {
		return nil, err
	}
	if err := e.State.RequireFeatures("OneHotEncoder.Transform", len(columns)); err != nil {
		return nil, err
	}
	rows := 0
	if len(columns) > 0 {
		rows = len(columns[0])
	}
	if rows == 0 {
		return nil, errors.NewModelError("OneHotEncoder.Transform", "empty data", errors.ErrEmptyData)
	}

	out := mat.NewDense(rows, e.NOutputs(), nil)
	offset := 0
	for j, values := range columns {
		lookup := make(map[string]int, len(e.Categories[j]))
		for k, c := range e.Categories[j] {
			lookup[c] = k
		}
		for i, v := range values {
			if k, ok := lookup[v]; ok {
				out.Set(i, offset+k, 1)
			}
		}
		offset += len(e.Categories[j])
	}
	return out, nil
}

// FeatureNamesOut は展開後の列名 "<prefix><col>_<category>" を返す
func (e *OneHotEncoder) FeatureNamesOut(prefix string, inputNames []string) []string {
	names := make([]string, 0, e.NOutputs())
	for j, cats := range e.Categories {
		for _, c := range cats {
			names = append(names, fmt.Sprintf("%s%s_%s", prefix, inputNames[j], c))
		}
	}
	return names
}
