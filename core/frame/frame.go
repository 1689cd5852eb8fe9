// Package frame は列名付きの表形式データを保持します。
// セルは文字列のまま保持し、数値変換は列を使う側で行います。
package frame

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/hpml/pkg/errors"
)

// Frame は列名と行データからなる表です。生成後は変更されません。
type Frame struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// New は列名と行から Frame を作成します。
// 列名の重複や、列数と一致しない行はエラーです。
func New(columns []string, rows [][]string) (*Frame, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, errors.NewValidationError("columns", "duplicate column name", c)
		}
		index[c] = i
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, errors.NewDimensionError(fmt.Sprintf("frame.New row %d", i+1), len(columns), len(r), 1)
		}
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Frame{columns: cols, index: index, rows: rows}, nil
}

// Columns は列名を元の順序で返します。
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// NRows は行数を返します。
func (f *Frame) NRows() int { return len(f.rows) }

// Cell は i 行目の列 name の値を返します。
func (f *Frame) Cell(i int, name string) string {
	return f.rows[i][f.index[name]]
}

// Column は列 name の値を返します。列がなければ ValidationError です。
func (f *Frame) Column(name string) ([]string, error) {
	j, ok := f.index[name]
	if !ok {
		return nil, errors.NewValidationError("column", "no such column in data", name)
	}
	out := make([]string, len(f.rows))
	for i, r := range f.rows {
		out[i] = r[j]
	}
	return out, nil
}

// Select は names の列だけをその順序で持つ新しい Frame を返します。
// 存在しない列があれば、その全てを列挙した MissingFeaturesError を返します。
func (f *Frame) Select(names []string) (*Frame, error) {
	var missing []string
	idx := make([]int, len(names))
	for k, n := range names {
		j, ok := f.index[n]
		if !ok {
			missing = append(missing, n)
			continue
		}
		idx[k] = j
	}
	if len(missing) > 0 {
		return nil, errors.NewMissingFeaturesError(missing)
	}

	rows := make([][]string, len(f.rows))
	for i, r := range f.rows {
		row := make([]string, len(idx))
		for k, j := range idx {
			row[k] = r[j]
		}
		rows[i] = row
	}
	return New(names, rows)
}

// Float64Column は列 name を数値として読み出します。
// 空セルや数値として解釈できないセルは、列名と行番号(1始まり)を含む ValueError になります。
func (f *Frame) Float64Column(name string) ([]float64, error) {
	values, err := f.Column(name)
	if err != nil {
		return nil, err
	}
	return ParseFloats(name, values)
}

// ParseFloats は列 name の文字列値を数値に変換します。
func ParseFloats(name string, values []string) ([]float64, error) {
	out := make([]float64, len(values))
	for i, s := range values {
		v, ok := ParseFloat(s)
		if !ok {
			return nil, errors.NewValueError("ParseFloats",
				fmt.Sprintf("column %q row %d: %q is not a number", name, i+1, s))
		}
		out[i] = v
	}
	return out, nil
}

// ParseFloat は前後の空白を除いて数値に変換します。
// 空文字列と、NaN や Inf のような有限でない値は false を返します。
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
