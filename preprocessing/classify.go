package preprocessing

import (
	"strings"

	"github.com/YuminosukeSato/hpml/core/frame"
)

// Kind は列の型分類です。
type Kind int

const (
	// Categorical は文字列として扱い one-hot 符号化する列
	Categorical Kind = iota
	// Numeric は標準化する数値列
	Numeric
)

func (k Kind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "categorical"
}

// ClassifyColumn は列の値から型を判定します。
// 空でないセルが1つ以上あり、その全てが数値として解釈できれば Numeric、
// それ以外（全て空の列を含む）は Categorical です。
func ClassifyColumn(values []string) Kind {
	seen := false
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, ok := frame.ParseFloat(v); !ok {
			return Categorical
		}
		seen = true
	}
	if !seen {
		return Categorical
	}
	return Numeric
}
