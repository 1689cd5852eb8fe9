package training

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/hpml/core/model"
	"github.com/YuminosukeSato/hpml/pipeline"
	"github.com/YuminosukeSato/hpml/pkg/errors"
)

// Coefficient は展開後の特徴量名と係数の組です。
type Coefficient struct {
	Feature string
	Value   float64
}

// CoefficientReport はベストエフォートで取り出した係数です。
// 取り出しに失敗した場合 Err が設定され、Coefficients は空、Intercept は nil です。
type CoefficientReport struct {
	Coefficients map[string]float64
	// Ordered は前処理後の列順の係数
	Ordered   []Coefficient
	Intercept *float64
	Err       error
}

// OK は係数が取り出せたかどうかを返します。
func (r CoefficientReport) OK() bool {
	return r.Err == nil
}

// Top は絶対値の大きい順に最大 n 個の係数を返します。同じ絶対値は列順を保ちます。
func (r CoefficientReport) Top(n int) []Coefficient {
	out := append([]Coefficient(nil), r.Ordered...)
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Value) > math.Abs(out[j].Value)
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// extractCoefficients はテストで差し替えられるようにパッケージ変数にしている
var extractCoefficients = func(p *pipeline.Pipeline) ([]Coefficient, float64, error) {
	var lm model.LinearModel = p.Regressor
	names := p.FeatureNamesOut()
	coef := lm.Coefficients()
	if len(names) != len(coef) {
		return nil, 0, errors.NewDimensionError("extractCoefficients", len(names), len(coef), 1)
	}
	out := make([]Coefficient, len(coef))
	for i := range coef {
		out[i] = Coefficient{Feature: names[i], Value: coef[i]}
	}
	return out, lm.Intercept(), nil
}

// coefficientReport は panic を含む全ての失敗を CoefficientReport.Err に変換します。
func coefficientReport(p *pipeline.Pipeline) CoefficientReport {
	var (
		ordered   []Coefficient
		intercept float64
	)
	err := errors.SafeExecute("coefficient extraction", func() error {
		var err error
		ordered, intercept, err = extractCoefficients(p)
		return err
	})
	if err != nil {
		return CoefficientReport{
			Coefficients: map[string]float64{},
			Err:          errors.Wrap(err, "could not extract coefficients"),
		}
	}

	m := make(map[string]float64, len(ordered))
	for _, c := range ordered {
		m[c.Feature] = c.Value
	}
	return CoefficientReport{Coefficients: m, Ordered: ordered, Intercept: &intercept}
}
