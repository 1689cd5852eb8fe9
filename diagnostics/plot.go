// Package diagnostics は学習結果の確認用の図を作成します。
package diagnostics

import (
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/hpml/pkg/errors"
)

// Size は保存する画像の一辺の長さ
const Size = 5 * vg.Inch

// PlotFit は実測値と予測値の散布図に y=x の線を重ねて path に保存します。
// 拡張子で形式が決まり、.png なら PNG です。
func PlotFit(actual, predicted []float64, target, path string) error {
	if len(actual) != len(predicted) {
		return errors.NewDimensionError("PlotFit", len(actual), len(predicted), 0)
	}
	if len(actual) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "nothing to plot")
	}

	p := plot.New()
	p.Title.Text = "Actual vs Predicted (training set)"
	p.X.Label.Text = "actual " + target
	p.Y.Label.Text = "predicted " + target

	pts := make(plotter.XYs, len(actual))
	for i := range actual {
		pts[i].X = actual[i]
		pts[i].Y = predicted[i]
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "scatter")
	}
	s.Color = color.RGBA{R: 50, G: 50, B: 255, A: 255}
	p.Add(s)

	lo := min(floats.Min(actual), floats.Min(predicted))
	hi := max(floats.Max(actual), floats.Max(predicted))
	l, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return errors.Wrap(err, "identity line")
	}
	l.Color = color.RGBA{R: 255, A: 255}
	l.LineStyle.Width = vg.Points(1.5)
	l.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(l)
	p.Add(plotter.NewGrid())

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}
	if err := p.Save(Size, Size, path); err != nil {
		return errors.Wrapf(err, "save plot %s", path)
	}
	return nil
}
