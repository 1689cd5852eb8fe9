package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/YuminosukeSato/hpml/artifact"
	"github.com/YuminosukeSato/hpml/registry"
	"github.com/YuminosukeSato/hpml/scoring"
	"github.com/YuminosukeSato/hpml/training"
)

// topCoefficients は学習後に表示する係数の数
const topCoefficients = 10

func money(v float64) string {
	return humanize.CommafWithDigits(v, 2)
}

func wholeMoney(v float64) string {
	return humanize.Comma(scoring.TruncatePrediction(v))
}

func printCoefficients(w io.Writer, report training.CoefficientReport) {
	if !report.OK() {
		_, _ = fmt.Fprintf(w, "[Warning] Could not extract coefficients: %v\n", report.Err)
		return
	}
	_, _ = fmt.Fprintf(w, "\nTop %d feature coefficients:\n", topCoefficients)
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Feature", "Coefficient"})
	for _, c := range report.Top(topCoefficients) {
		t.AppendRow(table.Row{c.Feature, fmt.Sprintf("%+.2f", c.Value)})
	}
	t.Render()
}

func printTrainSummary(w io.Writer, res *training.Result, paths artifact.Paths) {
	m := res.Metrics
	_, _ = fmt.Fprintf(w, "\nModel saved -> %s\n", paths.Model)
	_, _ = fmt.Fprintf(w, "Meta   saved -> %s\n", paths.Meta)
	_, _ = fmt.Fprintf(w, "Target       : %s (%s)\n", res.Target, res.TargetRule)
	_, _ = fmt.Fprintf(w, "Used features (%d): %v\n", len(res.FeaturesUsed), res.FeaturesUsed)
	_, _ = fmt.Fprintf(w, "Training MAE : %s   |   R²: %.4f\n", money(m.MAE), m.R2)
	_, _ = fmt.Fprintf(w, "Naive MAE    : %s   (model improvement: %s)\n", money(m.NaiveMAE), money(m.Lift()))
}

func printScoreBanner(w io.Writer, r scoring.Report) {
	rule := strings.Repeat("=", 50)
	_, _ = fmt.Fprintln(w, "\n"+rule)
	_, _ = fmt.Fprintln(w, "          PREDICTION ONLY MODE")
	_, _ = fmt.Fprintln(w, rule)
	_, _ = fmt.Fprintf(w, "Input rows             : %s\n", humanize.Comma(int64(r.Rows)))
	_, _ = fmt.Fprintf(w, "Features               : %v\n", r.Features)
	_, _ = fmt.Fprintf(w, "Training mean price    : %s\n", wholeMoney(r.TrainMeanPrice))
	_, _ = fmt.Fprintf(w, "Batch mean prediction  : %s\n", wholeMoney(r.MeanPrediction))
	_, _ = fmt.Fprintf(w, "Prediction range       : %s ~ %s\n", wholeMoney(r.MinPrediction), wholeMoney(r.MaxPrediction))
	_, _ = fmt.Fprintln(w, rule)
}

func printRuns(w io.Writer, runs []registry.Run) {
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(w, "(0 runs)")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Run ID", "Trained", "Target", "Rows", "Features", "MAE", "R²", "Naive MAE"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.RunID,
			humanize.Time(r.TrainedAt),
			r.Target,
			humanize.Comma(int64(r.NSamples)),
			strings.Join(r.Features, ", "),
			money(r.Metrics.MAE),
			fmt.Sprintf("%.4f", r.Metrics.R2),
			money(r.Metrics.NaiveMAE),
		})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d runs)\n", len(runs))
}
