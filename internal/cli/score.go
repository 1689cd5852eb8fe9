package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/hpml/config"
	"github.com/YuminosukeSato/hpml/core/frame"
	"github.com/YuminosukeSato/hpml/pkg/log"
	"github.com/YuminosukeSato/hpml/scoring"
)

func newScoreCommand(cfgFile func() string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Predict prices for new data with the saved model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd, cfgFile(), "score_data")
			if err != nil {
				return err
			}
			return runScore(cmd, cfg, logger)
		},
	}
	cmd.Flags().String("data", config.DefaultScoreData, "CSV to score")
	cmd.Flags().String("export", config.DefaultExportPath, "Output CSV path")
	return cmd
}

func runScore(cmd *cobra.Command, cfg *config.Config, logger log.Logger) error {
	out := cmd.OutOrStdout()

	scorer, err := scoring.Load(cfg.ModelPath, cfg.MetaPath, logger)
	if err != nil {
		return err
	}
	features := scorer.Features()
	_, _ = fmt.Fprintf(out, "Loading model that uses %d features: %v\n", len(features), features)

	data, err := frame.ReadCSVFile(cfg.ScoreData)
	if err != nil {
		return err
	}
	res, err := scorer.Score(cmd.Context(), data)
	if err != nil {
		return err
	}
	printScoreBanner(out, res.Report)

	if err := scoring.WriteExport(cfg.ExportPath, res); err != nil {
		return err
	}
	abs, err := filepath.Abs(cfg.ExportPath)
	if err != nil {
		abs = cfg.ExportPath
	}
	logger.Info("Predictions exported", log.PathKey, abs, log.PredsKey, res.Report.Rows)
	_, _ = fmt.Fprintf(out, "\nPredictions exported -> %s\n", abs)
	_, _ = fmt.Fprintf(out, "%d predictions\n", res.Report.Rows)
	return nil
}
