package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/hpml/artifact"
	"github.com/YuminosukeSato/hpml/config"
	"github.com/YuminosukeSato/hpml/core/frame"
	"github.com/YuminosukeSato/hpml/diagnostics"
	"github.com/YuminosukeSato/hpml/governance"
	"github.com/YuminosukeSato/hpml/pkg/log"
	"github.com/YuminosukeSato/hpml/registry"
	"github.com/YuminosukeSato/hpml/training"
)

func newTrainCommand(cfgFile func() string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the model and write the bundle and metadata",
		Long: `Train reads a CSV, resolves the target column, keeps only allow-listed
features, fits a ridge regression and writes the model bundle and metadata.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd, cfgFile(), "train_data")
			if err != nil {
				return err
			}
			return runTrain(cmd, cfg, logger)
		},
	}
	cmd.Flags().String("data", config.DefaultTrainData, "Training CSV")
	cmd.Flags().String("target", "", "Target column (default: auto-detect)")
	cmd.Flags().Float64("alpha", 1.0, "Ridge regularization strength")
	cmd.Flags().String("plot", "", "Write an actual-vs-predicted PNG to this path")
	return cmd
}

func runTrain(cmd *cobra.Command, cfg *config.Config, logger log.Logger) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	data, err := frame.ReadCSVFile(cfg.TrainData)
	if err != nil {
		return err
	}
	trainer := training.New(governance.DefaultPolicy(),
		training.WithAlpha(cfg.Alpha),
		training.WithLogger(logger),
	)
	res, err := trainer.Train(ctx, data, cfg.Target)
	if err != nil {
		return err
	}
	printCoefficients(out, res.Coefficients)

	paths := artifact.Paths{Model: cfg.ModelPath, Meta: cfg.MetaPath}
	if _, _, err := artifact.WriteAll(res, paths, logger); err != nil {
		return err
	}

	if cfg.PlotPath != "" {
		if err := diagnostics.PlotFit(res.Actual, res.Predicted, res.Target, cfg.PlotPath); err != nil {
			logger.Warn("Diagnostics plot failed", err)
		} else {
			logger.Info("Diagnostics plot saved", log.PathKey, cfg.PlotPath)
		}
	}
	if cfg.RegistryPath != "" {
		if err := recordRun(ctx, cfg.RegistryPath, registry.NewRun(res, paths)); err != nil {
			logger.Warn("Run registry update failed", err)
		}
	}

	printTrainSummary(out, res, paths)
	return nil
}

func recordRun(ctx context.Context, path string, run registry.Run) error {
	store, err := registry.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(ctx, run)
}
