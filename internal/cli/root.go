// Package cli は hpml コマンドのサブコマンドを提供します。
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/hpml/config"
	"github.com/YuminosukeSato/hpml/pkg/log"
)

// ビルド時に設定されるバージョン情報
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// NewRootCmd はルートコマンドを作成します。
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "hpml",
		Short: "Governed house-price regression",
		Long: `hpml trains a ridge regression model on tabular house data while
enforcing a feature allow-list, and scores new data with the saved model.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./hpml.yaml)")
	pf.String("model", config.DefaultModelPath, "Path of the model bundle")
	pf.String("meta", config.DefaultMetaPath, "Path of the model metadata JSON")
	pf.String("registry", "", "SQLite run registry (empty disables it)")
	pf.String("log-level", config.DefaultLogLevel, "Log level (debug|info|warn|error)")
	pf.String("log-format", config.DefaultLogFormat, "Log format (console|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	cfgPath := func() string { return cfgFile }
	rootCmd.AddCommand(newTrainCommand(cfgPath))
	rootCmd.AddCommand(newScoreCommand(cfgPath))
	rootCmd.AddCommand(newServeCommand(cfgPath))
	rootCmd.AddCommand(newRunsCommand(cfgPath))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute はルートコマンドを実行します。SIGINT/SIGTERM でコンテキストがキャンセルされます。
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// loadConfig は cmd のフラグを含めて設定を読み込み、ログ出力を設定します。
func loadConfig(cmd *cobra.Command, cfgFile, dataKey string) (*config.Config, log.Logger, error) {
	cfg, err := config.Load(cfgFile, cmd.Flags(), dataKey)
	if err != nil {
		return nil, nil, err
	}
	setupLogging(cmd.ErrOrStderr(), cfg)
	logger := log.GetLoggerWithName(cmd.Name())
	if cfg.FileUsed != "" {
		logger.Debug("Using config file", log.PathKey, cfg.FileUsed)
	}
	return cfg, logger, nil
}

func setupLogging(w io.Writer, cfg *config.Config) {
	level := cfg.Level()
	var provider *log.ZerologProvider
	if cfg.LogFormat == "json" {
		provider = log.NewZerologProviderWithWriter(w, level)
	} else {
		provider = log.NewConsoleProvider(w, level)
	}
	log.SetProvider(provider)
	provider.RouteWarnings()
	log.SetupLogger(cfg.LogLevel)
}
