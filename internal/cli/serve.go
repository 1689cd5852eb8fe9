package cli

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/hpml/config"
	"github.com/YuminosukeSato/hpml/scoring"
	"github.com/YuminosukeSato/hpml/serve"
)

func newServeCommand(cfgFile func() string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve predictions over HTTP",
		Long:  `Serve loads the model once and exposes /health, /model-info and /predict.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd, cfgFile(), "")
			if err != nil {
				return err
			}
			scorer, err := scoring.Load(cfg.ModelPath, cfg.MetaPath, logger)
			if err != nil {
				return err
			}
			srv := serve.NewServer(serve.Config{Addr: cfg.ListenAddr, Scorer: scorer, Logger: logger})
			return srv.Serve(cmd.Context())
		},
	}
	cmd.Flags().String("listen", config.DefaultListenAddr, "Listen address")
	return cmd
}
