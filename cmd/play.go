package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/attestiz/internal/app"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Take an assessment in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		// The alt screen owns the terminal; logs go to --log-file or nowhere.
		logger, closeLog, err := newLogger(cmd, cfg, io.Discard)
		if err != nil {
			return err
		}
		defer closeLog()

		b, err := loadBank(cfg)
		if err != nil {
			return err
		}

		sink, err := openSink(ctx, cmd, cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := sink.Close(); err != nil {
				logger.Warn("close result sink", "error", err)
			}
		}()

		svc := newService(cfg, b, sink, nil, logger)
		return app.Run(app.Options{
			Service: svc,
			UserID:  int64(os.Getuid()),
			Tagline: "Knowledge assessment",
		})
	},
}
