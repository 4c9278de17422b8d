package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/attestiz/internal/admin"
	"github.com/abhisek/attestiz/internal/config"
	"github.com/abhisek/attestiz/internal/metrics"
	"github.com/abhisek/attestiz/internal/results"
	"github.com/abhisek/attestiz/internal/store"
	"github.com/abhisek/attestiz/internal/telegram"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("admin-addr"); addr != "" {
			cfg.Admin.Addr = addr
		}
		if cfg.BotToken == "" {
			return errors.New("bot token is not set: use bot_token in the config or ATTESTIZ_BOT_TOKEN")
		}

		logger, closeLog, err := newLogger(cmd, cfg, os.Stderr)
		if err != nil {
			return err
		}
		defer closeLog()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		b, err := loadBank(cfg)
		if err != nil {
			return err
		}
		stats := b.Stats()
		logger.Info("bank loaded", "common", stats.Common, "roles", stats.Roles)

		sink, err := openSink(ctx, cmd, cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := sink.Close(); err != nil {
				logger.Warn("close result sink", "error", err)
			}
		}()

		m := metrics.New()
		svc := newService(cfg, b, sink, m, logger)

		api, err := tgbotapi.NewBotAPI(cfg.BotToken)
		if err != nil {
			return fmt.Errorf("connect to telegram: %w", err)
		}
		logger.Info("bot authorized", "username", api.Self.UserName)

		g, ctx := errgroup.WithContext(ctx)
		if cfg.Admin.Addr != "" {
			srv, closeRepo, err := newAdmin(cmd, cfg, svc, m, logger)
			if err != nil {
				return err
			}
			defer closeRepo()
			g.Go(func() error { return srv.Run(ctx, cfg.Admin.Addr) })
		}

		g.Go(func() error {
			u := tgbotapi.NewUpdate(0)
			u.Timeout = 30
			updates := api.GetUpdatesChan(u)
			go func() {
				<-ctx.Done()
				api.StopReceivingUpdates()
			}()
			return telegram.New(api, svc, logger).Run(ctx, updates)
		})

		err = g.Wait()
		logger.Info("bot stopped")
		return err
	},
}

// newAdmin builds the admin server. Stored results are served when the
// SQLite backend is enabled.
func newAdmin(cmd *cobra.Command, cfg config.Config, svc admin.Sessions, m *metrics.Metrics, logger *slog.Logger) (*admin.Server, func(), error) {
	deps := admin.Deps{Sessions: svc, Metrics: m, Logger: logger}
	closeRepo := func() {}
	if cfg.HasBackend(results.BackendSQLite) {
		p, err := resolveDBPath(cmd, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(p)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		deps.Repo = st.EventRepo()
		closeRepo = func() { _ = st.Close() }
	}
	return admin.New(deps), closeRepo, nil
}

func init() {
	botCmd.Flags().String("admin-addr", "", "Serve the admin API on this address (e.g. :8080)")
}
