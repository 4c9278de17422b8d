package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/attestiz/internal/bank"
	"github.com/abhisek/attestiz/internal/config"
	"github.com/abhisek/attestiz/internal/evaluator"
	"github.com/abhisek/attestiz/internal/metrics"
	"github.com/abhisek/attestiz/internal/proctor"
	"github.com/abhisek/attestiz/internal/questiongen"
	"github.com/abhisek/attestiz/internal/results"
	"github.com/abhisek/attestiz/internal/session"
)

// loadBank loads every bank file named in cfg.
func loadBank(cfg config.Config) (*bank.Bank, error) {
	src := bank.Source{CommonPath: cfg.CommonQuestions}
	for _, r := range cfg.Roles {
		src.Roles = append(src.Roles, bank.RoleSource{
			Slug:          r.Slug,
			Title:         r.Title,
			Path:          r.Path,
			BlockTwoCount: r.BlockTwoCount,
		})
	}
	b, err := bank.Load(src)
	if err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}
	return b, nil
}

// openSink opens the result backends configured in cfg.
func openSink(ctx context.Context, cmd *cobra.Command, cfg config.Config, logger *slog.Logger) (results.Sink, error) {
	opts := results.Options{
		Backends: cfg.Results.Backends,
		FilePath: cfg.Results.FilePath,
		Mongo: results.MongoConfig{
			URI:        cfg.Results.Mongo.URI,
			Database:   cfg.Results.Mongo.Database,
			Collection: cfg.Results.Mongo.Collection,
		},
		Redis: results.RedisConfig{
			Addr:     cfg.Results.Redis.Addr,
			Password: cfg.Results.Redis.Password,
			DB:       cfg.Results.Redis.DB,
			Stream:   cfg.Results.Redis.Stream,
			MaxLen:   cfg.Results.Redis.MaxLen,
		},
		AMQPURL:      cfg.Results.AMQP.URL,
		AMQPExchange: cfg.Results.AMQP.Exchange,
	}
	if cfg.HasBackend(results.BackendSQLite) {
		p, err := resolveDBPath(cmd, cfg)
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		opts.DBPath = p
	}
	return results.Open(ctx, opts, logger)
}

// newService wires the interaction service over b.
func newService(cfg config.Config, b *bank.Bank, sink results.Sink, m *metrics.Metrics, logger *slog.Logger) *proctor.Service {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return proctor.New(proctor.Deps{
		Bank:          b,
		Materializer:  questiongen.New(rand.New(rand.NewSource(seed)), b),
		Engine:        session.NewEngine(evaluator.New()),
		Registry:      session.NewRegistry(),
		Sink:          sink,
		Metrics:       m,
		Logger:        logger,
		BlockOneCount: cfg.BlockOneCount,
	})
}
