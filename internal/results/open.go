package results

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/attestiz/internal/store"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
	BackendAMQP   = "amqp"
)

// Backends lists every backend name Open understands.
var Backends = []string{BackendFile, BackendSQLite, BackendMongo, BackendRedis, BackendAMQP}

// Options configures Open.
type Options struct {
	Backends     []string
	FilePath     string
	DBPath       string
	Mongo        MongoConfig
	Redis        RedisConfig
	AMQPURL      string
	AMQPExchange string
}

// Open builds the sink for opts. No backends yields Nop; one backend is
// returned as is; several are combined with Multi. If any backend fails to
// open, the ones already opened are closed.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (Sink, error) {
	var sinks Multi
	for _, name := range opts.Backends {
		s, err := openBackend(ctx, name, opts)
		if err != nil {
			_ = sinks.Close()
			return nil, fmt.Errorf("open %s sink: %w", name, err)
		}
		logger.Info("result sink ready", "backend", name)
		sinks = append(sinks, s)
	}
	switch len(sinks) {
	case 0:
		return Nop{}, nil
	case 1:
		return sinks[0], nil
	}
	return sinks, nil
}

func openBackend(ctx context.Context, name string, opts Options) (Sink, error) {
	switch name {
	case BackendFile:
		return OpenFile(opts.FilePath)
	case BackendSQLite:
		if err := store.EnsureDir(opts.DBPath); err != nil {
			return nil, err
		}
		st, err := store.Open(opts.DBPath)
		if err != nil {
			return nil, err
		}
		return NewStoreSink(st.EventRepo(), st.Close), nil
	case BackendMongo:
		return OpenMongo(ctx, opts.Mongo)
	case BackendRedis:
		return OpenRedis(ctx, opts.Redis)
	case BackendAMQP:
		return OpenAMQP(opts.AMQPURL, opts.AMQPExchange)
	}
	return nil, fmt.Errorf("unknown backend %q", name)
}
