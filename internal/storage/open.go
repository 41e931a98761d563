package storage

import (
	"context"
	"fmt"
	"io"

	"ecomstore/internal/db"

	"github.com/rs/zerolog"
)

type Options struct {
	Driver   string
	Path     string
	RedisURL string
	DBUrl    string
}

// Open builds the storage selected by opts.Driver. The returned closer
// releases any connection the storage holds.
func Open(ctx context.Context, opts Options, logger zerolog.Logger) (Storage, io.Closer, error) {
	switch opts.Driver {
	case "", "file":
		f, err := NewFile(opts.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Str("path", f.Path()).Msg("Using file session storage")
		return f, nopCloser{}, nil
	case "memory":
		logger.Warn().Msg("Using in-memory session storage; the session will not survive a restart")
		return NewMemory(), nopCloser{}, nil
	case "redis":
		r, err := DialRedis(ctx, opts.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Msg("Using redis session storage")
		return r, r, nil
	case "mysql":
		conn, err := db.InitDB(opts.DBUrl, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(conn, logger); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return NewSQL(conn), conn, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
