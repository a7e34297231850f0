package state

import (
	"context"
	"fmt"

	"github.com/mattjoyce/simdeck/internal/storage"
)

const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Options selects and configures a defaults backend.
type Options struct {
	Driver string

	Path string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open returns the defaults backend named by opts.Driver. An empty driver
// means SQLite.
func Open(ctx context.Context, opts Options) (Defaults, error) {
	switch opts.Driver {
	case "", DriverSQLite:
		db, err := storage.OpenSQLite(ctx, opts.Path)
		if err != nil {
			return nil, err
		}
		return NewStore(db), nil
	case DriverRedis:
		s := NewRedisStore(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, WithPrefix(opts.RedisPrefix))
		if err := s.client.Ping(ctx).Err(); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("connect redis %s: %w", opts.RedisAddr, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown state driver %q", opts.Driver)
	}
}
