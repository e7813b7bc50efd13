package locks

import (
	"context"

	"github.com/praxisjuris/praxis/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewLocker picks the redis-backed locker when REDIS_ADDR is configured,
// otherwise the in-process one.
func NewLocker(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) Locker {
	if cfg.RedisAddr == "" {
		return NewLocalLocker()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = ctx
			return client.Close()
		},
	})

	log.Info("invoice locks backed by redis", zap.String("addr", cfg.RedisAddr))
	return NewRedisLocker(client)
}

// Module wires the invoice lock provider.
var Module = fx.Module("locks",
	fx.Provide(NewLocker),
)
