package throttle_fx

import (
	"context"
	"log"

	"go.uber.org/fx"
	"mirage/internal/config"
	"mirage/internal/infra"
	"mirage/internal/services"
	mem "mirage/pkg/memcache"
)

var Module = fx.Provide(providePushThrottle)

// Redis when REDIS_URL is set so every replica shares the lock, otherwise
// the in-process store.
func providePushThrottle(lc fx.Lifecycle, cfg *config.Config, locks mem.PushLockStore) (services.PushThrottle, error) {
	if cfg.RedisURL == "" {
		log.Printf("Push throttle: in-memory, window %s", cfg.PushThrottleWindow)
		return services.NewMemoryPushThrottle(locks, cfg.PushThrottleWindow), nil
	}

	client, err := infra.InitRedis(context.Background(), cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	log.Printf("Push throttle: redis, window %s", cfg.PushThrottleWindow)
	return services.NewRedisPushThrottle(client, cfg.PushThrottleWindow), nil
}
