package memcache_fx

import (
	"go.uber.org/fx"
	mem "mirage/pkg/memcache"
)

var Module = fx.Provide(providePushLocks)

func providePushLocks() mem.PushLockStore {
	return mem.NewPushLocks()
}
