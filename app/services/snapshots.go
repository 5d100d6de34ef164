package services

import (
	"sync"

	"github.com/angotech/angotech/app/models"
	"github.com/angotech/angotech/pkg/cache"
	"github.com/angotech/angotech/pkg/session"
)

// RedisSnapshots stores cart snapshots in Redis with the cart-cookie
// lifetime as TTL so abandoned guest carts expire on their own. When
// Redis is down it degrades to an in-process map, which keeps carts
// working on a single instance at the cost of durability.
type RedisSnapshots struct {
	fallback MemorySnapshots
}

func NewRedisSnapshots() *RedisSnapshots {
	return &RedisSnapshots{fallback: MemorySnapshots{carts: map[string][]models.CartItem{}}}
}

func snapshotKey(key string) string { return "cart:" + key }

func (s *RedisSnapshots) Load(key string) []models.CartItem {
	if cache.RDB == nil {
		return s.fallback.Load(key)
	}
	var items []models.CartItem
	cache.Get(snapshotKey(key), &items)
	return items
}

func (s *RedisSnapshots) Save(key string, items []models.CartItem) {
	if cache.RDB == nil {
		s.fallback.Save(key, items)
		return
	}
	if items == nil {
		items = []models.CartItem{}
	}
	cache.Set(snapshotKey(key), items, session.CartTTL)
}

func (s *RedisSnapshots) Drop(key string) {
	if cache.RDB == nil {
		s.fallback.Drop(key)
		return
	}
	cache.Del(snapshotKey(key))
}

// MemorySnapshots is a process-local SnapshotStore used in tests and
// as the degraded mode of RedisSnapshots.
type MemorySnapshots struct {
	mu    sync.Mutex
	carts map[string][]models.CartItem
}

func NewMemorySnapshots() *MemorySnapshots {
	return &MemorySnapshots{carts: map[string][]models.CartItem{}}
}

func (s *MemorySnapshots) Load(key string) []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[key]
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out
}

func (s *MemorySnapshots) Save(key string, items []models.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]models.CartItem, len(items))
	copy(stored, items)
	s.carts[key] = stored
}

func (s *MemorySnapshots) Drop(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, key)
}
