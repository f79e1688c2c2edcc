// internal/chat/roomcache.go
//
// Read-through cache for room rows.
//
// Context
// -------
// Every chat request starts with Authorize(roomID, userID), which needs the
// room row to learn the owning group.  Rooms change rarely, so the service
// keeps a small LRU in front of the store and coalesces concurrent cold
// loads with singleflight.  Writes (rename, delete) invalidate the entry.
//
// A nil room (unknown id) is not cached; the next lookup hits the store
// again.
package chat

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/circlehq/console/internal/cache"
	"github.com/circlehq/console/internal/metrics"
)

const roomCacheSize = 512

type roomCache struct {
	store *Store
	sfg   singleflight.Group

	mu  sync.Mutex
	lru *cache.LRU[string, *Room]
}

func newRoomCache(store *Store) *roomCache {
	return &roomCache{
		store: store,
		lru:   cache.New[string, *Room](roomCacheSize),
	}
}

// get returns the room for id, loading it on demand.  Unknown ids return
// (nil, nil) like Store.RoomByID.
func (c *roomCache) get(ctx context.Context, roomID string) (*Room, error) {
	c.mu.Lock()
	if r, ok := c.lru.Get(roomID); ok {
		c.mu.Unlock()
		return r, nil
	}
	c.mu.Unlock()

	v, err, _ := c.sfg.Do(roomID, func() (any, error) {
		r, err := c.store.RoomByID(ctx, roomID)
		if err != nil {
			metrics.RoomLoadErrorsTotal.Inc()
			return nil, err
		}
		metrics.RoomLoadTotal.Inc()
		if r != nil {
			c.mu.Lock()
			c.lru.Add(roomID, r)
			metrics.CachedRooms.Set(float64(c.lru.Len()))
			c.mu.Unlock()
		}
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Room), nil
}

// invalidate drops the entry after a rename or delete.
func (c *roomCache) invalidate(roomID string) {
	c.mu.Lock()
	c.lru.Remove(roomID)
	metrics.CachedRooms.Set(float64(c.lru.Len()))
	c.mu.Unlock()
}
