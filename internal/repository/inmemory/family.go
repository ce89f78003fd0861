package inmemory

import (
	"sync"
	"time"

	familydomain "family-chores-go/internal/domain/family"
)

// FamilyCodeCache is a process-local family.Cache with per-entry expiry.
type FamilyCodeCache struct {
	mu    sync.RWMutex
	items map[string]familyItem
	now   func() time.Time
}

type familyItem struct {
	value     familydomain.Family
	expiresAt time.Time
}

func NewFamilyCodeCache() *FamilyCodeCache {
	return &FamilyCodeCache{
		items: make(map[string]familyItem),
		now:   time.Now,
	}
}

func (c *FamilyCodeCache) GetByCode(code string) (*familydomain.Family, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[code]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[code]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, code)
		}
		c.mu.Unlock()
		return nil, false
	}

	value := item.value
	return &value, true
}

func (c *FamilyCodeCache) SetByCode(code string, family *familydomain.Family, ttl time.Duration) {
	if family == nil || ttl <= 0 {
		c.DeleteByCode(code)
		return
	}

	c.mu.Lock()
	c.items[code] = familyItem{
		value:     *family,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *FamilyCodeCache) DeleteByCode(code string) {
	c.mu.Lock()
	delete(c.items, code)
	c.mu.Unlock()
}

func (c *FamilyCodeCache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]familyItem)
	c.mu.Unlock()
}
