package family

import "time"

// Cache holds families by invite code. Codes never change once issued, so
// entries only go stale when a family is removed out of band.
type Cache interface {
	GetByCode(code string) (*Family, bool)
	SetByCode(code string, family *Family, ttl time.Duration)
	DeleteByCode(code string)
	Clear()
}

type noopCache struct{}

func (noopCache) GetByCode(string) (*Family, bool) {
	return nil, false
}

func (noopCache) SetByCode(string, *Family, time.Duration) {}

func (noopCache) DeleteByCode(string) {}

func (noopCache) Clear() {}
