package token

import "sync"

// Blacklist is the process-wide set of revoked bearer tokens. A revoked token
// is rejected even while its signature and expiry still verify. The set lives
// only as long as the process; deployments running more than one instance
// need to back this with a shared store keyed by jti with a TTL equal to the
// remaining token lifetime.
type Blacklist struct {
	mu      sync.RWMutex
	revoked map[string]struct{}
}

func NewBlacklist() *Blacklist {
	return &Blacklist{revoked: make(map[string]struct{})}
}

// Revoke is idempotent.
func (b *Blacklist) Revoke(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[token] = struct{}{}
}

func (b *Blacklist) IsRevoked(token string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.revoked[token]
	return ok
}
