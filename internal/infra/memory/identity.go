package memory

import (
	"context"
	"sync"

	"quiz-session-service/internal/domain"
)

// StaticIdentity is an in-process app.IdentityProvider. Real deployments
// replace it with an adapter for the hosted identity provider.
type StaticIdentity struct {
	mu   sync.RWMutex
	user domain.User
	on   bool
}

func NewStaticIdentity(user domain.User) *StaticIdentity {
	return &StaticIdentity{user: user, on: true}
}

func (p *StaticIdentity) CurrentUser(_ context.Context) (domain.User, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.on {
		return domain.User{}, domain.ErrUnauthenticated
	}
	return p.user, nil
}

// SignOut makes subsequent CurrentUser calls fail; for tests.
func (p *StaticIdentity) SignOut() {
	p.mu.Lock()
	p.on = false
	p.mu.Unlock()
}
