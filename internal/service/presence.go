package service

import (
	"sort"
	"sync"

	"github.com/samber/lo"
)

// PresenceService maps online users to their live connection. Entries live
// for the process lifetime and are never persisted.
type PresenceService interface {
	// Register binds userID to connID, replacing any previous binding.
	Register(userID, connID string)
	Lookup(userID string) (string, bool)
	// Remove drops whatever user is bound to connID.
	Remove(connID string) (string, bool)
	// Prune removes entries whose connection is no longer alive.
	Prune(alive func(connID string) bool) int
	Online() []string
	Count() int
}

type presenceService struct {
	mu     sync.RWMutex
	byUser map[string]string
	byConn map[string]string
}

func NewPresenceService() PresenceService {
	return &presenceService{
		byUser: make(map[string]string),
		byConn: make(map[string]string),
	}
}

func (p *presenceService) Register(userID, connID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if prevConn, ok := p.byUser[userID]; ok && prevConn != connID {
		delete(p.byConn, prevConn)
	}
	// a connection registers as one user at a time
	if prevUser, ok := p.byConn[connID]; ok && prevUser != userID {
		delete(p.byUser, prevUser)
	}

	p.byUser[userID] = connID
	p.byConn[connID] = userID
}

func (p *presenceService) Lookup(userID string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	connID, ok := p.byUser[userID]
	return connID, ok
}

func (p *presenceService) Remove(connID string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	userID, ok := p.byConn[connID]
	if !ok {
		return "", false
	}
	delete(p.byConn, connID)
	if p.byUser[userID] == connID {
		delete(p.byUser, userID)
	}
	return userID, true
}

func (p *presenceService) Prune(alive func(connID string) bool) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	stale := lo.Filter(lo.Keys(p.byConn), func(connID string, _ int) bool {
		return !alive(connID)
	})
	for _, connID := range stale {
		userID := p.byConn[connID]
		delete(p.byConn, connID)
		if p.byUser[userID] == connID {
			delete(p.byUser, userID)
		}
	}
	return len(stale)
}

// Online returns the registered user ids in sorted order.
func (p *presenceService) Online() []string {
	p.mu.RLock()
	users := lo.Keys(p.byUser)
	p.mu.RUnlock()

	sort.Strings(users)
	return users
}

func (p *presenceService) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.byUser)
}
