package service

import (
	"sync"

	"github.com/damz-ai/detect-console/internal/apierr"
)

const inProgressMessage = "A request is already in progress for this form"

// Guard allows one outstanding call per key. A second caller is turned away
// rather than queued.
type Guard struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{busy: make(map[string]struct{})}
}

// Acquire marks key busy. The returned release must be called once the call
// has resolved or rejected.
func (g *Guard) Acquire(key string) (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.busy[key]; ok {
		return nil, apierr.Validation(inProgressMessage)
	}
	g.busy[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.busy, key)
			g.mu.Unlock()
		})
	}, nil
}

func (g *Guard) Busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.busy[key]
	return ok
}
