package statelock

import "sync"

// Lock serializes every state-changing operation of the registry, the class
// ledgers and the deal engine, reproducing the total ordering a transactional
// ledger environment would provide. Each operation holds the lock for its
// whole duration, so its internal steps are never interleaved with another
// operation's.
type Lock struct {
	mu sync.Mutex
}

func New() *Lock {
	return &Lock{}
}

func (l *Lock) Lock() {
	l.mu.Lock()
}

func (l *Lock) Unlock() {
	l.mu.Unlock()
}
