package service

import "sync"

// sessionLocks serializes turns of the same session within this process.
// Entries are reference counted and dropped when no caller holds or waits.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

func (l *sessionLocks) lock(sessionID string) func() {
	l.mu.Lock()
	entry, ok := l.locks[sessionID]
	if !ok {
		entry = &sessionLock{}
		l.locks[sessionID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, sessionID)
		}
		l.mu.Unlock()
	}
}

// lockSession takes the per-session lock when SESSION_LOCK is enabled.
func (s *Service) lockSession(sessionID string) func() {
	if s.locks == nil {
		return func() {}
	}
	return s.locks.lock(sessionID)
}
