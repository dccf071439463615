package services

import "sync"

// userLocks serializes the mutate-then-recompute pipeline per user so the
// gamification engine never reads a torn permission set. Lock granularity is
// the user id; different users proceed independently.
type userLocks struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[int]*sync.Mutex)}
}

func (u *userLocks) lock(userID int) func() {
	u.mu.Lock()
	l, ok := u.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		u.locks[userID] = l
	}
	u.mu.Unlock()

	l.Lock()
	return l.Unlock
}
