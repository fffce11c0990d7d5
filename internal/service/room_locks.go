package service

import "sync"

// roomLocks hands out one mutex per room code so that all mutations scoped
// to a room serialize against each other while unrelated rooms proceed
// independently. Locks are never reclaimed; the map grows with the set of
// rooms ever touched by this process, which is bounded and tiny.
type roomLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock acquires the room's mutex and returns its unlock function
func (l *roomLocks) Lock(roomCode string) func() {
	l.mu.Lock()
	lock, ok := l.locks[roomCode]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[roomCode] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
