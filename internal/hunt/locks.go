package hunt

import "sync"

// teamLocks hands out one mutex per team ID. Guess judgement for a team is
// serialized through its lock so the budget decrement and the solve/guess
// uniqueness checks cannot race; different teams proceed in parallel.
type teamLocks struct {
	mu    sync.RWMutex
	locks map[int64]*sync.Mutex
}

func newTeamLocks() *teamLocks {
	return &teamLocks{locks: make(map[int64]*sync.Mutex)}
}

func (l *teamLocks) forTeam(teamID int64) *sync.Mutex {
	l.mu.RLock()
	m, ok := l.locks[teamID]
	l.mu.RUnlock()
	if ok {
		return m
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock.
	if m, ok := l.locks[teamID]; ok {
		return m
	}
	m = &sync.Mutex{}
	l.locks[teamID] = m
	return m
}
