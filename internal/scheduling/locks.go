package scheduling

import (
	"sync"

	"github.com/google/uuid"
)

// participantLocks serializes check-and-write sections per participant so
// two concurrent schedule calls sharing a panelist cannot both pass the
// conflict check against the same stale booking set. The storage layer's
// exclusion constraint is the cross-process backstop; this keeps a single
// process from ever relying on it.
type participantLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newParticipantLocks() *participantLocks {
	return &participantLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (p *participantLocks) get(id uuid.UUID) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.locks[id]
	if !ok {
		m = &sync.Mutex{}
		p.locks[id] = m
	}
	return m
}

// lockAll acquires the locks for every id in a canonical sorted order so
// overlapping panels cannot deadlock, and returns the release function.
// Duplicate ids are locked once.
func (p *participantLocks) lockAll(ids []uuid.UUID) func() {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sortUUIDs(unique)

	held := make([]*sync.Mutex, 0, len(unique))
	for _, id := range unique {
		m := p.get(id)
		m.Lock()
		held = append(held, m)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
