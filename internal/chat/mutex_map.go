package chat

import (
	"sync"

	"github.com/google/uuid"
)

// MutexMap hands out one mutex per key and forgets it once nobody holds or
// waits on it.
type MutexMap struct {
	edit         sync.Mutex
	queueLengths map[uuid.UUID]int
	mutexes      map[uuid.UUID]*sync.Mutex
}

func NewMutexMap() *MutexMap {
	return &MutexMap{
		queueLengths: make(map[uuid.UUID]int),
		mutexes:      make(map[uuid.UUID]*sync.Mutex),
	}
}

func (m *MutexMap) Lock(key uuid.UUID) {
	m.edit.Lock()

	mu := m.mutexes[key]
	if mu == nil {
		mu = &sync.Mutex{}
		m.mutexes[key] = mu
	}
	m.queueLengths[key]++
	m.edit.Unlock()

	mu.Lock()
}

func (m *MutexMap) Unlock(key uuid.UUID) {
	m.edit.Lock()
	defer m.edit.Unlock()

	mu := m.mutexes[key]
	if mu == nil {
		panic("chat: unlock of unlocked session " + key.String())
	}

	mu.Unlock()
	m.queueLengths[key]--

	if m.queueLengths[key] == 0 {
		delete(m.mutexes, key)
		delete(m.queueLengths, key)
	}
}

func (m *MutexMap) Len() int {
	m.edit.Lock()
	defer m.edit.Unlock()
	return len(m.mutexes)
}
