package stor

import (
	"sync"

	"github.com/pkg/errors"
)

var ErrNoSuchSnapshot = errors.New("no such snapshot")

type InMemorySnapshotStor struct {
	mu        sync.Mutex
	snapshots map[string][]byte
}

func NewInMemorySnapshotStor() *InMemorySnapshotStor {
	return &InMemorySnapshotStor{snapshots: make(map[string][]byte)}
}

func (s *InMemorySnapshotStor) Save(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := make([]byte, len(data))
	copy(saved, data)
	s.snapshots[key] = saved

	return nil
}

func (s *InMemorySnapshotStor) Load(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.snapshots[key]
	if !ok {
		return nil, ErrNoSuchSnapshot
	}

	return data, nil
}
