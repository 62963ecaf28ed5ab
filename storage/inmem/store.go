package inmemdb

import (
	"context"
	"sync"

	"github.com/smartgrade/smartgrade/core"
)

// Store is a process-local core.Store. Values are copied in and out.
type Store struct {
	table  map[string][]byte
	closed bool
	mutex  sync.RWMutex
}

var _ core.Store = (*Store)(nil)

func Open() *Store {
	return &Store{table: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.closed {
		return nil, core.ErrStoreClosed
	}
	val, ok := s.table[key]
	if !ok {
		return nil, core.ErrKeyNotFound
	}
	return append([]byte(nil), val...), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return core.ErrStoreClosed
	}
	s.table[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return core.ErrStoreClosed
	}
	delete(s.table, key)
	return nil
}

func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.closed = true
	s.table = nil
	return nil
}
