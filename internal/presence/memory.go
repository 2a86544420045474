package presence

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore is an in-process chat.Store with the same semantics as
// RedisStore minus expiry. Used by tests and single-process setups.
type MemoryStore struct {
	mu    sync.Mutex
	rooms map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: map[string][]string{}}
}

func (s *MemoryStore) CreateRoom(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[code]; !ok {
		s.rooms[code] = []string{}
	}
	return nil
}

func (s *MemoryStore) RoomExists(_ context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rooms[code]
	return ok, nil
}

func (s *MemoryStore) ListMembers(_ context.Context, code string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	members := make([]string, 0, len(s.rooms[code]))
	return append(members, s.rooms[code]...), nil
}

// AddMember is check-then-append under one lock, mirroring the Redis
// script's atomicity.
func (s *MemoryStore) AddMember(_ context.Context, code, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.rooms[code], name) {
		return nil
	}
	s.rooms[code] = append(s.rooms[code], name)
	return nil
}

// RemoveMember removes the first occurrence; removing the last member
// deletes the room, matching Redis list behavior.
func (s *MemoryStore) RemoveMember(_ context.Context, code, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.rooms[code]
	if !ok {
		return nil
	}
	if i := slices.Index(members, name); i >= 0 {
		members = slices.Delete(members, i, i+1)
		if len(members) == 0 {
			delete(s.rooms, code)
			return nil
		}
		s.rooms[code] = members
	}
	return nil
}
