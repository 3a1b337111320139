package repository

import (
	"context"
	"sync"

	"github.com/iliyamo/cinebook/internal/model"
)

// MemoryAvailability is a process-lifetime store.  It is used when no
// external store is configured and by tests.  A single mutex guards all
// keys; every operation is a handful of map accesses.
type MemoryAvailability struct {
	mu     sync.Mutex
	booked map[model.BookingKey]map[string]struct{}
}

// NewMemoryAvailability returns an empty in-memory store.
func NewMemoryAvailability() *MemoryAvailability {
	return &MemoryAvailability{
		booked: make(map[model.BookingKey]map[string]struct{}),
	}
}

func (s *MemoryAvailability) IsBooked(_ context.Context, key model.BookingKey, seat string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.booked[key][seat]
	return ok, nil
}

func (s *MemoryAvailability) Book(_ context.Context, key model.BookingKey, seat string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.setLocked(key)
	if _, ok := set[seat]; ok {
		return ErrConflict
	}
	set[seat] = struct{}{}
	return nil
}

func (s *MemoryAvailability) EnsureSeeded(_ context.Context, key model.BookingKey, seats []string) (bool, error) {
	if len(seats) == 0 {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.booked[key]; exists {
		return false, nil
	}
	set := s.setLocked(key)
	for _, seat := range seats {
		set[seat] = struct{}{}
	}
	return true, nil
}

func (s *MemoryAvailability) Booked(_ context.Context, key model.BookingKey) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]struct{}, len(s.booked[key]))
	for seat := range s.booked[key] {
		out[seat] = struct{}{}
	}
	return out, nil
}

func (s *MemoryAvailability) Close() error { return nil }

func (s *MemoryAvailability) setLocked(key model.BookingKey) map[string]struct{} {
	set, ok := s.booked[key]
	if !ok {
		set = make(map[string]struct{})
		s.booked[key] = set
	}
	return set
}
