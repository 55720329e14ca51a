package store

import (
	"sort"
	"sync"
	"time"

	"github.com/jiaming2012/txo-chain/src/eventmodels"
)

type flashKey struct {
	contract string
	field    eventmodels.ContractField
}

type flashEntry struct {
	event *eventmodels.ChangeEvent
	timer Timer
}

// flashScheduler keeps the change events that are still observable. There is
// at most one event per (contract, field); a newer change replaces the older
// one and restarts its timer.
type flashScheduler struct {
	clock  Clock
	ttl    time.Duration
	mu     sync.Mutex
	active map[flashKey]*flashEntry
}

func newFlashScheduler(clock Clock, ttl time.Duration) *flashScheduler {
	return &flashScheduler{
		clock:  clock,
		ttl:    ttl,
		active: make(map[flashKey]*flashEntry),
	}
}

func (s *flashScheduler) Trigger(event *eventmodels.ChangeEvent) {
	k := flashKey{contract: event.Key.ID(), field: event.Field}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.active[k]; ok {
		prev.timer.Stop()
	}

	s.active[k] = &flashEntry{
		event: event,
		timer: s.clock.AfterFunc(s.ttl, func() {
			s.expire(k, event)
		}),
	}
}

func (s *flashScheduler) expire(k flashKey, event *eventmodels.ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.active[k]; ok && entry.event == event {
		delete(s.active, k)
	}
}

func (s *flashScheduler) Active(now time.Time) []eventmodels.ChangeEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]eventmodels.ChangeEvent, 0, len(s.active))
	for _, entry := range s.active {
		if entry.event.IsExpired(now) {
			continue
		}
		out = append(out, *entry.event)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID.String() < out[j].ID.String()
	})

	return out
}

func (s *flashScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.active)
}

func (s *flashScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, entry := range s.active {
		entry.timer.Stop()
		delete(s.active, k)
	}
}
