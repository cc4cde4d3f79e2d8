package engine

import (
	"fmt"

	"github.com/bnema/sessionsim/internal/domain"
)

// Store holds the live population keyed by session id. Iteration follows a
// deterministic slot order so seeded runs are reproducible. It is owned by
// the scheduler and is not safe for concurrent use.
type Store struct {
	sessions map[domain.SessionID]*domain.Session
	slots    map[domain.SessionID]int
	order    []domain.SessionID
}

func NewStore() *Store {
	return &Store{
		sessions: map[domain.SessionID]*domain.Session{},
		slots:    map[domain.SessionID]int{},
	}
}

// Insert never overwrites: a colliding id is rejected with ErrDuplicateSession.
func (s *Store) Insert(session domain.Session) error {
	if _, ok := s.sessions[session.ID]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateSession, session.ID)
	}

	stored := session
	s.sessions[session.ID] = &stored
	s.slots[session.ID] = len(s.order)
	s.order = append(s.order, session.ID)
	return nil
}

func (s *Store) Get(id domain.SessionID) (*domain.Session, bool) {
	session, ok := s.sessions[id]
	return session, ok
}

func (s *Store) Delete(id domain.SessionID) error {
	slot, ok := s.slots[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}

	last := len(s.order) - 1
	moved := s.order[last]
	s.order[slot] = moved
	s.slots[moved] = slot
	s.order = s.order[:last]

	delete(s.slots, id)
	delete(s.sessions, id)
	return nil
}

func (s *Store) Len() int {
	return len(s.sessions)
}

// Range visits every session present when Range was called. fn may delete
// the session it is handed; returning false stops the iteration.
func (s *Store) Range(fn func(*domain.Session) bool) {
	ids := make([]domain.SessionID, len(s.order))
	copy(ids, s.order)

	for _, id := range ids {
		session, ok := s.sessions[id]
		if !ok {
			continue
		}
		if !fn(session) {
			return
		}
	}
}

// Sample returns up to n sessions chosen uniformly without replacement.
func (s *Store) Sample(n int, rnd *Random) []domain.Session {
	if n <= 0 || len(s.order) == 0 {
		return nil
	}
	if n > len(s.order) {
		n = len(s.order)
	}

	reservoir := make([]domain.SessionID, 0, n)
	for i, id := range s.order {
		if i < n {
			reservoir = append(reservoir, id)
			continue
		}
		if j := rnd.IntN(i + 1); j < n {
			reservoir[j] = id
		}
	}

	out := make([]domain.Session, 0, n)
	for _, id := range reservoir {
		out = append(out, *s.sessions[id])
	}
	return out
}

func (s *Store) Clear() {
	s.sessions = map[domain.SessionID]*domain.Session{}
	s.slots = map[domain.SessionID]int{}
	s.order = nil
}
