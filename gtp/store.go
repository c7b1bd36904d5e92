package gtp

import (
	"log/slog"
	"sync"
)

// result is what a waiting sender receives: a decoded response or the
// terminal error of the session.
type result struct {
	response Response
	err      error
}

// responseStore holds decoded responses keyed by id until the sender that
// owns the id collects them. It is written by the line reader and read by
// senders; all access goes through mu.
//
// Responses that arrive for an id nobody is waiting on (the sender timed
// out, or the engine answered an id it was never sent) are parked as
// orphans. At most limit orphans are kept; the oldest is evicted first.
// A negative limit keeps every orphan.
type responseStore struct {
	mu sync.Mutex

	waiters map[int]chan result

	orphans     map[int]Response
	orphanOrder []int
	limit       int

	err    error
	logger *slog.Logger
}

func newResponseStore(limit int, logger *slog.Logger) *responseStore {
	return &responseStore{
		waiters: make(map[int]chan result),
		orphans: make(map[int]Response),
		limit:   limit,
		logger:  logger,
	}
}

// expect registers a waiter for id. It must be called before the command
// carrying id is written so the answer cannot race past it.
func (s *responseStore) expect(id int) (<-chan result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	ch := make(chan result, 1)
	s.waiters[id] = ch
	return ch, nil
}

// abandon drops the waiter for id. A response that arrives later becomes an
// orphan and can never be attributed to another id.
func (s *responseStore) abandon(id int) {
	s.mu.Lock()
	delete(s.waiters, id)
	s.mu.Unlock()
}

// publish delivers resp to the waiter for id, or parks it as an orphan.
func (s *responseStore) publish(id int, resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.waiters[id]; ok {
		delete(s.waiters, id)
		ch <- result{response: resp}
		return
	}

	if s.err != nil {
		return
	}

	if _, dup := s.orphans[id]; dup {
		s.logger.Warn("duplicate response for id", "id", id)
		s.orphans[id] = resp
		return
	}

	if s.limit == 0 {
		s.logger.Debug("discarding unclaimed response", "id", id)
		return
	}

	s.orphans[id] = resp
	s.orphanOrder = append(s.orphanOrder, id)
	if s.limit > 0 && len(s.orphanOrder) > s.limit {
		evicted := s.orphanOrder[0]
		s.orphanOrder = s.orphanOrder[1:]
		delete(s.orphans, evicted)
		s.logger.Warn("evicting unclaimed response", "id", evicted, "limit", s.limit)
	}
}

// fail records the terminal error of the session and wakes every waiter
// with it. Only the first error is kept.
func (s *responseStore) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err == nil {
		s.err = err
	}
	for id, ch := range s.waiters {
		ch <- result{err: s.err}
		delete(s.waiters, id)
	}
	s.orphans = make(map[int]Response)
	s.orphanOrder = nil
}

// Err returns the terminal error, or nil while the session is healthy.
func (s *responseStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// pending returns the number of registered waiters and parked orphans.
func (s *responseStore) pending() (waiters, orphans int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.waiters), len(s.orphans)
}
