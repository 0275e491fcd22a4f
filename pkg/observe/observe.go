// Package observe provides the observer list used to propagate value changes
// between requirements, settings and graph nodes. Dispatch is synchronous:
// Notify returns once every observer has run.
package observe

import "sync"

// Subject keeps an ordered list of observers for values of type T.
// The zero value is ready to use.
type Subject[T any] struct {
	mu        sync.Mutex
	nextID    uint64
	observers []entry[T]
}

type entry[T any] struct {
	id uint64
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it again.
func (s *Subject[T]) Subscribe(fn func(T)) (cancel func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, entry[T]{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, e := range s.observers {
			if e.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// Notify calls every observer in subscription order. Observers added or
// removed during dispatch take effect on the next Notify.
func (s *Subject[T]) Notify(v T) {
	s.mu.Lock()
	snapshot := make([]entry[T], len(s.observers))
	copy(snapshot, s.observers)
	s.mu.Unlock()

	for _, e := range snapshot {
		e.fn(v)
	}
}

// Len reports the number of registered observers.
func (s *Subject[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}

// Signal is a Subject carrying no value.
type Signal = Subject[struct{}]
