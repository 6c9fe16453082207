// Package store hosts the members state and serializes dispatches.
package store

import (
	"sync"

	"github.com/daniloc96/github-members-state/internal/models"
)

// InitAction is dispatched once when a store is created without a seed state.
const InitAction = "@@INIT"

// Reducer computes the next state for an action.
type Reducer func(prev *models.MembersState, action models.Action) models.MembersState

// Store owns the current members state. The zero value is not usable; use New.
type Store struct {
	reducer Reducer

	mu    sync.Mutex
	state models.MembersState

	subMu       sync.Mutex
	nextSubID   int
	subscribers map[int]func(models.MembersState)
	order       []int
}

// New creates a store. When initial is nil the reducer provides the initial state.
func New(reducer Reducer, initial *models.MembersState) *Store {
	s := &Store{
		reducer:     reducer,
		subscribers: make(map[int]func(models.MembersState)),
	}
	if initial != nil {
		s.state = initial.Clone()
	} else {
		s.state = reducer(nil, models.UnknownAction{Kind: InitAction})
	}
	return s
}

// State returns a copy of the current state.
func (s *Store) State() models.MembersState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies action, stores the result and notifies subscribers.
func (s *Store) Dispatch(action models.Action) models.MembersState {
	s.mu.Lock()
	next := s.reducer(&s.state, action)
	s.state = next
	snapshot := next.Clone()
	s.mu.Unlock()

	for _, fn := range s.listeners() {
		fn(snapshot.Clone())
	}
	return snapshot
}

// Subscribe registers fn to be called after every dispatch.
// The returned function removes the subscription.
//
// Listeners run on the dispatching goroutine after the state lock is
// released. States from one goroutine arrive in dispatch order, but with
// concurrent dispatchers a listener may see a newer state before an older
// one. Call State when the latest state is what matters.
func (s *Store) Subscribe(fn func(models.MembersState)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.order = append(s.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			delete(s.subscribers, id)
			for i, existing := range s.order {
				if existing == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (s *Store) listeners() []func(models.MembersState) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	out := make([]func(models.MembersState), 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.subscribers[id])
	}
	return out
}
