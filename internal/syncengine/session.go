package syncengine

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned by Registry lookups for unknown ids.
var ErrSessionNotFound = errors.New("session not found")

// Session holds the current state of one bulk-quotation workflow for a
// concurrent host. Events are applied one at a time in arrival order; each
// sees the effects of every event applied before it.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu     sync.Mutex
	engine *Engine
	state  State
}

// NewSession wraps an initial state.
func NewSession(id string, engine *Engine, initial State) *Session {
	return &Session{ID: id, CreatedAt: time.Now(), engine: engine, state: initial}
}

// Apply applies ev to the current state and commits the result. When the
// event is accepted each onCommit hook runs before the session lock is
// released, so hooks see commits in the order they happened.
func (s *Session) Apply(ev Event, onCommit ...func(Result)) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.engine.Apply(s.state, ev)
	if err != nil {
		return res, err
	}
	s.state = res.State
	if res.Accepted() {
		for _, fn := range onCommit {
			fn(res)
		}
	}
	return res, nil
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Watch calls fn with a copy of the current state while holding the session
// lock. No event commits until fn returns.
func (s *Session) Watch(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state.Clone())
}

// Registry keeps the live sessions of a process. Sessions are in memory only
// and disappear with the process.
type Registry struct {
	mu       sync.RWMutex
	engine   *Engine
	sessions map[string]*Session
}

// NewRegistry returns an empty registry whose sessions use engine.
func NewRegistry(engine *Engine) *Registry {
	return &Registry{engine: engine, sessions: map[string]*Session{}}
}

// Engine returns the engine sessions are created with.
func (r *Registry) Engine() *Engine { return r.engine }

// Create builds a new session from setup.
func (r *Registry) Create(setup Setup) (*Session, error) {
	st, err := r.engine.NewState(setup)
	if err != nil {
		return nil, err
	}
	s := NewSession(uuid.NewString(), r.engine, st)
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s, nil
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete ends a session, discarding all of its quotations together.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
