package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ykaplan/cotenant/internal/ledger"
	"github.com/ykaplan/cotenant/internal/split"
	"github.com/ykaplan/cotenant/internal/wizard"
)

// Session is the per-visitor state: one ledger, one wizard per metered bill
// kind, and the last result per bill category for the "add again" action.
// Everything is lost when the process exits.
type Session struct {
	ID        string
	CreatedAt time.Time
	Ledger    *ledger.Ledger

	mu          sync.Mutex
	wizards     map[split.BillKind]*wizard.Wizard
	lastResults map[string]ledger.Record
}

// Wizard returns the session's wizard for a bill kind, creating it on
// first use.
func (s *Session) Wizard(kind split.BillKind) *wizard.Wizard {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wizards[kind]
	if !ok {
		w = wizard.New(kind)
		s.wizards[kind] = w
	}
	return w
}

// SetLastResult remembers the most recent ledger record for a category
// ("Electricity", "Water", "City Tax").
func (s *Session) SetLastResult(category string, rec ledger.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastResults[category] = rec
}

// LastResult returns the remembered record for a category.
func (s *Session) LastResult(category string) (ledger.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.lastResults[category]
	return rec, ok
}

// Store holds live sessions in memory, keyed by ID. Safe for concurrent
// use. Sessions only expire with the process.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create starts a new session with a fresh ID.
func (st *Store) Create() *Session {
	s := &Session{
		ID:          uuid.New().String(),
		CreatedAt:   time.Now(),
		Ledger:      ledger.New(),
		wizards:     make(map[split.BillKind]*wizard.Wizard),
		lastResults: make(map[string]ledger.Record),
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
	return s
}

// Get returns the session with the given ID.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	return s, nil
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
