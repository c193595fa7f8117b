package manorbill

import "sync"

// Session holds one active table and its origin filename between user
// actions. Each interactive session owns exactly one Session; sessions
// never share state. The mutex makes one instance safe to touch from the
// different goroutines a web server may use for one user's requests.
type Session struct {
	mu     sync.RWMutex
	table  *Table
	origin string
	dirty  bool
}

// NewSession creates an empty session with no table loaded.
func NewSession() *Session {
	return &Session{}
}

// Load replaces any existing table and origin filename unconditionally.
// There is no merging; the previous table is discarded. The session is
// clean after a load.
func (s *Session) Load(t *Table, origin string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = t.Clone()
	s.origin = origin
	s.dirty = false
}

// CommitEdit replaces the stored table with the edited one, preserving the
// origin filename, and marks the session dirty. Fails if no table was ever
// loaded.
func (s *Session) CommitEdit(t *Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table == nil {
		return &NoActiveSessionError{Op: "commit_edit"}
	}
	s.table = t.Clone()
	s.dirty = true
	return nil
}

// Current returns a copy of the stored table, or false if none is loaded.
// Callers must branch on the second return rather than assume presence.
func (s *Session) Current() (*Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.table == nil {
		return nil, false
	}
	return s.table.Clone(), true
}

// Origin returns the stored origin filename, or "" if none is loaded.
func (s *Session) Origin() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.origin
}

// Dirty reports whether edits have been committed since the last load.
func (s *Session) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}
