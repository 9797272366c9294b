package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zukunftsstadt/contest-api/pkg/ai"
)

// DefaultPrompt pre-fills the entry form with a suggestion participants can
// edit or replace.
const DefaultPrompt = "Eine saubere und grüne Stadt mit fliegenden Autos und Wolkenkratzern."

// defaultSessionTTL bounds how long an idle session survives. The endpoint is
// public and unauthenticated, so the map must not grow without bound.
const defaultSessionTTL = 2 * time.Hour

// SessionState names the workflow position of one contest session.
type SessionState string

const (
	StateIdle       SessionState = "idle"
	StateGenerating SessionState = "generating"
	StateImageReady SessionState = "image_ready"
	StateJudging    SessionState = "judging"
	StateSubmitted  SessionState = "submitted"
)

// Session holds one participant's transient working state: the entry form,
// the held image bytes and, after submission, the judge verdict. It lives in
// memory only and is discarded on reset, expiry or process end; it is never
// global state shared between participants.
type Session struct {
	mu sync.Mutex

	ID         string
	State      SessionState
	Name       string
	Prompt     string
	ImageURL   string
	ImageBytes []byte
	ImageMIME  string
	Evaluation *ai.Evaluation
	Submitted  bool

	// lastSeen is guarded by the owning store's mutex, not by mu.
	lastSeen time.Time
}

func newSession() *Session {
	return &Session{
		ID:     uuid.NewString(),
		State:  StateIdle,
		Prompt: DefaultPrompt,
	}
}

// reset returns the session to its initial defaults, dropping all held data.
func (s *Session) reset() {
	s.State = StateIdle
	s.Name = ""
	s.Prompt = DefaultPrompt
	s.ImageURL = ""
	s.ImageBytes = nil
	s.ImageMIME = ""
	s.Evaluation = nil
	s.Submitted = false
}

// sessionStore is the in-memory registry of active sessions. Sessions idle
// for longer than the TTL are dropped lazily: expired entries are refused on
// lookup and swept whenever a new session is created.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func newSessionStore(ttl time.Duration) *sessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}

	return &sessionStore{
		sessions: map[string]*Session{},
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *sessionStore) get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, false
	}

	if s.now().Sub(session.lastSeen) > s.ttl {
		delete(s.sessions, id)
		return nil, false
	}

	session.lastSeen = s.now()
	return session, true
}

func (s *sessionStore) create() *Session {
	session := newSession()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()
	session.lastSeen = s.now()
	s.sessions[session.ID] = session

	return session
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

func (s *sessionStore) pruneLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, session := range s.sessions {
		if session.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
