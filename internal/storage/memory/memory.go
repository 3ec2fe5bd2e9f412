// Package memory implements storage.Store over process memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lamnguyen/cvstudio/internal/llm"
	"github.com/lamnguyen/cvstudio/internal/storage"
)

// MemoryStore keeps all session state in a mutex-guarded map. It satisfies
// storage.Store and is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	now      func() time.Time
}

type entry struct {
	session  storage.Session
	messages []llm.Message
	cvText   string
}

// New creates an empty MemoryStore.
func New() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
}

func (s *MemoryStore) CreateSession(ctx context.Context, sess *storage.Session) error {
	if sess.ID == "" {
		return fmt.Errorf("session ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sess.ID]; ok {
		return fmt.Errorf("session %s already exists", sess.ID)
	}

	now := s.now().UTC()
	sess.CreatedAt = now
	sess.UpdatedAt = now
	s.sessions[sess.ID] = &entry{session: *sess}
	return nil
}

func (s *MemoryStore) GetSession(ctx context.Context, id string) (*storage.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := s.findLocked(id)
	if err != nil {
		return nil, err
	}
	sess := e.session
	return &sess, nil
}

func (s *MemoryStore) ListSessions(ctx context.Context, opts storage.SessionListOptions) ([]storage.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []storage.Session
	for _, e := range s.sessions {
		if opts.Status != "" && e.session.Status != opts.Status {
			continue
		}
		out = append(out, e.session)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})

	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return nil, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (s *MemoryStore) UpdateSession(ctx context.Context, sess *storage.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sess.ID]
	if !ok {
		return fmt.Errorf("session not found: %s", sess.ID)
	}

	e.session.Title = sess.Title
	e.session.Status = sess.Status
	e.session.Model = sess.Model
	e.session.UpdatedAt = s.now().UTC()
	sess.UpdatedAt = e.session.UpdatedAt
	return nil
}

func (s *MemoryStore) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.findLocked(id)
	if err != nil {
		return err
	}
	delete(s.sessions, e.session.ID)
	return nil
}

func (s *MemoryStore) SaveMessages(ctx context.Context, sessionID string, messages []llm.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("session not found: %s", sessionID)
	}

	e.messages = append([]llm.Message(nil), messages...)
	e.session.UpdatedAt = s.now().UTC()
	return nil
}

func (s *MemoryStore) LoadMessages(ctx context.Context, sessionID string) ([]llm.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", sessionID)
	}

	return append([]llm.Message(nil), e.messages...), nil
}

func (s *MemoryStore) SaveCV(ctx context.Context, sessionID string, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("session not found: %s", sessionID)
	}

	e.cvText = text
	e.session.UpdatedAt = s.now().UTC()
	return nil
}

func (s *MemoryStore) LoadCV(ctx context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return "", fmt.Errorf("session not found: %s", sessionID)
	}

	return e.cvText, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// findLocked resolves an exact ID or a unique prefix. Caller must hold a
// read or write lock.
func (s *MemoryStore) findLocked(id string) (*entry, error) {
	if e, ok := s.sessions[id]; ok {
		return e, nil
	}

	var match *entry
	for sid, e := range s.sessions {
		if strings.HasPrefix(sid, id) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous session ID prefix: %s", id)
			}
			match = e
		}
	}
	if match == nil {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	return match, nil
}
