// Package session keeps the active conversation state, one per chat.
package session

import (
	"sync"

	"telegram-delivery-bot/internal/models"
)

// Store is the conversation state backing. The flow engine only ever talks
// to this interface, so a multi-process deployment can swap the in-memory
// map for a shared store.
type Store interface {
	// Get returns the active session for the chat, if any.
	Get(chatID int64) (*models.Session, bool)

	// Put stores the session, replacing any previous one for the same chat.
	Put(s *models.Session)

	// Delete removes the chat's session. Absent sessions are a no-op.
	Delete(chatID int64)
}

// MemoryStore is a process-lifetime Store. In-progress conversations are
// lost on restart; nothing has been committed for them yet.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*models.Session)}
}

func (m *MemoryStore) Get(chatID int64) (*models.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[chatID]
	return s, ok
}

func (m *MemoryStore) Put(s *models.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ChatID] = s
}

func (m *MemoryStore) Delete(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
}
