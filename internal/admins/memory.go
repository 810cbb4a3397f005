package admins

import (
	"context"
	"sync"

	"github.com/google/uuid"
	galadmins "github.com/ohanalens/go-gallery/admins"
)

type memoryRepository struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]*galadmins.AdminUser
	byUsername map[string]uuid.UUID
}

// NewMemoryRepository constructs an in-memory repository for admin accounts.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID:       make(map[uuid.UUID]*galadmins.AdminUser),
		byUsername: make(map[string]uuid.UUID),
	}
}

func (m *memoryRepository) Create(_ context.Context, record *galadmins.AdminUser) (*galadmins.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneAdmin(record)
	m.byID[cloned.ID] = cloned
	if cloned.Username != "" {
		m.byUsername[cloned.Username] = cloned.ID
	}
	return cloneAdmin(cloned), nil
}

func (m *memoryRepository) GetByID(_ context.Context, id uuid.UUID) (*galadmins.AdminUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &galadmins.NotFoundError{Key: id.String()}
	}
	return cloneAdmin(record), nil
}

func (m *memoryRepository) GetByUsername(_ context.Context, username string) (*galadmins.AdminUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byUsername[username]
	if !ok {
		return nil, &galadmins.NotFoundError{Key: username}
	}
	return cloneAdmin(m.byID[id]), nil
}

func (m *memoryRepository) List(_ context.Context) ([]*galadmins.AdminUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*galadmins.AdminUser, 0, len(m.byID))
	for _, record := range m.byID {
		records = append(records, cloneAdmin(record))
	}
	return records, nil
}

func (m *memoryRepository) Update(_ context.Context, record *galadmins.AdminUser) (*galadmins.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[record.ID]
	if !ok {
		return nil, &galadmins.NotFoundError{Key: record.ID.String()}
	}

	oldUsername := existing.Username
	cloned := cloneAdmin(record)
	m.byID[cloned.ID] = cloned

	if oldUsername != "" && oldUsername != cloned.Username {
		delete(m.byUsername, oldUsername)
	}
	if cloned.Username != "" {
		m.byUsername[cloned.Username] = cloned.ID
	}
	return cloneAdmin(cloned), nil
}

func (m *memoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[id]
	if !ok {
		return &galadmins.NotFoundError{Key: id.String()}
	}
	delete(m.byUsername, record.Username)
	delete(m.byID, id)
	return nil
}

func cloneAdmin(record *galadmins.AdminUser) *galadmins.AdminUser {
	if record == nil {
		return nil
	}
	cloned := *record
	return &cloned
}
