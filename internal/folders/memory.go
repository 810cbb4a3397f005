package folders

import (
	"context"
	"sync"

	"github.com/google/uuid"
	galfolders "github.com/ohanalens/go-gallery/folders"
)

type memoryRepository struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*galfolders.Folder
	byKey map[string]uuid.UUID
}

// NewMemoryRepository constructs an in-memory repository for folders.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID:  make(map[uuid.UUID]*galfolders.Folder),
		byKey: make(map[string]uuid.UUID),
	}
}

func (m *memoryRepository) Create(_ context.Context, record *galfolders.Folder) (*galfolders.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneFolder(record)
	m.byID[cloned.ID] = cloned
	if cloned.FolderKey != "" {
		m.byKey[cloned.FolderKey] = cloned.ID
	}
	return cloneFolder(cloned), nil
}

func (m *memoryRepository) GetByID(_ context.Context, id uuid.UUID) (*galfolders.Folder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &galfolders.NotFoundError{Key: id.String()}
	}
	return cloneFolder(record), nil
}

func (m *memoryRepository) GetByKey(_ context.Context, folderKey string) (*galfolders.Folder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byKey[folderKey]
	if !ok {
		return nil, &galfolders.NotFoundError{Key: folderKey}
	}
	return cloneFolder(m.byID[id]), nil
}

func (m *memoryRepository) List(_ context.Context) ([]*galfolders.Folder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*galfolders.Folder, 0, len(m.byID))
	for _, record := range m.byID {
		records = append(records, cloneFolder(record))
	}
	return records, nil
}

func (m *memoryRepository) Update(_ context.Context, record *galfolders.Folder) (*galfolders.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[record.ID]
	if !ok {
		return nil, &galfolders.NotFoundError{Key: record.ID.String()}
	}

	oldKey := existing.FolderKey
	cloned := cloneFolder(record)
	m.byID[cloned.ID] = cloned

	if oldKey != "" && oldKey != cloned.FolderKey {
		delete(m.byKey, oldKey)
	}
	if cloned.FolderKey != "" {
		m.byKey[cloned.FolderKey] = cloned.ID
	}
	return cloneFolder(cloned), nil
}

func (m *memoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[id]
	if !ok {
		return &galfolders.NotFoundError{Key: id.String()}
	}
	delete(m.byKey, record.FolderKey)
	delete(m.byID, id)
	return nil
}

func (m *memoryRepository) AddBytes(_ context.Context, id uuid.UUID, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[id]
	if !ok {
		return &galfolders.NotFoundError{Key: id.String()}
	}
	record.SizeInBytes += delta
	if record.SizeInBytes < 0 {
		record.SizeInBytes = 0
	}
	return nil
}

func cloneFolder(record *galfolders.Folder) *galfolders.Folder {
	if record == nil {
		return nil
	}
	cloned := *record
	if record.Description != nil {
		description := *record.Description
		cloned.Description = &description
	}
	return &cloned
}
