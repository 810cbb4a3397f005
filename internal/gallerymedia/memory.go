package gallerymedia

import (
	"context"
	"sync"

	"github.com/google/uuid"
	galmedia "github.com/ohanalens/go-gallery/media"
)

type memoryRepository struct {
	mu       sync.RWMutex
	byID     map[uuid.UUID]*galmedia.Media
	byFolder map[uuid.UUID][]uuid.UUID
}

// NewMemoryRepository constructs an in-memory repository for media rows.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID:     make(map[uuid.UUID]*galmedia.Media),
		byFolder: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (m *memoryRepository) Create(_ context.Context, record *galmedia.Media) (*galmedia.Media, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneMedia(record)
	m.byID[cloned.ID] = cloned
	m.byFolder[cloned.FolderID] = append(m.byFolder[cloned.FolderID], cloned.ID)
	return cloneMedia(cloned), nil
}

func (m *memoryRepository) GetByID(_ context.Context, id uuid.UUID) (*galmedia.Media, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &galmedia.NotFoundError{Key: id.String()}
	}
	return cloneMedia(record), nil
}

func (m *memoryRepository) ListByFolder(_ context.Context, folderID uuid.UUID) ([]*galmedia.Media, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.byFolder[folderID]
	records := make([]*galmedia.Media, 0, len(ids))
	for _, id := range ids {
		records = append(records, cloneMedia(m.byID[id]))
	}
	return records, nil
}

func (m *memoryRepository) ListAll(_ context.Context) ([]*galmedia.Media, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*galmedia.Media, 0, len(m.byID))
	for _, record := range m.byID {
		records = append(records, cloneMedia(record))
	}
	return records, nil
}

func (m *memoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[id]
	if !ok {
		return &galmedia.NotFoundError{Key: id.String()}
	}
	m.byFolder[record.FolderID] = removeID(m.byFolder[record.FolderID], id)
	delete(m.byID, id)
	return nil
}

func (m *memoryRepository) DeleteByFolder(_ context.Context, folderID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := m.byFolder[folderID]
	for _, id := range ids {
		delete(m.byID, id)
	}
	delete(m.byFolder, folderID)
	return len(ids), nil
}

func (m *memoryRepository) CountByFolder(_ context.Context, folderID uuid.UUID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.byFolder[folderID]), nil
}

func (m *memoryRepository) CountsByFolder(_ context.Context) (map[uuid.UUID]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[uuid.UUID]int, len(m.byFolder))
	for folderID, ids := range m.byFolder {
		if len(ids) > 0 {
			counts[folderID] = len(ids)
		}
	}
	return counts, nil
}

func removeID(ids []uuid.UUID, target uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

func cloneMedia(record *galmedia.Media) *galmedia.Media {
	if record == nil {
		return nil
	}
	cloned := *record
	return &cloned
}
