package accesslog

import (
	"context"
	"sort"
	"sync"
	"time"

	galaccess "github.com/ohanalens/go-gallery/accesslogs"
)

type memoryRepository struct {
	mu      sync.RWMutex
	records []*galaccess.AccessLog
}

// NewMemoryRepository constructs an in-memory repository for audit records.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (m *memoryRepository) Create(_ context.Context, record *galaccess.AccessLog) (*galaccess.AccessLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneLog(record)
	m.records = append(m.records, cloned)
	return cloneLog(cloned), nil
}

func (m *memoryRepository) List(_ context.Context, filter Filter) ([]*galaccess.AccessLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*galaccess.AccessLog, 0, len(m.records))
	for _, record := range m.records {
		if filter.Action != "" && record.Action != filter.Action {
			continue
		}
		if filter.AdminID != nil && (record.AdminID == nil || *record.AdminID != *filter.AdminID) {
			continue
		}
		if filter.FolderID != nil && (record.FolderID == nil || *record.FolderID != *filter.FolderID) {
			continue
		}
		if !filter.Since.IsZero() && record.CreatedAt.Before(filter.Since) {
			continue
		}
		out = append(out, cloneLog(record))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *memoryRepository) DeleteOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.records[:0]
	removed := 0
	for _, record := range m.records {
		if record.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, record)
	}
	m.records = kept
	return removed, nil
}

func cloneLog(record *galaccess.AccessLog) *galaccess.AccessLog {
	if record == nil {
		return nil
	}
	cloned := *record
	if record.AdminID != nil {
		id := *record.AdminID
		cloned.AdminID = &id
	}
	if record.FolderID != nil {
		id := *record.FolderID
		cloned.FolderID = &id
	}
	return &cloned
}
