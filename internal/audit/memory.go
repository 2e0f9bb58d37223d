package audit

import (
	"sync"

	"github.com/darmiel/ordergate/internal/core"
)

var _ core.Auditor = (*InMemoryAuditor)(nil)

// InMemoryAuditor keeps the most recent decision entries in memory.
// It is bounded: once maxSize entries are stored, the oldest are dropped.
type InMemoryAuditor struct {
	mu      sync.Mutex
	maxSize int
	entries []core.AuditEntry
}

func NewInMemoryAuditor(maxSize int) *InMemoryAuditor {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &InMemoryAuditor{
		maxSize: maxSize,
		entries: make([]core.AuditEntry, 0, maxSize),
	}
}

func (i *InMemoryAuditor) Log(entry core.AuditEntry) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.entries = append(i.entries, entry)
	if len(i.entries) > i.maxSize {
		i.entries = i.entries[len(i.entries)-i.maxSize:]
	}
	return nil
}

func (i *InMemoryAuditor) GetRecent(limit int) ([]core.AuditEntry, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if limit < 0 {
		limit = 0
	}
	if limit > len(i.entries) {
		limit = len(i.entries)
	}
	start := len(i.entries) - limit
	entries := make([]core.AuditEntry, limit)
	copy(entries, i.entries[start:])

	return entries, nil
}

func (i *InMemoryAuditor) Close() error {
	// nothing to close
	return nil
}
