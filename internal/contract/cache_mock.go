package contract

import (
	"errors"
	"sync"

	"github.com/memorymusicllc/pow3r/schema"
)

// MockCacheManager is a CacheManager backed by in-memory stores, for tests.
type MockCacheManager struct {
	ScanStore    CacheStore
	HistoryStore HistoryStore
}

var _ CacheManager = &MockCacheManager{} // Compile-time check

// GetScanStore implements the CacheManager interface.
func (m *MockCacheManager) GetScanStore() CacheStore {
	return m.ScanStore
}

// GetHistoryStore implements the CacheManager interface.
func (m *MockCacheManager) GetHistoryStore() HistoryStore {
	return m.HistoryStore
}

// MemoryCacheStore is a thread-safe in-memory CacheStore for tests.
type MemoryCacheStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	version   int
	timestamp int64
}

var _ CacheStore = &MemoryCacheStore{} // Compile-time check

// NewMemoryCacheStore returns an empty in-memory store.
func NewMemoryCacheStore() *MemoryCacheStore {
	return &MemoryCacheStore{entries: make(map[string]memoryEntry)}
}

// Get implements the CacheStore interface.
func (s *MemoryCacheStore) Get(key string) ([]byte, int, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return nil, 0, 0, errors.New("cache miss")
	}
	return entry.value, entry.version, entry.timestamp, nil
}

// Set implements the CacheStore interface.
func (s *MemoryCacheStore) Set(key string, value []byte, version int, timestamp int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{value: value, version: version, timestamp: timestamp}
	return nil
}

// Clear implements the CacheStore interface.
func (s *MemoryCacheStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]memoryEntry)
	return nil
}

// GetStatus implements the CacheStore interface.
func (s *MemoryCacheStore) GetStatus() (schema.CacheStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return schema.CacheStatus{
		Backend:      string(schema.NoneBackend),
		Connected:    true,
		TotalEntries: int64(len(s.entries)),
	}, nil
}

// Close implements the CacheStore interface.
func (s *MemoryCacheStore) Close() error {
	return nil
}

// MemoryHistoryStore is a thread-safe in-memory HistoryStore for tests.
type MemoryHistoryStore struct {
	mu      sync.Mutex
	records []schema.ScanRecord
	nextID  int64
}

var _ HistoryStore = &MemoryHistoryStore{} // Compile-time check

// NewMemoryHistoryStore returns an empty in-memory history store.
func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{}
}

// RecordScan implements the HistoryStore interface.
func (s *MemoryHistoryStore) RecordScan(record schema.ScanRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	record.ScanID = s.nextID
	s.records = append(s.records, record)
	return record.ScanID, nil
}

// ListScans implements the HistoryStore interface.
func (s *MemoryHistoryStore) ListScans(limit int) ([]schema.ScanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]schema.ScanRecord, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

// Clear implements the HistoryStore interface.
func (s *MemoryHistoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}

// GetStatus implements the HistoryStore interface.
func (s *MemoryHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := schema.HistoryStatus{
		Backend:    string(schema.NoneBackend),
		Connected:  true,
		TotalScans: int64(len(s.records)),
	}
	if len(s.records) > 0 {
		status.LastScanTime = s.records[len(s.records)-1].ScanTime
	}
	return status, nil
}

// Close implements the HistoryStore interface.
func (s *MemoryHistoryStore) Close() error {
	return nil
}
