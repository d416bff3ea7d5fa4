package iocache

import (
	"sync"

	"github.com/memorymusicllc/pow3r/internal/contract"
)

// CacheStoreManager manages the scan cache and history stores.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	scan         contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetScanStore returns the scan CacheStore.
func (mgr *CacheStoreManager) GetScanStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.scan
}

// GetHistoryStore returns the HistoryStore.
func (mgr *CacheStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
