package service

import (
	"sync"

	"github.com/krople/gpsmapp/internal/models"
)

// AddressCache remembers resolved addresses by record key.
// Its Lookup method is meant to be handed to the reconciler as mapview.AddressFunc.
type AddressCache struct {
	mu        sync.RWMutex
	addresses map[string]string
}

// NewAddressCache creates an empty cache.
func NewAddressCache() *AddressCache {
	return &AddressCache{addresses: make(map[string]string)}
}

// Lookup returns the address stored for record.
func (c *AddressCache) Lookup(record models.Location) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	address, ok := c.addresses[record.Key()]

	return address, ok
}

// Store saves the address of record.
func (c *AddressCache) Store(record models.Location, address string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.addresses[record.Key()] = address
}

// Missing returns the records without a cached address.
func (c *AddressCache) Missing(records []models.Location) []models.Location {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var missing []models.Location
	for _, record := range records {
		if _, ok := c.addresses[record.Key()]; !ok {
			missing = append(missing, record)
		}
	}

	return missing
}

// Len returns the number of cached addresses.
func (c *AddressCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.addresses)
}
