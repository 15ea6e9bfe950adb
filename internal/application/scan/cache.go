package scan

import "sync"

// Cache is the per-session scanned-URL map. Claim is the atomic check-and-mark
// required for the at-most-once-per-URL guarantee: two concurrent scans of the
// same URL can never both reach the AI classifier.
type Cache struct {
	mu      sync.Mutex
	scanned map[string]bool
}

func NewCache() *Cache {
	return &Cache{scanned: make(map[string]bool)}
}

// Claim marks the URL as scanned and reports whether this caller won the
// claim. A false return means the URL was already scanned (or claimed by a
// concurrent scan) in this session.
func (c *Cache) Claim(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scanned[url] {
		return false
	}
	c.scanned[url] = true
	return true
}

// HasScanned reports whether the URL was scanned in this session.
func (c *Cache) HasScanned(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scanned[url]
}

// Len is the number of distinct URLs scanned so far.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.scanned)
}

// Reset drops every entry. Called on session disconnect; previously scanned
// URLs become eligible for a fresh AI call after reconnect.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scanned = make(map[string]bool)
}
