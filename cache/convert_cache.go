package cache

import (
	"fmt"
	"os"
	"sync"
	"time"

	"cutplot/models"
)

type convertEntry struct {
	response   models.ConvertResponse
	expiration time.Time
}

// ConvertCache remembers conversion responses so re-converting an
// unchanged drawing answers locally. Keys bind the file's path, size,
// and mtime, so any edit to the drawing misses.
type ConvertCache struct {
	data     map[string]convertEntry
	mutex    sync.RWMutex
	ttl      time.Duration
	maxSize  int
	stopChan chan bool
}

func NewConvertCache(ttl time.Duration, maxSize int) *ConvertCache {
	c := &ConvertCache{
		data:     make(map[string]convertEntry),
		ttl:      ttl,
		maxSize:  maxSize,
		stopChan: make(chan bool),
	}

	go c.cleanupExpiredEntries()

	return c
}

// Key derives the cache key for a vector file from its current stat.
func Key(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano()), nil
}

func (c *ConvertCache) Put(key string, resp models.ConvertResponse) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if len(c.data) >= c.maxSize {
		c.evictOldestEntry()
	}

	c.data[key] = convertEntry{
		response:   resp,
		expiration: time.Now().Add(c.ttl),
	}
}

func (c *ConvertCache) Get(key string) (models.ConvertResponse, bool) {
	c.mutex.RLock()
	entry, exists := c.data[key]
	c.mutex.RUnlock()

	if !exists || time.Now().After(entry.expiration) {
		return models.ConvertResponse{}, false
	}
	return entry.response, true
}

func (c *ConvertCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.data)
}

func (c *ConvertCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data = make(map[string]convertEntry)
}

func (c *ConvertCache) evictOldestEntry() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range c.data {
		if oldestKey == "" || entry.expiration.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.expiration
		}
	}

	if oldestKey != "" {
		delete(c.data, oldestKey)
	}
}

func (c *ConvertCache) cleanupExpiredEntries() {
	interval := c.ttl / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpiredEntries()
		case <-c.stopChan:
			return
		}
	}
}

func (c *ConvertCache) removeExpiredEntries() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	for key, entry := range c.data {
		if now.After(entry.expiration) {
			delete(c.data, key)
		}
	}
}

func (c *ConvertCache) Close() {
	close(c.stopChan)
	c.Clear()
}
