package quiz

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/coocood/freecache"
)

const (
	// freecache refuses entries larger than 1/1024 of its size, so documents
	// are stored in chunks well below that limit
	documentCacheSize      = 8 * maxDocumentBytes
	documentCacheChunkSize = 16 * 1024

	documentCacheHeaderKey = "quiz-document"
	documentHeaderLen      = 16
)

// documentCache keeps the raw quiz document in freecache, split in chunks.
// The header entry (generation + document length) is written last, so a
// reader either sees a complete generation or a miss.
type documentCache struct {
	cache      *freecache.Cache
	ttlSec     int
	generation atomic.Uint64
}

func newDocumentCache(ttlSec int) *documentCache {
	return &documentCache{
		cache:  freecache.NewCache(documentCacheSize),
		ttlSec: ttlSec,
	}
}

func chunkKey(generation uint64, index int) []byte {
	return []byte(documentCacheHeaderKey + ":" + strconv.FormatUint(generation, 10) + ":" + strconv.Itoa(index))
}

// get returns the cached document, or false if any part of it is missing.
func (c *documentCache) get() ([]byte, bool) {
	header, err := c.cache.Get([]byte(documentCacheHeaderKey))
	if err != nil || len(header) != documentHeaderLen {
		return nil, false
	}
	generation := binary.BigEndian.Uint64(header[:8])
	docLen := int(binary.BigEndian.Uint64(header[8:]))

	doc := make([]byte, 0, docLen)
	for i := 0; len(doc) < docLen; i++ {
		chunk, err := c.cache.Get(chunkKey(generation, i))
		if err != nil {
			// evicted or expired chunk
			return nil, false
		}
		doc = append(doc, chunk...)
	}
	if len(doc) != docLen {
		return nil, false
	}

	return doc, true
}

func (c *documentCache) set(doc []byte) error {
	generation := c.generation.Add(1)
	for i, offset := 0, 0; offset < len(doc); i, offset = i+1, offset+documentCacheChunkSize {
		end := min(offset+documentCacheChunkSize, len(doc))
		if err := c.cache.Set(chunkKey(generation, i), doc[offset:end], c.ttlSec); err != nil {
			return fmt.Errorf("cache chunk %d: %w", i, err)
		}
	}

	header := make([]byte, documentHeaderLen)
	binary.BigEndian.PutUint64(header[:8], generation)
	binary.BigEndian.PutUint64(header[8:], uint64(len(doc)))
	if err := c.cache.Set([]byte(documentCacheHeaderKey), header, c.ttlSec); err != nil {
		return fmt.Errorf("cache document header: %w", err)
	}

	return nil
}

// drop makes the cached document unreachable, its chunks expire on their own.
func (c *documentCache) drop() {
	c.cache.Del([]byte(documentCacheHeaderKey))
}
