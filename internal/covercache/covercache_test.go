package covercache_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mangata-app/mangata/internal/covercache"
)

/*
TestCache_InsertionOrderEviction verifies the capacity bound: inserting one
entry past capacity evicts the oldest-inserted path and keeps the rest.
*/
func TestCache_InsertionOrderEviction(t *testing.T) {
	cache := covercache.New(10)

	// 1. Fill past capacity with 11 distinct paths
	for i := 0; i < 11; i++ {
		cache.Put(fmt.Sprintf("/covers/%d.png", i), fmt.Sprintf("data-url-%d", i))
	}

	// 2. Exactly 10 entries remain
	assert.Equal(t, 10, cache.Len())

	// 3. The first-inserted path is gone
	_, ok := cache.Get("/covers/0.png")
	assert.False(t, ok)

	// 4. The 10 most recent are retrievable
	for i := 1; i < 11; i++ {
		dataURL, ok := cache.Get(fmt.Sprintf("/covers/%d.png", i))
		assert.True(t, ok)
		assert.Equal(t, fmt.Sprintf("data-url-%d", i), dataURL)
	}
}

/*
TestCache_GetDoesNotRefreshPosition verifies that a hit is not a recency
signal: the oldest-inserted entry is evicted even if it was just read.
*/
func TestCache_GetDoesNotRefreshPosition(t *testing.T) {
	cache := covercache.New(2)

	cache.Put("a", "data-a")
	cache.Put("b", "data-b")

	// Reading "a" must not save it from eviction.
	_, ok := cache.Get("a")
	assert.True(t, ok)

	cache.Put("c", "data-c")

	_, ok = cache.Get("a")
	assert.False(t, ok)
	_, ok = cache.Get("b")
	assert.True(t, ok)
	_, ok = cache.Get("c")
	assert.True(t, ok)
}

/*
TestCache_PutExistingKeepsPosition verifies that re-putting a cached path
updates the value in place without moving it to the back of the queue.
*/
func TestCache_PutExistingKeepsPosition(t *testing.T) {
	cache := covercache.New(2)

	cache.Put("a", "data-a")
	cache.Put("b", "data-b")

	// Late duplicate completion for "a": value replaced, position kept.
	cache.Put("a", "data-a-reloaded")
	assert.Equal(t, 2, cache.Len())

	dataURL, ok := cache.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "data-a-reloaded", dataURL)

	// "a" is still the oldest entry, so the next insert evicts it.
	cache.Put("c", "data-c")
	_, ok = cache.Get("a")
	assert.False(t, ok)
}
