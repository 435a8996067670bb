package assetid

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsValid(t *testing.T) {
	id := New()
	assert.True(t, IsValid(id))
	assert.Len(t, id, len(prefix)+26)

	parsed, err := Parse(id)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), time.UnixMilli(int64(parsed.Time())), time.Minute)
}

func TestIsValidRejects(t *testing.T) {
	for _, value := range []string{"", "ast_", "jan_01hzzzzzzzzzzzzzzzzzzzzz", "ast_not-a-ulid"} {
		assert.False(t, IsValid(value), value)
	}
}

func TestNewIsUniqueAndOrderedUnderConcurrency(t *testing.T) {
	const n = 200
	at := time.Now()
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- NewAt(at)
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, n)
	for id := range ids {
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, n)
}
