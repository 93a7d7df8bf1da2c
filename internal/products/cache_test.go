package products

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCache(client), mr
}

func TestCache_PutAndGet(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	_, ok := cache.Get(ctx, "hammer")
	assert.False(t, ok)

	stored := []Product{{Title: "Claw Hammer", Price: "$12.98", Store: "Home Depot"}}
	cache.Put(ctx, "hammer", stored)

	got, ok := cache.Get(ctx, "hammer")
	require.True(t, ok)
	assert.Equal(t, stored, got)

	// Keys are normalized, so differently-cased queries hit the same entry.
	got, ok = cache.Get(ctx, "  HAMMER ")
	require.True(t, ok)
	assert.Equal(t, stored, got)

	assert.Greater(t, mr.TTL("products:q:hammer").Seconds(), 0.0)
}

func TestSearcher_ServesFromCacheWithoutProviderCall(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	providerCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		providerCalls++
		w.Write([]byte(`{"products": [{"title": "Claw Hammer", "price": 12.98}]}`))
	}))
	defer server.Close()

	searcher := NewSearcher(NewClient(server.URL, "test-key"), cache)

	first, err := searcher.Search(ctx, "hammer")
	require.NoError(t, err)
	second, err := searcher.Search(ctx, "hammer")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, providerCalls)
}

func TestSearcher_EmptyQueryRejected(t *testing.T) {
	searcher := NewSearcher(NewClient("http://127.0.0.1:1", "k"), nil)

	_, err := searcher.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}
