package products

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("engine") != "home_depot" {
			t.Errorf("unexpected engine: %s", q.Get("engine"))
		}
		if q.Get("q") != "hammer" {
			t.Errorf("unexpected query: %s", q.Get("q"))
		}
		if q.Get("api_key") != "test-key" {
			t.Errorf("unexpected api key: %s", q.Get("api_key"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products": [
			{"title": "16 oz Claw Hammer", "price": 12.98, "link": "https://example.com/h", "thumbnail": "https://example.com/h.jpg", "rating": 4.5, "reviews": 321}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	results, err := client.Search(context.Background(), "hammer")
	require.NoError(t, err)
	require.Len(t, results, 1)

	p := results[0]
	assert.Equal(t, "16 oz Claw Hammer", p.Title)
	assert.Equal(t, "$12.98", p.Price)
	assert.Equal(t, "Home Depot", p.Store)
	assert.Equal(t, 4.5, p.Rating)
	assert.Equal(t, 321, p.Reviews)
}

func TestClient_ZeroResultsIsEmptyListNotError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"products": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	results, err := client.Search(context.Background(), "hammer")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestClient_ProviderErrorMessageSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "Invalid API key"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-key")
	_, err := client.Search(context.Background(), "hammer")
	require.Error(t, err)

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Invalid API key", pe.Message)
	assert.Equal(t, http.StatusUnauthorized, pe.StatusCode)
}

func TestClient_MalformedBodyIsProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway error</html>`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	_, err := client.Search(context.Background(), "hammer")

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
}

func TestClient_NetworkFailureIsProviderError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "test-key")
	_, err := client.Search(context.Background(), "hammer")

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 0, pe.StatusCode)
}
