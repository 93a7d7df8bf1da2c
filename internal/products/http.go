package products

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Searcher fronts the provider client with the optional result cache.
type Searcher struct {
	client *Client
	cache  *Cache // nil when Redis is not configured
}

func NewSearcher(client *Client, cache *Cache) *Searcher {
	return &Searcher{client: client, cache: cache}
}

func (s *Searcher) Search(ctx context.Context, query string) ([]Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	if s.cache != nil {
		if hit, ok := s.cache.Get(ctx, query); ok {
			return hit, nil
		}
	}

	results, err := s.client.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Put(ctx, query, results)
	}
	return results, nil
}

type Handler struct {
	searcher *Searcher
	dev      bool
}

func Register(rg gin.IRouter, searcher *Searcher, dev bool) {
	h := &Handler{searcher: searcher, dev: dev}
	rg.GET("/search-products", h.search)
}

func (h *Handler) search(c *gin.Context) {
	query := c.Query("query")
	if strings.TrimSpace(query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
		return
	}

	results, err := h.searcher.Search(c.Request.Context(), query)
	if err != nil {
		var pe *ProviderError
		if errors.As(err, &pe) && pe.StatusCode == http.StatusNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": pe.Message})
			return
		}
		body := gin.H{"error": "product search failed"}
		if h.dev {
			body["details"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": results})
}
