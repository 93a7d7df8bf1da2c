package projects

import (
	"net/http"
	"strings"

	"github.com/craftwise/craftwise-backend/internal/analysis"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo *Repo
	dev  bool
}

func Register(rg gin.IRouter, repo *Repo, dev bool) {
	h := &Handler{repo: repo, dev: dev}
	rg.POST("/projects", h.create)
	rg.GET("/projects", h.list)
}

type createReq struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	ImageURL    string           `json:"imageUrl"`
	Analysis    *analysis.Result `json:"analysis"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.Analysis == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and analysis are required"})
		return
	}
	// Image-only projects have no description; one of the two must exist.
	if strings.TrimSpace(req.Description) == "" && req.ImageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "description or imageUrl is required"})
		return
	}

	var imageURL *string
	if req.ImageURL != "" {
		imageURL = &req.ImageURL
	}

	saved, err := h.repo.Save(c.Request.Context(), SaveInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    imageURL,
		Analysis:    req.Analysis,
	})
	if err != nil {
		body := gin.H{"error": "failed to save project"}
		if h.dev {
			body["details"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
		return
	}

	c.JSON(http.StatusCreated, saved)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		body := gin.H{"error": "failed to fetch projects"}
		if h.dev {
			body["details"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
		return
	}
	c.JSON(http.StatusOK, items)
}
