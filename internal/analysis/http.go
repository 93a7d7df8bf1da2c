package analysis

import (
	"errors"
	"net/http"

	"github.com/craftwise/craftwise-backend/internal/imaging"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	orch *Orchestrator
	dev  bool
}

func Register(rg gin.IRouter, orch *Orchestrator, dev bool) {
	h := &Handler{orch: orch, dev: dev}
	rg.POST("/analyze", h.analyze)
}

type analyzeReq struct {
	Description string `json:"description"`
	Image       string `json:"image"`
}

func (h *Handler) analyze(c *gin.Context) {
	var req analyzeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	if req.Description == "" && req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "description or image is required"})
		return
	}

	image := req.Image
	if image != "" {
		normalized, err := imaging.Normalize(image)
		if err != nil {
			status := http.StatusBadRequest
			if !imaging.IsValidationError(err) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		image = normalized
	}

	result, err := h.orch.Analyze(c.Request.Context(), req.Description, image)
	if err != nil {
		if errors.Is(err, ErrNoInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		body := gin.H{"error": "failed to analyze project"}
		if h.dev {
			body["details"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
		return
	}

	c.JSON(http.StatusOK, result)
}
