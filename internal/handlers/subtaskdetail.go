package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pathwise/pathwise-backend/internal/pkg/logger"
	"github.com/pathwise/pathwise-backend/internal/services"
)

type SubtaskDetailHandler struct {
	log *logger.Logger
	svc services.RoadmapService
}

func NewSubtaskDetailHandler(log *logger.Logger, svc services.RoadmapService) *SubtaskDetailHandler {
	return &SubtaskDetailHandler{
		log: log.With("handler", "SubtaskDetailHandler"),
		svc: svc,
	}
}

// POST /api/subtask-details/generate
func (h *SubtaskDetailHandler) Generate(c *gin.Context) {
	var req struct {
		RoadmapTitle string `json:"roadmap_title"`
		SectionTitle string `json:"section_title"`
		SubtaskTitle string `json:"subtask_title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}

	detail, outcome, err := h.svc.GenerateDetail(c.Request.Context(), services.DetailInput{
		RoadmapTitle: req.RoadmapTitle,
		SectionTitle: req.SectionTitle,
		SubtaskTitle: req.SubtaskTitle,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, "generation_failed", err)
		return
	}

	RespondOK(c, gin.H{
		"detail":   detail,
		"degraded": outcome.Degraded,
		"attempts": outcome.Attempts,
	})
}
