package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pathwise/pathwise-backend/internal/generation"
	"github.com/pathwise/pathwise-backend/internal/pkg/logger"
	"github.com/pathwise/pathwise-backend/internal/services"
)

type RoadmapHandler struct {
	log *logger.Logger
	svc services.RoadmapService
}

func NewRoadmapHandler(log *logger.Logger, svc services.RoadmapService) *RoadmapHandler {
	return &RoadmapHandler{
		log: log.With("handler", "RoadmapHandler"),
		svc: svc,
	}
}

// POST /api/roadmaps/generate
func (h *RoadmapHandler) Generate(c *gin.Context) {
	var req struct {
		Topic           string `json:"topic"`
		ExperienceLevel string `json:"experience_level"`
		Context         string `json:"context"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}

	record, structure, outcome, err := h.svc.GenerateStructure(c.Request.Context(), services.StructureInput{
		Topic:   req.Topic,
		Level:   generation.ExperienceLevel(req.ExperienceLevel),
		Context: req.Context,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, "generation_failed", err)
		return
	}

	RespondOK(c, gin.H{
		"id":       record.ID,
		"roadmap":  structure,
		"degraded": outcome.Degraded,
		"attempts": outcome.Attempts,
	})
}

// GET /api/roadmaps/:id
func (h *RoadmapHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("invalid roadmap id"))
		return
	}

	record, err := h.svc.GetRoadmap(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "lookup_failed", err)
		return
	}
	if record == nil {
		RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("roadmap %s not found", id))
		return
	}

	RespondOK(c, gin.H{"roadmap": record})
}

// GET /api/generation-runs
func (h *RoadmapHandler) ListRuns(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	runs, err := h.svc.RecentRuns(c.Request.Context(), limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "lookup_failed", err)
		return
	}

	RespondOK(c, gin.H{"runs": runs})
}
