package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pathwise/pathwise-backend/internal/pkg/logger"
	"github.com/pathwise/pathwise-backend/internal/services"
)

type TutorialHandler struct {
	log *logger.Logger
	svc services.RoadmapService
}

func NewTutorialHandler(log *logger.Logger, svc services.RoadmapService) *TutorialHandler {
	return &TutorialHandler{
		log: log.With("handler", "TutorialHandler"),
		svc: svc,
	}
}

type tutorialRequest struct {
	RoadmapTitle  string   `json:"roadmap_title"`
	SectionTitle  string   `json:"section_title"`
	Description   string   `json:"description"`
	SubtaskTitles []string `json:"subtask_titles"`
}

// POST /api/tutorials/generate
func (h *TutorialHandler) Generate(c *gin.Context) {
	var req tutorialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}

	markdown, outcome, err := h.svc.GenerateTutorial(c.Request.Context(), services.TutorialInput{
		RoadmapTitle:  req.RoadmapTitle,
		SectionTitle:  req.SectionTitle,
		Description:   req.Description,
		SubtaskTitles: req.SubtaskTitles,
	})
	if err != nil {
		RespondError(c, http.StatusBadGateway, "generation_failed", err)
		return
	}

	RespondOK(c, gin.H{
		"markdown": markdown,
		"attempts": outcome.Attempts,
	})
}

// POST /api/tutorials/generate/stream
// Streams markdown deltas as SSE data events, then a terminal done event.
func (h *TutorialHandler) GenerateStream(c *gin.Context) {
	var req tutorialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}

	w := c.Writer
	flusher, ok := w.(http.Flusher)
	if !ok {
		RespondError(c, http.StatusInternalServerError, "streaming_unsupported", errors.New("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	writeEvent := func(event string, payload any) {
		jsonBytes, mErr := json.Marshal(payload)
		if mErr != nil {
			h.log.Warn("Failed to marshal SSE payload", "error", mErr)
			return
		}
		_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonBytes)
		flusher.Flush()
	}

	full, err := h.svc.StreamTutorial(c.Request.Context(), services.TutorialInput{
		RoadmapTitle:  req.RoadmapTitle,
		SectionTitle:  req.SectionTitle,
		Description:   req.Description,
		SubtaskTitles: req.SubtaskTitles,
	}, func(delta string) {
		writeEvent("delta", gin.H{"text": delta})
	})
	if err != nil {
		writeEvent("error", gin.H{"message": err.Error()})
		return
	}
	writeEvent("done", gin.H{"length": len(full)})
}
