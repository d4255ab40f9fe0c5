package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pathwise/pathwise-backend/internal/pkg/logger"
	"github.com/pathwise/pathwise-backend/internal/services"
)

type KnowledgeHandler struct {
	log *logger.Logger
	svc services.KnowledgeService
}

func NewKnowledgeHandler(log *logger.Logger, svc services.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{
		log: log.With("handler", "KnowledgeHandler"),
		svc: svc,
	}
}

// GET /api/knowledge
func (h *KnowledgeHandler) List(c *gin.Context) {
	docs, err := h.svc.List(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"documents": docs})
}

// GET /api/knowledge/:id
func (h *KnowledgeHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("invalid document id"))
		return
	}

	doc, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "lookup_failed", err)
		return
	}
	if doc == nil {
		RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("knowledge document %s not found", id))
		return
	}

	RespondOK(c, gin.H{"document": doc})
}
