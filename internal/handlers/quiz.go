package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pathwise/pathwise-backend/internal/pkg/logger"
	"github.com/pathwise/pathwise-backend/internal/services"
)

type QuizHandler struct {
	log *logger.Logger
	svc services.RoadmapService
}

func NewQuizHandler(log *logger.Logger, svc services.RoadmapService) *QuizHandler {
	return &QuizHandler{
		log: log.With("handler", "QuizHandler"),
		svc: svc,
	}
}

// POST /api/quizzes/generate
func (h *QuizHandler) Generate(c *gin.Context) {
	var req struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		QuestionCount int    `json:"question_count"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}

	quiz, outcome, err := h.svc.GenerateQuiz(c.Request.Context(), services.QuizInput{
		Title:         req.Title,
		Description:   req.Description,
		QuestionCount: req.QuestionCount,
	})
	if err != nil {
		RespondError(c, http.StatusBadGateway, "generation_failed", err)
		return
	}

	RespondOK(c, gin.H{
		"quiz":     quiz,
		"attempts": outcome.Attempts,
	})
}
