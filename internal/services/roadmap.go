package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pathwise/pathwise-backend/internal/generation"
	"github.com/pathwise/pathwise-backend/internal/pkg/logger"
	"github.com/pathwise/pathwise-backend/internal/repos"
	"github.com/pathwise/pathwise-backend/internal/retrieval"
	"github.com/pathwise/pathwise-backend/internal/types"
)

const (
	// groundingK caps how many corpus documents are inlined into a prompt.
	groundingK = 3
	// groundingExcerptCap bounds each inlined excerpt.
	groundingExcerptCap = 500
)

type StructureInput struct {
	Topic   string                     `json:"topic"`
	Level   generation.ExperienceLevel `json:"experience_level"`
	Context string                     `json:"context"`
}

type DetailInput struct {
	RoadmapTitle string `json:"roadmap_title"`
	SectionTitle string `json:"section_title"`
	SubtaskTitle string `json:"subtask_title"`
}

type TutorialInput struct {
	RoadmapTitle  string   `json:"roadmap_title"`
	SectionTitle  string   `json:"section_title"`
	Description   string   `json:"description"`
	SubtaskTitles []string `json:"subtask_titles"`
}

type QuizInput struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	QuestionCount int    `json:"question_count"`
}

// TextStreamer is the streaming slice of the OpenAI client used for tutorial
// streaming.
type TextStreamer interface {
	StreamText(ctx context.Context, system string, user string, onDelta func(delta string)) (string, error)
}

type RoadmapService interface {
	GenerateStructure(ctx context.Context, in StructureInput) (*types.Roadmap, generation.RoadmapStructure, generation.Outcome, error)
	GetRoadmap(ctx context.Context, id uuid.UUID) (*types.Roadmap, error)
	GenerateDetail(ctx context.Context, in DetailInput) (generation.SubtaskDetail, generation.Outcome, error)
	RecentRuns(ctx context.Context, limit int) ([]*types.GenerationRun, error)
	GenerateTutorial(ctx context.Context, in TutorialInput) (string, generation.Outcome, error)
	StreamTutorial(ctx context.Context, in TutorialInput, onDelta func(delta string)) (string, error)
	GenerateQuiz(ctx context.Context, in QuizInput) (generation.Quiz, generation.Outcome, error)
}

type roadmapService struct {
	db  *gorm.DB
	log *logger.Logger

	gen       *generation.Generator
	retriever *retrieval.Retriever
	streamer  TextStreamer

	knowledgeRepo repos.KnowledgeDocumentRepo
	roadmapRepo   repos.RoadmapRepo
	detailRepo    repos.SubtaskDetailRepo
	quizRepo      repos.QuizQuestionRepo
	runRepo       repos.GenerationRunRepo
}

func NewRoadmapService(
	db *gorm.DB,
	baseLog *logger.Logger,
	gen *generation.Generator,
	retriever *retrieval.Retriever,
	streamer TextStreamer,
	knowledgeRepo repos.KnowledgeDocumentRepo,
	roadmapRepo repos.RoadmapRepo,
	detailRepo repos.SubtaskDetailRepo,
	quizRepo repos.QuizQuestionRepo,
	runRepo repos.GenerationRunRepo,
) RoadmapService {
	return &roadmapService{
		db:            db,
		log:           baseLog.With("service", "RoadmapService"),
		gen:           gen,
		retriever:     retriever,
		streamer:      streamer,
		knowledgeRepo: knowledgeRepo,
		roadmapRepo:   roadmapRepo,
		detailRepo:    detailRepo,
		quizRepo:      quizRepo,
		runRepo:       runRepo,
	}
}

// grounding loads the corpus and retrieves the top matches for query.
// Best-effort: every failure path returns an empty slice.
func (s *roadmapService) grounding(ctx context.Context, query string) []generation.GroundingExcerpt {
	if s.retriever == nil || s.knowledgeRepo == nil {
		return nil
	}
	corpus, err := s.knowledgeRepo.List(ctx, nil)
	if err != nil {
		s.log.Warn("Knowledge corpus load failed; generating ungrounded", "error", err)
		return nil
	}
	scored, degraded := s.retriever.Retrieve(ctx, query, corpus, groundingK)
	if degraded {
		s.log.Warn("Retrieval degraded; generating ungrounded", "query", query)
	}
	excerpts := make([]generation.GroundingExcerpt, 0, len(scored))
	for _, sd := range scored {
		body := sd.Doc.Body
		if len(body) > groundingExcerptCap {
			body = body[:groundingExcerptCap]
		}
		excerpts = append(excerpts, generation.GroundingExcerpt{Title: sd.Doc.Title, Excerpt: body})
	}
	return excerpts
}

func (s *roadmapService) recordRun(ctx context.Context, kind, topic, status string, outcome generation.Outcome, latency time.Duration) {
	if s.runRepo == nil {
		return
	}
	meta := map[string]any{}
	if len(outcome.LastErrors) > 0 {
		meta["last_errors"] = outcome.LastErrors
	}
	metaJSON, _ := json.Marshal(meta)
	run := &types.GenerationRun{
		ID:        uuid.New(),
		Kind:      kind,
		Topic:     topic,
		Status:    status,
		Attempts:  outcome.Attempts,
		Degraded:  outcome.Degraded,
		Error:     strings.Join(outcome.LastErrors, "; "),
		LatencyMS: int(latency.Milliseconds()),
		Metadata:  datatypes.JSON(metaJSON),
		CreatedAt: time.Now(),
	}
	if _, err := s.runRepo.Create(ctx, nil, []*types.GenerationRun{run}); err != nil {
		s.log.Warn("Generation run record failed", "kind", kind, "error", err)
	}
}

func (s *roadmapService) GenerateStructure(ctx context.Context, in StructureInput) (*types.Roadmap, generation.RoadmapStructure, generation.Outcome, error) {
	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		return nil, generation.RoadmapStructure{}, generation.Outcome{}, fmt.Errorf("topic required")
	}
	if in.Level != "" && !in.Level.Valid() {
		return nil, generation.RoadmapStructure{}, generation.Outcome{}, fmt.Errorf("invalid experience level %q", in.Level)
	}

	start := time.Now()
	req := generation.GenerationRequest{
		Topic:     topic,
		Level:     in.Level,
		Context:   in.Context,
		Grounding: s.grounding(ctx, topic),
	}

	structure, outcome, err := s.gen.Structure(ctx, req)
	switch {
	case err == nil:
	case errors.Is(err, generation.ErrExhausted):
		// External contract: structure generation never fails the caller.
		// Substitute the topic-titled template and say so via Degraded.
		structure = generation.FallbackStructure(topic)
		outcome.Degraded = true
	default:
		return nil, generation.RoadmapStructure{}, outcome, err
	}

	for i := range structure.Sections {
		for j := range structure.Sections[i].Subtasks {
			structure.Sections[i].Subtasks[j].ID = uuid.NewString()
		}
	}

	payload, err := json.Marshal(structure)
	if err != nil {
		return nil, generation.RoadmapStructure{}, outcome, fmt.Errorf("marshal structure: %w", err)
	}
	now := time.Now()
	record := &types.Roadmap{
		ID:              uuid.New(),
		Topic:           topic,
		ExperienceLevel: string(in.Level),
		Title:           structure.Title,
		Degraded:        outcome.Degraded,
		Structure:       datatypes.JSON(payload),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if s.roadmapRepo != nil {
		if _, err := s.roadmapRepo.Create(ctx, nil, []*types.Roadmap{record}); err != nil {
			return nil, generation.RoadmapStructure{}, outcome, fmt.Errorf("persist roadmap: %w", err)
		}
	}

	status := "succeeded"
	if outcome.Degraded {
		status = "degraded"
	}
	s.recordRun(ctx, "structure", topic, status, outcome, time.Since(start))

	return record, structure, outcome, nil
}

func (s *roadmapService) GetRoadmap(ctx context.Context, id uuid.UUID) (*types.Roadmap, error) {
	if s.roadmapRepo == nil {
		return nil, fmt.Errorf("roadmap repo not configured")
	}
	results, err := s.roadmapRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (s *roadmapService) RecentRuns(ctx context.Context, limit int) ([]*types.GenerationRun, error) {
	if s.runRepo == nil {
		return nil, fmt.Errorf("generation run repo not configured")
	}
	return s.runRepo.ListRecent(ctx, nil, limit)
}

func (s *roadmapService) GenerateDetail(ctx context.Context, in DetailInput) (generation.SubtaskDetail, generation.Outcome, error) {
	if strings.TrimSpace(in.SubtaskTitle) == "" {
		return generation.SubtaskDetail{}, generation.Outcome{}, fmt.Errorf("subtask title required")
	}

	// Reuse a stored detail when a previous run already produced a real one.
	// Degraded placeholders are not reused so a later call can do better.
	if s.detailRepo != nil {
		existing, lErr := s.detailRepo.GetBySubtask(ctx, nil, in.RoadmapTitle, in.SectionTitle, in.SubtaskTitle)
		if lErr == nil && existing != nil && !existing.Degraded {
			var cached generation.SubtaskDetail
			if uErr := json.Unmarshal(existing.Detail, &cached); uErr == nil {
				return cached, generation.Outcome{}, nil
			}
		}
	}

	start := time.Now()
	detail, outcome, err := s.gen.Detail(ctx, in.RoadmapTitle, in.SectionTitle, in.SubtaskTitle)
	switch {
	case err == nil:
	case errors.Is(err, generation.ErrExhausted):
		// External contract: detail generation never fails the caller either;
		// deterministic placeholders stand in and Degraded carries the signal.
		detail = generation.PadDetail(generation.SubtaskDetail{}, in.SubtaskTitle)
		outcome.Degraded = true
	default:
		return generation.SubtaskDetail{}, outcome, err
	}

	if s.detailRepo != nil {
		payload, mErr := json.Marshal(detail)
		if mErr == nil {
			now := time.Now()
			_, pErr := s.detailRepo.Create(ctx, nil, []*types.SubtaskDetailRecord{{
				ID:           uuid.New(),
				RoadmapTitle: in.RoadmapTitle,
				SectionTitle: in.SectionTitle,
				SubtaskTitle: in.SubtaskTitle,
				Degraded:     outcome.Degraded,
				Detail:       datatypes.JSON(payload),
				CreatedAt:    now,
				UpdatedAt:    now,
			}})
			if pErr != nil {
				s.log.Warn("Subtask detail persist failed", "subtask", in.SubtaskTitle, "error", pErr)
			}
		}
	}

	status := "succeeded"
	if outcome.Degraded {
		status = "degraded"
	}
	s.recordRun(ctx, "detail", in.SubtaskTitle, status, outcome, time.Since(start))

	return detail, outcome, nil
}

func (s *roadmapService) GenerateTutorial(ctx context.Context, in TutorialInput) (string, generation.Outcome, error) {
	start := time.Now()
	md, outcome, err := s.gen.Tutorial(ctx, in.RoadmapTitle, in.SectionTitle, in.Description, in.SubtaskTitles)
	if err != nil {
		s.recordRun(ctx, "tutorial", in.SectionTitle, "failed", outcome, time.Since(start))
		return "", outcome, err
	}
	s.recordRun(ctx, "tutorial", in.SectionTitle, "succeeded", outcome, time.Since(start))
	return md, outcome, nil
}

func (s *roadmapService) StreamTutorial(ctx context.Context, in TutorialInput, onDelta func(delta string)) (string, error) {
	if s.streamer == nil {
		return "", fmt.Errorf("streaming not configured")
	}
	if strings.TrimSpace(in.SectionTitle) == "" {
		return "", fmt.Errorf("section title required")
	}
	return s.streamer.StreamText(ctx,
		"You are a patient technical tutor. You write complete markdown tutorials with examples. Return markdown only, no JSON.",
		fmt.Sprintf("Write a complete markdown tutorial for the section %q of the roadmap %q.\n%s", in.SectionTitle, in.RoadmapTitle, in.Description),
		onDelta,
	)
}

func (s *roadmapService) GenerateQuiz(ctx context.Context, in QuizInput) (generation.Quiz, generation.Outcome, error) {
	start := time.Now()
	quiz, outcome, err := s.gen.Quiz(ctx, in.Title, in.Description, in.QuestionCount)
	if err != nil {
		s.recordRun(ctx, "quiz", in.Title, "failed", outcome, time.Since(start))
		return generation.Quiz{}, outcome, err
	}

	if s.quizRepo != nil {
		now := time.Now()
		records := make([]*types.QuizQuestionRecord, 0, len(quiz.Questions))
		for i, q := range quiz.Questions {
			opts, mErr := json.Marshal(q.Options)
			if mErr != nil {
				continue
			}
			records = append(records, &types.QuizQuestionRecord{
				ID:               uuid.New(),
				QuizTitle:        in.Title,
				Index:            i,
				Question:         q.Question,
				Options:          datatypes.JSON(opts),
				CorrectIndex:     q.CorrectIndex,
				Difficulty:       q.Difficulty,
				TimeLimitSeconds: q.TimeLimitSeconds,
				CreatedAt:        now,
				UpdatedAt:        now,
			})
		}
		if _, pErr := s.quizRepo.Create(ctx, nil, records); pErr != nil {
			s.log.Warn("Quiz persist failed", "title", in.Title, "error", pErr)
		}
	}

	s.recordRun(ctx, "quiz", in.Title, "succeeded", outcome, time.Since(start))
	return quiz, outcome, nil
}
