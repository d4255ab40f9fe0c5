package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pathwise/pathwise-backend/internal/pkg/logger"
)

// AIClient is the slice of the OpenAI client the pipelines need.
type AIClient interface {
	GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error)
	GenerateText(ctx context.Context, system string, user string) (string, error)
}

// Generator runs the generation pipelines: prompt, model call, structural
// validation, bounded retries with validation feedback. It never substitutes
// fallback content itself; exhaustion surfaces as ErrExhausted and the
// service layer decides what the caller sees.
type Generator struct {
	log *logger.Logger
	ai  AIClient
}

func NewGenerator(log *logger.Logger, ai AIClient) *Generator {
	return &Generator{
		log: log.With("service", "Generator"),
		ai:  ai,
	}
}

func decodeInto[T any](obj map[string]any) (T, error) {
	var out T
	raw, err := json.Marshal(obj)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}

// Structure generates a roadmap structure for req.Topic.
func (g *Generator) Structure(ctx context.Context, req GenerationRequest) (RoadmapStructure, Outcome, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return RoadmapStructure{}, Outcome{}, fmt.Errorf("topic required")
	}

	structure, attempts, lastErrs := withRetries(ctx, maxAttempts, func(ctx context.Context, feedback []string) (RoadmapStructure, []string) {
		obj, err := g.ai.GenerateJSON(ctx, structureSystemPrompt, structureUserPrompt(req, feedback), "roadmap_structure", roadmapStructureSchema())
		if err != nil {
			return RoadmapStructure{}, []string{"generate_failed: " + err.Error()}
		}
		s, err := decodeInto[RoadmapStructure](obj)
		if err != nil {
			return RoadmapStructure{}, []string{"schema_unmarshal_failed: " + err.Error()}
		}
		s = normalizeStructure(s)
		if errs := validateStructure(s); len(errs) > 0 {
			return RoadmapStructure{}, errs
		}
		return s, nil
	})

	outcome := Outcome{Attempts: attempts, LastErrors: lastErrs}
	if len(lastErrs) > 0 {
		g.log.Warn("Roadmap structure generation exhausted",
			"topic", req.Topic,
			"attempts", attempts,
			"errors", lastErrs,
		)
		return RoadmapStructure{}, outcome, fmt.Errorf("%w: %s", ErrExhausted, strings.Join(lastErrs, "; "))
	}
	return structure, outcome, nil
}

// normalizeStructure resets learner-progress fields the model should not set
// and trims oversized subtask lists to the allowed maximum.
func normalizeStructure(s RoadmapStructure) RoadmapStructure {
	if s.RequiredSkills == nil {
		s.RequiredSkills = []string{}
	}
	for i := range s.Sections {
		s.Sections[i].Progress = 0
		if len(s.Sections[i].Subtasks) > maxSubtasks {
			s.Sections[i].Subtasks = s.Sections[i].Subtasks[:maxSubtasks]
		}
		for j := range s.Sections[i].Subtasks {
			s.Sections[i].Subtasks[j].Completed = false
			s.Sections[i].Subtasks[j].ID = ""
		}
	}
	return s
}

// Detail generates enrichment content for one subtask.
func (g *Generator) Detail(ctx context.Context, roadmapTitle, sectionTitle, subtaskTitle string) (SubtaskDetail, Outcome, error) {
	if strings.TrimSpace(subtaskTitle) == "" {
		return SubtaskDetail{}, Outcome{}, fmt.Errorf("subtask title required")
	}

	detail, attempts, lastErrs := withRetries(ctx, maxAttempts, func(ctx context.Context, feedback []string) (SubtaskDetail, []string) {
		obj, err := g.ai.GenerateJSON(ctx, detailSystemPrompt, detailUserPrompt(roadmapTitle, sectionTitle, subtaskTitle, feedback), "subtask_detail", subtaskDetailSchema())
		if err != nil {
			return SubtaskDetail{}, []string{"generate_failed: " + err.Error()}
		}
		d, err := decodeInto[SubtaskDetail](obj)
		if err != nil {
			return SubtaskDetail{}, []string{"schema_unmarshal_failed: " + err.Error()}
		}
		if d.Prerequisites == nil {
			d.Prerequisites = []string{}
		}
		if errs := validateDetail(d); len(errs) > 0 {
			return SubtaskDetail{}, errs
		}
		return d, nil
	})

	outcome := Outcome{Attempts: attempts, LastErrors: lastErrs}
	if len(lastErrs) > 0 {
		g.log.Warn("Subtask detail generation exhausted",
			"subtask", subtaskTitle,
			"attempts", attempts,
			"errors", lastErrs,
		)
		return SubtaskDetail{}, outcome, fmt.Errorf("%w: %s", ErrExhausted, strings.Join(lastErrs, "; "))
	}
	return detail, outcome, nil
}

// Tutorial generates a markdown tutorial for one section. No structural
// validation applies beyond non-emptiness; failures propagate.
func (g *Generator) Tutorial(ctx context.Context, roadmapTitle, sectionTitle, description string, subtaskTitles []string) (string, Outcome, error) {
	if strings.TrimSpace(sectionTitle) == "" {
		return "", Outcome{}, fmt.Errorf("section title required")
	}

	user := tutorialUserPrompt(roadmapTitle, sectionTitle, description, subtaskTitles)
	text, attempts, lastErrs := withRetries(ctx, maxAttempts, func(ctx context.Context, _ []string) (string, []string) {
		out, err := g.ai.GenerateText(ctx, tutorialSystemPrompt, user)
		if err != nil {
			return "", []string{"generate_failed: " + err.Error()}
		}
		if strings.TrimSpace(out) == "" {
			return "", []string{"empty_response"}
		}
		return out, nil
	})

	outcome := Outcome{Attempts: attempts, LastErrors: lastErrs}
	if len(lastErrs) > 0 {
		return "", outcome, fmt.Errorf("%w: %s", ErrExhausted, strings.Join(lastErrs, "; "))
	}
	return text, outcome, nil
}

// Quiz generates questionCount multiple-choice questions. Failures propagate.
func (g *Generator) Quiz(ctx context.Context, title, description string, questionCount int) (Quiz, Outcome, error) {
	if strings.TrimSpace(title) == "" {
		return Quiz{}, Outcome{}, fmt.Errorf("quiz title required")
	}
	if questionCount <= 0 {
		questionCount = DefaultQuizQuestionCount
	}

	quiz, attempts, lastErrs := withRetries(ctx, maxAttempts, func(ctx context.Context, feedback []string) (Quiz, []string) {
		obj, err := g.ai.GenerateJSON(ctx, quizSystemPrompt, quizUserPrompt(title, description, questionCount, feedback), "quiz", quizSchema())
		if err != nil {
			return Quiz{}, []string{"generate_failed: " + err.Error()}
		}
		q, err := decodeInto[Quiz](obj)
		if err != nil {
			return Quiz{}, []string{"schema_unmarshal_failed: " + err.Error()}
		}
		for i := range q.Questions {
			q.Questions[i].Difficulty = strings.ToLower(strings.TrimSpace(q.Questions[i].Difficulty))
		}
		if errs := validateQuiz(q, questionCount); len(errs) > 0 {
			return Quiz{}, errs
		}
		return q, nil
	})

	outcome := Outcome{Attempts: attempts, LastErrors: lastErrs}
	if len(lastErrs) > 0 {
		g.log.Warn("Quiz generation exhausted",
			"title", title,
			"attempts", attempts,
			"errors", lastErrs,
		)
		return Quiz{}, outcome, fmt.Errorf("%w: %s", ErrExhausted, strings.Join(lastErrs, "; "))
	}
	return quiz, outcome, nil
}
