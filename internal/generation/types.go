package generation

import "errors"

// ErrExhausted is returned when every generation attempt failed. The service
// layer decides whether a fallback payload substitutes for the error.
var ErrExhausted = errors.New("generation attempts exhausted")

type ExperienceLevel string

const (
	LevelBeginner     ExperienceLevel = "beginner"
	LevelIntermediate ExperienceLevel = "intermediate"
	LevelAdvanced     ExperienceLevel = "advanced"
	LevelExpert       ExperienceLevel = "expert"
)

func (l ExperienceLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert:
		return true
	}
	return false
}

// GroundingExcerpt is a retrieved knowledge snippet inlined into the prompt.
type GroundingExcerpt struct {
	Title   string
	Excerpt string
}

// GenerationRequest describes one roadmap-structure generation. Ephemeral;
// discarded after the pipeline completes.
type GenerationRequest struct {
	Topic     string
	Level     ExperienceLevel
	Context   string
	Grounding []GroundingExcerpt
}

// RoadmapStructure is the target artifact. After validation it holds 4-6
// sections, each with at least 3 subtasks.
type RoadmapStructure struct {
	Title          string    `json:"title"`
	RequiredSkills []string  `json:"requiredSkills"`
	Sections       []Section `json:"sections"`
}

type Section struct {
	Title    string    `json:"title"`
	Progress float64   `json:"progress"`
	Subtasks []Subtask `json:"subtasks"`
}

type Subtask struct {
	ID        string `json:"id,omitempty"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// SubtaskDetail enriches one subtask on demand.
type SubtaskDetail struct {
	Description        string     `json:"description"`
	Resources          []Resource `json:"resources"`
	PracticalExercises []string   `json:"practicalExercises"`
	ValidationCriteria []string   `json:"validationCriteria"`
	Prerequisites      []string   `json:"prerequisites"`
}

type Resource struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type Quiz struct {
	Questions []QuizQuestion `json:"questions"`
}

type QuizQuestion struct {
	Question         string   `json:"question"`
	Options          []string `json:"options"`
	CorrectIndex     int      `json:"correctIndex"`
	Difficulty       string   `json:"difficulty"`
	TimeLimitSeconds int      `json:"timeLimitSeconds"`
}

// Outcome reports how a pipeline run went. Degraded is set by the service
// layer when a fallback payload replaced a failed generation.
type Outcome struct {
	Attempts   int      `json:"attempts"`
	Degraded   bool     `json:"degraded"`
	LastErrors []string `json:"last_errors,omitempty"`
}

// Structural minimums and bounds enforced on accepted payloads.
const (
	minSections       = 4
	maxSections       = 6
	minSubtasks       = 3
	maxSubtasks       = 6
	minDescriptionLen = 100
	minResources      = 5
	minExercises      = 3
	minCriteria       = 3

	// DefaultQuizQuestionCount applies when the caller does not ask for a
	// specific number of questions.
	DefaultQuizQuestionCount = 15
)
