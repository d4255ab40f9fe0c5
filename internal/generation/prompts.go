package generation

import (
	"fmt"
	"strings"
)

const (
	structureSystemPrompt = "You are a career-learning coach. You design structured, realistic learning roadmaps. Return JSON only."
	detailSystemPrompt    = "You are a career-learning coach. You write thorough, practical guidance for a single learning subtask. Return JSON only."
	tutorialSystemPrompt  = "You are a patient technical tutor. You write complete markdown tutorials with examples. Return markdown only, no JSON."
	quizSystemPrompt      = "You are an assessment designer. You write fair multiple-choice questions with exactly one correct answer. Return JSON only."
)

func groundingBlock(grounding []GroundingExcerpt) string {
	if len(grounding) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nREFERENCE_MATERIAL (use for accuracy, do not copy verbatim):\n")
	for _, g := range grounding {
		b.WriteString("- ")
		b.WriteString(g.Title)
		b.WriteString(": ")
		b.WriteString(g.Excerpt)
		b.WriteString("\n")
	}
	return b.String()
}

func feedbackBlock(feedback []string) string {
	if len(feedback) == 0 {
		return ""
	}
	return "\n\nVALIDATION_ERRORS_TO_FIX:\n- " + strings.Join(feedback, "\n- ")
}

func structureUserPrompt(req GenerationRequest, feedback []string) string {
	level := string(req.Level)
	if level == "" {
		level = "unspecified"
	}
	var b strings.Builder
	fmt.Fprintf(&b, `TOPIC: %s
EXPERIENCE_LEVEL: %s

Task:
- Create a learning roadmap for TOPIC with %d-%d sections, ordered from fundamentals to mastery.
- Each section must contain %d-%d concrete subtasks.
- List the skills the learner will acquire in requiredSkills.
- Titles must be specific to TOPIC, not generic.`,
		req.Topic, level, minSections, maxSections, minSubtasks, maxSubtasks)
	if strings.TrimSpace(req.Context) != "" {
		fmt.Fprintf(&b, "\n\nLEARNER_CONTEXT:\n%s", req.Context)
	}
	b.WriteString(groundingBlock(req.Grounding))
	b.WriteString(feedbackBlock(feedback))
	b.WriteString("\nReturn JSON only.")
	return b.String()
}

func detailUserPrompt(roadmapTitle, sectionTitle, subtaskTitle string, feedback []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `ROADMAP: %s
SECTION: %s
SUBTASK: %s

Task:
- Write a markdown description of at least %d characters explaining what to learn and why.
- List at least %d real resources (title, url, type, description).
- List at least %d practical exercises and at least %d validation criteria.
- List any prerequisites (may be empty).`,
		roadmapTitle, sectionTitle, subtaskTitle, minDescriptionLen, minResources, minExercises, minCriteria)
	b.WriteString(feedbackBlock(feedback))
	b.WriteString("\nReturn JSON only.")
	return b.String()
}

func tutorialUserPrompt(roadmapTitle, sectionTitle, description string, subtaskTitles []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `ROADMAP: %s
SECTION: %s
`, roadmapTitle, sectionTitle)
	if strings.TrimSpace(description) != "" {
		fmt.Fprintf(&b, "SECTION_DESCRIPTION: %s\n", description)
	}
	if len(subtaskTitles) > 0 {
		b.WriteString("SUBTASKS:\n")
		for _, st := range subtaskTitles {
			b.WriteString("- ")
			b.WriteString(st)
			b.WriteString("\n")
		}
	}
	b.WriteString("\nWrite a complete markdown tutorial for this section: introduction, one part per subtask with worked examples, and a summary with next steps.")
	return b.String()
}

func quizUserPrompt(title, description string, questionCount int, feedback []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `QUIZ_TOPIC: %s
TARGET_QUESTION_COUNT: %d

Task:
- Produce exactly TARGET_QUESTION_COUNT multiple-choice questions.
- Each question has exactly 4 options and one correctIndex (0-3).
- difficulty is one of: easy, medium, hard. Mix difficulties.
- timeLimitSeconds is a sensible per-question limit (30-120).`,
		title, questionCount)
	if strings.TrimSpace(description) != "" {
		fmt.Fprintf(&b, "\n\nTOPIC_DESCRIPTION:\n%s", description)
	}
	b.WriteString(feedbackBlock(feedback))
	b.WriteString("\nReturn JSON only.")
	return b.String()
}
