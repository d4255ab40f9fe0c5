package generation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestStructureAcceptsSecondAttempt(t *testing.T) {
	// Attempt 1 returns 3 sections (below minimum), attempt 2 is valid: the
	// orchestrator must return the attempt-2 result without a third call.
	ai := &fakeAI{jsonResults: []jsonResult{
		{obj: structureObj("X", 3, 3)},
		{obj: structureObj("X", 4, 3)},
		{obj: structureObj("never used", 4, 3)},
	}}
	g := testGenerator(t, ai)

	s, outcome, err := g.Structure(context.Background(), GenerationRequest{Topic: "X"})
	if err != nil {
		t.Fatalf("Structure: %v", err)
	}
	if ai.jsonCalls != 2 || outcome.Attempts != 2 {
		t.Fatalf("calls=%d attempts=%d, want 2", ai.jsonCalls, outcome.Attempts)
	}
	if len(s.Sections) != 4 {
		t.Fatalf("want the 4-section attempt-2 result, got %d sections", len(s.Sections))
	}
	if errs := validateStructure(s); len(errs) != 0 {
		t.Fatalf("accepted structure must satisfy invariants: %v", errs)
	}
}

func TestStructureFeedsViolationsIntoRetryPrompt(t *testing.T) {
	ai := &fakeAI{jsonResults: []jsonResult{
		{obj: structureObj("X", 3, 3)},
		{obj: structureObj("X", 4, 3)},
	}}
	g := testGenerator(t, ai)

	if _, _, err := g.Structure(context.Background(), GenerationRequest{Topic: "X"}); err != nil {
		t.Fatalf("Structure: %v", err)
	}
	if !strings.Contains(ai.userPrompts[1], "VALIDATION_ERRORS_TO_FIX") ||
		!strings.Contains(ai.userPrompts[1], "section_count_out_of_range") {
		t.Fatalf("retry prompt missing validation feedback:\n%s", ai.userPrompts[1])
	}
}

func TestStructureExhaustionReturnsErrExhausted(t *testing.T) {
	ai := &fakeAI{jsonResults: []jsonResult{
		{err: fmt.Errorf("not json")},
		{err: fmt.Errorf("not json")},
		{err: fmt.Errorf("not json")},
	}}
	g := testGenerator(t, ai)

	_, outcome, err := g.Structure(context.Background(), GenerationRequest{Topic: "X"})
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("want ErrExhausted, got %v", err)
	}
	if ai.jsonCalls != 3 || outcome.Attempts != 3 {
		t.Fatalf("calls=%d attempts=%d, want 3", ai.jsonCalls, outcome.Attempts)
	}
	if len(outcome.LastErrors) == 0 {
		t.Fatalf("outcome must carry the last failure for diagnostics")
	}
}

func TestStructureNormalizesModelOutput(t *testing.T) {
	obj := structureObj("X", 4, 3)
	// Model sneaks in progress and completed flags and too many subtasks.
	secs := obj["sections"].([]any)
	first := secs[0].(map[string]any)
	first["progress"] = 0.75
	subs := first["subtasks"].([]any)
	subs[0].(map[string]any)["completed"] = true
	for i := 0; i < 5; i++ {
		subs = append(subs, map[string]any{"title": fmt.Sprintf("extra %d", i), "completed": false})
	}
	first["subtasks"] = subs

	ai := &fakeAI{jsonResults: []jsonResult{{obj: obj}}}
	g := testGenerator(t, ai)

	s, _, err := g.Structure(context.Background(), GenerationRequest{Topic: "X"})
	if err != nil {
		t.Fatalf("Structure: %v", err)
	}
	if s.Sections[0].Progress != 0 {
		t.Fatalf("progress must be reset to 0, got %v", s.Sections[0].Progress)
	}
	if s.Sections[0].Subtasks[0].Completed {
		t.Fatalf("completed must be reset to false")
	}
	if len(s.Sections[0].Subtasks) != maxSubtasks {
		t.Fatalf("oversized subtask list must be trimmed to %d, got %d", maxSubtasks, len(s.Sections[0].Subtasks))
	}
}

func TestStructureIdempotentWithDeterministicStub(t *testing.T) {
	run := func() RoadmapStructure {
		ai := &fakeAI{jsonResults: []jsonResult{{obj: structureObj("X", 5, 4)}}}
		g := testGenerator(t, ai)
		s, _, err := g.Structure(context.Background(), GenerationRequest{Topic: "X"})
		if err != nil {
			t.Fatalf("Structure: %v", err)
		}
		return s
	}
	if a, b := run(), run(); !reflect.DeepEqual(a, b) {
		t.Fatalf("deterministic stub must yield identical structures")
	}
}

func TestDetailValidPassesThrough(t *testing.T) {
	ai := &fakeAI{jsonResults: []jsonResult{{obj: detailObj(150, 5, 3, 3)}}}
	g := testGenerator(t, ai)

	d, outcome, err := g.Detail(context.Background(), "R", "S", "T")
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if outcome.Attempts != 1 {
		t.Fatalf("attempts=%d, want 1", outcome.Attempts)
	}
	if errs := validateDetail(d); len(errs) != 0 {
		t.Fatalf("accepted detail must satisfy invariants: %v", errs)
	}
}

func TestDetailExhaustionSurfacesError(t *testing.T) {
	ai := &fakeAI{jsonResults: []jsonResult{
		{obj: detailObj(10, 1, 1, 1)},
		{obj: detailObj(10, 1, 1, 1)},
		{obj: detailObj(10, 1, 1, 1)},
	}}
	g := testGenerator(t, ai)

	_, outcome, err := g.Detail(context.Background(), "R", "S", "T")
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("want ErrExhausted, got %v", err)
	}
	// The service layer pads on exhaustion; the padded payload must validate.
	padded := PadDetail(SubtaskDetail{}, "T")
	if errs := validateDetail(padded); len(errs) != 0 {
		t.Fatalf("padded fallback must satisfy invariants: %v", errs)
	}
	if outcome.Attempts != 3 {
		t.Fatalf("attempts=%d, want 3", outcome.Attempts)
	}
}

func TestTutorialPropagatesFailure(t *testing.T) {
	ai := &fakeAI{textResults: []textResult{
		{text: ""},
		{text: ""},
		{text: ""},
	}}
	g := testGenerator(t, ai)

	_, _, err := g.Tutorial(context.Background(), "R", "S", "", nil)
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("tutorial must propagate exhaustion, got %v", err)
	}
	if ai.textCalls != 3 {
		t.Fatalf("calls=%d, want 3", ai.textCalls)
	}
}

func TestTutorialReturnsMarkdown(t *testing.T) {
	ai := &fakeAI{textResults: []textResult{{text: "# Section\n\nBody."}}}
	g := testGenerator(t, ai)

	md, outcome, err := g.Tutorial(context.Background(), "R", "S", "desc", []string{"a", "b"})
	if err != nil || md == "" {
		t.Fatalf("Tutorial: md=%q err=%v", md, err)
	}
	if outcome.Attempts != 1 {
		t.Fatalf("attempts=%d, want 1", outcome.Attempts)
	}
}

func TestQuizDefaultsToFifteenQuestions(t *testing.T) {
	ai := &fakeAI{jsonResults: []jsonResult{{obj: quizObj(15)}}}
	g := testGenerator(t, ai)

	q, _, err := g.Quiz(context.Background(), "Go", "", 0)
	if err != nil {
		t.Fatalf("Quiz: %v", err)
	}
	if len(q.Questions) != 15 {
		t.Fatalf("want 15 questions, got %d", len(q.Questions))
	}
	if !strings.Contains(ai.userPrompts[0], "TARGET_QUESTION_COUNT: 15") {
		t.Fatalf("prompt must ask for 15 questions:\n%s", ai.userPrompts[0])
	}
}

func TestQuizRejectsWrongCountThenAccepts(t *testing.T) {
	ai := &fakeAI{jsonResults: []jsonResult{
		{obj: quizObj(3)},
		{obj: quizObj(5)},
	}}
	g := testGenerator(t, ai)

	q, outcome, err := g.Quiz(context.Background(), "Go", "", 5)
	if err != nil {
		t.Fatalf("Quiz: %v", err)
	}
	if outcome.Attempts != 2 || len(q.Questions) != 5 {
		t.Fatalf("attempts=%d questions=%d", outcome.Attempts, len(q.Questions))
	}
}

func TestQuizPropagatesExhaustion(t *testing.T) {
	ai := &fakeAI{jsonResults: []jsonResult{
		{err: fmt.Errorf("boom")},
		{err: fmt.Errorf("boom")},
		{err: fmt.Errorf("boom")},
	}}
	g := testGenerator(t, ai)

	if _, _, err := g.Quiz(context.Background(), "Go", "", 5); !errors.Is(err, ErrExhausted) {
		t.Fatalf("quiz must propagate exhaustion, got %v", err)
	}
}
