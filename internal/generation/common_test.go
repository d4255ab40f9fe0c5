package generation

import (
	"context"
	"fmt"
	"testing"

	"github.com/pathwise/pathwise-backend/internal/pkg/logger"
)

type jsonResult struct {
	obj map[string]any
	err error
}

type textResult struct {
	text string
	err  error
}

// fakeAI replays scripted results per call, recording the prompts it saw.
type fakeAI struct {
	jsonResults []jsonResult
	textResults []textResult
	jsonCalls   int
	textCalls   int
	userPrompts []string
}

func (f *fakeAI) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	f.userPrompts = append(f.userPrompts, user)
	i := f.jsonCalls
	f.jsonCalls++
	if i >= len(f.jsonResults) {
		return nil, fmt.Errorf("fakeAI: no scripted result for call %d", i+1)
	}
	return f.jsonResults[i].obj, f.jsonResults[i].err
}

func (f *fakeAI) GenerateText(ctx context.Context, system, user string) (string, error) {
	f.userPrompts = append(f.userPrompts, user)
	i := f.textCalls
	f.textCalls++
	if i >= len(f.textResults) {
		return "", fmt.Errorf("fakeAI: no scripted result for call %d", i+1)
	}
	return f.textResults[i].text, f.textResults[i].err
}

func testGenerator(t *testing.T, ai *fakeAI) *Generator {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewGenerator(log, ai)
}

// structureObj builds a raw model payload with the given section count, each
// section carrying subtasksPerSection subtasks.
func structureObj(title string, sections, subtasksPerSection int) map[string]any {
	secs := make([]any, 0, sections)
	for i := 0; i < sections; i++ {
		subs := make([]any, 0, subtasksPerSection)
		for j := 0; j < subtasksPerSection; j++ {
			subs = append(subs, map[string]any{
				"title":     fmt.Sprintf("Subtask %d.%d", i+1, j+1),
				"completed": false,
			})
		}
		secs = append(secs, map[string]any{
			"title":    fmt.Sprintf("Section %d", i+1),
			"progress": 0,
			"subtasks": subs,
		})
	}
	return map[string]any{
		"title":          title,
		"requiredSkills": []any{"skill-a", "skill-b"},
		"sections":       secs,
	}
}

func detailObj(descLen, resources, exercises, criteria int) map[string]any {
	desc := make([]byte, descLen)
	for i := range desc {
		desc[i] = 'd'
	}
	res := make([]any, 0, resources)
	for i := 0; i < resources; i++ {
		res = append(res, map[string]any{
			"title":       fmt.Sprintf("Resource %d", i+1),
			"url":         "https://example.com",
			"type":        "article",
			"description": "desc",
		})
	}
	ex := make([]any, 0, exercises)
	for i := 0; i < exercises; i++ {
		ex = append(ex, fmt.Sprintf("Exercise %d", i+1))
	}
	cr := make([]any, 0, criteria)
	for i := 0; i < criteria; i++ {
		cr = append(cr, fmt.Sprintf("Criterion %d", i+1))
	}
	return map[string]any{
		"description":        string(desc),
		"resources":          res,
		"practicalExercises": ex,
		"validationCriteria": cr,
		"prerequisites":      []any{},
	}
}

func quizObj(questions int) map[string]any {
	qs := make([]any, 0, questions)
	for i := 0; i < questions; i++ {
		qs = append(qs, map[string]any{
			"question":         fmt.Sprintf("Question %d?", i+1),
			"options":          []any{"a", "b", "c", "d"},
			"correctIndex":     i % 4,
			"difficulty":       "medium",
			"timeLimitSeconds": 60,
		})
	}
	return map[string]any{"questions": qs}
}
