package generation

import (
	"fmt"
	"strings"
)

// Validators return a list of named invariant violations. An empty list means
// the payload is structurally acceptable. Names are specific on purpose: they
// are logged, recorded on the generation_run row, and fed back into the next
// attempt's prompt.

func validateStructure(s RoadmapStructure) []string {
	var errs []string
	if strings.TrimSpace(s.Title) == "" {
		errs = append(errs, "title_empty")
	}
	if n := len(s.Sections); n < minSections || n > maxSections {
		errs = append(errs, fmt.Sprintf("section_count_out_of_range: got %d, want %d..%d", n, minSections, maxSections))
	}
	for i, sec := range s.Sections {
		if strings.TrimSpace(sec.Title) == "" {
			errs = append(errs, fmt.Sprintf("section[%d].title_empty", i))
		}
		if n := len(sec.Subtasks); n < minSubtasks {
			errs = append(errs, fmt.Sprintf("section[%d].subtask_count_below_min: got %d, want >=%d", i, n, minSubtasks))
		}
		for j, st := range sec.Subtasks {
			if strings.TrimSpace(st.Title) == "" {
				errs = append(errs, fmt.Sprintf("section[%d].subtask[%d].title_empty", i, j))
			}
		}
	}
	return errs
}

func validateDetail(d SubtaskDetail) []string {
	var errs []string
	if n := len(d.Description); n < minDescriptionLen {
		errs = append(errs, fmt.Sprintf("description_too_short: got %d chars, want >=%d", n, minDescriptionLen))
	}
	if n := len(d.Resources); n < minResources {
		errs = append(errs, fmt.Sprintf("resource_count_below_min: got %d, want >=%d", n, minResources))
	}
	for i, res := range d.Resources {
		if strings.TrimSpace(res.Title) == "" || strings.TrimSpace(res.URL) == "" {
			errs = append(errs, fmt.Sprintf("resource[%d].incomplete", i))
		}
	}
	if n := len(d.PracticalExercises); n < minExercises {
		errs = append(errs, fmt.Sprintf("exercise_count_below_min: got %d, want >=%d", n, minExercises))
	}
	if n := len(d.ValidationCriteria); n < minCriteria {
		errs = append(errs, fmt.Sprintf("criteria_count_below_min: got %d, want >=%d", n, minCriteria))
	}
	return errs
}

func validQuizDifficulty(d string) bool {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "easy", "medium", "hard":
		return true
	}
	return false
}

func validateQuiz(q Quiz, wantCount int) []string {
	var errs []string
	if n := len(q.Questions); n != wantCount {
		errs = append(errs, fmt.Sprintf("question_count_mismatch: got %d, want %d", n, wantCount))
	}
	for i, qq := range q.Questions {
		if strings.TrimSpace(qq.Question) == "" {
			errs = append(errs, fmt.Sprintf("question[%d].text_empty", i))
		}
		if len(qq.Options) != 4 {
			errs = append(errs, fmt.Sprintf("question[%d].option_count: got %d, want 4", i, len(qq.Options)))
		}
		if qq.CorrectIndex < 0 || qq.CorrectIndex >= len(qq.Options) {
			errs = append(errs, fmt.Sprintf("question[%d].correct_index_out_of_range: got %d", i, qq.CorrectIndex))
		}
		if !validQuizDifficulty(qq.Difficulty) {
			errs = append(errs, fmt.Sprintf("question[%d].difficulty_invalid: %q", i, qq.Difficulty))
		}
		if qq.TimeLimitSeconds <= 0 {
			errs = append(errs, fmt.Sprintf("question[%d].time_limit_nonpositive: %d", i, qq.TimeLimitSeconds))
		}
	}
	return errs
}
