package generation

import "fmt"

// fallbackSectionTitles is the topic-agnostic template substituted when
// structure generation exhausts its attempts.
var fallbackSectionTitles = []string{
	"Foundation",
	"Intermediate",
	"Advanced",
	"Specialization",
}

var fallbackSubtaskTitles = map[string][]string{
	"Foundation": {
		"Learn the core concepts and terminology",
		"Set up your learning environment and tools",
		"Complete an introductory project",
	},
	"Intermediate": {
		"Deepen your understanding of key techniques",
		"Build a small end-to-end project",
		"Study common patterns and best practices",
	},
	"Advanced": {
		"Tackle advanced topics and edge cases",
		"Contribute to or review real-world work",
		"Benchmark and refine your approach",
	},
	"Specialization": {
		"Choose a specialization area",
		"Complete a capstone project",
		"Prepare a portfolio and practice interviews",
	},
}

// FallbackStructure returns the hardcoded four-section roadmap with Title set
// to the requested topic. Always structurally valid.
func FallbackStructure(topic string) RoadmapStructure {
	sections := make([]Section, 0, len(fallbackSectionTitles))
	for _, title := range fallbackSectionTitles {
		subs := fallbackSubtaskTitles[title]
		subtasks := make([]Subtask, 0, len(subs))
		for _, st := range subs {
			subtasks = append(subtasks, Subtask{Title: st})
		}
		sections = append(sections, Section{Title: title, Subtasks: subtasks})
	}
	return RoadmapStructure{
		Title:          topic,
		RequiredSkills: []string{},
		Sections:       sections,
	}
}

// PadDetail fills a structurally deficient detail payload with deterministic
// placeholder content until every minimum holds. The caller marks the result
// degraded instead of failing the user-facing request.
func PadDetail(d SubtaskDetail, subtaskTitle string) SubtaskDetail {
	for len(d.Description) < minDescriptionLen {
		if d.Description != "" {
			d.Description += " "
		}
		d.Description += fmt.Sprintf("Work through %q step by step, taking notes on what you learn and revisiting areas that feel unclear.", subtaskTitle)
	}
	for i := len(d.Resources); i < minResources; i++ {
		d.Resources = append(d.Resources, Resource{
			Title:       fmt.Sprintf("Recommended reading %d for %s", i+1, subtaskTitle),
			URL:         "https://www.google.com/search?q=" + subtaskTitle,
			Type:        "article",
			Description: "A starting point for further study on this subtask.",
		})
	}
	for i := len(d.PracticalExercises); i < minExercises; i++ {
		d.PracticalExercises = append(d.PracticalExercises,
			fmt.Sprintf("Exercise %d: apply %s in a small, self-contained practice task.", i+1, subtaskTitle))
	}
	for i := len(d.ValidationCriteria); i < minCriteria; i++ {
		d.ValidationCriteria = append(d.ValidationCriteria,
			fmt.Sprintf("You can explain and demonstrate aspect %d of %s without reference material.", i+1, subtaskTitle))
	}
	if d.Prerequisites == nil {
		d.Prerequisites = []string{}
	}
	return d
}
