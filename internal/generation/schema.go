package generation

// JSON schemas for OpenAI structured outputs, built the same way for every
// pipeline: plain nested maps, strict, no additional properties.

func stringArraySchema() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

func roadmapStructureSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":          map[string]any{"type": "string"},
			"requiredSkills": stringArraySchema(),
			"sections": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title":    map[string]any{"type": "string"},
						"progress": map[string]any{"type": "number"},
						"subtasks": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"title":     map[string]any{"type": "string"},
									"completed": map[string]any{"type": "boolean"},
								},
								"required":             []string{"title", "completed"},
								"additionalProperties": false,
							},
						},
					},
					"required":             []string{"title", "progress", "subtasks"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"title", "requiredSkills", "sections"},
		"additionalProperties": false,
	}
}

func subtaskDetailSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"description": map[string]any{"type": "string"},
			"resources": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title":       map[string]any{"type": "string"},
						"url":         map[string]any{"type": "string"},
						"type":        map[string]any{"type": "string"},
						"description": map[string]any{"type": "string"},
					},
					"required":             []string{"title", "url", "type", "description"},
					"additionalProperties": false,
				},
			},
			"practicalExercises": stringArraySchema(),
			"validationCriteria": stringArraySchema(),
			"prerequisites":      stringArraySchema(),
		},
		"required":             []string{"description", "resources", "practicalExercises", "validationCriteria", "prerequisites"},
		"additionalProperties": false,
	}
}

func quizSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question":         map[string]any{"type": "string"},
						"options":          stringArraySchema(),
						"correctIndex":     map[string]any{"type": "integer"},
						"difficulty":       map[string]any{"type": "string", "enum": []string{"easy", "medium", "hard"}},
						"timeLimitSeconds": map[string]any{"type": "integer"},
					},
					"required":             []string{"question", "options", "correctIndex", "difficulty", "timeLimitSeconds"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"questions"},
		"additionalProperties": false,
	}
}
