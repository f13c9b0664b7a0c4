package progress

// artifactSchema validates an export artifact before import. Documents
// that fail validation are ignored rather than partially applied.
var artifactSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []any{"solved", "notes", "lastActive", "streak", "lastSolvedDate"},
	"properties": map[string]any{
		"solved": map[string]any{
			"type":                 "object",
			"additionalProperties": map[string]any{"type": "boolean"},
		},
		"notes": map[string]any{
			"type": "object",
			"additionalProperties": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []any{"intuition", "code", "updatedAt"},
				"properties": map[string]any{
					"intuition": map[string]any{"type": "string"},
					"code":      map[string]any{"type": "string"},
					"updatedAt": map[string]any{"type": "integer"},
				},
			},
		},
		"lastActive": map[string]any{
			"type":                 "object",
			"additionalProperties": map[string]any{"type": "integer"},
		},
		"streak": map[string]any{
			"type":    "integer",
			"minimum": 0,
		},
		"lastSolvedDate": map[string]any{
			"type":    "string",
			"pattern": `^(\d{4}-\d{2}-\d{2})?$`,
		},
	},
}
