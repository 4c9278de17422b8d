package bank

// optionSchema is shared by common and role question options.
var optionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"text":    map[string]any{"type": "string"},
		"correct": map[string]any{"type": "boolean"},
	},
	"required": []any{"text"},
}

var idSchema = map[string]any{
	"type": []any{"string", "integer"},
}

// CommonSchema is the structural schema of the common questions file.
var CommonSchema = &Schema{
	Name: "common-bank",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tests": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"test_code": idSchema,
						"test_name": map[string]any{"type": []any{"string", "null"}},
						"questions": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"type":        map[string]any{"type": "string"},
									"question":    map[string]any{"type": []any{"string", "null"}},
									"correct":     map[string]any{"type": "boolean"},
									"explanation": map[string]any{"type": []any{"string", "null"}},
									"options": map[string]any{
										"type":  "array",
										"items": optionSchema,
									},
								},
								"required": []any{"type"},
							},
						},
					},
					"required": []any{"test_code", "questions"},
				},
			},
		},
		"required": []any{"tests"},
	},
}

// RoleSchema is the structural schema of a role questions file.
var RoleSchema = &Schema{
	Name: "role-bank",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":          idSchema,
						"question":    map[string]any{"type": []any{"string", "null"}},
						"topic":       map[string]any{"type": []any{"string", "null"}},
						"explanation": map[string]any{"type": []any{"string", "null"}},
						"options": map[string]any{
							"type":  "array",
							"items": optionSchema,
						},
						"pairs": map[string]any{
							"type":     "array",
							"minItems": 2,
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"left":  map[string]any{"type": "string", "minLength": 1},
									"right": map[string]any{"type": "string", "minLength": 1},
								},
								"required": []any{"left", "right"},
							},
						},
					},
				},
			},
		},
		"required": []any{"questions"},
	},
}
