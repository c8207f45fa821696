package digest

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// resultSchema gates acceptance of the model's reply. The model output is
// untrusted third-party input: every field, enum value, and length bound is
// checked before anything is persisted.
const resultSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["dailySummary", "achievementCandidates"],
  "properties": {
    "dailySummary": {
      "type": "string",
      "minLength": 1
    },
    "achievementCandidates": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "description", "category", "technologies", "significance"],
        "properties": {
          "title": {
            "type": "string",
            "minLength": 1,
            "maxLength": 20
          },
          "description": {
            "type": "string",
            "minLength": 1
          },
          "category": {
            "type": "string",
            "enum": ["development", "review", "bugfix", "design", "documentation", "communication", "leadership"]
          },
          "technologies": {
            "type": "array",
            "items": {"type": "string"}
          },
          "significance": {
            "type": "string",
            "enum": ["high", "medium", "low"]
          }
        }
      }
    }
  }
}`

// validateResult checks raw JSON against the result schema.
func validateResult(raw string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(resultSchema),
		gojsonschema.NewStringLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed to run: %w", err)
	}
	if !result.Valid() {
		return fmt.Errorf("model output failed validation: %s", formatSchemaErrors(result.Errors()))
	}
	return nil
}

func formatSchemaErrors(errs []gojsonschema.ResultError) string {
	if len(errs) == 0 {
		return "unknown error"
	}
	msg := ""
	for i, e := range errs {
		if i > 0 {
			msg += "; "
		}
		msg += e.Field() + ": " + e.Description()
	}
	return msg
}
