package resume

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// contentSchema gates acceptance of generated document content. The nested
// structure mirrors types.ResumeContent exactly.
const contentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["title", "date", "name", "summary", "skills", "workHistories", "selfPR"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "date": {"type": "string", "minLength": 1},
    "name": {"type": "string", "minLength": 1},
    "summary": {"type": "string", "minLength": 1},
    "selfPR": {"type": "string"},
    "skills": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["category", "items"],
        "properties": {
          "category": {"type": "string", "minLength": 1},
          "items": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "workHistories": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["companyName", "period", "projects"],
        "properties": {
          "companyName": {"type": "string", "minLength": 1},
          "period": {"type": "string"},
          "employmentType": {"type": "string"},
          "position": {"type": "string"},
          "department": {"type": "string"},
          "companyDescription": {"type": "string"},
          "projects": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["name", "achievements", "technologies"],
              "properties": {
                "name": {"type": "string", "minLength": 1},
                "period": {"type": "string"},
                "role": {"type": "string"},
                "teamSize": {"type": "string"},
                "description": {"type": "string"},
                "achievements": {"type": "array", "items": {"type": "string"}},
                "technologies": {"type": "array", "items": {"type": "string"}}
              }
            }
          }
        }
      }
    }
  }
}`

// validateContent checks raw JSON against the content schema.
func validateContent(raw string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(contentSchema),
		gojsonschema.NewStringLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed to run: %w", err)
	}
	if !result.Valid() {
		msg := ""
		for i, e := range result.Errors() {
			if i > 0 {
				msg += "; "
			}
			msg += e.Field() + ": " + e.Description()
		}
		return fmt.Errorf("model output failed validation: %s", msg)
	}
	return nil
}
