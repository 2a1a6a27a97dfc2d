package validation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// profileSchema only checks container shapes. Values inside are never
// range- or enum-checked: an odd value makes the criteria that read it false
// and leaves every other rule alone.
const profileSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "definitions": {
    "stringList": {
      "oneOf": [
        {"type": "array"},
        {"type": "string"}
      ]
    }
  },
  "properties": {
    "favorite_subjects": {"$ref": "#/definitions/stringList"},
    "favorites": {"$ref": "#/definitions/stringList"},
    "interests": {"$ref": "#/definitions/stringList"},
    "skills": {"type": "object"}
  }
}`

var (
	profileSchemaOnce     sync.Once
	compiledProfileSchema *gojsonschema.Schema
	profileSchemaErr      error
)

func loadProfileSchema() (*gojsonschema.Schema, error) {
	profileSchemaOnce.Do(func() {
		compiledProfileSchema, profileSchemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(profileSchema))
	})
	return compiledProfileSchema, profileSchemaErr
}

// ValidateProfile checks a student profile document. The returned error is
// reserved for schema or document loading failures.
func ValidateProfile(profile map[string]interface{}) (*ValidationResult, error) {
	schema, err := loadProfileSchema()
	if err != nil {
		return nil, fmt.Errorf("profile schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(profile))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   strings.TrimPrefix(desc.Field(), "(root)."),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return newResult(errs), nil
}
