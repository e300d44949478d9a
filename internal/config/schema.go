package config

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ConfigSchema validates the raw configuration document before it is
// unmarshaled, so typos surface as schema errors rather than silently
// ignored keys.
const ConfigSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "server": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "host": {"type": "string"},
        "port": {"type": "integer", "minimum": 1, "maximum": 65535},
        "rate_limit_per_minute": {"type": "integer", "minimum": 0}
      }
    },
    "aws": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "region": {"type": "string", "minLength": 1}
      }
    },
    "secrets": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "path": {"type": "string"},
        "watch": {"type": "boolean"}
      }
    },
    "sessions": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "idle_ttl_minutes": {"type": "integer", "minimum": 1},
        "reap_schedule": {"type": "string", "minLength": 1}
      }
    },
    "logging": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "level": {"type": "string", "enum": ["debug", "info", "warn", "error"]},
        "file": {"type": "string"},
        "console": {"type": "boolean"},
        "pretty": {"type": "boolean"},
        "redaction": {"type": "boolean"}
      }
    },
    "data_dir": {"type": "string"}
  }
}`

// ValidateDocument checks a raw JSON config document against the schema.
func ValidateDocument(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(ConfigSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate config: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
}
