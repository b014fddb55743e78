package backend

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// payloadSchema validates a response payload before it is decoded. Malformed
// payloads fail fast instead of leaking zero values into the domain.
type payloadSchema struct {
	name   string
	loader gojsonschema.JSONLoader
}

func newPayloadSchema(name, schemaJSON string) *payloadSchema {
	return &payloadSchema{
		name:   name,
		loader: gojsonschema.NewStringLoader(schemaJSON),
	}
}

func (s *payloadSchema) validate(payload string) error {
	result, err := gojsonschema.Validate(s.loader, gojsonschema.NewStringLoader(payload))
	if err != nil {
		return fmt.Errorf("validate %s payload: %w", s.name, err)
	}
	if !result.Valid() {
		first := ""
		if errs := result.Errors(); len(errs) > 0 {
			first = errs[0].String()
		}
		return fmt.Errorf("invalid %s payload: %s", s.name, first)
	}
	return nil
}

var startSchema = newPayloadSchema("start", `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["instance_id"],
  "properties": {
    "instance_id": { "type": "string", "minLength": 1 }
  }
}`)

var detailSchema = newPayloadSchema("detail", `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["instance"],
  "properties": {
    "instance": {
      "type": "object",
      "required": ["id", "template_id", "project_id"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "template_id": { "type": "string", "minLength": 1 },
        "project_id": { "type": "string", "minLength": 1 }
      }
    },
    "history": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "status", "created_at"],
        "properties": {
          "id": { "type": "string" },
          "status": { "type": "string" },
          "created_at": { "type": "string" }
        }
      }
    },
    "discussions": { "type": "array" },
    "attachments": { "type": "array" }
  }
}`)

var revisionListSchema = newPayloadSchema("revision list", `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["revisions"],
  "properties": {
    "revisions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "instance_id", "feedback", "created_at"],
        "properties": {
          "id": { "type": "string", "minLength": 1 },
          "instance_id": { "type": "string" },
          "feedback": { "type": "string" },
          "created_at": { "type": "string" }
        }
      }
    }
  }
}`)

var taskListSchema = newPayloadSchema("task list", `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["tasks"],
  "properties": {
    "tasks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "done"],
        "properties": {
          "id": { "type": "string", "minLength": 1 },
          "done": { "type": "boolean" },
          "priority": { "type": "string" }
        }
      }
    }
  }
}`)

var discussionSchema = newPayloadSchema("discussion", `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id", "instance_id", "text"],
  "properties": {
    "id": { "type": "string", "minLength": 1 },
    "instance_id": { "type": "string" },
    "text": { "type": "string" }
  }
}`)

var attachmentSchema = newPayloadSchema("attachment", `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id", "instance_id", "filename"],
  "properties": {
    "id": { "type": "string", "minLength": 1 },
    "instance_id": { "type": "string" },
    "filename": { "type": "string" }
  }
}`)

var revisionCreateSchema = newPayloadSchema("revision create", `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["revision_id"],
  "properties": {
    "revision_id": { "type": "string", "minLength": 1 }
  }
}`)
