package api

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strings"
	"todo-api/errors"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const maxBodySize = 1024 * 1024 // 1 MB

// Only the type shape of each field is checked. Unknown fields pass through.
const createTodoSchema = `{
  "type": "object",
  "required": ["text"],
  "properties": {
    "text": {"type": "string"}
  }
}`

const updateTodoSchema = `{
  "type": "object",
  "properties": {
    "id":       {"type": "integer"},
    "text":     {"type": "string"},
    "complete": {"type": "boolean"}
  }
}`

var (
	createTodo = jsonschema.MustCompileString("create-todo.json", createTodoSchema)
	updateTodo = jsonschema.MustCompileString("update-todo.json", updateTodoSchema)
)

// decodeBody reads a size-limited JSON body, checks it against schema and
// decodes it into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, schema *jsonschema.Schema, dst any) *errors.APIError {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.NewValidationError("request body too large", map[string]any{
				"max_size_bytes": maxBodySize,
			})
		}
		return errors.NewValidationError("failed to read request body", map[string]any{
			"error": err.Error(),
		})
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return errors.NewValidationError("invalid JSON payload", map[string]any{
			"error": err.Error(),
		})
	}

	if err := schema.Validate(doc); err != nil {
		return errors.NewValidationError("request body has the wrong shape", map[string]any{
			"violations": schemaViolations(err),
		})
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return errors.NewValidationError("invalid JSON payload", map[string]any{
			"error": err.Error(),
		})
	}
	return nil
}

// schemaViolations flattens a validation error into "location: message" lines.
func schemaViolations(err error) []string {
	var ve *jsonschema.ValidationError
	if !stderrors.As(err, &ve) {
		return []string{err.Error()}
	}

	var out []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			out = append(out, loc+": "+strings.TrimSpace(e.Message))
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(ve)
	return out
}
