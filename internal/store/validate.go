package store

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/tasker-go/internal/task"
	"github.com/nibzard/tasker-go/internal/utils"
)

//go:embed tasks.schema.json
var schemaJSON string

const schemaURL = "https://github.com/nibzard/tasker-go/tasks.schema.json"

// Schema returns the embedded JSON Schema of the tasks file.
func Schema() string {
	return schemaJSON
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dotted path to the error location, e.g. tasks[2].priority
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath points to a schema file to use instead of the embedded one.
	SchemaPath string
	// SkipSchema disables JSON Schema validation and runs only the minimal
	// checks. Legacy French-keyed files pass only in this mode.
	SkipSchema bool
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool
}

func (r *ValidationResult) fail(path string, err error) {
	r.Valid = false
	r.Errors = append(r.Errors, &ValidationError{Path: path, Err: err})
}

// ValidateFile checks the tasks file at path. It returns an error only when
// the file cannot be read; content problems are reported in the result.
func ValidateFile(path string, opts ValidationOptions) (*ValidationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tasks file: %w", err)
	}

	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		result.fail("", fmt.Errorf("parse tasks file: %w", err))
		return result, nil
	}

	if !opts.SkipSchema {
		validateWithSchema(result, doc, opts.SchemaPath)
	}
	validateMinimal(result, data)
	return result, nil
}

func compileSchema(schemaPath string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true

	if schemaPath != "" {
		absPath, err := filepath.Abs(schemaPath)
		if err != nil {
			return nil, fmt.Errorf("invalid schema path: %w", err)
		}
		return compiler.Compile(absPath)
	}

	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("load embedded schema: %w", err)
	}
	return compiler.Compile(schemaURL)
}

func validateWithSchema(result *ValidationResult, doc interface{}, schemaPath string) {
	schema, err := compileSchema(schemaPath)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("schema unavailable, using minimal checks: %v", err))
		return
	}
	result.UsedSchema = true

	if err := schema.Validate(doc); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}
}

func appendSchemaErrors(result *ValidationResult, err error) {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// rawTask mirrors the task keys with loose types so that every task can be
// checked even when some of them are broken.
type rawTask struct {
	ID       *int    `json:"id"`
	Title    *string `json:"title"`
	Titre    *string `json:"titre"`
	Priority *int    `json:"priority"`
	Priorite *int    `json:"priorite"`
	Status   *string `json:"status"`
	Statut   *string `json:"statut"`
	DueDate  *string `json:"dueDate"`
	Echeance *string `json:"date_echeance"`
}

type rawFile struct {
	Tasks      []json.RawMessage `json:"tasks"`
	Taches     []json.RawMessage `json:"taches"`
	NextID     *int              `json:"nextId"`
	ProchainID *int              `json:"prochain_id"`
}

// validateMinimal performs the checks Load relies on, without JSON Schema.
func validateMinimal(result *ValidationResult, data []byte) {
	var f rawFile
	if err := json.Unmarshal(data, &f); err != nil {
		result.fail("", fmt.Errorf("parse tasks file: %w", err))
		return
	}

	tasks := f.Tasks
	if tasks == nil {
		tasks = f.Taches
	}
	if tasks == nil {
		result.fail("tasks", errors.New("missing required field"))
		return
	}
	nextID := f.NextID
	if nextID == nil {
		nextID = f.ProchainID
	}

	seen := make(map[int]int, len(tasks))
	maxID := 0
	for i, raw := range tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		var rt rawTask
		if err := json.Unmarshal(raw, &rt); err != nil {
			result.fail(path, err)
			continue
		}
		if rt.ID == nil {
			result.fail(path+".id", errors.New("missing required field"))
		} else if *rt.ID < 1 {
			result.fail(path+".id", fmt.Errorf("must be positive, got %d", *rt.ID))
		} else {
			if prev, dup := seen[*rt.ID]; dup {
				result.fail(path+".id", fmt.Errorf("duplicate id %d (also tasks[%d])", *rt.ID, prev))
			}
			seen[*rt.ID] = i
			if *rt.ID > maxID {
				maxID = *rt.ID
			}
		}

		title := rt.Title
		if title == nil {
			title = rt.Titre
		}
		if title == nil || strings.TrimSpace(*title) == "" {
			result.fail(path+".title", errors.New("missing required field"))
		}

		priority := rt.Priority
		if priority == nil {
			priority = rt.Priorite
		}
		if priority != nil && !task.Priority(*priority).Valid() {
			result.fail(path+".priority", fmt.Errorf("must be between 1 and 4, got %d", *priority))
		}

		status := rt.Status
		if status == nil {
			status = rt.Statut
		}
		if status != nil {
			if _, err := task.ParseStatus(*status); err != nil {
				result.fail(path+".status", err)
			}
		}

		due := rt.DueDate
		if due == nil {
			due = rt.Echeance
		}
		if due != nil && *due != "" {
			if _, err := time.Parse(task.DateLayout, *due); err != nil {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("%s.dueDate: %q is not YYYY-MM-DD and is never overdue", path, *due))
			}
		}
	}

	if nextID != nil && *nextID <= maxID {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("nextId: %d is not above the highest id %d and will be raised to %d on load", *nextID, maxID, maxID+1))
	}
}
