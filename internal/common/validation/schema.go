package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var (
	// ErrInvalid reports a document that does not satisfy its schema.
	ErrInvalid = errors.New("document does not match schema")
	// ErrUnreadable reports a schema file that could not be read or compiled.
	ErrUnreadable = errors.New("schema unreadable")
)

var componentNamePattern = regexp.MustCompile(`^ui\.[a-z][a-zA-Z]*$`)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// SchemaStore holds compiled JSON schemas keyed by name. It is read-only after
// loading and safe for concurrent use.
type SchemaStore struct {
	schemas map[string]*gojsonschema.Schema
	broken  map[string]error
}

// LoadSchemaStore compiles every <name>.json file in dir. A missing directory
// yields an empty store. Files that cannot be read or compiled are remembered
// as broken rather than failing the load.
func LoadSchemaStore(dir string) *SchemaStore {
	store := &SchemaStore{
		schemas: map[string]*gojsonschema.Schema{},
		broken:  map[string]error{},
	}
	if dir == "" {
		return store
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return store
	}
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".json")
		data, err := os.ReadFile(path)
		if err != nil {
			store.broken[name] = fmt.Errorf("%w: %v", ErrUnreadable, err)
			continue
		}
		store.add(name, data)
	}
	return store
}

// NewSchemaStore compiles schemas given as raw JSON documents.
func NewSchemaStore(raw map[string]string) *SchemaStore {
	store := &SchemaStore{
		schemas: make(map[string]*gojsonschema.Schema, len(raw)),
		broken:  map[string]error{},
	}
	for name, doc := range raw {
		store.add(name, []byte(doc))
	}
	return store
}

func (s *SchemaStore) add(name string, data []byte) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		s.broken[name] = fmt.Errorf("%w: %v", ErrUnreadable, err)
		return
	}
	s.schemas[name] = schema
}

// Names lists the usable schemas in sorted order.
func (s *SchemaStore) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.schemas))
	for name := range s.schemas {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Broken returns the load error of every schema that could not be used.
func (s *SchemaStore) Broken() map[string]error {
	out := make(map[string]error, len(s.broken))
	for k, v := range s.broken {
		out[k] = v
	}
	return out
}

// Check validates doc against the named schema. found is false when neither a
// usable nor a broken schema exists under that name.
func (s *SchemaStore) Check(name string, doc interface{}) (result *ValidationResult, found bool) {
	if s == nil {
		return &ValidationResult{Valid: true}, false
	}
	if err, ok := s.broken[name]; ok {
		return &ValidationResult{Errors: []ValidationError{{
			Field:   "(root)",
			Message: err.Error(),
			Code:    "SCHEMA_UNREADABLE",
		}}}, true
	}
	schema, ok := s.schemas[name]
	if !ok {
		return &ValidationResult{Valid: true}, false
	}

	res, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &ValidationResult{Errors: []ValidationError{{
			Field:   "(root)",
			Message: err.Error(),
			Code:    "DOCUMENT_UNREADABLE",
		}}}, true
	}

	out := &ValidationResult{Valid: res.Valid()}
	for _, desc := range res.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}
	return out, true
}

// Validate is Check folded into an error. Broken schemas wrap ErrUnreadable
// and mismatches wrap ErrInvalid.
func (s *SchemaStore) Validate(name string, doc interface{}) (found bool, err error) {
	if s == nil {
		return false, nil
	}
	if brokenErr, ok := s.broken[name]; ok {
		return true, fmt.Errorf("%s: %w", name, brokenErr)
	}
	result, found := s.Check(name, doc)
	if !found || result.Valid {
		return found, nil
	}
	return true, fmt.Errorf("%s: %w: %s", name, ErrInvalid, strings.Join(result.GetErrorMessages(), "; "))
}

// ValidateComponentName checks the "ui.camelCase" component naming convention.
func ValidateComponentName(name string) error {
	if !componentNamePattern.MatchString(name) {
		return fmt.Errorf("component name must follow format: ui.camelCase (e.g., ui.productGrid), got %q", name)
	}
	return nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}
