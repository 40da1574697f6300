// pkg/registry/schema.go
package registry

// ComponentRegistry is the exported view of the component catalog: every
// component type with its section, vocabulary terms and example props.
type ComponentRegistry struct {
	Version           string      `json:"version"`
	LastUpdated       string      `json:"lastUpdated"`
	VocabularyVersion string      `json:"vocabularyVersion"`
	Components        []Component `json:"components"`
	Templates         []string    `json:"templates,omitempty"`
}

type Component struct {
	Name         string                 `json:"name"`
	Category     string                 `json:"category"`
	Section      string                 `json:"section"`
	Description  string                 `json:"description,omitempty"`
	Terms        []string               `json:"terms"`
	HasSchema    bool                   `json:"hasSchema"`
	ExampleProps map[string]interface{} `json:"exampleProps,omitempty"`
}
