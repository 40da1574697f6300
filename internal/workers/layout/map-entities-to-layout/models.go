package mapentitiestolayout

import "visual-mapper/internal/mapping/pipeline"

// Input is read from the process variables.
type Input struct {
	SessionId  string   `json:"sessionId"`
	Entities   []string `json:"entities"`
	Keyphrases []string `json:"keyphrases"`
	Template   string   `json:"template,omitempty"`
}

// Output is merged back into the process variables.
type Output struct {
	Mapping          pipeline.Response `json:"mapping"`
	SelectedTemplate string            `json:"selectedTemplate"`
	ComponentCount   int               `json:"componentCount"`
	WarningCount     int               `json:"warningCount"`
}
