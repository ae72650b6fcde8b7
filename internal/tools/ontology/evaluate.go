package ontology

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ontolab/ontoeval/internal/tools"
)

type EvaluateRequest struct {
	Path  string `json:"path"`
	Force bool   `json:"force,omitempty"`
}

type EvaluateTool struct {
	evaluator *Evaluator
}

func NewEvaluateTool(evaluator *Evaluator) *EvaluateTool {
	return &EvaluateTool{evaluator: evaluator}
}

func (t *EvaluateTool) Name() string {
	return "ontology_evaluate"
}

func (t *EvaluateTool) Description() string {
	return "Evaluate an ontology document and compute its quality metrics"
}

func (t *EvaluateTool) Title() string {
	return "Evaluate Ontology"
}

func (t *EvaluateTool) Annotations() map[string]bool {
	return tools.SafeWriteAnnotations()
}

func (t *EvaluateTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"path": {
				"type": "string",
				"description": "Path to the ontology document (.ttl, .nt, .rdf, .owl)"
			},
			"force": {
				"type": "boolean",
				"description": "Re-evaluate even if the cached snapshot is current"
			}
		},
		"required": ["path"]
	}`)
}

func (t *EvaluateTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req EvaluateRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	if req.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	return t.evaluator.Evaluate(ctx, req.Path, req.Force)
}
