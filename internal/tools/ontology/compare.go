package ontology

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ontolab/ontoeval/internal/report"
	"github.com/ontolab/ontoeval/internal/tools"
)

type CompareRequest struct {
	PathA string `json:"path_a"`
	PathB string `json:"path_b"`
	Force bool   `json:"force,omitempty"`
}

type CompareResponse struct {
	Content string          `json:"content"`
	Left    *EvaluateResult `json:"left"`
	Right   *EvaluateResult `json:"right"`
}

type CompareTool struct {
	evaluator *Evaluator
}

func NewCompareTool(evaluator *Evaluator) *CompareTool {
	return &CompareTool{evaluator: evaluator}
}

func (t *CompareTool) Name() string {
	return "ontology_compare"
}

func (t *CompareTool) Description() string {
	return "Evaluate two ontology documents and compare their metrics side by side"
}

func (t *CompareTool) Title() string {
	return "Compare Ontologies"
}

func (t *CompareTool) Annotations() map[string]bool {
	return tools.SafeWriteAnnotations()
}

func (t *CompareTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"path_a": {
				"type": "string",
				"description": "First ontology document"
			},
			"path_b": {
				"type": "string",
				"description": "Second ontology document"
			},
			"force": {
				"type": "boolean",
				"description": "Re-evaluate documents even if cached snapshots are current"
			}
		},
		"required": ["path_a", "path_b"]
	}`)
}

func (t *CompareTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req CompareRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	if req.PathA == "" || req.PathB == "" {
		return nil, fmt.Errorf("path_a and path_b are required")
	}

	left, err := t.evaluator.Evaluate(ctx, req.PathA, req.Force)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", req.PathA, err)
	}

	right, err := t.evaluator.Evaluate(ctx, req.PathB, req.Force)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", req.PathB, err)
	}

	content := report.Comparison(
		report.Entry{Name: left.Name, Path: left.Path, Snapshot: left.Metrics},
		report.Entry{Name: right.Name, Path: right.Path, Snapshot: right.Metrics},
	)

	return &CompareResponse{Content: content, Left: left, Right: right}, nil
}
