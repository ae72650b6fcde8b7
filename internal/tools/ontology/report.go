package ontology

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ontolab/ontoeval/internal/report"
	"github.com/ontolab/ontoeval/internal/tools"
)

type ReportRequest struct {
	Paths  []string `json:"paths"`
	Format string   `json:"format,omitempty"`
	Force  bool     `json:"force,omitempty"`
}

type ReportResponse struct {
	Format  string `json:"format"`
	Content string `json:"content"`
}

type ReportTool struct {
	evaluator *Evaluator
}

func NewReportTool(evaluator *Evaluator) *ReportTool {
	return &ReportTool{evaluator: evaluator}
}

func (t *ReportTool) Name() string {
	return "ontology_report"
}

func (t *ReportTool) Description() string {
	return "Render a metrics report for one or more ontology documents"
}

func (t *ReportTool) Title() string {
	return "Ontology Report"
}

func (t *ReportTool) Annotations() map[string]bool {
	return tools.SafeWriteAnnotations()
}

func (t *ReportTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"paths": {
				"type": "array",
				"items": {"type": "string"},
				"description": "Ontology documents to include, in order"
			},
			"format": {
				"type": "string",
				"description": "Output format",
				"enum": ["markdown", "json"]
			},
			"force": {
				"type": "boolean",
				"description": "Re-evaluate documents even if cached snapshots are current"
			}
		},
		"required": ["paths"]
	}`)
}

func (t *ReportTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req ReportRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	if len(req.Paths) == 0 {
		return nil, fmt.Errorf("paths is required")
	}
	if req.Format == "" {
		req.Format = "markdown"
	}

	entries := make([]report.Entry, 0, len(req.Paths))
	for _, path := range req.Paths {
		result, err := t.evaluator.Evaluate(ctx, path, req.Force)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s: %w", path, err)
		}
		entries = append(entries, report.Entry{
			Name:     result.Name,
			Path:     result.Path,
			Snapshot: result.Metrics,
		})
	}

	switch req.Format {
	case "markdown":
		return &ReportResponse{Format: "markdown", Content: report.Markdown(entries)}, nil
	case "json":
		data, err := report.JSON(entries)
		if err != nil {
			return nil, err
		}
		return &ReportResponse{Format: "json", Content: string(data)}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", req.Format)
	}
}
