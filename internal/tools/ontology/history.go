package ontology

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/ontolab/ontoeval/internal/index"
	"github.com/ontolab/ontoeval/internal/tools"
)

type HistoryRequest struct {
	Path  string `json:"path"`
	Limit int    `json:"limit,omitempty"`
}

type HistoryResponse struct {
	Path      string                  `json:"path"`
	Snapshots []*index.SnapshotRecord `json:"snapshots"`
	Count     int                     `json:"count"`
}

type HistoryTool struct {
	store *index.Store
}

func NewHistoryTool(store *index.Store) *HistoryTool {
	return &HistoryTool{store: store}
}

func (t *HistoryTool) Name() string {
	return "snapshot_history"
}

func (t *HistoryTool) Description() string {
	return "List past metric snapshots for an ontology document, newest first"
}

func (t *HistoryTool) Title() string {
	return "Snapshot History"
}

func (t *HistoryTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *HistoryTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"path": {
				"type": "string",
				"description": "Path to the ontology document"
			},
			"limit": {
				"type": "integer",
				"description": "Maximum number of snapshots (default: 20)"
			}
		},
		"required": ["path"]
	}`)
}

func (t *HistoryTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req HistoryRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	if req.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	abs, err := filepath.Abs(req.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	ont, err := t.store.GetOntology(abs)
	if err != nil {
		return nil, err
	}
	if ont == nil {
		return nil, fmt.Errorf("ontology not tracked: %s", abs)
	}

	snapshots, err := t.store.History(ont.ID, req.Limit)
	if err != nil {
		return nil, err
	}

	return &HistoryResponse{Path: abs, Snapshots: snapshots, Count: len(snapshots)}, nil
}
