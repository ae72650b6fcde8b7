package ontology

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ontolab/ontoeval/internal/index"
	"github.com/ontolab/ontoeval/internal/tools"
)

type ListRequest struct {
	Limit int `json:"limit,omitempty"`
}

type ListResponse struct {
	Ontologies []*index.Ontology `json:"ontologies"`
	Count      int               `json:"count"`
}

type ListTool struct {
	store *index.Store
}

func NewListTool(store *index.Store) *ListTool {
	return &ListTool{store: store}
}

func (t *ListTool) Name() string {
	return "ontology_list"
}

func (t *ListTool) Description() string {
	return "List tracked ontology documents and their evaluation status"
}

func (t *ListTool) Title() string {
	return "List Ontologies"
}

func (t *ListTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *ListTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"limit": {
				"type": "integer",
				"description": "Maximum number of entries (0 = all)"
			}
		},
		"required": []
	}`)
}

func (t *ListTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req ListRequest
	if len(input) > 0 {
		if err := json.Unmarshal(input, &req); err != nil {
			return nil, fmt.Errorf("invalid request: %w", err)
		}
	}

	onts, err := t.store.ListOntologies(req.Limit)
	if err != nil {
		return nil, err
	}

	return &ListResponse{Ontologies: onts, Count: len(onts)}, nil
}
