package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ontolab/ontoeval/pkg/version"
)

type HealthTool struct {
	startedAt time.Time
	stats     func() (interface{}, error)
}

func NewHealthTool() *HealthTool {
	return &HealthTool{startedAt: time.Now()}
}

// NewHealthToolWithStats reports evaluation cache statistics alongside the
// process health fields.
func NewHealthToolWithStats(stats func() (interface{}, error)) *HealthTool {
	t := NewHealthTool()
	t.stats = stats
	return t
}

func (t *HealthTool) Name() string {
	return "health"
}

func (t *HealthTool) Description() string {
	return "Check daemon health status"
}

func (t *HealthTool) Title() string {
	return "Health Check"
}

func (t *HealthTool) Annotations() map[string]bool {
	return ReadOnlyAnnotations()
}

func (t *HealthTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {},
		"required": []
	}`)
}

func (t *HealthTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	body := map[string]interface{}{
		"status":  "healthy",
		"version": version.Version,
		"uptime":  time.Since(t.startedAt).Round(time.Second).String(),
	}

	if t.stats != nil {
		stats, err := t.stats()
		if err != nil {
			body["store_error"] = err.Error()
		} else {
			body["store"] = stats
		}
	}

	return body, nil
}
