package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type stubTool struct {
	name    string
	execute func(ctx context.Context, input json.RawMessage) (interface{}, error)
}

func (t *stubTool) Name() string             { return t.name }
func (t *stubTool) Description() string      { return "stub" }
func (t *stubTool) Schema() json.RawMessage  { return json.RawMessage(`{"type":"object"}`) }
func (t *stubTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if t.execute != nil {
		return t.execute(ctx, input)
	}
	return "ok", nil
}

func TestRegisterAndGet(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(&stubTool{name: "alpha"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tool, ok := r.Get("alpha")
	if !ok || tool.Name() != "alpha" {
		t.Errorf("Get = %v, %v", tool, ok)
	}

	if _, ok := r.Get("missing"); ok {
		t.Error("unexpected tool")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubTool{name: "alpha"})

	if err := r.Register(&stubTool{name: "alpha"}); err == nil {
		t.Error("expected error on duplicate registration")
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	r := NewRegistry()

	_, err := r.Execute(context.Background(), "missing", nil)
	if err == nil {
		t.Fatal("expected error")
	}

	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected *ToolError, got %T", err)
	}
	if toolErr.Code != -32601 {
		t.Errorf("code = %d", toolErr.Code)
	}
}

func TestExecuteWrapsToolFailure(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	r.Register(&stubTool{
		name: "failing",
		execute: func(ctx context.Context, input json.RawMessage) (interface{}, error) {
			return nil, boom
		},
	})

	_, err := r.Execute(context.Background(), "failing", nil)

	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected *ToolError, got %T", err)
	}
	if toolErr.Code != -32603 {
		t.Errorf("code = %d", toolErr.Code)
	}
	if !errors.Is(err, boom) {
		t.Error("wrapped error must expose the tool's failure")
	}
}

func TestExecuteWithTimeout(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubTool{
		name: "slow",
		execute: func(ctx context.Context, input json.RawMessage) (interface{}, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(5 * time.Second):
				return "done", nil
			}
		},
	})

	_, err := r.ExecuteWithTimeout(context.Background(), "slow", nil, 20*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestListAndNames(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubTool{name: "alpha"})
	r.Register(&stubTool{name: "beta"})

	if got := len(r.List()); got != 2 {
		t.Errorf("List len = %d", got)
	}
	if got := len(r.Names()); got != 2 {
		t.Errorf("Names len = %d", got)
	}
}

func TestHealthTool(t *testing.T) {
	tool := NewHealthTool()

	if tool.Name() != "health" {
		t.Errorf("name = %s", tool.Name())
	}
	if tool.Title() == "" || tool.Description() == "" {
		t.Error("title and description must be set")
	}
	if !tool.Annotations()["readOnlyHint"] {
		t.Error("health is read-only")
	}

	result, err := tool.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	body, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("result type %T", result)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %v", body["status"])
	}
	if body["version"] == "" {
		t.Error("version must be set")
	}
	if _, ok := body["store"]; ok {
		t.Error("no stats source was wired")
	}
}

func TestHealthToolWithStats(t *testing.T) {
	tool := NewHealthToolWithStats(func() (interface{}, error) {
		return map[string]int{"total_ontologies": 3}, nil
	})

	result, err := tool.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	body := result.(map[string]interface{})
	store, ok := body["store"].(map[string]int)
	if !ok {
		t.Fatalf("store = %v", body["store"])
	}
	if store["total_ontologies"] != 3 {
		t.Errorf("store stats = %v", store)
	}
}
