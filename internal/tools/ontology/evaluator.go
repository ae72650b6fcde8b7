// Package ontology exposes the evaluation pipeline as MCP tools: evaluate a
// document, render reports, compare two ontologies and inspect the cache.
package ontology

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ontolab/ontoeval/internal/graph"
	"github.com/ontolab/ontoeval/internal/index"
	"github.com/ontolab/ontoeval/internal/metrics"
	"github.com/ontolab/ontoeval/internal/parser"
)

// Evaluator runs the parse/measure pipeline for single documents on demand.
// The store is optional; without one, results are computed and not cached.
type Evaluator struct {
	store    *index.Store
	registry *parser.Registry
}

func NewEvaluator(store *index.Store, registry *parser.Registry) *Evaluator {
	if registry == nil {
		registry = parser.DefaultRegistry
	}
	return &Evaluator{store: store, registry: registry}
}

// EvaluateResult is one completed run: identity, provenance and the numbers.
type EvaluateResult struct {
	Name      string            `json:"name"`
	Path      string            `json:"path"`
	RunID     string            `json:"run_id,omitempty"`
	Cached    bool              `json:"cached"`
	Metrics   *metrics.Snapshot `json:"metrics"`
	Evaluated time.Time         `json:"evaluated_at"`
}

func (e *Evaluator) Evaluate(ctx context.Context, path string, force bool) (*EvaluateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	if !parser.IsOntologyFile(abs) {
		return nil, fmt.Errorf("not an ontology document: %s", abs)
	}

	content, encoding, err := parser.ReadFileAsUTF8(abs)
	if err != nil {
		return nil, err
	}

	hash := sha256.Sum256([]byte(content))
	hashStr := hex.EncodeToString(hash[:])

	if !force && e.store != nil {
		if cached, err := e.cachedResult(abs, hashStr); err == nil && cached != nil {
			return cached, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parsed, err := e.registry.Parse(abs, []byte(content))
	if err != nil {
		if e.store != nil {
			e.store.UpdateOntologyStatus(abs, index.StatusFailed, err.Error())
		}
		return nil, err
	}

	g := graph.New()
	g.AddAll(parsed.Triples)
	snapshot := metrics.Compute(g)

	result := &EvaluateResult{
		Name:      displayName(abs),
		Path:      abs,
		Metrics:   snapshot,
		Evaluated: time.Now(),
	}

	if e.store == nil {
		return result, nil
	}

	ontologyID, err := e.store.UpsertOntology(&index.Ontology{
		Path:        abs,
		Name:        result.Name,
		ContentHash: hashStr,
		Encoding:    encoding.Encoding,
		Format:      parser.MimeTypeFromExtension(filepath.Ext(abs)),
		Status:      index.StatusEvaluated,
		EvaluatedAt: result.Evaluated,
	})
	if err != nil {
		return nil, err
	}

	result.RunID = uuid.NewString()
	if _, err := e.store.InsertSnapshot(ontologyID, result.RunID, snapshot); err != nil {
		return nil, err
	}

	return result, nil
}

// cachedResult returns the latest snapshot when the document is unchanged.
func (e *Evaluator) cachedResult(path, hash string) (*EvaluateResult, error) {
	ont, err := e.store.GetOntology(path)
	if err != nil || ont == nil {
		return nil, err
	}
	if ont.Status != index.StatusEvaluated || ont.ContentHash != hash {
		return nil, nil
	}

	latest, err := e.store.LatestSnapshot(ont.ID)
	if err != nil || latest == nil {
		return nil, err
	}

	return &EvaluateResult{
		Name:      ont.Name,
		Path:      ont.Path,
		RunID:     latest.RunID,
		Cached:    true,
		Metrics:   latest.Metrics,
		Evaluated: ont.EvaluatedAt,
	}, nil
}

func displayName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
