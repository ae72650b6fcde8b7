package index

import (
	"time"

	"github.com/ontolab/ontoeval/internal/metrics"
)

type OntologyStatus string

const (
	StatusPending   OntologyStatus = "pending"
	StatusEvaluated OntologyStatus = "evaluated"
	StatusFailed    OntologyStatus = "failed"
	StatusSkipped   OntologyStatus = "skipped"
)

// Ontology is one tracked document and the outcome of its last evaluation.
type Ontology struct {
	ID           int64          `json:"id"`
	Path         string         `json:"path"`
	Name         string         `json:"name"`
	ContentHash  string         `json:"content_hash"`
	Encoding     string         `json:"encoding"`
	Format       string         `json:"format"`
	Status       OntologyStatus `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	EvaluatedAt  time.Time      `json:"evaluated_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// SnapshotRecord is a persisted evaluation run for one ontology.
type SnapshotRecord struct {
	ID         int64             `json:"id"`
	RunID      string            `json:"run_id"`
	OntologyID int64             `json:"ontology_id"`
	Metrics    *metrics.Snapshot `json:"metrics"`
	CreatedAt  time.Time         `json:"created_at"`
}

type StoreStats struct {
	TotalOntologies     int       `json:"total_ontologies"`
	EvaluatedOntologies int       `json:"evaluated_ontologies"`
	FailedOntologies    int       `json:"failed_ontologies"`
	SkippedOntologies   int       `json:"skipped_ontologies"`
	TotalSnapshots      int       `json:"total_snapshots"`
	LastEvaluatedAt     time.Time `json:"last_evaluated_at"`
}

type EvalJob struct {
	Path     string
	Priority JobPriority
}

type JobPriority int

const (
	PriorityLow JobPriority = iota
	PriorityNormal
	PriorityHigh
)
