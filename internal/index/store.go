package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ontolab/ontoeval/internal/metrics"

	_ "modernc.org/sqlite"
)

// Store is the evaluation cache: tracked ontology documents and the metric
// snapshots of their runs. The parsed graph itself is never persisted.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

func NewStore(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, err
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *Store) initSchema() error {
	schema := GetSchema()

	lines := strings.Split(schema, "\n")
	var cleanLines []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "--") && trimmed != "" {
			cleanLines = append(cleanLines, line)
		}
	}
	cleanSchema := strings.Join(cleanLines, "\n")

	if _, err := s.db.Exec(cleanSchema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	_, _ = s.db.Exec(`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, GetSchemaVersion())
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) UpsertOntology(ont *Ontology) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	_, err := s.db.Exec(`
		INSERT INTO ontologies (path, name, content_hash, encoding, format, status, error_message, evaluated_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(path) DO UPDATE SET
			name = excluded.name,
			content_hash = excluded.content_hash,
			encoding = excluded.encoding,
			format = excluded.format,
			status = excluded.status,
			error_message = excluded.error_message,
			evaluated_at = excluded.evaluated_at,
			updated_at = CURRENT_TIMESTAMP
	`, ont.Path, ont.Name, ont.ContentHash, ont.Encoding, ont.Format, ont.Status, ont.ErrorMessage, now)

	if err != nil {
		return 0, fmt.Errorf("upsert ontology: %w", err)
	}

	// LastInsertId reports the connection's last insert, not the row the
	// conflict clause updated; the id is resolved by path instead.
	var id int64
	row := s.db.QueryRow("SELECT id FROM ontologies WHERE path = ?", ont.Path)
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("get ontology id: %w", err)
	}

	return id, nil
}

func (s *Store) GetOntology(path string) (*Ontology, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, path, name, content_hash, encoding, format, status, error_message, evaluated_at, updated_at
		FROM ontologies WHERE path = ?
	`, path)

	ont, err := scanOntology(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get ontology: %w", err)
	}
	return ont, nil
}

func (s *Store) GetOntologyByID(id int64) (*Ontology, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, path, name, content_hash, encoding, format, status, error_message, evaluated_at, updated_at
		FROM ontologies WHERE id = ?
	`, id)

	ont, err := scanOntology(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get ontology by id: %w", err)
	}
	return ont, nil
}

// ListOntologies returns tracked documents, newest update first. A zero or
// negative limit means no limit.
func (s *Store) ListOntologies(limit int) ([]*Ontology, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Query(`
		SELECT id, path, name, content_hash, encoding, format, status, error_message, evaluated_at, updated_at
		FROM ontologies ORDER BY updated_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list ontologies: %w", err)
	}
	defer rows.Close()

	var onts []*Ontology
	for rows.Next() {
		ont, err := scanOntology(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ontology: %w", err)
		}
		onts = append(onts, ont)
	}

	return onts, rows.Err()
}

func (s *Store) DeleteOntology(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM ontologies WHERE path = ?", path); err != nil {
		return fmt.Errorf("delete ontology: %w", err)
	}
	return nil
}

func (s *Store) UpdateOntologyStatus(path string, status OntologyStatus, errorMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	_, err := s.db.Exec(`
		INSERT INTO ontologies (path, status, error_message, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			status = excluded.status,
			error_message = excluded.error_message,
			updated_at = excluded.updated_at
	`, path, status, errorMsg, now)

	if err != nil {
		return fmt.Errorf("update ontology status: %w", err)
	}

	return nil
}

func (s *Store) InsertSnapshot(ontologyID int64, runID string, m *metrics.Snapshot) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec(`
		INSERT INTO snapshots (
			run_id, ontology_id,
			triples, classes, instances, subclass_assertions,
			object_properties, datatype_properties, populated_classes, connected_components,
			relationship_richness, inheritance_richness, attribute_richness, class_richness
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, ontologyID,
		m.Triples, m.Classes, m.Instances, m.SubclassAssertions,
		m.ObjectProperties, m.DatatypeProperties, m.PopulatedClasses, m.ConnectedComponents,
		m.RelationshipRichness, m.InheritanceRichness, m.AttributeRichness, m.ClassRichness)

	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}

	return result.LastInsertId()
}

// History returns the most recent snapshots for an ontology, newest first.
func (s *Store) History(ontologyID int64, limit int) ([]*SnapshotRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, run_id, ontology_id,
		       triples, classes, instances, subclass_assertions,
		       object_properties, datatype_properties, populated_classes, connected_components,
		       relationship_richness, inheritance_richness, attribute_richness, class_richness,
		       created_at
		FROM snapshots WHERE ontology_id = ? ORDER BY id DESC LIMIT ?
	`, ontologyID, limit)
	if err != nil {
		return nil, fmt.Errorf("snapshot history: %w", err)
	}
	defer rows.Close()

	var records []*SnapshotRecord
	for rows.Next() {
		rec, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// LatestSnapshot returns the newest snapshot for an ontology, or nil.
func (s *Store) LatestSnapshot(ontologyID int64) (*SnapshotRecord, error) {
	records, err := s.History(ontologyID, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

func (s *Store) GetStats() (*StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &StoreStats{}

	// MAX() strips the column's declared type, so the driver hands the
	// datetime back as text.
	var lastEvaluated sql.NullString

	err := s.db.QueryRow(`
		SELECT
			COUNT(*) as total,
			COALESCE(SUM(CASE WHEN status = 'evaluated' THEN 1 ELSE 0 END), 0) as evaluated,
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0) as failed,
			COALESCE(SUM(CASE WHEN status = 'skipped' THEN 1 ELSE 0 END), 0) as skipped,
			MAX(evaluated_at) as last_evaluated_at
		FROM ontologies
	`).Scan(&stats.TotalOntologies, &stats.EvaluatedOntologies, &stats.FailedOntologies, &stats.SkippedOntologies, &lastEvaluated)

	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}

	if lastEvaluated.Valid {
		stats.LastEvaluatedAt = parseStoredTime(lastEvaluated.String)
	}

	err = s.db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&stats.TotalSnapshots)
	if err != nil {
		return nil, fmt.Errorf("get snapshot count: %w", err)
	}

	return stats, nil
}

// parseStoredTime decodes the datetime text forms the driver produces:
// bound time.Time values and CURRENT_TIMESTAMP defaults.
func parseStoredTime(s string) time.Time {
	layouts := []string{
		"2006-01-02 15:04:05.999999999 -0700 MST",
		"2006-01-02 15:04:05.999999999-07:00",
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOntology(row rowScanner) (*Ontology, error) {
	ont := &Ontology{}
	var name, hash, encoding, format, errorMsg sql.NullString
	var evaluatedAt, updatedAt sql.NullTime

	err := row.Scan(
		&ont.ID, &ont.Path, &name, &hash, &encoding, &format,
		&ont.Status, &errorMsg, &evaluatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	ont.Name = name.String
	ont.ContentHash = hash.String
	ont.Encoding = encoding.String
	ont.Format = format.String
	if errorMsg.Valid {
		ont.ErrorMessage = errorMsg.String
	}
	if evaluatedAt.Valid {
		ont.EvaluatedAt = evaluatedAt.Time
	}
	if updatedAt.Valid {
		ont.UpdatedAt = updatedAt.Time
	}

	return ont, nil
}

func scanSnapshot(row rowScanner) (*SnapshotRecord, error) {
	rec := &SnapshotRecord{Metrics: &metrics.Snapshot{}}
	var createdAt sql.NullTime

	m := rec.Metrics
	err := row.Scan(
		&rec.ID, &rec.RunID, &rec.OntologyID,
		&m.Triples, &m.Classes, &m.Instances, &m.SubclassAssertions,
		&m.ObjectProperties, &m.DatatypeProperties, &m.PopulatedClasses, &m.ConnectedComponents,
		&m.RelationshipRichness, &m.InheritanceRichness, &m.AttributeRichness, &m.ClassRichness,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if createdAt.Valid {
		rec.CreatedAt = createdAt.Time
	}

	return rec, nil
}
