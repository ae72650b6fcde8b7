package index

const SchemaVersion = 1

const schemaSQL = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

-- Tracked ontology documents
CREATE TABLE IF NOT EXISTS ontologies (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT UNIQUE NOT NULL,
    name TEXT,
    content_hash TEXT,
    encoding TEXT DEFAULT 'utf-8',
    format TEXT,
    status TEXT DEFAULT 'pending',
    error_message TEXT,
    evaluated_at DATETIME,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_ontologies_path ON ontologies(path);
CREATE INDEX IF NOT EXISTS idx_ontologies_status ON ontologies(status);

-- Metric snapshots, one row per evaluation run
CREATE TABLE IF NOT EXISTS snapshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    ontology_id INTEGER NOT NULL REFERENCES ontologies(id) ON DELETE CASCADE,
    triples INTEGER NOT NULL,
    classes INTEGER NOT NULL,
    instances INTEGER NOT NULL,
    subclass_assertions INTEGER NOT NULL,
    object_properties INTEGER NOT NULL,
    datatype_properties INTEGER NOT NULL,
    populated_classes INTEGER NOT NULL,
    connected_components INTEGER NOT NULL,
    relationship_richness REAL NOT NULL,
    inheritance_richness REAL NOT NULL,
    attribute_richness REAL NOT NULL,
    class_richness REAL NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_snapshots_ontology ON snapshots(ontology_id);
CREATE INDEX IF NOT EXISTS idx_snapshots_run ON snapshots(run_id);
`

func GetSchema() string {
	return schemaSQL
}

func GetSchemaVersion() int {
	return SchemaVersion
}
