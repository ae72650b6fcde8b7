package index

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/ontolab/ontoeval/internal/graph"
	"github.com/ontolab/ontoeval/internal/logger"
	"github.com/ontolab/ontoeval/internal/metrics"
	"github.com/ontolab/ontoeval/internal/parser"
)

var log = logger.ForComponent("evaluator")

type WorkerConfig struct {
	WorkerCount     int
	MaxQueueSize    int
	RateLimit       int
	MaxFileSize     int64
	ExcludePatterns []string
}

func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		WorkerCount:  2,
		MaxQueueSize: 1000,
		RateLimit:    100,
		MaxFileSize:  50 * 1024 * 1024,
		ExcludePatterns: []string{
			"**/.git/**",
			"**/node_modules/**",
			"**/vendor/**",
			"**/target/**",
			"**/build/**",
			"**/dist/**",
		},
	}
}

type WorkerStats struct {
	Evaluated     int64
	Failed        int64
	Skipped       int64
	InQueue       int64
	IsRunning     bool
	StartedAt     time.Time
	LastEvaluated time.Time
}

// Worker drains evaluation jobs from three priority queues. Each job parses
// one ontology document, computes its metric snapshot and persists the run.
type Worker struct {
	store    *Store
	registry *parser.Registry
	config   WorkerConfig

	highQueue   chan EvalJob
	normalQueue chan EvalJob
	lowQueue    chan EvalJob

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	rateLimiter *time.Ticker

	stats   WorkerStats
	statsMu sync.RWMutex
}

func NewWorker(store *Store, registry *parser.Registry, config WorkerConfig) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	if registry == nil {
		registry = parser.DefaultRegistry
	}

	w := &Worker{
		store:       store,
		registry:    registry,
		config:      config,
		highQueue:   make(chan EvalJob, 100),
		normalQueue: make(chan EvalJob, config.MaxQueueSize),
		lowQueue:    make(chan EvalJob, config.MaxQueueSize*2),
		ctx:         ctx,
		cancel:      cancel,
	}

	if config.RateLimit > 0 {
		interval := time.Second / time.Duration(config.RateLimit)
		w.rateLimiter = time.NewTicker(interval)
	}

	return w
}

func (w *Worker) Start() {
	w.statsMu.Lock()
	w.stats.IsRunning = true
	w.stats.StartedAt = time.Now()
	w.statsMu.Unlock()

	log.Info("evaluation worker started", "workers", w.config.WorkerCount)

	for i := 0; i < w.config.WorkerCount; i++ {
		w.wg.Add(1)
		go w.worker(i)
	}
}

func (w *Worker) Stop() {
	log.Info("evaluation worker stopping")

	w.cancel()
	if w.rateLimiter != nil {
		w.rateLimiter.Stop()
	}
	w.wg.Wait()

	w.statsMu.Lock()
	w.stats.IsRunning = false
	w.statsMu.Unlock()

	log.Info("evaluation worker stopped")
}

func (w *Worker) Enqueue(job EvalJob) bool {
	var queue chan EvalJob
	switch job.Priority {
	case PriorityHigh:
		queue = w.highQueue
	case PriorityLow:
		queue = w.lowQueue
	default:
		queue = w.normalQueue
	}

	select {
	case queue <- job:
		atomic.AddInt64(&w.stats.InQueue, 1)
		return true
	default:
		log.Warn("job enqueue failed - queue full", "path", job.Path, "priority", job.Priority)
		return false
	}
}

func (w *Worker) EnqueueBatch(paths []string, priority JobPriority) int {
	count := 0
	for _, path := range paths {
		if w.Enqueue(EvalJob{Path: path, Priority: priority}) {
			count++
		}
	}
	return count
}

func (w *Worker) GetStats() WorkerStats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	stats := w.stats
	stats.InQueue = atomic.LoadInt64(&w.stats.InQueue)
	return stats
}

func (w *Worker) worker(id int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		default:
		}

		if w.rateLimiter != nil {
			select {
			case <-w.rateLimiter.C:
			case <-w.ctx.Done():
				return
			}
		}

		var job EvalJob
		var ok bool

		select {
		case job, ok = <-w.highQueue:
		default:
			select {
			case job, ok = <-w.normalQueue:
			default:
				select {
				case job, ok = <-w.lowQueue:
				default:
					time.Sleep(10 * time.Millisecond)
					continue
				}
			}
		}

		if !ok {
			continue
		}

		atomic.AddInt64(&w.stats.InQueue, -1)
		log.Debug("worker processing job", "worker_id", id, "path", job.Path)
		w.processJob(job)
	}
}

func (w *Worker) processJob(job EvalJob) {
	path := job.Path

	if !parser.IsOntologyFile(path) {
		w.recordSkipped()
		log.Debug("skipped file", "path", path, "reason", "not an ontology document")
		return
	}

	if w.shouldExclude(path) {
		w.recordSkipped()
		log.Debug("skipped file", "path", path, "reason", "excluded by pattern")
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		w.recordFailed(path, err.Error())
		log.Warn("failed to evaluate", "path", path, "error", err)
		return
	}

	if info.IsDir() {
		return
	}

	if info.Size() > w.config.MaxFileSize {
		w.recordSkipped()
		w.store.UpdateOntologyStatus(path, StatusSkipped, "file too large")
		log.Debug("skipped file", "path", path, "reason", "file too large")
		return
	}

	existing, _ := w.store.GetOntology(path)

	content, encoding, err := parser.ReadFileAsUTF8(path)
	if err != nil {
		w.recordFailed(path, err.Error())
		log.Warn("failed to evaluate", "path", path, "error", err)
		return
	}

	hash := sha256.Sum256([]byte(content))
	hashStr := hex.EncodeToString(hash[:])

	if existing != nil && existing.Status == StatusEvaluated && existing.ContentHash == hashStr {
		log.Debug("skipped file", "path", path, "reason", "content unchanged")
		return
	}

	result, err := w.registry.Parse(path, []byte(content))
	if err != nil {
		w.recordFailed(path, err.Error())
		log.Warn("failed to evaluate", "path", path, "error", err)
		return
	}

	g := graph.New()
	g.AddAll(result.Triples)
	snapshot := metrics.Compute(g)

	ont := &Ontology{
		Path:        path,
		Name:        ontologyName(path),
		ContentHash: hashStr,
		Encoding:    encoding.Encoding,
		Format:      parser.MimeTypeFromExtension(filepath.Ext(path)),
		Status:      StatusEvaluated,
		EvaluatedAt: time.Now(),
	}

	ontologyID, err := w.store.UpsertOntology(ont)
	if err != nil {
		w.recordFailed(path, err.Error())
		log.Warn("failed to evaluate", "path", path, "error", err)
		return
	}

	runID := uuid.NewString()
	if _, err := w.store.InsertSnapshot(ontologyID, runID, snapshot); err != nil {
		w.recordFailed(path, err.Error())
		log.Warn("failed to evaluate", "path", path, "error", err)
		return
	}

	w.recordEvaluated()
	log.Info("ontology evaluated", "path", path, "run_id", runID,
		"triples", snapshot.Triples, "classes", snapshot.Classes, "cohesion", snapshot.ConnectedComponents)

	currentEvaluated := atomic.LoadInt64(&w.stats.Evaluated)
	if currentEvaluated%100 == 0 {
		queueSize := atomic.LoadInt64(&w.stats.InQueue)
		log.Info("evaluation progress", "evaluated", currentEvaluated, "pending", queueSize)
	}
}

func (w *Worker) shouldExclude(path string) bool {
	normalized := filepath.ToSlash(path)
	for _, pattern := range w.config.ExcludePatterns {
		if matched, _ := doublestar.Match(pattern, normalized); matched {
			return true
		}
	}
	return false
}

func (w *Worker) recordEvaluated() {
	atomic.AddInt64(&w.stats.Evaluated, 1)
	w.statsMu.Lock()
	w.stats.LastEvaluated = time.Now()
	w.statsMu.Unlock()
}

func (w *Worker) recordFailed(path, errMsg string) {
	atomic.AddInt64(&w.stats.Failed, 1)
	w.store.UpdateOntologyStatus(path, StatusFailed, errMsg)
}

func (w *Worker) recordSkipped() {
	atomic.AddInt64(&w.stats.Skipped, 1)
}

// ontologyName derives a display name from the file name, without extension.
func ontologyName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
