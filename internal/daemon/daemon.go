// Package daemon hosts the long-running evaluation service: a unix socket
// speaking JSON-RPC 2.0, the tool registry, the evaluation worker and the
// ontology watcher. Clients are thin; all state lives here.
package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/ontolab/ontoeval/internal/config"
	"github.com/ontolab/ontoeval/internal/index"
	"github.com/ontolab/ontoeval/internal/logger"
	"github.com/ontolab/ontoeval/internal/mcp"
	"github.com/ontolab/ontoeval/internal/parser"
	"github.com/ontolab/ontoeval/internal/tools"
	"github.com/ontolab/ontoeval/internal/tools/ontology"
	"github.com/ontolab/ontoeval/internal/watcher"
)

var log = logger.ForComponent("daemon")

type Daemon struct {
	config   *config.Config
	listener *SocketListener
	registry *tools.Registry
	handler  *mcp.Handler
	store    *index.Store
	worker   *index.Worker
	watch    *watcher.Watcher

	connections  map[*jsonrpc2.Conn]bool
	connMu       sync.Mutex
	shutdown     chan struct{}
	shutdownOnce sync.Once
	startTime    time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

func NewDaemon(cfg *config.Config) (*Daemon, error) {
	ctx, cancel := context.WithCancel(context.Background())

	d := &Daemon{
		config:      cfg,
		registry:    tools.NewRegistry(),
		connections: make(map[*jsonrpc2.Conn]bool),
		shutdown:    make(chan struct{}),
		startTime:   time.Now(),
		ctx:         ctx,
		cancel:      cancel,
	}

	store, err := index.NewStore(cfg.Eval.DBPath)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("open evaluation cache: %w", err)
	}
	d.store = store

	d.worker = index.NewWorker(store, parser.DefaultRegistry, index.WorkerConfig{
		WorkerCount:     cfg.Eval.WorkerCount,
		MaxQueueSize:    cfg.Eval.MaxQueueSize,
		RateLimit:       cfg.Eval.RateLimit,
		MaxFileSize:     cfg.Eval.MaxFileSize,
		ExcludePatterns: cfg.Eval.ExcludePatterns,
	})

	if cfg.Watcher.Enabled {
		w, err := watcher.New(cfg.Watcher, d.worker, store)
		if err != nil {
			cancel()
			store.Close()
			return nil, fmt.Errorf("create watcher: %w", err)
		}
		d.watch = w
	}

	if err := d.registerAllTools(); err != nil {
		cancel()
		store.Close()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	d.handler = mcp.NewHandler(d.registry)

	return d, nil
}

func (d *Daemon) registerAllTools() error {
	health := tools.NewHealthToolWithStats(func() (interface{}, error) {
		return d.store.GetStats()
	})
	if err := d.registry.Register(health); err != nil {
		return err
	}

	evaluator := ontology.NewEvaluator(d.store, parser.DefaultRegistry)
	for _, tool := range ontology.GetTools(evaluator, d.store) {
		if err := d.registry.Register(tool); err != nil {
			return fmt.Errorf("ontology: %w", err)
		}
	}

	return nil
}

func (d *Daemon) Start() error {
	listener := NewSocketListener(d.config.SocketPath)
	if err := listener.Start(); err != nil {
		return fmt.Errorf("claim socket: %w", err)
	}
	d.listener = listener

	if d.config.Eval.Enabled {
		d.worker.Start()
	}

	if d.watch != nil {
		if err := d.watch.Start(d.ctx); err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		for _, root := range d.config.WatchRoots {
			if err := d.watch.AddRoot(root); err != nil {
				log.Warn("failed to watch root", "root", root, "error", err)
			}
		}
	}

	log.Info("daemon listening", "socket", d.config.SocketPath, "tools", d.ToolCount())

	go d.acceptConnections()
	d.handleSignals()

	return nil
}

func (d *Daemon) acceptConnections() {
	for {
		conn, err := d.listener.Accept()
		if err != nil {
			select {
			case <-d.shutdown:
				return
			default:
				continue
			}
		}

		go d.handleConnection(conn)
	}
}

func (d *Daemon) handleConnection(conn net.Conn) {
	stream := jsonrpc2.NewBufferedStream(conn, jsonrpc2.VSCodeObjectCodec{})
	rpcConn := jsonrpc2.NewConn(d.ctx, stream, jsonrpc2.AsyncHandler(&rpcHandler{handler: d.handler}))

	d.connMu.Lock()
	d.connections[rpcConn] = true
	d.connMu.Unlock()

	<-rpcConn.DisconnectNotify()

	d.connMu.Lock()
	delete(d.connections, rpcConn)
	d.connMu.Unlock()
}

// rpcHandler bridges jsonrpc2 requests onto the MCP handler.
type rpcHandler struct {
	handler *mcp.Handler
}

func (h *rpcHandler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	mcpReq := &mcp.Request{
		JSONRPC: "2.0",
		Method:  req.Method,
	}
	if !req.Notif {
		mcpReq.ID = req.ID.String()
	}
	if req.Params != nil {
		if err := json.Unmarshal(*req.Params, &mcpReq.Params); err != nil {
			if !req.Notif {
				conn.ReplyWithError(ctx, req.ID, &jsonrpc2.Error{
					Code:    jsonrpc2.CodeInvalidParams,
					Message: "invalid params",
				})
			}
			return
		}
	}

	resp := h.handler.Handle(ctx, mcpReq)

	if req.Notif {
		return
	}

	if resp.Error != nil {
		conn.ReplyWithError(ctx, req.ID, &jsonrpc2.Error{
			Code:    int64(resp.Error.Code),
			Message: resp.Error.Message,
		})
		return
	}

	if err := conn.Reply(ctx, req.ID, resp.Result); err != nil {
		log.Warn("failed to send reply", "method", req.Method, "error", err)
	}
}

func (d *Daemon) handleSignals() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	d.Shutdown()
}

func (d *Daemon) Shutdown() {
	d.shutdownOnce.Do(func() {
		log.Info("daemon shutting down")

		close(d.shutdown)
		d.cancel()

		if d.listener != nil {
			d.listener.Close()
		}

		d.connMu.Lock()
		for conn := range d.connections {
			conn.Close()
		}
		d.connMu.Unlock()

		if d.watch != nil {
			d.watch.Stop()
		}
		if d.worker != nil {
			d.worker.Stop()
		}
		if d.store != nil {
			d.store.Close()
		}

		os.Remove(d.config.SocketPath)
	})
}

func (d *Daemon) SocketPath() string {
	return d.config.SocketPath
}

func (d *Daemon) Uptime() time.Duration {
	return time.Since(d.startTime)
}

func (d *Daemon) ToolCount() int {
	return len(d.registry.Names())
}
