package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/ontolab/ontoeval/pkg/protocol"
)

// Client is the daemon side of a thin CLI: it dials the unix socket and
// forwards JSON-RPC calls.
type Client struct {
	conn *jsonrpc2.Conn
}

// noopHandler ignores server-initiated requests; the daemon never sends any.
type noopHandler struct{}

func (noopHandler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {}

func Connect(ctx context.Context, socketPath string) (*Client, error) {
	netConn, err := NewSocketConnector(socketPath, 2*time.Second).Connect()
	if err != nil {
		return nil, fmt.Errorf("dial daemon: %w", err)
	}

	stream := jsonrpc2.NewBufferedStream(netConn, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, noopHandler{})

	return &Client{conn: conn}, nil
}

func (c *Client) Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	var result json.RawMessage
	if err := c.conn.Call(ctx, method, params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) Notify(ctx context.Context, method string, params interface{}) error {
	return c.conn.Notify(ctx, method, params)
}

func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// ProxyStdio bridges an MCP client speaking newline-delimited JSON-RPC on
// stdio to the daemon socket. Requests are forwarded verbatim; responses
// come back on the same IDs.
func ProxyStdio(ctx context.Context, client *Client, reader io.Reader, writer io.Writer) error {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	encoder := json.NewEncoder(writer)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req protocol.JSONRPCRequest
		if err := json.Unmarshal(line, &req); err != nil {
			encoder.Encode(&protocol.JSONRPCResponse{
				JSONRPC: "2.0",
				Error:   &protocol.JSONRPCError{Code: -32700, Message: "Parse error"},
			})
			continue
		}

		if req.ID == nil {
			if err := client.Notify(ctx, req.Method, req.Params); err != nil {
				return err
			}
			continue
		}

		resp := &protocol.JSONRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
		}

		result, err := client.Call(ctx, req.Method, req.Params)
		if err != nil {
			resp.Error = toProtocolError(err)
		} else {
			resp.Result = result
		}

		if err := encoder.Encode(resp); err != nil {
			return err
		}
	}

	return scanner.Err()
}

func toProtocolError(err error) *protocol.JSONRPCError {
	var rpcErr *jsonrpc2.Error
	if errors.As(err, &rpcErr) {
		return &protocol.JSONRPCError{
			Code:    int(rpcErr.Code),
			Message: rpcErr.Message,
		}
	}
	return &protocol.JSONRPCError{Code: -32603, Message: err.Error()}
}
