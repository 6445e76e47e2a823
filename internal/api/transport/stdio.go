package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/opendata-at/datagvat-mcp/internal/domain/mcp"
)

const (
	methodCallTool  = "tools/call"
	methodCancelled = "notifications/cancelled"

	maxMessageBytes = 10 * 1024 * 1024
)

type message struct {
	data    []byte
	tooLong bool
}

// Stdio serves MCP over newline-delimited JSON. Every tools/call runs in its
// own goroutine so that a notifications/cancelled can abort it; all other
// messages are handled in arrival order.
type Stdio struct {
	handler RequestHandler
	logger  *slog.Logger
	reader  io.Reader
	writer  io.Writer

	// maxMessageBytes bounds one line; longer lines are answered with an error.
	maxMessageBytes int

	writeMu  sync.Mutex
	mu       sync.Mutex
	inflight map[string]context.CancelFunc
	wg       sync.WaitGroup
}

// NewStdio creates a stdio transport reading from r and writing to w.
func NewStdio(handler RequestHandler, logger *slog.Logger, r io.Reader, w io.Writer) *Stdio {
	return &Stdio{
		handler:  handler,
		logger:   logger,
		reader:   r,
		writer:   w,
		inflight: make(map[string]context.CancelFunc),

		maxMessageBytes: maxMessageBytes,
	}
}

// Serve reads messages until the input ends or ctx is cancelled, then waits
// for in-flight calls to finish.
func (t *Stdio) Serve(ctx context.Context) error {
	t.logger.Info("Starting MCP stdio transport")
	defer t.wg.Wait()

	lines := make(chan message)
	errCh := make(chan error, 1)
	go func() {
		defer close(lines)
		reader := bufio.NewReaderSize(t.reader, 64*1024)
		for {
			data, tooLong, err := readLine(reader, t.maxMessageBytes)
			if err != nil {
				if err != io.EOF {
					errCh <- err
				}
				return
			}
			select {
			case lines <- message{data: data, tooLong: tooLong}:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("Stdio transport shutting down")
			return nil

		case msg, ok := <-lines:
			if !ok {
				select {
				case err := <-errCh:
					t.logger.Error("Failed to read from stdin", "error", err)
					return err
				default:
					return nil
				}
			}
			if msg.tooLong {
				t.logger.Warn("Discarding oversized message", "limit", t.maxMessageBytes)
				if err := t.write(mcp.JSONRPCResponse{
					JSONRPC: "2.0",
					ID:      json.RawMessage("null"),
					Error:   &mcp.JSONRPCError{Code: mcp.InvalidRequest, Message: "Request too large", Data: fmt.Sprintf("message exceeds %d bytes", t.maxMessageBytes)},
				}); err != nil {
					return err
				}
				continue
			}
			line := bytes.TrimSpace(msg.data)
			if len(line) == 0 {
				continue
			}
			if err := t.dispatch(ctx, line); err != nil {
				return err
			}
		}
	}
}

func (t *Stdio) dispatch(ctx context.Context, line []byte) error {
	var request mcp.JSONRPCRequest
	if err := json.Unmarshal(line, &request); err != nil {
		t.logger.Error("Failed to parse JSON-RPC message", "error", err)
		return t.write(mcp.JSONRPCResponse{
			JSONRPC: "2.0",
			ID:      json.RawMessage("null"),
			Error:   &mcp.JSONRPCError{Code: mcp.ParseError, Message: "Parse error", Data: err.Error()},
		})
	}

	if request.Method == methodCancelled {
		t.cancel(request.Params)
	}

	if request.Method != methodCallTool || request.IsNotification() {
		resp := t.handler.HandleRequest(ctx, request)
		if resp.Notification {
			return nil
		}
		return t.write(resp.JSONRPCResponse)
	}

	key := requestKey(request.ID)
	callCtx, cancel := context.WithCancel(ctx)
	t.mu.Lock()
	if _, busy := t.inflight[key]; busy {
		t.mu.Unlock()
		cancel()
		t.logger.Warn("Rejecting call with an id already in flight", "id", key)
		return t.write(mcp.JSONRPCResponse{
			JSONRPC: "2.0",
			ID:      request.ID,
			Error:   &mcp.JSONRPCError{Code: mcp.InvalidRequest, Message: "Request id already in use", Data: key},
		})
	}
	t.inflight[key] = cancel
	t.mu.Unlock()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer func() {
			t.mu.Lock()
			delete(t.inflight, key)
			t.mu.Unlock()
			cancel()
		}()

		resp := t.handler.HandleRequest(callCtx, request)
		if callCtx.Err() != nil && ctx.Err() == nil {
			t.logger.Info("Dropping response of cancelled call", "id", key)
			return
		}
		if err := t.write(resp.JSONRPCResponse); err != nil {
			t.logger.Error("Failed to write response", "error", err)
		}
	}()
	return nil
}

func (t *Stdio) cancel(params json.RawMessage) {
	var p mcp.CancelledParams
	if err := json.Unmarshal(params, &p); err != nil || len(p.RequestID) == 0 {
		t.logger.Warn("Ignoring malformed cancellation", "params", string(params))
		return
	}
	key := requestKey(p.RequestID)

	t.mu.Lock()
	cancel, ok := t.inflight[key]
	t.mu.Unlock()
	if !ok {
		t.logger.Debug("Cancellation for unknown or finished call", "id", key)
		return
	}
	t.logger.Info("Cancelling call", "id", key, "reason", p.Reason)
	cancel()
}

func (t *Stdio) write(resp mcp.JSONRPCResponse) error {
	body, err := json.Marshal(resp)
	if err != nil {
		t.logger.Error("Failed to marshal JSON-RPC response", "error", err)
		return nil
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	_, err = t.writer.Write(append(body, '\n'))
	return err
}

// readLine returns the next line including its terminator. A line longer than
// limit is consumed up to its end but not kept, and reported as tooLong.
func readLine(r *bufio.Reader, limit int) ([]byte, bool, error) {
	var line []byte
	tooLong := false
	for {
		chunk, err := r.ReadSlice('\n')
		if !tooLong {
			line = append(line, chunk...)
			if len(bytes.TrimRight(line, "\r\n")) > limit {
				tooLong = true
				line = nil
			}
		}
		switch {
		case err == bufio.ErrBufferFull:
			continue
		case err == io.EOF && (len(line) > 0 || tooLong):
			return line, tooLong, nil
		case err != nil:
			return nil, false, err
		}
		return line, tooLong, nil
	}
}

// requestKey normalizes a JSON-RPC id so that equal ids compare equal.
func requestKey(id json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, id); err != nil {
		return string(id)
	}
	return buf.String()
}
