package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendata-at/datagvat-mcp/internal/domain/mcp"
)

// syncBuffer is a bytes.Buffer safe for concurrent writers and readers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStdio_RequestsAndNotifications(t *testing.T) {
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`{"jsonrpc":"2.0","id":"two","method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"x"}}`,
	}, "\n") + "\n"
	out := &syncBuffer{}

	err := NewStdio(echoHandler(), discardLogger(), strings.NewReader(input), out).Serve(context.Background())

	require.NoError(t, err)
	responses := decodeLines(t, out.String())
	require.Len(t, responses, 3)

	byID := map[string]mcp.JSONRPCResponse{}
	for _, r := range responses {
		byID[string(r.ID)] = r
	}
	assert.Contains(t, byID, `1`)
	assert.Contains(t, byID, `"two"`)
	assert.Contains(t, byID, `3`)
	assert.Equal(t, map[string]any{"method": "tools/call"}, byID[`3`].Result)
}

func TestStdio_ParseError(t *testing.T) {
	out := &syncBuffer{}

	err := NewStdio(echoHandler(), discardLogger(), strings.NewReader("{not json\n"), out).Serve(context.Background())

	require.NoError(t, err)
	assert.Contains(t, out.String(), `"id":null`)
	responses := decodeLines(t, out.String())
	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, mcp.ParseError, responses[0].Error.Code)
}

func TestStdio_CancelInFlightCall(t *testing.T) {
	started := make(chan struct{})
	sawCancel := make(chan error, 1)
	handler := handlerFunc(func(ctx context.Context, request mcp.JSONRPCRequest) mcp.HTTPResponse {
		if request.Method == "tools/call" {
			close(started)
			select {
			case <-ctx.Done():
				sawCancel <- ctx.Err()
			case <-time.After(5 * time.Second):
				sawCancel <- nil
			}
			return mcp.NewSuccessHTTPResponse(request.ID, map[string]any{}, http.StatusOK)
		}
		return echoHandler()(ctx, request)
	})

	pr, pw := io.Pipe()
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- NewStdio(handler, discardLogger(), pr, out).Serve(context.Background())
	}()

	_, err := io.WriteString(pw, `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"slow"}}`+"\n")
	require.NoError(t, err)
	<-started

	// Other messages are served while the call is in flight.
	_, err = io.WriteString(pw, `{"jsonrpc":"2.0","id":8,"method":"ping"}`+"\n")
	require.NoError(t, err)

	_, err = io.WriteString(pw, `{"jsonrpc":"2.0","method":"notifications/cancelled","params":{"requestId":7,"reason":"user"}}`+"\n")
	require.NoError(t, err)

	select {
	case err := <-sawCancel:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("call was not cancelled")
	}

	require.NoError(t, pw.Close())
	require.NoError(t, <-done)

	responses := decodeLines(t, out.String())
	require.Len(t, responses, 1)
	assert.Equal(t, json.RawMessage(`8`), responses[0].ID)
}

func TestStdio_OversizedMessage(t *testing.T) {
	const limit = 100 * 1024
	pad := func(n int) string { return strings.Repeat("a", n) }
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"ping","params":{"pad":"` + pad(80*1024) + `"}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"update_dataset","arguments":{"dataset_data":"` + pad(150*1024) + `"}}}`,
		`{"jsonrpc":"2.0","id":3,"method":"ping"}`,
	}, "\n") + "\n"
	out := &syncBuffer{}
	stdio := NewStdio(echoHandler(), discardLogger(), strings.NewReader(input), out)
	stdio.maxMessageBytes = limit

	err := stdio.Serve(context.Background())

	require.NoError(t, err)
	responses := decodeLines(t, out.String())
	require.Len(t, responses, 3)

	assert.Equal(t, json.RawMessage(`1`), responses[0].ID)
	assert.Nil(t, responses[0].Error)

	assert.Equal(t, json.RawMessage(`null`), responses[1].ID)
	require.NotNil(t, responses[1].Error)
	assert.Equal(t, mcp.InvalidRequest, responses[1].Error.Code)

	assert.Equal(t, json.RawMessage(`3`), responses[2].ID)
	assert.Nil(t, responses[2].Error)
}

func TestReadLine(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		limit   int
		want    []string
		tooLong []bool
	}{
		{name: "newline terminated", input: "ab\ncd\n", limit: 10, want: []string{"ab\n", "cd\n"}, tooLong: []bool{false, false}},
		{name: "last line unterminated", input: "ab\ncd", limit: 10, want: []string{"ab\n", "cd"}, tooLong: []bool{false, false}},
		{name: "crlf at the limit", input: "abcd\r\n", limit: 4, want: []string{"abcd\r\n"}, tooLong: []bool{false}},
		{name: "over the limit", input: "abcde\nok\n", limit: 4, want: []string{"", "ok\n"}, tooLong: []bool{true, false}},
		{name: "over the limit at EOF", input: "abcde", limit: 4, want: []string{""}, tooLong: []bool{true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bufio.NewReaderSize(strings.NewReader(tt.input), 16)
			for i := range tt.want {
				line, tooLong, err := readLine(r, tt.limit)
				require.NoError(t, err)
				assert.Equal(t, tt.want[i], string(line))
				assert.Equal(t, tt.tooLong[i], tooLong)
			}
			_, _, err := readLine(r, tt.limit)
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestStdio_DuplicateInFlightID(t *testing.T) {
	started := make(chan struct{}, 2)
	sawCancel := make(chan error, 1)
	handler := handlerFunc(func(ctx context.Context, request mcp.JSONRPCRequest) mcp.HTTPResponse {
		if request.Method == "tools/call" {
			started <- struct{}{}
			select {
			case <-ctx.Done():
				sawCancel <- ctx.Err()
			case <-time.After(5 * time.Second):
				sawCancel <- nil
			}
			return mcp.NewSuccessHTTPResponse(request.ID, map[string]any{}, http.StatusOK)
		}
		return echoHandler()(ctx, request)
	})

	pr, pw := io.Pipe()
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- NewStdio(handler, discardLogger(), pr, out).Serve(context.Background())
	}()

	call := `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"slow"}}` + "\n"
	_, err := io.WriteString(pw, call)
	require.NoError(t, err)
	<-started

	_, err = io.WriteString(pw, call)
	require.NoError(t, err)

	// The surviving call is still reachable by its id.
	_, err = io.WriteString(pw, `{"jsonrpc":"2.0","method":"notifications/cancelled","params":{"requestId":7}}`+"\n")
	require.NoError(t, err)

	select {
	case err := <-sawCancel:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("call was not cancelled")
	}

	require.NoError(t, pw.Close())
	require.NoError(t, <-done)
	assert.Empty(t, started, "the duplicate must not be executed")

	responses := decodeLines(t, out.String())
	require.Len(t, responses, 1)
	assert.Equal(t, json.RawMessage(`7`), responses[0].ID)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, mcp.InvalidRequest, responses[0].Error.Code)
}

func TestStdio_ContextCancelStops(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewStdio(echoHandler(), discardLogger(), pr, &syncBuffer{}).Serve(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("transport did not stop")
	}
}

func TestRequestKey(t *testing.T) {
	assert.Equal(t, `7`, requestKey(json.RawMessage(` 7 `)))
	assert.Equal(t, `"a"`, requestKey(json.RawMessage(`"a"`)))
	assert.NotEqual(t, requestKey(json.RawMessage(`7`)), requestKey(json.RawMessage(`"7"`)))
}
