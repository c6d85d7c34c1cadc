package lsp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func frame(t *testing.T, msg map[string]interface{}) string {
	t.Helper()
	body, err := json.Marshal(msg)
	require.NoError(t, err)
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body)
}

// readFrames splits a Content-Length-framed stream into decoded messages.
func readFrames(t *testing.T, data []byte) []rpcMessage {
	t.Helper()
	var out []rpcMessage
	rest := string(data)
	for strings.Contains(rest, "Content-Length:") {
		idx := strings.Index(rest, "\r\n\r\n")
		require.GreaterOrEqual(t, idx, 0)
		header := rest[:idx]
		var n int
		_, err := fmt.Sscanf(strings.TrimSpace(header), "Content-Length: %d", &n)
		require.NoError(t, err)
		body := rest[idx+4 : idx+4+n]
		var msg rpcMessage
		require.NoError(t, json.Unmarshal([]byte(body), &msg))
		out = append(out, msg)
		rest = rest[idx+4+n:]
	}
	return out
}

func TestTransportInitializeThenDidOpenPublishesDiagnostics(t *testing.T) {
	input := frame(t, map[string]interface{}{
		"jsonrpc": "2.0", "id": 1, "method": "initialize", "params": map[string]interface{}{},
	}) + frame(t, map[string]interface{}{
		"jsonrpc": "2.0", "method": "textDocument/didOpen",
		"params": map[string]interface{}{
			"textDocument": map[string]interface{}{
				"uri": "file:///a.rjscript", "text": `let x: num = "oops";`,
			},
		},
	}) + frame(t, map[string]interface{}{"jsonrpc": "2.0", "method": "exit"})

	var out bytes.Buffer
	tr := NewTransport(NewServer(), strings.NewReader(input), &out)
	require.NoError(t, tr.Run())

	msgs := readFrames(t, out.Bytes())
	require.Len(t, msgs, 2) // initialize reply + publishDiagnostics notification
	require.Equal(t, "textDocument/publishDiagnostics", msgs[1].Method)

	var params PublishDiagnosticsParams
	require.NoError(t, json.Unmarshal(msgs[1].Params, &params))
	require.Equal(t, "file:///a.rjscript", params.URI)
	require.Len(t, params.Diagnostics, 1)
}

func TestTransportUnknownMethodRepliesWithError(t *testing.T) {
	input := frame(t, map[string]interface{}{"jsonrpc": "2.0", "id": 7, "method": "textDocument/hover"}) +
		frame(t, map[string]interface{}{"jsonrpc": "2.0", "method": "exit"})

	var out bytes.Buffer
	tr := NewTransport(NewServer(), strings.NewReader(input), &out)
	require.NoError(t, tr.Run())

	msgs := readFrames(t, out.Bytes())
	require.Len(t, msgs, 1)
	require.NotNil(t, msgs[0].Error)
	require.Equal(t, -32601, msgs[0].Error.Code)
}
