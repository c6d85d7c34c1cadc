package lsp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// rpcMessage is the subset of JSON-RPC 2.0 every incoming message parses
// into: a request/notification (Method set) or, on the wire we never send
// to ourselves, a response. The server here never originates requests, so
// it speaks the request/notification half plus one-way notifications it
// pushes (publishDiagnostics).
type rpcMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Transport drives a Server over a Content-Length-framed JSON-RPC stream on
// r/w, the framing every LSP client speaks (textDocument/* notifications,
// the initialize/shutdown request pair, and server-pushed
// publishDiagnostics notifications).
type Transport struct {
	server *Server
	r      *bufio.Reader
	w      io.Writer
}

// NewTransport wraps r/w (typically os.Stdin/os.Stdout) for server.
func NewTransport(server *Server, r io.Reader, w io.Writer) *Transport {
	return &Transport{server: server, r: bufio.NewReader(r), w: w}
}

// Run reads and dispatches messages until the stream closes or a
// shutdown/exit sequence is received.
func (t *Transport) Run() error {
	for {
		msg, err := t.readMessage()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch msg.Method {
		case "initialize":
			t.reply(msg.ID, NewInitializeResult(), nil)
		case "shutdown":
			t.reply(msg.ID, nil, nil)
		case "exit":
			return nil
		case "textDocument/didOpen":
			var p DidOpenParams
			if err := json.Unmarshal(msg.Params, &p); err != nil {
				continue
			}
			diags := t.server.Open(p.TextDocument.URI, p.TextDocument.Text)
			t.publishDiagnostics(p.TextDocument.URI, diags)
		case "textDocument/didChange":
			var p DidChangeParams
			if err := json.Unmarshal(msg.Params, &p); err != nil {
				continue
			}
			if len(p.ContentChanges) == 0 {
				continue
			}
			text := p.ContentChanges[len(p.ContentChanges)-1].Text
			diags := t.server.Change(p.TextDocument.URI, text)
			t.publishDiagnostics(p.TextDocument.URI, diags)
		case "textDocument/didClose":
			var p DidCloseParams
			if err := json.Unmarshal(msg.Params, &p); err != nil {
				continue
			}
			t.server.Close(p.TextDocument.URI)
		default:
			if len(msg.ID) > 0 {
				t.reply(msg.ID, nil, &rpcError{Code: -32601, Message: "method not found: " + msg.Method})
			}
		}
	}
}

func (t *Transport) publishDiagnostics(uri string, diags []Diagnostic) {
	t.notify("textDocument/publishDiagnostics", PublishDiagnosticsParams{URI: uri, Diagnostics: diags})
}

func (t *Transport) notify(method string, params interface{}) {
	raw, _ := json.Marshal(params)
	t.write(rpcMessage{JSONRPC: "2.0", Method: method, Params: raw})
}

func (t *Transport) reply(id json.RawMessage, result interface{}, rpcErr *rpcError) {
	t.write(rpcMessage{JSONRPC: "2.0", ID: id, Result: result, Error: rpcErr})
}

func (t *Transport) write(msg rpcMessage) {
	body, err := json.Marshal(msg)
	if err != nil {
		return
	}
	fmt.Fprintf(t.w, "Content-Length: %d\r\n\r\n", len(body))
	t.w.Write(body)
}

// readMessage reads one Content-Length-framed JSON-RPC message off the
// stream.
func (t *Transport) readMessage() (rpcMessage, error) {
	var contentLength int
	for {
		line, err := t.r.ReadString('\n')
		if err != nil {
			return rpcMessage{}, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if strings.HasPrefix(strings.ToLower(line), "content-length:") {
			val := strings.TrimSpace(line[len("content-length:"):])
			n, err := strconv.Atoi(val)
			if err != nil {
				return rpcMessage{}, fmt.Errorf("lsp: malformed Content-Length header %q: %w", val, err)
			}
			contentLength = n
		}
	}
	if contentLength == 0 {
		return rpcMessage{}, fmt.Errorf("lsp: missing Content-Length header")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(t.r, body); err != nil {
		return rpcMessage{}, err
	}

	var msg rpcMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return rpcMessage{}, fmt.Errorf("lsp: decoding message: %w", err)
	}
	return msg, nil
}
