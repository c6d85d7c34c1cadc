// Package lsp implements the Language Server Protocol subset component C11
// requires (spec §4.7): initialize, shutdown, textDocument/didOpen,
// didChange, didClose, and publishDiagnostics, re-running the checker
// (C3-C5) against the in-memory buffer on every open or change.
package lsp

// Position is zero-based, UTF-16-code-unit line/character, per the LSP spec.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range spans from Start up to (not including) End.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// DiagnosticSeverity mirrors the LSP wire values (Error=1, Warning=2, ...).
type DiagnosticSeverity int

const (
	SeverityError   DiagnosticSeverity = 1
	SeverityWarning DiagnosticSeverity = 2
)

// Diagnostic is one LSP diagnostic entry.
type Diagnostic struct {
	Range    Range              `json:"range"`
	Severity DiagnosticSeverity `json:"severity"`
	Source   string             `json:"source"`
	Message  string             `json:"message"`
}

// TextDocumentIdentifier names the document a notification concerns.
type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// TextDocumentItem is the full document payload sent with didOpen.
type TextDocumentItem struct {
	URI  string `json:"uri"`
	Text string `json:"text"`
}

// DidOpenParams is textDocument/didOpen's params shape.
type DidOpenParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

// ContentChange is one element of didChange's contentChanges array. Only
// full-document sync is supported, so Text always replaces the whole buffer.
type ContentChange struct {
	Text string `json:"text"`
}

// DidChangeParams is textDocument/didChange's params shape.
type DidChangeParams struct {
	TextDocument   TextDocumentIdentifier `json:"textDocument"`
	ContentChanges []ContentChange        `json:"contentChanges"`
}

// DidCloseParams is textDocument/didClose's params shape.
type DidCloseParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// PublishDiagnosticsParams is the server-to-client notification payload.
type PublishDiagnosticsParams struct {
	URI         string       `json:"uri"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// InitializeResult answers the client's initialize request: a minimal
// server capabilities object advertising full-document text sync.
type InitializeResult struct {
	Capabilities struct {
		TextDocumentSync int `json:"textDocumentSync"`
	} `json:"capabilities"`
}

// NewInitializeResult builds the fixed capabilities response.
func NewInitializeResult() InitializeResult {
	var r InitializeResult
	r.Capabilities.TextDocumentSync = 1 // Full
	return r
}
