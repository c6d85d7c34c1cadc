package lsp

import (
	"sync"

	"github.com/rustyjsonserver/rjs/rjs"
)

// Server holds every open document's buffer and re-checks it on demand. It
// has no transport dependency; Transport drives it from stdio JSON-RPC.
type Server struct {
	mu   sync.Mutex
	docs map[string]string
}

// NewServer builds an empty Server.
func NewServer() *Server {
	return &Server{docs: map[string]string{}}
}

// Open records a document's initial text and returns its diagnostics.
func (s *Server) Open(uri, text string) []Diagnostic {
	s.mu.Lock()
	s.docs[uri] = text
	s.mu.Unlock()
	return diagnose(text)
}

// Change replaces a document's text (full-document sync only, per
// InitializeResult's advertised capability) and returns its diagnostics.
func (s *Server) Change(uri, text string) []Diagnostic {
	s.mu.Lock()
	s.docs[uri] = text
	s.mu.Unlock()
	return diagnose(text)
}

// Close forgets a document. The spec doesn't require clearing its published
// diagnostics; most clients clear their own view on close.
func (s *Server) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// diagnose re-runs C3 (parse) and C5 (type check) against buf and translates
// the resulting rjs.Diagnostic / rjs.ParseError into LSP diagnostics.
func diagnose(buf string) []Diagnostic {
	prog, err := rjs.Parse(buf)
	if err != nil {
		if pe, ok := err.(*rjs.ParseError); ok {
			return []Diagnostic{toLSPDiagnostic(rjs.Diagnostic{
				Line: pe.Line, Col: pe.Col, Severity: rjs.SeverityError, Msg: pe.Msg,
			})}
		}
		return []Diagnostic{{Message: err.Error(), Severity: SeverityError}}
	}

	diags := rjs.Check(prog)
	out := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, toLSPDiagnostic(d))
	}
	return out
}

// toLSPDiagnostic converts a 1-based rjs.Diagnostic position to LSP's
// 0-based Position, collapsing to a single-character range since the
// checker/parser do not currently track end positions.
func toLSPDiagnostic(d rjs.Diagnostic) Diagnostic {
	line := d.Line - 1
	if line < 0 {
		line = 0
	}
	col := d.Col - 1
	if col < 0 {
		col = 0
	}
	sev := SeverityError
	if d.Severity == rjs.SeverityWarning {
		sev = SeverityWarning
	}
	return Diagnostic{
		Range: Range{
			Start: Position{Line: line, Character: col},
			End:   Position{Line: line, Character: col + 1},
		},
		Severity: sev,
		Source:   "rjs",
		Message:  d.Msg,
	}
}
