package rjsconfig

import "fmt"

// ConfigLoadError reports a missing file, malformed JSON, shape mismatch, or
// fref cycle discovered while reading the config tree (spec §7, kind 1).
type ConfigLoadError struct {
	File    string
	Pointer string
	Msg     string
}

func (e *ConfigLoadError) Error() string {
	if e.Pointer != "" {
		return fmt.Sprintf("rjsconfig: load error in %s at %s: %s", e.File, e.Pointer, e.Msg)
	}
	return fmt.Sprintf("rjsconfig: load error in %s: %s", e.File, e.Msg)
}

// HTTPStatus implements the §10.2 error-kind contract: config load failures
// never reach a request, but the mapping is kept uniform across error kinds.
func (e *ConfigLoadError) HTTPStatus() int { return 500 }

// ScriptCompileError wraps a lex/parse/type-check failure surfaced while
// compiling an inline or fref-ed script (spec §7, kind 2).
type ScriptCompileError struct {
	File      string
	Line, Col int
	Msg       string
}

func (e *ScriptCompileError) Error() string {
	return fmt.Sprintf("rjsconfig: script compile error in %s at %d:%d: %s", e.File, e.Line, e.Col, e.Msg)
}

func (e *ScriptCompileError) HTTPStatus() int { return 500 }

// RouteBuildError reports a duplicate route, an unknown verb, or a
// bad status code (spec §7, kind 3).
type RouteBuildError struct {
	File    string
	Pointer string
	Msg     string
}

func (e *RouteBuildError) Error() string {
	return fmt.Sprintf("rjsconfig: route build error in %s at %s: %s", e.File, e.Pointer, e.Msg)
}

func (e *RouteBuildError) HTTPStatus() int { return 500 }
