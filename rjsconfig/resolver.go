package rjsconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rustyjsonserver/rjs/rjs"
)

const defaultPort = 8080

// buildCtx threads state through one end-to-end resolve: the fref ancestry
// stack for cycle detection, every file read (for the watcher), and the
// struct-tag validator applied to each decoded value.
type buildCtx struct {
	ancestry  []string // canonicalized absolute paths currently being spliced
	filesRead []string
	seenFiles map[string]bool
	validator *fieldValidator
}

// Resolve loads rootPath end to end and produces the live RouteTable plus
// the set of files that participated in the build (spec §4.1).
func Resolve(rootPath string) (*RouteTable, error) {
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, &ConfigLoadError{File: rootPath, Msg: err.Error()}
	}

	ctx := &buildCtx{seenFiles: map[string]bool{}, validator: newFieldValidator()}
	root, port, err := ctx.loadRoot(abs)
	if err != nil {
		return nil, err
	}

	table := &RouteTable{Port: port, Files: ctx.filesRead}
	seen := map[string]bool{}
	if err := flatten(root, nil, table, seen); err != nil {
		return nil, err
	}
	return table, nil
}

// loadRoot reads the root config file and resolves it into a ConfigNode
// (whose own Path is always empty, since the root contributes no segment)
// plus the declared port.
func (ctx *buildCtx) loadRoot(absPath string) (*ConfigNode, int, error) {
	data, err := ctx.readFile(absPath)
	if err != nil {
		return nil, 0, err
	}
	raw, err := decodeRawNode(data)
	if err != nil {
		return nil, 0, &ConfigLoadError{File: absPath, Msg: err.Error()}
	}

	port := defaultPort
	if raw.Port != nil {
		port = *raw.Port
		if err := ctx.validator.validatePort(port); err != nil {
			return nil, 0, &ConfigLoadError{File: absPath, Pointer: "/port", Msg: err.Error()}
		}
	}
	raw.Path = ""

	node, err := ctx.buildNode(filepath.Dir(absPath), raw)
	if err != nil {
		return nil, 0, err
	}
	return node, port, nil
}

// readFile reads a config file, recording it for the watcher's file set.
func (ctx *buildCtx) readFile(absPath string) ([]byte, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, &ConfigLoadError{File: absPath, Msg: err.Error()}
	}
	if !ctx.seenFiles[absPath] {
		ctx.seenFiles[absPath] = true
		ctx.filesRead = append(ctx.filesRead, absPath)
	}
	return data, nil
}

// taggedRaw carries a not-yet-decoded JSON fragment alongside the directory
// it should resolve any further fref against — needed once fref splicing
// starts mixing fragments that physically live in different files.
type taggedRaw struct {
	dir  string
	data json.RawMessage
}

// mergeFref resolves node's own fref/$ref chain (following a spliced file's
// further fref, and so on) and returns its methods/children merged with
// whatever the enclosing node already declared, per §4.1's "extend, don't
// override" rule. Cycle detection walks ctx.ancestry, the current splice
// chain, rather than every file ever read in the build — the literal
// reading of "per-build visited set" would reject a shared partial spliced
// from two different sibling nodes, which is not a cycle.
func (ctx *buildCtx) mergeFref(dir string, node rawNode) ([]taggedRaw, []taggedRaw, error) {
	var methods, children []taggedRaw
	for _, m := range node.Methods {
		methods = append(methods, taggedRaw{dir, m})
	}
	kids := node.Children
	if len(node.Resources) > 0 {
		kids = node.Resources
	}
	for _, c := range kids {
		children = append(children, taggedRaw{dir, c})
	}

	fr := node.fref()
	if fr == "" {
		return methods, children, nil
	}

	target := filepath.Join(dir, fr)
	canon, err := filepath.Abs(target)
	if err != nil {
		return nil, nil, &ConfigLoadError{File: dir, Msg: err.Error()}
	}
	for _, a := range ctx.ancestry {
		if a == canon {
			return nil, nil, &ConfigLoadError{File: canon, Msg: "fref cycle detected"}
		}
	}

	ctx.ancestry = append(ctx.ancestry, canon)
	defer func() { ctx.ancestry = ctx.ancestry[:len(ctx.ancestry)-1] }()

	data, err := ctx.readFile(canon)
	if err != nil {
		return nil, nil, err
	}
	spliced, err := decodeRawNode(data)
	if err != nil {
		return nil, nil, &ConfigLoadError{File: canon, Msg: err.Error()}
	}

	splicedMethods, splicedChildren, err := ctx.mergeFref(filepath.Dir(canon), spliced)
	if err != nil {
		return nil, nil, err
	}
	methods = append(methods, splicedMethods...)
	children = append(children, splicedChildren...)
	return methods, children, nil
}

// buildNode fully resolves one rawNode (including its fref splice) into a
// ConfigNode with decoded methods and recursively-built children.
func (ctx *buildCtx) buildNode(dir string, raw rawNode) (*ConfigNode, error) {
	methodsAt, childrenAt, err := ctx.mergeFref(dir, raw)
	if err != nil {
		return nil, err
	}

	node := &ConfigNode{Path: raw.Path}

	seenVerbs := map[string]bool{}
	for _, mAt := range methodsAt {
		var rm rawMethod
		if err := json.Unmarshal(mAt.data, &rm); err != nil {
			return nil, &ConfigLoadError{File: mAt.dir, Msg: fmt.Sprintf("malformed method: %v", err)}
		}
		verb := strings.ToUpper(rm.Method)
		if err := ctx.validator.validateVerb(verb); err != nil {
			return nil, &RouteBuildError{File: mAt.dir, Msg: err.Error()}
		}
		if seenVerbs[verb] {
			return nil, &RouteBuildError{File: mAt.dir, Msg: fmt.Sprintf("duplicate method %q on node %q", verb, raw.Path)}
		}
		seenVerbs[verb] = true

		handler, err := ctx.buildHandler(mAt.dir, rm)
		if err != nil {
			return nil, err
		}
		node.Methods = append(node.Methods, Method{Verb: Verb(verb), Handler: handler})
	}

	for _, cAt := range childrenAt {
		var craw rawNode
		if err := json.Unmarshal(cAt.data, &craw); err != nil {
			return nil, &ConfigLoadError{File: cAt.dir, Msg: fmt.Sprintf("malformed child node: %v", err)}
		}
		child, err := ctx.buildNode(cAt.dir, craw)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}

	return node, nil
}

// buildHandler decodes exactly one of a method's response/script into a
// Handler, compiling any script immediately (spec §4.1's "errors surface at
// build time, not per-request").
func (ctx *buildCtx) buildHandler(dir string, rm rawMethod) (Handler, error) {
	hasResponse := rm.Response != nil
	hasScript := len(rm.Script) > 0
	if hasResponse == hasScript {
		return Handler{}, &RouteBuildError{File: dir, Msg: "method must declare exactly one of response or script"}
	}

	if hasResponse {
		status := 200
		if rm.Response.Status != nil {
			status = *rm.Response.Status
			if err := ctx.validator.validateStatus(status); err != nil {
				return Handler{}, &RouteBuildError{File: dir, Msg: err.Error()}
			}
		}
		body, err := decodeJSONValue(rm.Response.Body)
		if err != nil {
			return Handler{}, &ConfigLoadError{File: dir, Msg: err.Error()}
		}
		return Handler{Static: &StaticResponse{Status: status, Body: body}}, nil
	}

	source, fref, isFref, err := decodeScript(rm.Script)
	if err != nil {
		return Handler{}, &ConfigLoadError{File: dir, Msg: err.Error()}
	}

	sourceFile := ""
	if isFref {
		target := filepath.Join(dir, fref)
		abs, err := filepath.Abs(target)
		if err != nil {
			return Handler{}, &ConfigLoadError{File: dir, Msg: err.Error()}
		}
		data, err := ctx.readFile(abs)
		if err != nil {
			return Handler{}, err
		}
		source = string(data)
		sourceFile = abs
	}

	compiled, err := ctx.compileScript(sourceFile, source)
	if err != nil {
		return Handler{}, err
	}
	return Handler{Script: compiled}, nil
}

// compileScript runs C3→C5 once at build time so a broken script never
// surfaces mid-request.
func (ctx *buildCtx) compileScript(sourceFile, source string) (*CompiledScript, error) {
	label := sourceFile
	if label == "" {
		label = "<inline>"
	}
	prog, err := rjs.Parse(source)
	if err != nil {
		if pe, ok := err.(*rjs.ParseError); ok {
			return nil, &ScriptCompileError{File: label, Line: pe.Line, Col: pe.Col, Msg: pe.Msg}
		}
		return nil, &ScriptCompileError{File: label, Msg: err.Error()}
	}
	for _, d := range rjs.Check(prog) {
		if d.Severity == rjs.SeverityError {
			return nil, &ScriptCompileError{File: label, Line: d.Line, Col: d.Col, Msg: d.Msg}
		}
	}
	return &CompiledScript{Program: prog, Source: source, SourceFile: sourceFile}, nil
}

// splitPath turns a node's `path` into Literal/Param segments: leading and
// trailing slashes stripped, empty segments dropped, a leading `:` marks a
// capture (spec §4.1).
func splitPath(path string) []Segment {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	parts := strings.Split(trimmed, "/")
	segs := make([]Segment, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if strings.HasPrefix(p, ":") {
			segs = append(segs, Segment{Kind: SegParam, Text: p[1:]})
		} else {
			segs = append(segs, Segment{Kind: SegLiteral, Text: p})
		}
	}
	return segs
}

// patternKey renders a pattern's shape for duplicate-route detection,
// ignoring param names: two param segments in the same position collide
// regardless of what each calls its capture, since they match identical
// requests.
func patternKey(pattern []Segment) string {
	var sb strings.Builder
	for _, s := range pattern {
		sb.WriteByte('/')
		if s.Kind == SegParam {
			sb.WriteByte(':')
		} else {
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}

// flatten walks the resolved ConfigNode tree depth-first, composing path
// patterns and appending one Route per method in source order (spec §4.1's
// determinism requirement).
func flatten(node *ConfigNode, parentPattern []Segment, table *RouteTable, seen map[string]bool) error {
	pattern := append(append([]Segment{}, parentPattern...), splitPath(node.Path)...)

	for _, m := range node.Methods {
		key := string(m.Verb) + " " + patternKey(pattern)
		if seen[key] {
			r := Route{Verb: m.Verb, Pattern: pattern}
			return &RouteBuildError{Msg: fmt.Sprintf("duplicate route %s %s", m.Verb, r.PatternString())}
		}
		seen[key] = true
		table.Routes = append(table.Routes, Route{Verb: m.Verb, Pattern: pattern, Handler: m.Handler})
	}

	for _, c := range node.Children {
		if err := flatten(c, pattern, table, seen); err != nil {
			return err
		}
	}
	return nil
}
