// Package rjsconfig resolves a tree of JSON route-configuration fragments
// into a flat, ordered RouteTable: fref/$ref inclusion, path composition and
// script compilation (spec §4.1, component C2).
package rjsconfig

import (
	"github.com/rustyjsonserver/rjs/jsonval"
	"github.com/rustyjsonserver/rjs/rjs"
)

// Verb is an HTTP method name accepted by a route config.
type Verb string

const (
	VerbGet     Verb = "GET"
	VerbPost    Verb = "POST"
	VerbPut     Verb = "PUT"
	VerbPatch   Verb = "PATCH"
	VerbDelete  Verb = "DELETE"
	VerbHead    Verb = "HEAD"
	VerbOptions Verb = "OPTIONS"
)

// StaticResponse is a fixed status/body pair served without running a script.
type StaticResponse struct {
	Status int
	Body   jsonval.Value
}

// CompiledScript is an RJS program compiled once at build time and reused
// across every request that hits its route.
type CompiledScript struct {
	Program    *rjs.Program
	Source     string
	SourceFile string // "" for an inline script
}

// Handler is exactly one of Static or Script, mirroring the Method's
// response-XOR-script invariant.
type Handler struct {
	Static *StaticResponse
	Script *CompiledScript
}

// SegmentKind distinguishes a literal path component from a captured one.
type SegmentKind int

const (
	SegLiteral SegmentKind = iota
	SegParam
)

// Segment is one `/`-delimited component of a route pattern.
type Segment struct {
	Kind SegmentKind
	Text string // literal text, or the param name when Kind == SegParam
}

// Route is one resolved (verb, pattern) pair with its handler.
type Route struct {
	Verb    Verb
	Pattern []Segment
	Handler Handler
}

// PatternString renders a Route's pattern back to its `/`-joined form, used
// for duplicate-route error messages and logging.
func (r Route) PatternString() string {
	s := ""
	for _, seg := range r.Pattern {
		s += "/"
		if seg.Kind == SegParam {
			s += ":" + seg.Text
		} else {
			s += seg.Text
		}
	}
	if s == "" {
		return "/"
	}
	return s
}

// RouteTable is the immutable, insertion-ordered output of a successful
// resolve: the live routing table C9 dispatches against.
type RouteTable struct {
	Port   int
	Routes []Route

	// Files lists every config/.rjscript path that participated in this
	// build, for C10 to watch.
	Files []string
}

// Method is one verb/handler pair declared on a ConfigNode.
type Method struct {
	Verb    Verb
	Handler Handler
}

// ConfigNode is the resolved, in-memory tree built by walking the config
// files and splicing in every fref/$ref, before it is flattened into a
// RouteTable (spec §3).
type ConfigNode struct {
	Path     string
	Methods  []Method
	Children []*ConfigNode
}

