// Package rjs is the root of RustyJSONServer: a configurable mock HTTP API
// server driven by a JSON-declared routing tree, with a small strongly-typed
// scripting language (also called RJS) for dynamic responses.
//
// Overview:
//
// A route config is a tree of JSON fragments (optionally split across
// multiple files and spliced together with `fref`/`$ref`) that resolves at
// build time into a flat, ordered RouteTable: one (verb, path pattern) entry
// per declared method, each bound to either a static JSON response or a
// compiled RJS script. The server dispatches each request against the table
// in source order, first match wins, and reports 404/405 on a miss. Config
// and script changes are picked up by a hot-reload coordinator that rebuilds
// the table and swaps it in atomically, without interrupting in-flight
// requests.
//
// Sub-packages:
//
//   - jsonval:   tagged JSON value type shared by the config layer, the
//     RJS interpreter, and the JSON-table store, preserving object key order.
//   - rjsconfig: route-config resolver (fref/$ref splicing, path composition,
//     script compilation) producing the RouteTable.
//   - rjs:       the scripting language itself — lexer, parser, type checker,
//     tree-walking interpreter, and the Host interfaces scripts call into.
//   - cache:     the process-wide key/value cache scripts use via cacheSet/
//     cacheGet/cacheDel/cacheClear.
//   - store:     the per-table JSON file store behind dbCreateEntry and
//     friends, durable across restarts.
//   - router:    HTTP dispatch against a RouteTable, request environment
//     construction (req.params/query/headers/body), and observability
//     middleware.
//   - watch:     the fsnotify-backed hot-reload coordinator.
//   - lsp:       a Language Server Protocol subset for editor diagnostics
//     against RJS script buffers.
//   - envloader: process environment-variable loading into typed structs.
//
// Command-line entry points live under cmd/rjsserver (serve/build) and
// cmd/rjsls (the language server binary).
package rjs
