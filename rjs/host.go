package rjs

import "github.com/rustyjsonserver/rjs/jsonval"

// CacheService is the dependency-injected surface the interpreter's
// cacheSet/cacheGet/cacheDel/cacheClear built-ins call into (implemented by
// package cache, component C7). It is declared here rather than imported, so
// rjs stays free of a dependency on the cache package and its own
// dependents.
type CacheService interface {
	Get(key string) (jsonval.Value, bool)
	Set(key string, val jsonval.Value)
	Delete(key string) bool
	Clear()
}

// DBService is the dependency-injected surface for the db* built-ins
// (implemented by package store, component C8). Names mirror §6's builtin
// table directly.
type DBService interface {
	CreateTable(table string) error
	GetAllTables() ([]string, error)
	DropTable(table string) error
	Drop() error

	CreateEntry(table string, row jsonval.Value) (jsonval.Value, error)
	GetAll(table string) ([]jsonval.Value, error)
	GetById(table string, id jsonval.Value) (jsonval.Value, bool, error)
	GetByFields(table string, filter jsonval.Value) ([]jsonval.Value, error)
	UpdateById(table string, id jsonval.Value, patch jsonval.Value) (bool, error)
	UpdateByFields(table string, filter jsonval.Value, patch jsonval.Value) (int, error)
	DeleteById(table string, id jsonval.Value) (bool, error)
	DeleteByFields(table string, filter jsonval.Value) (int, error)
}

// HostLogger is the dependency-injected sink for the print() built-in
// (implemented in terms of pkg/logging's zerolog setup).
type HostLogger interface {
	Info(msg string)
}

// RequestInfo exposes the inbound HTTP request to a running script via the
// implicit `req` binding (spec §5). Query and Headers values are pre-built
// as Str or Vec<str> by the caller (component C9), collapsing repeated
// query params / header occurrences per §4.5.
type RequestInfo struct {
	Method  string
	Path    string
	Params  map[string]string
	Query   map[string]Value
	Headers map[string]Value
	Body    jsonval.Value
}

// Host bundles everything a script execution needs from the outside world.
type Host struct {
	Cache  CacheService
	DB     DBService
	Logger HostLogger
	Req    RequestInfo
}
