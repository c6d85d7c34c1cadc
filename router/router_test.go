package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/rustyjsonserver/rjs/cache"
	"github.com/rustyjsonserver/rjs/jsonval"
	"github.com/rustyjsonserver/rjs/pkg/metrics"
	"github.com/rustyjsonserver/rjs/rjs"
	"github.com/rustyjsonserver/rjs/rjsconfig"
)

func testDeps() (rjs.CacheService, rjs.DBService, zerolog.Logger, metrics.Recorder) {
	return cache.New(), noopDB{}, zerolog.Nop(), metrics.NewRecorder(metrics.NoopProvider{})
}

// noopDB satisfies rjs.DBService for routes that never touch storage.
type noopDB struct{}

func (noopDB) CreateTable(string) error                                      { return nil }
func (noopDB) GetAllTables() ([]string, error)                                { return nil, nil }
func (noopDB) DropTable(string) error                                         { return nil }
func (noopDB) Drop() error                                                    { return nil }
func (noopDB) CreateEntry(string, jsonval.Value) (jsonval.Value, error)       { return jsonval.Value{}, nil }
func (noopDB) GetAll(string) ([]jsonval.Value, error)                        { return nil, nil }
func (noopDB) GetById(string, jsonval.Value) (jsonval.Value, bool, error)    { return jsonval.Value{}, false, nil }
func (noopDB) GetByFields(string, jsonval.Value) ([]jsonval.Value, error)    { return nil, nil }
func (noopDB) UpdateById(string, jsonval.Value, jsonval.Value) (bool, error) { return false, nil }
func (noopDB) UpdateByFields(string, jsonval.Value, jsonval.Value) (int, error) {
	return 0, nil
}
func (noopDB) DeleteById(string, jsonval.Value) (bool, error)     { return false, nil }
func (noopDB) DeleteByFields(string, jsonval.Value) (int, error) { return 0, nil }

func mustCompile(t *testing.T, src string) *rjs.Program {
	t.Helper()
	prog, err := rjs.Parse(src)
	require.NoError(t, err)
	diags := rjs.Check(prog)
	require.Empty(t, diags)
	return prog
}

func staticRoute(verb rjsconfig.Verb, pattern []rjsconfig.Segment, status int, body jsonval.Value) rjsconfig.Route {
	return rjsconfig.Route{
		Verb:    verb,
		Pattern: pattern,
		Handler: rjsconfig.Handler{Static: &rjsconfig.StaticResponse{Status: status, Body: body}},
	}
}

func TestDispatcherServesStaticHello(t *testing.T) {
	body := jsonval.NewObject()
	body.Set("message", jsonval.String("Hello, World!"))
	table := &rjsconfig.RouteTable{
		Port: 8080,
		Routes: []rjsconfig.Route{
			staticRoute(rjsconfig.VerbGet, []rjsconfig.Segment{{Kind: rjsconfig.SegLiteral, Text: "hello"}}, 200, body),
		},
	}
	cache, db, logger, rec := testDeps()
	d := New(table, cache, db, logger, rec)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/hello", nil)
	d.ServeHTTP(rr, req)

	require.Equal(t, 200, rr.Code)
	require.JSONEq(t, `{"message":"Hello, World!"}`, rr.Body.String())
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestDispatcherServesDynamicPathParam(t *testing.T) {
	prog := mustCompile(t, `return {id: req.params.id};`)
	table := &rjsconfig.RouteTable{
		Port: 8080,
		Routes: []rjsconfig.Route{
			{
				Verb: rjsconfig.VerbGet,
				Pattern: []rjsconfig.Segment{
					{Kind: rjsconfig.SegLiteral, Text: "users"},
					{Kind: rjsconfig.SegParam, Text: "id"},
				},
				Handler: rjsconfig.Handler{Script: &rjsconfig.CompiledScript{Program: prog, Source: `return {id: req.params.id};`}},
			},
		},
	}
	cache, db, logger, rec := testDeps()
	d := New(table, cache, db, logger, rec)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/42", nil)
	d.ServeHTTP(rr, req)

	require.Equal(t, 200, rr.Code)
	require.JSONEq(t, `{"id":"42"}`, rr.Body.String())
}

func TestDispatcherReturns404ForUnknownPath(t *testing.T) {
	table := &rjsconfig.RouteTable{Port: 8080}
	cache, db, logger, rec := testDeps()
	d := New(table, cache, db, logger, rec)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	d.ServeHTTP(rr, req)

	require.Equal(t, 404, rr.Code)
	require.JSONEq(t, `{"error":"no route for GET /nope"}`, rr.Body.String())
}

func TestDispatcherReturns405ForWrongVerb(t *testing.T) {
	body := jsonval.NewObject()
	table := &rjsconfig.RouteTable{
		Port: 8080,
		Routes: []rjsconfig.Route{
			staticRoute(rjsconfig.VerbGet, []rjsconfig.Segment{{Kind: rjsconfig.SegLiteral, Text: "hello"}}, 200, body),
		},
	}
	cache, db, logger, rec := testDeps()
	d := New(table, cache, db, logger, rec)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/hello", nil)
	d.ServeHTTP(rr, req)

	require.Equal(t, 405, rr.Code)
}

func TestDispatcherSwapInstallsNewTable(t *testing.T) {
	table1 := &rjsconfig.RouteTable{Port: 8080}
	cache, db, logger, rec := testDeps()
	d := New(table1, cache, db, logger, rec)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/hello", nil)
	d.ServeHTTP(rr, req)
	require.Equal(t, 404, rr.Code)

	body := jsonval.NewObject()
	body.Set("ok", jsonval.Bool(true))
	table2 := &rjsconfig.RouteTable{
		Port: 9090,
		Routes: []rjsconfig.Route{
			staticRoute(rjsconfig.VerbGet, []rjsconfig.Segment{{Kind: rjsconfig.SegLiteral, Text: "hello"}}, 200, body),
		},
	}
	d.Swap(table2)

	rr2 := httptest.NewRecorder()
	d.ServeHTTP(rr2, req)
	require.Equal(t, 200, rr2.Code)
	require.Equal(t, 9090, d.Port())
}

func TestDispatcherReturns500ForScriptRuntimeError(t *testing.T) {
	prog := mustCompile(t, `let x: num = 1; return x / 0;`)
	table := &rjsconfig.RouteTable{
		Port: 8080,
		Routes: []rjsconfig.Route{
			{
				Verb:    rjsconfig.VerbGet,
				Pattern: []rjsconfig.Segment{{Kind: rjsconfig.SegLiteral, Text: "boom"}},
				Handler: rjsconfig.Handler{Script: &rjsconfig.CompiledScript{Program: prog, Source: "..."}},
			},
		},
	}
	cache, db, logger, rec := testDeps()
	d := New(table, cache, db, logger, rec)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	d.ServeHTTP(rr, req)

	require.Equal(t, 500, rr.Code)
}
