// Package router dispatches inbound HTTP requests against a resolved
// RouteTable (component C9, spec §4.5): a linear scan in the table's
// insertion order, first match wins, 404 when no path matches and 405 when
// the path matches but the verb doesn't. Routes are registered into a
// gorilla/mux router in that same order so mux's own registration-order
// matching reproduces the spec's literal scan, while its
// NotFoundHandler/MethodNotAllowedHandler split gives the 404/405 distinction
// for free.
package router

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/rustyjsonserver/rjs/jsonval"
	"github.com/rustyjsonserver/rjs/pkg/logging"
	"github.com/rustyjsonserver/rjs/pkg/metrics"
	"github.com/rustyjsonserver/rjs/rjs"
	"github.com/rustyjsonserver/rjs/rjsconfig"
)

// snapshot bundles a resolved RouteTable with the mux.Router built from it,
// so a hot-reload rebuilds both together and every request sees one or the
// other in full (spec §8's atomic-swap property: no mixed routing within a
// single request).
type snapshot struct {
	table *rjsconfig.RouteTable
	mux   *mux.Router
}

// Dispatcher serves HTTP requests against the currently installed route
// table, and accepts hot-reload swaps from the watcher (component C10).
type Dispatcher struct {
	current atomic.Pointer[snapshot]

	cache    rjs.CacheService
	db       rjs.DBService
	baseLog  zerolog.Logger
	recorder metrics.Recorder
}

// New builds a Dispatcher already serving table.
func New(table *rjsconfig.RouteTable, cache rjs.CacheService, db rjs.DBService, baseLog zerolog.Logger, rec metrics.Recorder) *Dispatcher {
	d := &Dispatcher{cache: cache, db: db, baseLog: baseLog, recorder: rec}
	d.Swap(table)
	return d
}

// Swap installs a newly resolved table, atomically replacing the one being
// served. Existing in-flight requests keep routing against the snapshot they
// already loaded.
func (d *Dispatcher) Swap(table *rjsconfig.RouteTable) {
	snap := &snapshot{table: table, mux: d.buildMux(table)}
	d.current.Store(snap)
	d.baseLog.Info().Int("routes", len(table.Routes)).Int("port", table.Port).Msg("route table installed")
}

// Port returns the port the currently installed table declares.
func (d *Dispatcher) Port() int {
	return d.current.Load().table.Port
}

// ServeHTTP implements http.Handler, wrapping every request in the
// observability middleware before delegating to the installed mux.Router.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snap := d.current.Load()
	observabilityMiddleware(d.baseLog, snap.mux).ServeHTTP(w, r)
}

func (d *Dispatcher) buildMux(table *rjsconfig.RouteTable) *mux.Router {
	m := mux.NewRouter()
	for _, route := range table.Routes {
		route := route
		m.Path(toMuxPattern(route.Pattern)).
			Methods(string(route.Verb)).
			HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				d.serveRoute(w, r, route)
			})
	}
	m.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d.writeDispatchError(w, r, &RequestDispatchError{Method: r.Method, Path: r.URL.Path})
	})
	m.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d.writeDispatchError(w, r, &RequestDispatchError{Method: r.Method, Path: r.URL.Path, NoVerb: true})
	})
	return m
}

func (d *Dispatcher) writeDispatchError(w http.ResponseWriter, r *http.Request, dispatchErr *RequestDispatchError) {
	logger := zerolog.Ctx(r.Context())
	logger.Warn().Str("method", dispatchErr.Method).Str("path", dispatchErr.Path).Msg(dispatchErr.Error())
	writeJSONError(w, dispatchErr.HTTPStatus(), dispatchErr.Error())
}

func (d *Dispatcher) serveRoute(w http.ResponseWriter, r *http.Request, route rjsconfig.Route) {
	start := time.Now()
	logger := logging.ForRequest(*zerolog.Ctx(r.Context()), route.PatternString())

	status, body, err := d.execute(r, route, logger)
	latency := float64(time.Since(start).Milliseconds())
	d.recorder.RequestCompleted(route.PatternString(), string(route.Verb), status, latency)

	if err != nil {
		logger.Error().Err(err).Msg("script runtime error")
		writeJSONError(w, status, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// execute runs one route's handler, either serving its Static response or
// interpreting its compiled Script against the current request environment.
func (d *Dispatcher) execute(r *http.Request, route rjsconfig.Route, logger zerolog.Logger) (status int, body string, err error) {
	if route.Handler.Static != nil {
		return route.Handler.Static.Status, jsonval.Encode(route.Handler.Static.Body), nil
	}

	reqInfo, buildErr := buildRequestInfo(r)
	if buildErr != nil {
		return 500, "", &ScriptRuntimeError{Route: route.PatternString(), Cause: buildErr}
	}

	host := &rjs.Host{
		Cache:  d.cache,
		DB:     d.db,
		Logger: logging.NewScriptLogger(logger),
		Req:    reqInfo,
	}

	script := route.Handler.Script
	result, runErr := rjs.NewInterp(script.Program, host).Run(script.Program)
	if runErr != nil {
		return 500, "", &ScriptRuntimeError{Route: route.PatternString(), Cause: runErr}
	}

	return result.Status, jsonval.Encode(rjs.ToJSONVal(result.Value)), nil
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc, _ := json.Marshal(map[string]string{"error": message})
	w.Write(enc)
}
