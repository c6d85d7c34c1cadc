package router

import (
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/rustyjsonserver/rjs/jsonval"
	"github.com/rustyjsonserver/rjs/rjs"
)

// buildRequestInfo assembles the `req` environment a Dynamic handler's
// script sees (spec §4.5): repeated query params or headers collapse into a
// vec<str>, a single occurrence stays a str, body is parsed JSON or `{}`.
func buildRequestInfo(r *http.Request) (rjs.RequestInfo, error) {
	body, err := parseJSONBody(r)
	if err != nil {
		return rjs.RequestInfo{}, err
	}

	params := map[string]string{}
	for k, v := range mux.Vars(r) {
		params[k] = v
	}

	return rjs.RequestInfo{
		Method:  r.Method,
		Path:    r.URL.Path,
		Params:  params,
		Query:   collapseValues(r.URL.Query()),
		Headers: collapseHeaders(r.Header),
		Body:    body,
	}, nil
}

func parseJSONBody(r *http.Request) (jsonval.Value, error) {
	if r.Body == nil {
		return jsonval.NewObject(), nil
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return jsonval.Value{}, err
	}
	if len(data) == 0 {
		return jsonval.NewObject(), nil
	}
	ct := r.Header.Get("Content-Type")
	if ct != "" && !strings.Contains(ct, "application/json") {
		return jsonval.NewObject(), nil
	}
	v, err := jsonval.Decode(data)
	if err != nil {
		return jsonval.NewObject(), nil
	}
	return v, nil
}

func collapseValues(values map[string][]string) map[string]rjs.Value {
	out := map[string]rjs.Value{}
	for k, vs := range values {
		out[k] = collapseOne(vs)
	}
	return out
}

// collapseHeaders lower-cases header names per §4.5 and applies the same
// single-value-vs-vec<str> collapsing rule.
func collapseHeaders(h http.Header) map[string]rjs.Value {
	out := map[string]rjs.Value{}
	for k, vs := range h {
		out[strings.ToLower(k)] = collapseOne(vs)
	}
	return out
}

func collapseOne(vs []string) rjs.Value {
	if len(vs) == 0 {
		return rjs.StrVal("")
	}
	if len(vs) == 1 {
		return rjs.StrVal(vs[0])
	}
	items := make([]rjs.Value, len(vs))
	for i, v := range vs {
		items[i] = rjs.StrVal(v)
	}
	return rjs.VecVal(items)
}
