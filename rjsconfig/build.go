package rjsconfig

import (
	"github.com/rustyjsonserver/rjs/jsonval"
)

// Build resolves rootPath the same way Resolve does, then renders the
// result as a single monolithic config document with every fref/$ref
// already spliced in — the `build --config --output` CLI subcommand (spec
// §6). An fref-ed script is inlined as its source text so the emitted file
// is self-contained.
func Build(rootPath string) (string, error) {
	table, err := Resolve(rootPath)
	if err != nil {
		return "", err
	}
	return jsonval.Encode(renderRouteTable(table)), nil
}

// renderRouteTable re-expresses a resolved RouteTable in the same
// resources/methods shape Resolve itself accepts, one resource per route
// with its full composed path and a single method — so `build`'s output is
// itself a valid, already-flat config (spec §8's resolver-idempotence
// property).
func renderRouteTable(table *RouteTable) jsonval.Value {
	root := jsonval.NewObject()
	root.Set("port", jsonval.Number(float64(table.Port)))

	resources := make([]jsonval.Value, 0, len(table.Routes))
	for _, r := range table.Routes {
		resources = append(resources, renderRoute(r))
	}
	root.Set("resources", jsonval.Array(resources))
	return root
}

func renderRoute(r Route) jsonval.Value {
	method := jsonval.NewObject()
	method.Set("method", jsonval.String(string(r.Verb)))
	if r.Handler.Static != nil {
		resp := jsonval.NewObject()
		resp.Set("status", jsonval.Number(float64(r.Handler.Static.Status)))
		resp.Set("body", r.Handler.Static.Body)
		method.Set("response", resp)
	}
	if r.Handler.Script != nil {
		method.Set("script", jsonval.String(r.Handler.Script.Source))
	}

	out := jsonval.NewObject()
	out.Set("path", jsonval.String(r.PatternString()))
	out.Set("methods", jsonval.Array([]jsonval.Value{method}))
	return out
}
