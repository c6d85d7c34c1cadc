package rjsconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveStaticHello(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "root.json", `{
		"port": 8080,
		"resources": [
			{"path": "hello", "methods": [
				{"method": "GET", "response": {"status": 200, "body": {"message": "Hello, World!"}}}
			]}
		]
	}`)

	table, err := Resolve(root)
	require.NoError(t, err)
	require.Equal(t, 8080, table.Port)
	require.Len(t, table.Routes, 1)
	require.Equal(t, VerbGet, table.Routes[0].Verb)
	require.Equal(t, "/hello", table.Routes[0].PatternString())
	require.NotNil(t, table.Routes[0].Handler.Static)
	require.Equal(t, 200, table.Routes[0].Handler.Static.Status)
}

func TestResolvePathParameter(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "root.json", `{
		"resources": [
			{"path": "users", "children": [
				{"path": ":id", "methods": [
					{"method": "GET", "script": "return {id: req.params.id};"}
				]}
			]}
		]
	}`)

	table, err := Resolve(root)
	require.NoError(t, err)
	require.Len(t, table.Routes, 1)
	require.Equal(t, "/users/:id", table.Routes[0].PatternString())
	require.NotNil(t, table.Routes[0].Handler.Script)
}

func TestResolveNestedFref(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Users/Users.json", `{
		"methods": [
			{"method": "POST", "response": {"status": 200, "body": "Mock POST response for user details"}}
		]
	}`)
	root := writeFile(t, dir, "root.json", `{
		"resources": [
			{"path": "api/v1/users", "children": [
				{"path": "details", "fref": "Users/Users.json"}
			]}
		]
	}`)

	table, err := Resolve(root)
	require.NoError(t, err)
	require.Len(t, table.Routes, 1)
	require.Equal(t, "/api/v1/users/details", table.Routes[0].PatternString())
	require.Equal(t, VerbPost, table.Routes[0].Verb)
}

func TestResolveDollarRefAliasesFref(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "part.json", `{
		"methods": [{"method": "GET", "response": {"body": {}}}]
	}`)
	root := writeFile(t, dir, "root.json", `{
		"resources": [{"path": "x", "$ref": "part.json"}]
	}`)

	table, err := Resolve(root)
	require.NoError(t, err)
	require.Len(t, table.Routes, 1)
}

func TestResolveRejectsDuplicateRoute(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "root.json", `{
		"resources": [
			{"path": "foo", "methods": [{"method": "GET", "response": {"body": {}}}]},
			{"path": "foo", "methods": [{"method": "GET", "response": {"body": {}}}]}
		]
	}`)

	_, err := Resolve(root)
	require.Error(t, err)
	var rbErr *RouteBuildError
	require.ErrorAs(t, err, &rbErr)
}

func TestResolveRejectsUnknownVerb(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "root.json", `{
		"resources": [
			{"path": "foo", "methods": [{"method": "TRACE", "response": {"body": {}}}]}
		]
	}`)

	_, err := Resolve(root)
	require.Error(t, err)
	var rbErr *RouteBuildError
	require.ErrorAs(t, err, &rbErr)
}

func TestResolveRejectsFrefCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{"fref": "b.json"}`)
	writeFile(t, dir, "b.json", `{"fref": "a.json"}`)
	root := writeFile(t, dir, "root.json", `{
		"resources": [{"path": "x", "fref": "a.json"}]
	}`)

	_, err := Resolve(root)
	require.Error(t, err)
	var loadErr *ConfigLoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestResolveRejectsBadStatus(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "root.json", `{
		"resources": [
			{"path": "foo", "methods": [{"method": "GET", "response": {"status": 999, "body": {}}}]}
		]
	}`)

	_, err := Resolve(root)
	require.Error(t, err)
}

func TestResolveRejectsScriptCompileError(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "root.json", `{
		"resources": [
			{"path": "foo", "methods": [{"method": "GET", "script": "let x: num = \"not a number\";"}]}
		]
	}`)

	_, err := Resolve(root)
	require.Error(t, err)
	var scErr *ScriptCompileError
	require.ErrorAs(t, err, &scErr)
}

func TestResolveMissingFile(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	var loadErr *ConfigLoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestBuildIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "root.json", `{
		"resources": [
			{"path": "hello", "methods": [{"method": "GET", "response": {"body": {"ok": true}}}]}
		]
	}`)

	first, err := Build(root)
	require.NoError(t, err)

	dir2 := t.TempDir()
	rebuilt := writeFile(t, dir2, "root.json", first)
	second, err := Build(rebuilt)
	require.NoError(t, err)

	require.Equal(t, first, second)
}
