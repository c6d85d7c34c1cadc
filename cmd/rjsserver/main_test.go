package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunRejectsMissingSubcommand(t *testing.T) {
	require.Equal(t, exitBadArgs, run(context.Background(), nil))
}

func TestRunRejectsUnknownSubcommand(t *testing.T) {
	require.Equal(t, exitBadArgs, run(context.Background(), []string{"frobnicate"}))
}

func TestRunBuildRequiresBothFlags(t *testing.T) {
	require.Equal(t, exitBadArgs, run(context.Background(), []string{"build", "-config", "x.json"}))
}

func TestRunBuildWritesResolvedConfig(t *testing.T) {
	dir := t.TempDir()
	root := writeConfig(t, dir, "root.json", `{"port":8080,"resources":[{"path":"hello","methods":[{"method":"GET","response":{"status":200,"body":{"message":"hi"}}}]}]}`)
	out := filepath.Join(dir, "out.json")

	code := run(context.Background(), []string{"build", "-config", root, "-output", out})
	require.Equal(t, exitOK, code)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.Equal(t, float64(8080), parsed["port"])
}

func TestRunBuildFailsOnMissingFile(t *testing.T) {
	dir := t.TempDir()
	code := run(context.Background(), []string{"build", "-config", filepath.Join(dir, "missing.json"), "-output", filepath.Join(dir, "out.json")})
	require.Equal(t, exitBuildFailed, code)
}

func TestRunServeRequiresConfigFlag(t *testing.T) {
	require.Equal(t, exitBadArgs, run(context.Background(), []string{"serve"}))
}

func TestRunServeMapsConfigResolveFailureToExitBuildFailed(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RJS_DB_DIR", filepath.Join(dir, "data"))

	code := run(context.Background(), []string{"serve", "-config", filepath.Join(dir, "missing.json")})
	require.Equal(t, exitBuildFailed, code)
}

func TestServeWiresDispatcherWithoutBindingAListener(t *testing.T) {
	dir := t.TempDir()
	root := writeConfig(t, dir, "root.json", `{"resources":[{"path":"hello","methods":[{"method":"GET","response":{"status":200,"body":{"message":"hi"}}}]}]}`)

	t.Setenv("RJS_DB_DIR", filepath.Join(dir, "data"))

	var captured *http.Server
	originalStarter := serverStarter
	serverStarter = func(srv *http.Server) error {
		captured = srv
		return http.ErrServerClosed
	}
	defer func() { serverStarter = originalStarter }()

	procCfg, err := loadProcessConfig()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = serve(ctx, root, false, procCfg, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, captured)
}
