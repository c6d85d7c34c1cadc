package watch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/rustyjsonserver/rjs/cache"
	"github.com/rustyjsonserver/rjs/jsonval"
	"github.com/rustyjsonserver/rjs/pkg/metrics"
	"github.com/rustyjsonserver/rjs/rjsconfig"
	"github.com/rustyjsonserver/rjs/router"
)

// noopDB satisfies rjs.DBService for configs whose scripts never touch
// storage.
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

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func helloBody(t *testing.T, d *router.Dispatcher) string {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/hello", nil)
	d.ServeHTTP(rr, req)
	return rr.Body.String()
}

func TestWatcherRebuildsAfterDebounceWindow(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "root.json")
	writeConfig(t, root, `{"port":8080,"resources":[{"path":"hello","methods":[{"method":"GET","response":{"status":200,"body":{"message":"v1"}}}]}]}`)

	table, err := rjsconfig.Resolve(root)
	require.NoError(t, err)

	rec := metrics.NewRecorder(metrics.NoopProvider{})
	d := router.New(table, cache.New(), noopDB{}, zerolog.Nop(), rec)
	require.JSONEq(t, `{"message":"v1"}`, helloBody(t, d))

	w, err := New(root, table.Files, d, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	writeConfig(t, root, `{"port":8080,"resources":[{"path":"hello","methods":[{"method":"GET","response":{"status":200,"body":{"message":"v2"}}}]}]}`)

	require.Eventually(t, func() bool {
		return helloBody(t, d) == `{"message":"v2"}`
	}, 2*time.Second, 20*time.Millisecond)
}

func TestWatcherKeepsOldTableOnRebuildFailure(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "root.json")
	writeConfig(t, root, `{"port":8080,"resources":[{"path":"hello","methods":[{"method":"GET","response":{"status":200,"body":{"message":"v1"}}}]}]}`)

	table, err := rjsconfig.Resolve(root)
	require.NoError(t, err)

	rec := metrics.NewRecorder(metrics.NoopProvider{})
	d := router.New(table, cache.New(), noopDB{}, zerolog.Nop(), rec)

	w, err := New(root, table.Files, d, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	writeConfig(t, root, `{ not valid json`)
	time.Sleep(Debounce + 200*time.Millisecond)

	require.JSONEq(t, `{"message":"v1"}`, helloBody(t, d))
}
