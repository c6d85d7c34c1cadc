package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rustyjsonserver/rjs/jsonval"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func row(fields map[string]string) jsonval.Value {
	obj := jsonval.NewObject()
	for k, v := range fields {
		obj.Set(k, jsonval.String(v))
	}
	return obj
}

// TestDBLaw exercises spec §8's DB law directly: a row created, round-tripped
// through GetById, then deleted disappears from every subsequent lookup.
func TestDBLaw(t *testing.T) {
	s := newTestStore(t)
	created, err := s.CreateEntry("widgets", row(map[string]string{"name": "sprocket"}))
	require.NoError(t, err)

	id, ok := created.Get("id")
	require.True(t, ok)
	require.Equal(t, float64(1), id.AsNumber())

	got, found, err := s.GetById("widgets", id)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, jsonval.DeepEqual(created, got))

	deleted, err := s.DeleteById("widgets", id)
	require.NoError(t, err)
	require.True(t, deleted)

	_, found, err = s.GetById("widgets", id)
	require.NoError(t, err)
	require.False(t, found)
}

func TestCreateEntryAssignsIncrementingIds(t *testing.T) {
	s := newTestStore(t)
	a, err := s.CreateEntry("widgets", row(map[string]string{"name": "a"}))
	require.NoError(t, err)
	b, err := s.CreateEntry("widgets", row(map[string]string{"name": "b"}))
	require.NoError(t, err)

	aid, _ := a.Get("id")
	bid, _ := b.Get("id")
	require.Equal(t, float64(1), aid.AsNumber())
	require.Equal(t, float64(2), bid.AsNumber())
}

func TestPersistenceSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)
	_, err = s.CreateEntry("widgets", row(map[string]string{"name": "sprocket"}))
	require.NoError(t, err)

	require.FileExists(t, filepath.Join(dir, "widgets.json"))

	reopened, err := New(dir)
	require.NoError(t, err)
	rows, err := reopened.GetAll("widgets")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	name, _ := rows[0].Get("name")
	require.Equal(t, "sprocket", name.AsString())

	next, err := reopened.CreateEntry("widgets", row(map[string]string{"name": "cog"}))
	require.NoError(t, err)
	nid, _ := next.Get("id")
	require.Equal(t, float64(2), nid.AsNumber())
}

func TestGetByFieldsMatchesAllGivenFields(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateEntry("users", row(map[string]string{"name": "ada", "role": "admin"}))
	require.NoError(t, err)
	_, err = s.CreateEntry("users", row(map[string]string{"name": "grace", "role": "admin"}))
	require.NoError(t, err)
	_, err = s.CreateEntry("users", row(map[string]string{"name": "ada", "role": "user"}))
	require.NoError(t, err)

	filter := jsonval.NewObject()
	filter.Set("name", jsonval.String("ada"))
	filter.Set("role", jsonval.String("admin"))

	matches, err := s.GetByFields("users", filter)
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestUpdateByIdPatchesNamedFieldsOnly(t *testing.T) {
	s := newTestStore(t)
	created, err := s.CreateEntry("widgets", row(map[string]string{"name": "sprocket", "color": "red"}))
	require.NoError(t, err)
	id, _ := created.Get("id")

	patch := jsonval.NewObject()
	patch.Set("color", jsonval.String("blue"))
	ok, err := s.UpdateById("widgets", id, patch)
	require.NoError(t, err)
	require.True(t, ok)

	got, _, err := s.GetById("widgets", id)
	require.NoError(t, err)
	name, _ := got.Get("name")
	color, _ := got.Get("color")
	require.Equal(t, "sprocket", name.AsString())
	require.Equal(t, "blue", color.AsString())
}

func TestUpdateByFieldsReturnsCount(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateEntry("widgets", row(map[string]string{"color": "red"}))
	require.NoError(t, err)
	_, err = s.CreateEntry("widgets", row(map[string]string{"color": "red"}))
	require.NoError(t, err)
	_, err = s.CreateEntry("widgets", row(map[string]string{"color": "blue"}))
	require.NoError(t, err)

	filter := jsonval.NewObject()
	filter.Set("color", jsonval.String("red"))
	patch := jsonval.NewObject()
	patch.Set("color", jsonval.String("green"))

	count, err := s.UpdateByFields("widgets", filter, patch)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestDeleteByFieldsReturnsCount(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateEntry("widgets", row(map[string]string{"color": "red"}))
	require.NoError(t, err)
	_, err = s.CreateEntry("widgets", row(map[string]string{"color": "red"}))
	require.NoError(t, err)
	_, err = s.CreateEntry("widgets", row(map[string]string{"color": "blue"}))
	require.NoError(t, err)

	filter := jsonval.NewObject()
	filter.Set("color", jsonval.String("red"))
	count, err := s.DeleteByFields("widgets", filter)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	remaining, err := s.GetAll("widgets")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
}

func TestGetAllTablesListsDiskAndInMemoryTables(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateTable("empty"))
	_, err := s.CreateEntry("widgets", row(map[string]string{"name": "sprocket"}))
	require.NoError(t, err)

	names, err := s.GetAllTables()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"empty", "widgets"}, names)
}

func TestDropTableRemovesFile(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)
	_, err = s.CreateEntry("widgets", row(map[string]string{"name": "sprocket"}))
	require.NoError(t, err)

	require.NoError(t, s.DropTable("widgets"))
	require.NoFileExists(t, filepath.Join(dir, "widgets.json"))

	rows, err := s.GetAll("widgets")
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestDropRemovesEveryTable(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateEntry("widgets", row(map[string]string{"name": "sprocket"}))
	require.NoError(t, err)
	_, err = s.CreateEntry("gadgets", row(map[string]string{"name": "thing"}))
	require.NoError(t, err)

	require.NoError(t, s.Drop())
	names, err := s.GetAllTables()
	require.NoError(t, err)
	require.Empty(t, names)
}
