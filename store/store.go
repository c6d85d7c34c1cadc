// Package store implements the per-table JSON file persistence backing the
// dbCreateEntry/dbGetAll/... builtins (spec §4.4, component C8). Every
// mutation is written write-to-temp-then-rename, grounded on the blob-store
// idiom in maruel-mddb's backend/internal/jsonldb/blobstore.go.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rustyjsonserver/rjs/jsonval"
)

// Store is the DB directory's root: a global lock guards table creation and
// the table set itself, while each table additionally holds its own lock for
// row mutations, per §5's concurrency model.
type Store struct {
	dir string

	mu     sync.Mutex
	tables map[string]*table
}

type table struct {
	mu     sync.Mutex
	path   string
	nextID uint64
	rows   []jsonval.Value // each row is a KindObject with "id" as its first key
}

// New opens (without yet reading) a Store rooted at dir. dir is created if
// it does not already exist.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: cannot create db dir %q: %w", dir, err)
	}
	return &Store{dir: dir, tables: map[string]*table{}}, nil
}

func (s *Store) tablePath(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// loadOrCreate returns the in-memory table for name, reading it from disk on
// first access. Caller must hold s.mu while calling this, but the returned
// table is then locked/unlocked independently for the actual mutation.
func (s *Store) loadOrCreate(name string) (*table, error) {
	if t, ok := s.tables[name]; ok {
		return t, nil
	}
	t := &table{path: s.tablePath(name), nextID: 1}
	data, err := os.ReadFile(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.tables[name] = t
			return t, nil
		}
		return nil, fmt.Errorf("store: reading table %q: %w", name, err)
	}
	root, err := jsonval.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("store: table %q is corrupt: %w", name, err)
	}
	if nid, ok := root.Get("next_id"); ok {
		t.nextID = uint64(nid.AsNumber())
	}
	if rows, ok := root.Get("rows"); ok {
		t.rows = append([]jsonval.Value{}, rows.AsArray()...)
	}
	s.tables[name] = t
	return t, nil
}

// persist writes the table's current state via write-to-temp-then-rename so
// readers never observe a partial file.
func (t *table) persist() error {
	root := jsonval.NewObject()
	root.Set("next_id", jsonval.Number(float64(t.nextID)))
	root.Set("rows", jsonval.Array(t.rows))
	data := []byte(jsonval.Encode(root))

	dir := filepath.Dir(t.path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("store: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("store: writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, t.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: renaming into place: %w", err)
	}
	return nil
}

// CreateTable implements rjs.DBService: creates the table file eagerly if it
// does not already exist.
func (s *Store) CreateTable(name string) error {
	s.mu.Lock()
	t, err := s.loadOrCreate(name)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.rows) == 0 {
		if _, statErr := os.Stat(t.path); os.IsNotExist(statErr) {
			return t.persist()
		}
	}
	return nil
}

// GetAllTables implements rjs.DBService, listing both tables already touched
// this process and any `<name>.json` file already on disk.
func (s *Store) GetAllTables() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := map[string]bool{}
	for name := range s.tables {
		names[name] = true
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("store: listing db dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names[strings.TrimSuffix(e.Name(), ".json")] = true
	}
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

// DropTable implements rjs.DBService.
func (s *Store) DropTable(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, name)
	if err := os.Remove(s.tablePath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("store: dropping table %q: %w", name, err)
	}
	return nil
}

// Drop implements rjs.DBService: removes every table file under the DB
// directory.
func (s *Store) Drop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("store: listing db dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			return fmt.Errorf("store: removing %q: %w", e.Name(), err)
		}
	}
	s.tables = map[string]*table{}
	return nil
}

func withRowID(row jsonval.Value, id uint64) jsonval.Value {
	out := jsonval.NewObject()
	out.Set("id", jsonval.Number(float64(id)))
	for _, k := range row.Keys() {
		if k == "id" {
			continue
		}
		v, _ := row.Get(k)
		out.Set(k, v)
	}
	return out
}

// CreateEntry implements rjs.DBService.
func (s *Store) CreateEntry(name string, row jsonval.Value) (jsonval.Value, error) {
	if row.Kind() != jsonval.KindObject {
		return jsonval.Value{}, fmt.Errorf("store: row for table %q must be an object", name)
	}
	s.mu.Lock()
	t, err := s.loadOrCreate(name)
	s.mu.Unlock()
	if err != nil {
		return jsonval.Value{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextID
	t.nextID++
	stored := withRowID(row, id)
	t.rows = append(t.rows, stored)
	if err := t.persist(); err != nil {
		return jsonval.Value{}, err
	}
	return jsonval.Clone(stored), nil
}

// GetAll implements rjs.DBService, in ascending id order (the creation
// order, since ids only increase).
func (s *Store) GetAll(name string) ([]jsonval.Value, error) {
	s.mu.Lock()
	t, err := s.loadOrCreate(name)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]jsonval.Value, len(t.rows))
	for i, r := range t.rows {
		out[i] = jsonval.Clone(r)
	}
	return out, nil
}

func rowMatchesID(row jsonval.Value, id jsonval.Value) bool {
	rid, ok := row.Get("id")
	return ok && jsonval.DeepEqual(rid, id)
}

func rowMatchesFields(row jsonval.Value, filter jsonval.Value) bool {
	for _, k := range filter.Keys() {
		fv, _ := filter.Get(k)
		rv, ok := row.Get(k)
		if !ok || !jsonval.DeepEqual(rv, fv) {
			return false
		}
	}
	return true
}

// GetById implements rjs.DBService.
func (s *Store) GetById(name string, id jsonval.Value) (jsonval.Value, bool, error) {
	s.mu.Lock()
	t, err := s.loadOrCreate(name)
	s.mu.Unlock()
	if err != nil {
		return jsonval.Value{}, false, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range t.rows {
		if rowMatchesID(r, id) {
			return jsonval.Clone(r), true, nil
		}
	}
	return jsonval.Value{}, false, nil
}

// GetByFields implements rjs.DBService.
func (s *Store) GetByFields(name string, filter jsonval.Value) ([]jsonval.Value, error) {
	s.mu.Lock()
	t, err := s.loadOrCreate(name)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []jsonval.Value
	for _, r := range t.rows {
		if rowMatchesFields(r, filter) {
			out = append(out, jsonval.Clone(r))
		}
	}
	return out, nil
}

func applyPatch(row jsonval.Value, patch jsonval.Value) jsonval.Value {
	out := jsonval.Clone(row)
	for _, k := range patch.Keys() {
		v, _ := patch.Get(k)
		out.Set(k, v)
	}
	return out
}

// UpdateById implements rjs.DBService.
func (s *Store) UpdateById(name string, id jsonval.Value, patch jsonval.Value) (bool, error) {
	s.mu.Lock()
	t, err := s.loadOrCreate(name)
	s.mu.Unlock()
	if err != nil {
		return false, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, r := range t.rows {
		if rowMatchesID(r, id) {
			t.rows[i] = applyPatch(r, patch)
			return true, t.persist()
		}
	}
	return false, nil
}

// UpdateByFields implements rjs.DBService, returning the count updated.
func (s *Store) UpdateByFields(name string, filter jsonval.Value, patch jsonval.Value) (int, error) {
	s.mu.Lock()
	t, err := s.loadOrCreate(name)
	s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	count := 0
	for i, r := range t.rows {
		if rowMatchesFields(r, filter) {
			t.rows[i] = applyPatch(r, patch)
			count++
		}
	}
	if count > 0 {
		if err := t.persist(); err != nil {
			return 0, err
		}
	}
	return count, nil
}

// DeleteById implements rjs.DBService.
func (s *Store) DeleteById(name string, id jsonval.Value) (bool, error) {
	s.mu.Lock()
	t, err := s.loadOrCreate(name)
	s.mu.Unlock()
	if err != nil {
		return false, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, r := range t.rows {
		if rowMatchesID(r, id) {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			return true, t.persist()
		}
	}
	return false, nil
}

// DeleteByFields implements rjs.DBService, returning the count removed.
func (s *Store) DeleteByFields(name string, filter jsonval.Value) (int, error) {
	s.mu.Lock()
	t, err := s.loadOrCreate(name)
	s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	kept := t.rows[:0]
	count := 0
	for _, r := range t.rows {
		if rowMatchesFields(r, filter) {
			count++
			continue
		}
		kept = append(kept, r)
	}
	t.rows = kept
	if count > 0 {
		if err := t.persist(); err != nil {
			return 0, err
		}
	}
	return count, nil
}
