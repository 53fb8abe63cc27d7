package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	errs "github.com/matzehuels/spectools/pkg/errors"
)

// fileLocks serializes writers of the same database file within a process,
// since several tables may share one file.
var fileLocks sync.Map // path -> *sync.Mutex

// FileStore is a MemoryStore persisted to a JSON file after every change.
//
// One file holds several named tables:
//
//	{
//	    "catalog": {
//	        "1": {...},
//	        "2": {...}
//	    },
//	    "molecules": {...}
//	}
//
// A FileStore owns one table and leaves the others untouched.
type FileStore[T any] struct {
	mem   *MemoryStore[T]
	path  string
	table string
}

// OpenFileStore loads table from the JSON file at path, creating parent
// directories as needed. A missing file is an empty database.
func OpenFileStore[T any](path, table string) (*FileStore[T], error) {
	if err := errs.ValidateFieldName(table); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "create %s", filepath.Dir(path))
	}

	s := &FileStore[T]{mem: NewMemoryStore[T](), path: path, table: table}
	tables, err := readTables(path)
	if err != nil {
		return nil, err
	}

	raw := tables[table]
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		return a < b
	})
	for _, k := range keys {
		var doc T
		if err := json.Unmarshal(raw[k], &doc); err != nil {
			return nil, errs.Wrap(errs.ErrCodeParse, err, "%s: %s document %s", path, table, k)
		}
		s.mem.docs = append(s.mem.docs, doc)
	}
	return s, nil
}

// Insert appends docs and saves the file.
func (s *FileStore[T]) Insert(ctx context.Context, docs ...T) error {
	if err := s.mem.Insert(ctx, docs...); err != nil {
		return err
	}
	return s.save()
}

// Find returns the documents matching q.
func (s *FileStore[T]) Find(ctx context.Context, q Query) ([]T, error) {
	return s.mem.Find(ctx, q)
}

// Delete removes the documents matching q and saves the file.
func (s *FileStore[T]) Delete(ctx context.Context, q Query) (int, error) {
	n, err := s.mem.Delete(ctx, q)
	if err != nil || n == 0 {
		return n, err
	}
	return n, s.save()
}

// All returns every document.
func (s *FileStore[T]) All(ctx context.Context) ([]T, error) {
	return s.mem.All(ctx)
}

// Close saves the file.
func (s *FileStore[T]) Close(ctx context.Context) error {
	return s.save()
}

func (s *FileStore[T]) save() error {
	mu, _ := fileLocks.LoadOrStore(s.path, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	defer mu.(*sync.Mutex).Unlock()

	tables, err := readTables(s.path)
	if err != nil {
		return err
	}

	s.mem.mu.RLock()
	own := make(map[string]json.RawMessage, len(s.mem.docs))
	for i, d := range s.mem.docs {
		data, err := json.Marshal(d)
		if err != nil {
			s.mem.mu.RUnlock()
			return errs.Wrap(errs.ErrCodeInternal, err, "encode %s document", s.table)
		}
		own[strconv.Itoa(i+1)] = data
	}
	s.mem.mu.RUnlock()
	tables[s.table] = own

	data, err := json.MarshalIndent(tables, "", "    ")
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode %s", s.path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".catalog-*")
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "write %s", s.path)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errs.Wrap(errs.ErrCodeInternal, err, "write %s", s.path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errs.Wrap(errs.ErrCodeInternal, err, "write %s", s.path)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "write %s", s.path)
	}
	return nil
}

func readTables(path string) (map[string]map[string]json.RawMessage, error) {
	tables := map[string]map[string]json.RawMessage{}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return tables, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "read %s", path)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return tables, nil
	}
	if err := json.Unmarshal(data, &tables); err != nil {
		return nil, errs.Wrap(errs.ErrCodeParse, err, "decode %s", path)
	}
	return tables, nil
}

var _ Store[struct{}] = (*FileStore[struct{}])(nil)
