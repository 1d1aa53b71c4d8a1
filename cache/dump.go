package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/tidwall/gjson"
)

// DumpStore reads a JSON export of the game cache laid out as
//
//	<dir>/dbtable/<table>.json  [{"id": 1, "values": [[...], ...], "types": [[...], ...]}]
//	<dir>/struct/<id>.json      {"id": 1, "params": {"1306": 12}}
//	<dir>/enum/<id>.json        {"id": 680, "map": [[0, "attack"], ...]}
//
// Parsed tables are kept for the lifetime of the store.
type DumpStore struct {
	dir string

	mu     sync.Mutex
	tables map[int][]*Record
}

func OpenDump(dir string) (*DumpStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrUnavailable, dir)
	}
	return &DumpStore{dir: dir, tables: make(map[int][]*Record)}, nil
}

func (s *DumpStore) Lookup(ctx context.Context, table, id int) (*Record, error) {
	rows, err := s.ScanTable(ctx, table)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, fmt.Errorf("dbrow %d in table %d: %w", id, table, ErrNotFound)
}

func (s *DumpStore) ScanTable(ctx context.Context, table int) ([]*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rows, ok := s.tables[table]; ok {
		return rows, nil
	}

	doc, err := s.read("dbtable", table)
	if err != nil {
		return nil, err
	}
	if !doc.IsArray() {
		return nil, fmt.Errorf("%w: dbtable %d is not an array", ErrUnavailable, table)
	}

	var rows []*Record
	for _, row := range doc.Array() {
		rows = append(rows, decodeRow(row))
	}
	s.tables[table] = rows
	return rows, nil
}

func (s *DumpStore) Struct(ctx context.Context, id int) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := s.read("struct", id)
	if err != nil {
		return nil, err
	}

	record := &Record{ID: id, Columns: make(map[int][]Value)}
	if docID := doc.Get("id"); docID.Exists() {
		record.ID = int(docID.Int())
	}
	doc.Get("params").ForEach(func(key, value gjson.Result) bool {
		param, err := strconv.Atoi(key.String())
		if err != nil {
			return true
		}
		record.Columns[param] = []Value{FromJSON(value)}
		return true
	})
	return record, nil
}

func (s *DumpStore) Enum(ctx context.Context, id int) (*Enum, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := s.read("enum", id)
	if err != nil {
		return nil, err
	}

	enum := &Enum{ID: id}
	entries := doc.Get("map")
	if entries.IsArray() {
		for _, pair := range entries.Array() {
			items := pair.Array()
			if len(items) != 2 {
				continue
			}
			key, ok := FromJSON(items[0]).Int()
			if !ok {
				continue
			}
			enum.Entries = append(enum.Entries, EnumEntry{Key: int(key), Value: FromJSON(items[1])})
		}
		return enum, nil
	}
	entries.ForEach(func(key, value gjson.Result) bool {
		k, err := strconv.Atoi(key.String())
		if err != nil {
			return true
		}
		enum.Entries = append(enum.Entries, EnumEntry{Key: k, Value: FromJSON(value)})
		return true
	})
	return enum, nil
}

func (s *DumpStore) read(kind string, id int) (gjson.Result, error) {
	path := filepath.Join(s.dir, kind, strconv.Itoa(id)+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return gjson.Result{}, fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
		}
		return gjson.Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("%w: invalid json in %s", ErrUnavailable, path)
	}
	return gjson.ParseBytes(data), nil
}

func decodeRow(row gjson.Result) *Record {
	record := &Record{
		ID:      int(row.Get("id").Int()),
		Columns: make(map[int][]Value),
		Arity:   make(map[int]int),
	}

	for column, values := range row.Get("values").Array() {
		if !values.IsArray() {
			continue
		}
		list := make([]Value, 0, len(values.Array()))
		for _, value := range values.Array() {
			list = append(list, FromJSON(value))
		}
		record.Columns[column] = list
	}

	for column, types := range row.Get("types").Array() {
		if n := len(types.Array()); types.IsArray() && n > 0 {
			record.Arity[column] = n
		}
	}
	return record
}
