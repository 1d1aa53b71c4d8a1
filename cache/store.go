package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound    = errors.New("cache: not found")
	ErrUnavailable = errors.New("cache: unavailable")
)

// Store is a read-only view of the game cache.
type Store interface {
	Lookup(ctx context.Context, table, id int) (*Record, error)
	ScanTable(ctx context.Context, table int) ([]*Record, error)
	Struct(ctx context.Context, id int) (*Record, error)
	Enum(ctx context.Context, id int) (*Enum, error)
}

// NameTable loads an enum of string values as an id to canonical
// (uppercase) name mapping. Non-string values are ignored.
func NameTable(ctx context.Context, store Store, enumID int) (map[int]string, error) {
	enum, err := store.Enum(ctx, enumID)
	if err != nil {
		return nil, fmt.Errorf("load name table %d: %w", enumID, err)
	}

	names := make(map[int]string, len(enum.Entries))
	for _, entry := range enum.Entries {
		name, ok := entry.Value.Str()
		if !ok {
			continue
		}
		names[entry.Key] = strings.ToUpper(name)
	}
	return names, nil
}
