package quest

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed augmentation.yaml
var defaultAugmentation []byte

// Augmentation adds prerequisite edges that are missing from the cache,
// keyed by quest id. It is read-only once loaded.
type Augmentation map[int][]int

// DefaultAugmentation returns the table shipped with the module.
func DefaultAugmentation() Augmentation {
	table, err := ParseAugmentation(defaultAugmentation)
	if err != nil {
		panic(fmt.Sprintf("embedded augmentation table: %v", err))
	}
	return table
}

func ParseAugmentation(data []byte) (Augmentation, error) {
	var table Augmentation
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse augmentation table: %w", err)
	}
	if table == nil {
		table = Augmentation{}
	}
	return table, nil
}

// LoadAugmentation reads a YAML table from path. An empty path yields the
// embedded default.
func LoadAugmentation(path string) (Augmentation, error) {
	if path == "" {
		return DefaultAugmentation(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read augmentation table: %w", err)
	}
	return ParseAugmentation(data)
}

// Extend returns prereqs followed by the extra edges for questID, without
// deduplicating. prereqs is never modified.
func (a Augmentation) Extend(questID int, prereqs []int) []int {
	extra := a[questID]
	out := make([]int, 0, len(prereqs)+len(extra))
	out = append(out, prereqs...)
	return append(out, extra...)
}
