// Package cells supplies candidate hexagon cell identifiers for a route.
//
// Cell ids are produced by an external tessellation step; this package only
// reads and checks the resulting lists and never interprets an id.
package cells

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source errors.
var (
	ErrEmptySource   = errors.New("cell list is empty")
	ErrDuplicateCell = errors.New("duplicate cell id")
	ErrEmptyCellID   = errors.New("cell id cannot be empty")
)

// Cell is one candidate cell with its 1-based display ordinal.
type Cell struct {
	ID      string
	Ordinal int
}

// Source supplies the ordered candidate cells of a route.
type Source interface {
	Cells(ctx context.Context) ([]Cell, error)
}

// StaticSource serves a fixed list of ids.
type StaticSource []string

// Cells implements Source.
func (s StaticSource) Cells(_ context.Context) ([]Cell, error) {
	return FromIDs(s)
}

// FileSource reads cell ids from a file. Files ending in .yaml or .yml hold
// a `cells:` list; anything else is read as one id per line, skipping blank
// lines and lines starting with '#'.
type FileSource struct {
	Path string
}

// listFile is the YAML layout of a cell list.
type listFile struct {
	Cells []string `yaml:"cells"`
}

// Cells implements Source.
func (f FileSource) Cells(ctx context.Context) ([]Cell, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading cell file: %w", err)
	}

	var ids []string
	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".yaml", ".yml":
		ids, err = parseYAML(data)
	default:
		ids, err = parseLines(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", f.Path, err)
	}

	return FromIDs(ids)
}

func parseYAML(data []byte) ([]string, error) {
	var lf listFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, err
	}
	return lf.Cells, nil
}

func parseLines(data []byte) ([]string, error) {
	var ids []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	return ids, sc.Err()
}

// FromIDs numbers ids in order, rejecting empty and duplicate ids.
func FromIDs(ids []string) ([]Cell, error) {
	if len(ids) == 0 {
		return nil, ErrEmptySource
	}

	seen := make(map[string]int, len(ids))
	result := make([]Cell, 0, len(ids))
	for i, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			return nil, fmt.Errorf("%w (entry %d)", ErrEmptyCellID, i+1)
		}
		if prev, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: %q at entries %d and %d", ErrDuplicateCell, id, prev, i+1)
		}
		seen[id] = i + 1
		result = append(result, Cell{ID: id, Ordinal: i + 1})
	}
	return result, nil
}

// Index maps cell ids to their cells for lookup.
func Index(cs []Cell) map[string]Cell {
	idx := make(map[string]Cell, len(cs))
	for _, c := range cs {
		idx[c.ID] = c
	}
	return idx
}
