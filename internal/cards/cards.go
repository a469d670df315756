// Package cards loads card definitions from a directory tree:
//
//	<base>/cards.csv                      flat pool
//	<base>/sets/<set>/<pack>/cards.csv    pre-built packs, fixed order
//
// Each cards.csv has a header row with at least "name" and "image_url"
// columns. A missing file yields an empty result, not an error; the draft
// layer decides what an empty pool means.
package cards

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/DoyleJ11/infinitedraft-backend/internal/draft"
)

// Dir is a draft.PoolSource rooted at a directory.
type Dir struct {
	base string
}

func NewDir(base string) *Dir {
	return &Dir{base: base}
}

func (d *Dir) FlatPool() ([]draft.Card, error) {
	return readCardsCSV(filepath.Join(d.base, "cards.csv"))
}

func (d *Dir) ListSets() ([]string, error) {
	return listDirs(filepath.Join(d.base, "sets"))
}

func (d *Dir) ListPacks(set string) ([]string, error) {
	return listDirs(filepath.Join(d.base, "sets", set))
}

func (d *Dir) LoadPack(set, packID string) ([]draft.Card, error) {
	return readCardsCSV(filepath.Join(d.base, "sets", set, packID, "cards.csv"))
}

func listDirs(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read dir %s: %w", path, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func readCardsCSV(path string) ([]draft.Card, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header %s: %w", path, err)
	}
	nameCol, urlCol := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case "name":
			nameCol = i
		case "image_url":
			urlCol = i
		}
	}
	if nameCol < 0 {
		return nil, fmt.Errorf("%s: missing name column", path)
	}

	var out []draft.Card
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		card := draft.Card{Name: strings.TrimSpace(row[nameCol])}
		if urlCol >= 0 && urlCol < len(row) {
			card.ImageURL = strings.TrimSpace(row[urlCol])
		}
		out = append(out, card)
	}
	return out, nil
}
