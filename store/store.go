// Package store persists the launcher's item layout as JSON and merges
// saved layouts with fresh catalog scans.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alexballas/xlaunchpad/engine"
)

const layoutFile = "layout.json"

// Store reads and writes one layout file.
type Store struct {
	path string
}

// New places the layout under the user's config directory.
func New() (*Store, error) {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("store: resolving config dir: %w", err)
	}
	return NewAtPath(filepath.Join(cfgDir, "xlaunchpad", layoutFile)), nil
}

// NewAtPath uses an explicit file path, mainly for tests.
func NewAtPath(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

type savedApp struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
	Exec string `json:"exec,omitempty"`
}

type savedItem struct {
	Kind string     `json:"kind"`
	ID   string     `json:"id"`
	Name string     `json:"name,omitempty"`
	Icon string     `json:"icon,omitempty"`
	Apps []savedApp `json:"apps,omitempty"`
}

type layout struct {
	Items []savedItem `json:"items"`
}

// Save writes the flat item list atomically: a temp file in the target
// directory, then a rename over the old layout.
func (s *Store) Save(items []engine.Item) error {
	out := layout{Items: make([]savedItem, 0, len(items))}
	for _, it := range items {
		out.Items = append(out.Items, toSaved(it))
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encoding layout: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("store: creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, layoutFile+".*")
	if err != nil {
		return fmt.Errorf("store: creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("store: writing layout: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: replacing layout: %w", err)
	}
	return nil
}

// Load reads the saved layout. A missing file is not an error: it returns
// a nil list so the caller falls back to a fresh scan.
func (s *Store) Load() ([]engine.Item, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: reading layout: %w", err)
	}

	var in layout
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("store: decoding layout: %w", err)
	}

	items := make([]engine.Item, 0, len(in.Items))
	for _, si := range in.Items {
		it, ok := fromSaved(si)
		if !ok {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

func toSaved(it engine.Item) savedItem {
	si := savedItem{
		Kind: it.Kind.String(),
		ID:   it.ID,
		Name: it.Name,
		Icon: it.IconKey,
	}
	for _, a := range it.Apps {
		si.Apps = append(si.Apps, savedApp{ID: a.ID, Name: a.Name, Icon: a.IconKey, Exec: a.Exec})
	}
	return si
}

func fromSaved(si savedItem) (engine.Item, bool) {
	switch si.Kind {
	case "app":
		return engine.NewAppItem(engine.App{ID: si.ID, Name: si.Name, IconKey: si.Icon}), true
	case "missing":
		return engine.NewMissingItem(si.ID, si.Name, si.Icon), true
	case "empty":
		return engine.NewEmptyItem(si.ID), true
	case "folder":
		apps := make([]engine.App, 0, len(si.Apps))
		for _, a := range si.Apps {
			apps = append(apps, engine.App{ID: a.ID, Name: a.Name, IconKey: a.Icon, Exec: a.Exec})
		}
		return engine.NewFolderItem(si.ID, si.Name, apps), true
	}
	return engine.Item{}, false
}
