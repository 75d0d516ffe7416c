// Package catalog scans freedesktop .desktop entries into launcher items,
// watches the application directories for changes and launches apps.
package catalog

import (
	"bufio"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/alexballas/xlaunchpad/engine"
)

// Entry is one parsed .desktop application. ID is the desktop file ID
// (file name without the .desktop suffix), which stays stable across
// rescans and is what the grid keys items by.
type Entry struct {
	ID       string
	Name     string
	Icon     string
	Exec     string
	TryExec  string
	Path     string
	Terminal bool
	Missing  bool
}

// Item converts the entry into its grid representation.
func (e Entry) Item() engine.Item {
	if e.Missing {
		return engine.NewMissingItem(e.ID, e.Name, e.Icon)
	}
	return engine.NewAppItem(engine.App{
		ID:      e.ID,
		Name:    e.Name,
		IconKey: e.Icon,
		Exec:    e.Exec,
	})
}

// Catalog holds the last scan result, keyed by entry ID.
type Catalog struct {
	dirs []string

	mu      sync.RWMutex
	entries map[string]Entry
}

// New builds a catalog over the given application directories. With no
// directories it uses the XDG data dirs.
func New(dirs ...string) *Catalog {
	if len(dirs) == 0 {
		dirs = ApplicationDirs()
	}
	return &Catalog{
		dirs:    dirs,
		entries: make(map[string]Entry),
	}
}

// ApplicationDirs returns the XDG application directories in precedence
// order: XDG_DATA_HOME first, then each XDG_DATA_DIRS entry.
func ApplicationDirs() []string {
	var dirs []string

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dataHome = filepath.Join(home, ".local", "share")
		}
	}
	if dataHome != "" {
		dirs = append(dirs, filepath.Join(dataHome, "applications"))
	}

	dataDirs := os.Getenv("XDG_DATA_DIRS")
	if dataDirs == "" {
		dataDirs = "/usr/local/share:/usr/share"
	}
	for _, d := range strings.Split(dataDirs, ":") {
		if d == "" {
			continue
		}
		dirs = append(dirs, filepath.Join(d, "applications"))
	}
	return dirs
}

// Scan re-reads every application directory and returns the catalog as
// ordered grid items, sorted by display name. Entries whose executable
// cannot be resolved come back as missing items so the grid can keep
// their slot.
func (c *Catalog) Scan() []engine.Item {
	found := make(map[string]Entry)

	// Earlier directories shadow later ones for the same desktop file ID,
	// matching XDG precedence.
	for _, dir := range c.dirs {
		files, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, f := range files {
			name := f.Name()
			if f.IsDir() || !strings.HasSuffix(name, ".desktop") {
				continue
			}
			id := strings.TrimSuffix(name, ".desktop")
			if _, ok := found[id]; ok {
				continue
			}
			entry, ok := parseDesktopFile(filepath.Join(dir, name))
			if !ok {
				continue
			}
			entry.ID = id
			entry.Missing = !executableResolves(entry)
			found[id] = entry
		}
	}

	c.mu.Lock()
	c.entries = found
	c.mu.Unlock()

	items := make([]engine.Item, 0, len(found))
	for _, e := range found {
		items = append(items, e.Item())
	}
	sort.Slice(items, func(i, j int) bool {
		ni, nj := strings.ToLower(items[i].Name), strings.ToLower(items[j].Name)
		if ni != nj {
			return ni < nj
		}
		return items[i].ID < items[j].ID
	})
	return items
}

// Entry looks up a scanned entry by ID.
func (c *Catalog) Entry(id string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	return e, ok
}

// AddEntry registers an entry scanned from outside the application dirs,
// e.g. a custom .desktop file picked by the user.
func (c *Catalog) AddEntry(e Entry) {
	c.mu.Lock()
	c.entries[e.ID] = e
	c.mu.Unlock()
}

// ParseFile parses a single .desktop file into an entry, for custom
// entries added by path. The ID is derived from the file name.
func ParseFile(path string) (Entry, bool) {
	entry, ok := parseDesktopFile(path)
	if !ok {
		return Entry{}, false
	}
	entry.ID = strings.TrimSuffix(filepath.Base(path), ".desktop")
	entry.Missing = !executableResolves(entry)
	return entry, true
}

func parseDesktopFile(path string) (Entry, bool) {
	f, err := os.Open(path)
	if err != nil {
		return Entry{}, false
	}
	defer f.Close()

	var (
		entry     Entry
		inSection bool
		isApp     bool
		hidden    bool
	)
	entry.Path = path

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			// Only the main group matters; actions and other groups follow it.
			inSection = line == "[Desktop Entry]"
			continue
		}
		if !inSection {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "Type":
			isApp = value == "Application"
		case "Name":
			entry.Name = value
		case "Icon":
			entry.Icon = value
		case "Exec":
			entry.Exec = value
		case "TryExec":
			entry.TryExec = value
		case "Terminal":
			entry.Terminal = value == "true"
		case "NoDisplay", "Hidden":
			if value == "true" {
				hidden = true
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Entry{}, false
	}

	if !isApp || hidden || entry.Name == "" || entry.Exec == "" {
		return Entry{}, false
	}
	return entry, true
}

// executableResolves reports whether the entry's binary can be found.
// TryExec takes precedence when set, otherwise the Exec argv[0].
func executableResolves(e Entry) bool {
	candidate := e.TryExec
	if candidate == "" {
		argv := splitExec(e.Exec)
		if len(argv) == 0 {
			return false
		}
		candidate = argv[0]
	}

	if strings.ContainsRune(candidate, os.PathSeparator) {
		info, err := os.Stat(candidate)
		return err == nil && !info.IsDir()
	}
	_, err := exec.LookPath(candidate)
	return err == nil
}
