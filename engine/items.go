package engine

import "fmt"

// ItemKind discriminates the Item union. Every consumer must switch over
// all four kinds.
type ItemKind int

const (
	// KindApp is a launchable application entry.
	KindApp ItemKind = iota
	// KindFolder groups one or more apps under a single slot.
	KindFolder
	// KindMissing is an app whose binary disappeared since the last scan.
	KindMissing
	// KindEmpty is a placeholder slot.
	KindEmpty
)

func (k ItemKind) String() string {
	switch k {
	case KindApp:
		return "app"
	case KindFolder:
		return "folder"
	case KindMissing:
		return "missing"
	case KindEmpty:
		return "empty"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// App is a single launchable application.
type App struct {
	ID      string
	Name    string
	IconKey string
	Exec    string
}

// Item is one grid slot. Identity is by ID; two items with equal ID are the
// same entity. Apps is populated only for KindFolder and is never empty
// while the folder exists.
type Item struct {
	Kind    ItemKind
	ID      string
	Name    string
	IconKey string
	Apps    []App
}

func NewAppItem(a App) Item {
	return Item{Kind: KindApp, ID: a.ID, Name: a.Name, IconKey: a.IconKey}
}

func NewMissingItem(id, name, iconKey string) Item {
	return Item{Kind: KindMissing, ID: id, Name: name, IconKey: iconKey}
}

func NewEmptyItem(id string) Item {
	return Item{Kind: KindEmpty, ID: id}
}

// NewFolderItem builds a folder from its member apps. An empty member list
// degrades to an Empty slot so a folder can never exist without contents.
func NewFolderItem(id, name string, apps []App) Item {
	if len(apps) == 0 {
		return NewEmptyItem(id)
	}
	return Item{Kind: KindFolder, ID: id, Name: name, Apps: apps}
}

// IsEmpty reports whether the slot holds no real content.
func (it Item) IsEmpty() bool {
	return it.Kind == KindEmpty
}

// AsApp returns the App payload for KindApp and KindMissing items.
func (it Item) AsApp() (App, bool) {
	switch it.Kind {
	case KindApp, KindMissing:
		return App{ID: it.ID, Name: it.Name, IconKey: it.IconKey}, true
	case KindFolder, KindEmpty:
		return App{}, false
	}
	return App{}, false
}

// WithoutApp removes the app with the given ID from a folder item. When the
// last member is removed the folder degrades to an Empty slot keeping the
// folder's ID.
func (it Item) WithoutApp(appID string) Item {
	if it.Kind != KindFolder {
		return it
	}
	kept := make([]App, 0, len(it.Apps))
	for _, a := range it.Apps {
		if a.ID != appID {
			kept = append(kept, a)
		}
	}
	if len(kept) == 0 {
		return NewEmptyItem(it.ID)
	}
	out := it
	out.Apps = kept
	return out
}

// WithApp appends an app to a folder item.
func (it Item) WithApp(a App) Item {
	if it.Kind != KindFolder {
		return it
	}
	out := it
	out.Apps = append(append([]App(nil), it.Apps...), a)
	return out
}
