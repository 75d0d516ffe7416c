package store

import "github.com/alexballas/xlaunchpad/engine"

// Merge reconciles a saved layout with a fresh catalog scan. The saved
// ordering and folder structure win; apps that vanished from the scan
// degrade to missing placeholders in place, missing placeholders whose
// app came back are restored, and newly installed apps are appended at
// the end. Saved metadata (name, icon) is refreshed from the scan.
func Merge(saved, scanned []engine.Item) []engine.Item {
	if len(saved) == 0 {
		return scanned
	}

	available := make(map[string]engine.Item, len(scanned))
	for _, it := range scanned {
		if it.Kind == engine.KindApp || it.Kind == engine.KindMissing {
			available[it.ID] = it
		}
	}

	referenced := make(map[string]bool)
	out := make([]engine.Item, 0, len(saved))

	for _, it := range saved {
		switch it.Kind {
		case engine.KindApp, engine.KindMissing:
			referenced[it.ID] = true
			fresh, ok := available[it.ID]
			if !ok {
				out = append(out, engine.NewMissingItem(it.ID, it.Name, it.IconKey))
				continue
			}
			out = append(out, fresh)
		case engine.KindFolder:
			kept := make([]engine.App, 0, len(it.Apps))
			for _, a := range it.Apps {
				referenced[a.ID] = true
				if fresh, ok := available[a.ID]; ok && fresh.Kind == engine.KindApp {
					app, _ := fresh.AsApp()
					kept = append(kept, app)
					continue
				}
				// Member vanished from the scan: keep it so the folder
				// survives a temporarily missing package.
				kept = append(kept, a)
			}
			out = append(out, engine.NewFolderItem(it.ID, it.Name, kept))
		case engine.KindEmpty:
			out = append(out, it)
		}
	}

	// Newly installed apps go to the end in scan order.
	for _, it := range scanned {
		if !referenced[it.ID] {
			out = append(out, it)
		}
	}
	return out
}
