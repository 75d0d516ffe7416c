package launcher

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

// ShowAddEntry asks the user for a .desktop file and reports its
// filesystem path. Inside a flatpak sandbox the picker goes through the
// XDG portal instead of the in-process dialog.
func (l *Launcher) ShowAddEntry(win fyne.Window, onPicked func(path string, err error)) {
	if addEntryOSOverride(win, onPicked) {
		return
	}

	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil || r == nil {
			onPicked("", err)
			return
		}
		path := r.URI().Path()
		_ = r.Close()
		onPicked(path, nil)
	}, win)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".desktop"}))
	d.Show()
}
