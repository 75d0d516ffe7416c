//go:build flatpak && !windows && !android && !ios && !wasm && !js

package launcher

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/storage"

	"github.com/rymdport/portal"
	"github.com/rymdport/portal/filechooser"
)

func addEntryOSOverride(win fyne.Window, onPicked func(string, error)) bool {
	options := &filechooser.OpenFileOptions{
		AcceptLabel: lang.L("Open"),
		Filters: []*filechooser.Filter{{
			Name: ".desktop",
			Rules: []filechooser.Rule{
				{Type: filechooser.GlobPattern, Pattern: "*.desktop"},
			},
		}},
	}
	windowHandle := windowHandleForPortal(win)

	go func() {
		uris, err := filechooser.OpenFile(windowHandle, lang.L("Open")+" "+lang.L("File"), options)
		if err != nil || len(uris) == 0 {
			fyne.Do(func() { onPicked("", err) })
			return
		}
		uri, err := storage.ParseURI(uris[0])
		if err != nil {
			fyne.Do(func() { onPicked("", err) })
			return
		}
		path := uri.Path()
		fyne.Do(func() { onPicked(path, nil) })
	}()

	return true
}

func windowHandleForPortal(window fyne.Window) string {
	native, ok := window.(driver.NativeWindow)
	if !ok {
		return ""
	}

	windowHandle := ""
	native.RunNative(func(context any) {
		if x11, ok := context.(driver.X11WindowContext); ok {
			windowHandle = portal.FormatX11WindowHandle(x11.WindowHandle)
		}
	})
	return windowHandle
}
