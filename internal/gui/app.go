// Package gui is the desktop frontend. It renders the current image, the
// folder's thumbnail strip, and the metadata panel, and forwards navigation
// input to the viewer controller.
package gui

import (
	"context"
	"image"
	"path/filepath"

	"kingview/internal/config"
	"kingview/internal/log"
	"kingview/internal/viewer"
	"kingview/pkg/types"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const helpShownKey = "help_shown_once"

// App is the GUI application.
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	cfg        *config.Config
	controller *viewer.Controller
	cancel     context.CancelFunc

	imageView   *canvas.Image
	fileList    *widget.List
	infoLabel   *widget.Label
	metaLabels  map[string]*widget.Label
	statusLabel *widget.Label

	// Owned by the control goroutine through the Display callbacks.
	files       []string
	index       int
	thumbs      map[string]image.Image
	syncingList bool
}

// NewApp creates the GUI application and its controller.
func NewApp(cfg *config.Config) *App {
	fyneApp := app.NewWithID("io.github.kingview")

	a := &App{
		fyneApp:    fyneApp,
		cfg:        cfg,
		index:      -1,
		thumbs:     make(map[string]image.Image),
		metaLabels: make(map[string]*widget.Label),
	}
	a.controller = viewer.New(cfg, a)
	a.mainWindow = fyneApp.NewWindow("King Viewer")
	return a
}

// Run builds the window, starts the controller, and blocks until the window
// closes. folder, when non-empty, is opened on startup.
func (a *App) Run(folder string) {
	a.run(func() {
		if folder != "" {
			a.controller.OpenFolder(folder)
		}
	})
}

// RunWithFile opens the file's folder with that file selected.
func (a *App) RunWithFile(path string) {
	a.run(func() { a.controller.OpenFile(path) })
}

func (a *App) run(open func()) {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	go a.controller.Run(ctx)

	a.buildUI()
	a.bindKeys()
	a.mainWindow.Resize(fyne.NewSize(1100, 750))
	a.mainWindow.SetOnClosed(cancel)

	open()

	a.showFirstRunHelp()
	a.mainWindow.ShowAndRun()
}

func (a *App) buildUI() {
	a.imageView = canvas.NewImageFromImage(nil)
	a.imageView.FillMode = canvas.ImageFillContain

	a.statusLabel = widget.NewLabel("")
	a.infoLabel = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	a.fileList = widget.NewList(
		func() int { return len(a.files) },
		func() fyne.CanvasObject {
			thumb := canvas.NewImageFromImage(nil)
			thumb.FillMode = canvas.ImageFillContain
			thumb.SetMinSize(fyne.NewSize(48, 34))
			return container.NewHBox(thumb, widget.NewLabel(""))
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= len(a.files) {
				return
			}
			row := o.(*fyne.Container)
			thumb := row.Objects[0].(*canvas.Image)
			thumb.Image = a.thumbs[a.files[i]]
			thumb.Refresh()
			row.Objects[1].(*widget.Label).SetText(filepath.Base(a.files[i]))
		},
	)
	a.fileList.OnSelected = func(i widget.ListItemID) {
		if a.syncingList {
			return
		}
		a.controller.JumpTo(i)
	}

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.FolderOpenIcon(), a.chooseFolder),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.NavigateBackIcon(), a.controller.Prev),
		widget.NewToolbarAction(theme.NavigateNextIcon(), a.controller.Next),
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.HelpIcon(), a.showHelp),
	)

	content := container.NewBorder(
		toolbar,
		a.statusLabel,
		container.NewBorder(nil, nil, nil, nil, a.fileList),
		a.metadataPanel(),
		a.imageView,
	)
	a.mainWindow.SetContent(content)
}

func (a *App) metadataPanel() fyne.CanvasObject {
	box := container.NewVBox(a.infoLabel)
	for _, field := range types.NewMetadata().Fields() {
		label := widget.NewLabel(field.Label + ": " + field.Value)
		label.Wrapping = fyne.TextWrapWord
		a.metaLabels[field.Label] = label
		box.Add(label)
	}
	return container.NewVScroll(box)
}

func (a *App) bindKeys() {
	a.mainWindow.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyRight, fyne.KeyDown:
			a.controller.Next()
		case fyne.KeyLeft, fyne.KeyUp:
			a.controller.Prev()
		case fyne.KeyPageDown:
			a.controller.MoveSelection(1)
		case fyne.KeyPageUp:
			a.controller.MoveSelection(-1)
		case fyne.KeyReturn, fyne.KeyEnter, fyne.KeySpace:
			a.controller.OpenSelected()
		case fyne.KeyO:
			a.chooseFolder()
		}
	})
}

func (a *App) chooseFolder() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			log.LogWithError(err).Warn("Folder selection failed")
			return
		}
		if uri == nil {
			return
		}
		a.controller.OpenFolder(uri.Path())
	}, a.mainWindow)
}

// OpenFolder forwards a startup folder (e.g. from the command line).
func (a *App) OpenFolder(folder string) {
	a.controller.OpenFolder(folder)
}

func (a *App) showHelp() {
	dialog.ShowInformation("King Viewer",
		"Right / Down: next image\n"+
			"Left / Up: previous image\n"+
			"PageUp / PageDown: move selection without loading\n"+
			"Enter / Space: display the selected image\n"+
			"O: open folder\n\n"+
			"Corrupted files are skipped automatically.",
		a.mainWindow)
}

// showFirstRunHelp shows the shortcut overview once per installation.
func (a *App) showFirstRunHelp() {
	prefs := a.fyneApp.Preferences()
	if prefs.Bool(helpShownKey) {
		return
	}
	prefs.SetBool(helpShownKey, true)
	a.showHelp()
}
