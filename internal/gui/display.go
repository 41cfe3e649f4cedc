package gui

import (
	"fmt"
	"image"
	"path/filepath"

	"kingview/pkg/types"
)

// The methods below implement viewer.Display. They are invoked from the
// control goroutine; fyne queues the refreshes onto its own render thread.

func (a *App) ShowImage(path string, img image.Image, info types.ImageInfo, meta types.Metadata) {
	a.render(img, info, &meta)
}

func (a *App) ShowPreview(path string, img image.Image, info types.ImageInfo) {
	a.render(img, info, nil)
}

func (a *App) render(img image.Image, info types.ImageInfo, meta *types.Metadata) {
	fields := types.NewMetadata().Fields()
	if meta != nil {
		fields = meta.Fields()
	}

	a.imageView.Image = img
	a.imageView.Refresh()
	a.infoLabel.SetText(fmt.Sprintf("%s  |  %s  |  %s", info.Filename, info.Resolution, info.Mode))
	for _, field := range fields {
		if label, ok := a.metaLabels[field.Label]; ok {
			label.SetText(field.Label + ": " + field.Value)
		}
	}
}

func (a *App) ShowThumbnail(path string, img image.Image) {
	a.thumbs[path] = img
	a.fileList.Refresh()
}

func (a *App) SetFiles(files []string, index int) {
	a.files = files
	a.index = index

	a.syncingList = true
	defer func() { a.syncingList = false }()

	a.fileList.Refresh()
	if index >= 0 {
		a.fileList.Select(index)
		a.fileList.ScrollTo(index)
		a.mainWindow.SetTitle(fmt.Sprintf("King Viewer  [%d/%d]  %s",
			index+1, len(files), filepath.Base(files[index])))
	} else {
		a.fileList.UnselectAll()
		a.mainWindow.SetTitle("King Viewer")
	}
}

func (a *App) SetStatus(status string) {
	a.statusLabel.SetText(status)
}

func (a *App) Clear() {
	a.imageView.Image = nil
	a.imageView.Refresh()
	a.infoLabel.SetText("")
	for label, w := range a.metaLabels {
		w.SetText(label + ": " + types.Unknown)
	}
	a.fileList.Refresh()
}
