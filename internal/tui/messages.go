package tui

import (
	"image"

	tea "github.com/charmbracelet/bubbletea"

	"kingview/pkg/types"
)

// Messages delivered into the bubbletea update loop by the display sink.

type imageShownMsg struct {
	path        string
	info        types.ImageInfo
	meta        types.Metadata
	provisional bool
}

type thumbnailMsg struct {
	path string
}

type filesMsg struct {
	files []string
	index int
}

type statusMsg string

type clearMsg struct{}

// sink adapts the controller's Display interface onto a tea.Program. The
// controller goroutine calls these; Send marshals them into Update.
type sink struct {
	program *tea.Program
}

func (s *sink) ShowImage(path string, _ image.Image, info types.ImageInfo, meta types.Metadata) {
	s.program.Send(imageShownMsg{path: path, info: info, meta: meta})
}

func (s *sink) ShowPreview(path string, _ image.Image, info types.ImageInfo) {
	s.program.Send(imageShownMsg{path: path, info: info, meta: types.NewMetadata(), provisional: true})
}

func (s *sink) ShowThumbnail(path string, _ image.Image) {
	s.program.Send(thumbnailMsg{path: path})
}

func (s *sink) SetFiles(files []string, index int) {
	s.program.Send(filesMsg{files: files, index: index})
}

func (s *sink) SetStatus(status string) {
	s.program.Send(statusMsg(status))
}

func (s *sink) Clear() {
	s.program.Send(clearMsg{})
}
