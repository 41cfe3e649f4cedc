// Package tui is the terminal frontend: a keyboard-driven browser over the
// viewer controller showing the file listing, decode progress, and the
// metadata of the current image.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"kingview/internal/config"
	"kingview/internal/viewer"
	"kingview/pkg/types"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"kingview/internal/tui/styles"
)

// keyMap defines the navigation bindings.
type keyMap struct {
	Next       key.Binding
	Prev       key.Binding
	SelectNext key.Binding
	SelectPrev key.Binding
	Open       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Next: key.NewBinding(
		key.WithKeys("right", "n", "down"),
		key.WithHelp("→/n", "next image"),
	),
	Prev: key.NewBinding(
		key.WithKeys("left", "p", "up"),
		key.WithHelp("←/p", "previous image"),
	),
	SelectNext: key.NewBinding(
		key.WithKeys("pgdown", "J"),
		key.WithHelp("pgdn", "select next"),
	),
	SelectPrev: key.NewBinding(
		key.WithKeys("pgup", "K"),
		key.WithHelp("pgup", "select previous"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter/space", "display selection"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Model is the bubbletea model for the browse view.
type Model struct {
	controller *viewer.Controller
	cancel     context.CancelFunc

	files  []string
	index  int
	info   types.ImageInfo
	meta   types.Metadata
	thumbs map[string]bool
	status string

	spin     spinner.Model
	loading  bool
	showHelp bool
	height   int
}

// Run starts the terminal frontend on folder and blocks until quit.
func Run(cfg *config.Config, folder string) error {
	styles.ApplyTheme(config.GetTheme(cfg.Theme.Name))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	display := &sink{}
	controller := viewer.New(cfg, display)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		controller: controller,
		cancel:     cancel,
		index:      -1,
		meta:       types.NewMetadata(),
		thumbs:     make(map[string]bool),
		spin:       sp,
	}

	program := tea.NewProgram(m, tea.WithAltScreen())
	display.program = program

	go controller.Run(ctx)
	controller.OpenFolder(folder)

	_, err := program.Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.cancel()
			return m, tea.Quit
		case key.Matches(msg, keys.Next):
			m.controller.Next()
		case key.Matches(msg, keys.Prev):
			m.controller.Prev()
		case key.Matches(msg, keys.SelectNext):
			m.controller.MoveSelection(1)
		case key.Matches(msg, keys.SelectPrev):
			m.controller.MoveSelection(-1)
		case key.Matches(msg, keys.Open):
			m.controller.OpenSelected()
		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
		}

	case tea.WindowSizeMsg:
		m.height = msg.Height

	case filesMsg:
		m.files = msg.files
		m.index = msg.index

	case imageShownMsg:
		m.info = msg.info
		m.meta = msg.meta
		if !msg.provisional {
			m.loading = false
		}

	case thumbnailMsg:
		m.thumbs[msg.path] = true

	case statusMsg:
		m.status = string(msg)
		m.loading = m.status == viewer.StatusLoading || m.status == viewer.StatusScanning

	case clearMsg:
		m.info = types.ImageInfo{}
		m.meta = types.NewMetadata()
		m.loading = false

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("King Viewer"))
	b.WriteString("\n")

	left := styles.FileListStyle.Render(m.fileListView())
	right := styles.MetaStyle.Render(m.metaView())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")

	if m.status != "" {
		line := m.status
		if m.loading {
			line = m.spin.View() + " " + line
		}
		b.WriteString(styles.Status.Render(line))
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(styles.Help.Render(helpView()))
		b.WriteString("\n")
	}

	return styles.App.Render(b.String())
}

// fileListView renders a window of the listing centered on the selection.
func (m Model) fileListView() string {
	if len(m.files) == 0 {
		return styles.Unselected.Render("(no images)")
	}

	window := 12
	if m.height > 20 {
		window = m.height - 14
	}
	start := m.index - window/2
	if start < 0 {
		start = 0
	}
	end := start + window
	if end > len(m.files) {
		end = len(m.files)
	}

	var lines []string
	for i := start; i < end; i++ {
		name := filepath.Base(m.files[i])
		marker := "  "
		if m.thumbs[m.files[i]] {
			marker = "* "
		}
		if i == m.index {
			lines = append(lines, styles.Selected.Render("> "+marker+name))
		} else {
			lines = append(lines, styles.Unselected.Render("  "+marker+name))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) metaView() string {
	if m.info.Filename == "" {
		return styles.Unselected.Render("nothing loaded")
	}

	var lines []string
	lines = append(lines,
		fmt.Sprintf("File: %s", m.info.Filename),
		fmt.Sprintf("Resolution: %s", m.info.Resolution),
		fmt.Sprintf("Mode: %s", m.info.Mode),
		"")
	if m.index >= 0 && len(m.files) > 0 {
		lines = append(lines, fmt.Sprintf("Position: %d/%d", m.index+1, len(m.files)), "")
	}
	for _, field := range m.meta.Fields() {
		lines = append(lines, fmt.Sprintf("%s: %s", field.Label, field.Value))
	}
	return strings.Join(lines, "\n")
}

func helpView() string {
	bindings := []key.Binding{keys.Next, keys.Prev, keys.SelectNext, keys.SelectPrev, keys.Open, keys.Help, keys.Quit}
	var parts []string
	for _, b := range bindings {
		parts = append(parts, fmt.Sprintf("%s %s", b.Help().Key, b.Help().Desc))
	}
	return strings.Join(parts, "   ")
}
