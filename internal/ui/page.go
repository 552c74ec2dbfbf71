package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PageModel is the page shell: the header, then the entrance widget.
type PageModel struct {
	Header   HeaderModel
	Entrance EntranceModel
	width    int
	quitting bool
}

// NewPage composes the page.
func NewPage(header HeaderModel, entrance EntranceModel) PageModel {
	return PageModel{Header: header, Entrance: entrance, width: 80}
}

// Init starts the header's connect.
func (m PageModel) Init() tea.Cmd {
	return tea.Batch(m.Header.Init(), m.Entrance.Init())
}

// Update routes every message to both children.
func (m PageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}

	var hcmd, ecmd tea.Cmd
	m.Header, hcmd = m.Header.Update(msg)
	m.Entrance, ecmd = m.Entrance.Update(msg)
	return m, tea.Batch(hcmd, ecmd)
}

// View renders the toast (top right), the header and the widget.
func (m PageModel) View() string {
	if m.quitting {
		return ""
	}
	var sb strings.Builder
	if t := m.Entrance.Toast(); t != nil {
		sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Right, RenderToast(*t)) + "\n")
	}
	sb.WriteString(m.Header.View())
	sb.WriteString("\n")
	sb.WriteString(m.Entrance.View())
	sb.WriteString("\n\n")
	sb.WriteString(pageControls(m.Entrance.Busy()))
	sb.WriteString("\n")
	return sb.String()
}

func pageControls(busy bool) string {
	sep := StyleMeta.Render("   ")
	enter := StyleInfo.Render("[ enter ]")
	if busy {
		enter = StyleDim.Render("[ enter ]")
	}
	var sb strings.Builder
	sb.WriteString(enter)
	sb.WriteString(StyleMeta.Render(" enter raffle"))
	sb.WriteString(sep)
	sb.WriteString(StyleMeta.Render("[ r ]"))
	sb.WriteString(StyleMeta.Render(" refresh"))
	sb.WriteString(sep)
	sb.WriteString(StyleMeta.Render("[ c ]"))
	sb.WriteString(StyleMeta.Render(" reconnect"))
	sb.WriteString(sep)
	sb.WriteString(StyleMeta.Render("[ q ]"))
	sb.WriteString(StyleMeta.Render(" quit"))
	return sb.String()
}
