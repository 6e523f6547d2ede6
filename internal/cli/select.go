package cli

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/depwalk/depwalk/pkg/provider/maven"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// versionListModel is the bubbletea model for interactive version selection.
type versionListModel struct {
	pkg      string
	versions []string
	cursor   int
	offset   int
	height   int
	selected string
}

func newVersionListModel(pkg string, versions []string) versionListModel {
	return versionListModel{pkg: pkg, versions: versions, height: 15}
}

func (m versionListModel) Init() tea.Cmd {
	return nil
}

func (m versionListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.versions)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			m.selected = m.versions[m.cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m versionListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select version for " + m.pkg))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.versions) {
		end = len(m.versions)
	}

	for i := m.offset; i < end; i++ {
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + m.versions[i]))
		} else {
			b.WriteString(listNormalStyle.Render("  " + m.versions[i]))
		}
		b.WriteString("\n")
	}

	if end < len(m.versions) {
		b.WriteString(listDimStyle.Render("  ..."))
		b.WriteString("\n")
	}
	return b.String()
}

// pickVersion lists the available versions from repository metadata and lets
// the user choose one. Returns "" when the user quits without selecting.
func pickVersion(ctx context.Context, p *maven.RemoteProvider, pkg string) (string, error) {
	spinner := newSpinner(ctx, "Fetching versions...")
	spinner.Start()
	versions, err := p.ListVersions(ctx, pkg)
	spinner.Stop()
	if err != nil {
		return "", err
	}

	// Newest first.
	for i, j := 0, len(versions)-1; i < j; i, j = i+1, j-1 {
		versions[i], versions[j] = versions[j], versions[i]
	}

	prog := tea.NewProgram(newVersionListModel(pkg, versions), tea.WithContext(ctx))
	final, err := prog.Run()
	if err != nil {
		return "", err
	}
	model := final.(versionListModel)
	return model.selected, nil
}
