package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/engrave/pkg/engrave"
	"github.com/matzehuels/engrave/pkg/score"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// tickRow is one tick context flattened for display.
type tickRow struct {
	offset  int64
	beat    string
	x       float64
	width   float64
	left    float64
	right   float64
	ignore  bool
	members []string
}

// GridModel is the bubbletea model for the interactive tick-grid browser.
// The upper pane is a table of tick contexts; the lower pane lists the
// members of the selected context.
type GridModel struct {
	Title  string
	Rows   []tickRow
	Cursor int
	Height int
	Offset int
}

// NewGridModel flattens the formatter's tick grid into a browsable model.
func NewGridModel(title string, grid *engrave.Grid[*engrave.TickContext]) GridModel {
	quarter := float64(score.Resolution/4) * float64(grid.ResolutionMultiplier)

	rows := make([]tickRow, 0, len(grid.List))
	for _, offset := range grid.List {
		ctx := grid.Map[offset]

		var members []string
		for _, t := range ctx.Tickables() {
			members = append(members, describeTickable(t))
		}

		rows = append(rows, tickRow{
			offset:  offset,
			beat:    fmt.Sprintf("%.3g", float64(offset)/quarter),
			x:       ctx.X(),
			width:   ctx.Width(),
			left:    ctx.Metrics().ExtraLeftPx,
			right:   ctx.Metrics().ExtraRightPx,
			ignore:  ctx.ShouldIgnoreTicks(),
			members: members,
		})
	}
	return GridModel{Title: title, Rows: rows, Height: 15}
}

// describeTickable renders one grid member for the detail pane.
func describeTickable(t score.Tickable) string {
	n, ok := t.(*score.Note)
	if !ok {
		return fmt.Sprintf("%T", t)
	}
	if n.IsRest() {
		return fmt.Sprintf("rest %s (line %.1f)", n.Duration(), n.Line())
	}
	return fmt.Sprintf("%s %s", strings.Join(n.Keys(), " "), n.Duration())
}

func (m GridModel) Init() tea.Cmd {
	return nil
}

func (m GridModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "g":
			m.Cursor, m.Offset = 0, 0
		case "G":
			m.Cursor = len(m.Rows) - 1
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m GridModel) View() string {
	var b strings.Builder

	title := m.Title
	if title == "" {
		title = "Tick Grid"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		kind := ""
		if r.ignore {
			kind = "no-tick"
		}
		rows = append(rows, []string{
			cursor,
			fmt.Sprintf("%d", r.offset),
			r.beat,
			fmt.Sprintf("%.1f", r.x),
			fmt.Sprintf("%.1f", r.width),
			fmt.Sprintf("%.1f / %.1f", r.left, r.right),
			kind,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Offset", "Beat", "X", "Width", "Extras L/R", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			actualIdx := m.Offset + row
			if actualIdx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}
			r := m.Rows[actualIdx]

			base := lipgloss.NewStyle()
			if r.ignore {
				base = base.Foreground(colorDim)
			}
			if actualIdx == m.Cursor {
				return base.Bold(true).Foreground(colorCyan)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	if m.Cursor < len(m.Rows) {
		r := m.Rows[m.Cursor]
		b.WriteString(StyleHighlight.Render(fmt.Sprintf("Members at offset %d", r.offset)))
		b.WriteString("\n")
		for _, member := range r.members {
			b.WriteString("  " + StyleValue.Render(member) + "\n")
		}
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}
