package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/zbxboard/internal/problems"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a non-interactive Bubbles table with the CLI styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{Title: c.Title, Width: c.Width}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.Foreground(ColorPrimary)
	// Unfocused tables still highlight row 0; make it look like the rest.
	s.Selected = s.Cell

	t.SetStyles(s)
	return t
}

// problemColumns is the layout of RenderProblemTable.
var problemColumns = []TableColumn{
	{Title: "HOST", Width: 24},
	{Title: "EVENT", Width: 10},
	{Title: "SEVERITY", Width: 14},
	{Title: "PROBLEM", Width: 48},
}

// RenderProblemTable renders a snapshot as one row per problem. Hosts
// without problems get a single row with an empty event column.
func RenderProblemTable(snap problems.Snapshot) string {
	if snap.Empty() {
		return SuccessStyle.Render(SymbolSuccess+" No hosts with current problems") + "\n"
	}

	var rows []table.Row
	for _, set := range snap.Sets {
		if len(set.Problems) == 0 {
			rows = append(rows, table.Row{set.Host.Name, "", "", "No current problems for this host"})
			continue
		}
		for _, p := range set.Problems {
			rows = append(rows, table.Row{
				set.Host.Name,
				fmt.Sprintf("%d", p.EventID),
				p.Severity.String(),
				p.Name,
			})
		}
	}
	return NewTable(problemColumns, rows).View() + "\n"
}
