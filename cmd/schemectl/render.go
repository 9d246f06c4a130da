package main

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/kailas-cloud/schemedex/pkg/schemes"
)

var (
	accent = lipgloss.Color("#8BC34A")
	muted  = lipgloss.Color("#6B7280")
	danger = lipgloss.Color("#E53935")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(muted)
	errorStyle  = lipgloss.NewStyle().Foreground(danger)
)

var listingHeaders = []string{"SR. NO.", "Scheme", "Benefits", "SECTOR", "COMPANY TYPE", "Deadline", "Days left"}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func renderListings(list []schemes.Listing) string {
	t := newTable(listingHeaders...)
	for _, l := range list {
		t.Row(listingCells(l)...)
	}
	return t.Render()
}

func listingCells(l schemes.Listing) []string {
	return []string{
		l.SerialNumber,
		l.Name,
		l.Benefits,
		strings.Join(l.Sector, ", "),
		strings.Join(l.CompanyType, ", "),
		l.Deadline,
		formatDays(l.DaysLeft),
	}
}

func renderScheme(m schemes.Match) string {
	t := newTable(listingHeaders...)
	t.Row(listingCells(m.Scheme.Listing)...)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.Scheme.Name))
	sb.WriteString("\n")
	sb.WriteString(t.Render())
	sb.WriteString("\n")
	switch {
	case m.PamphletErr != nil:
		sb.WriteString(errorStyle.Render("Pamphlet link is malformed: " + m.Scheme.PamphletLink))
	case m.PamphletURL != "":
		sb.WriteString("Pamphlet: " + m.PamphletURL)
	default:
		sb.WriteString(mutedStyle.Render("No pamphlet"))
	}
	return sb.String()
}

func renderList(title string, items []string) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(title))
	for _, it := range items {
		sb.WriteString("\n  ")
		sb.WriteString(it)
	}
	return sb.String()
}

func formatDays(d *float64) string {
	if d == nil {
		return ""
	}
	return strconv.FormatFloat(*d, 'f', -1, 64)
}
