package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"cineadmin-tui/core"
)

type movieItem struct {
	row core.MovieRow
}

func (m movieItem) Title() string {
	return m.row.Title
}

func (m movieItem) Description() string {
	parts := []string{}
	if m.row.Year != 0 {
		parts = append(parts, fmt.Sprintf("%d", m.row.Year))
	}
	if m.row.CreatedBy != "" {
		parts = append(parts, "added by "+m.row.CreatedBy)
	}
	return strings.Join(parts, " • ")
}

func (m movieItem) FilterValue() string {
	return strings.ToLower(m.row.Title)
}

type screeningItem struct {
	row core.ScreeningRow
}

func (s screeningItem) Title() string {
	return s.row.DisplayInfo()
}

func (s screeningItem) Description() string {
	if s.row.CreatedBy == "" {
		return ""
	}
	return "added by " + s.row.CreatedBy
}

func (s screeningItem) FilterValue() string {
	return strings.ToLower(s.row.MovieTitle + " " + s.row.Room)
}

type optionItem struct {
	option core.MovieOption
}

func (o optionItem) Title() string {
	return o.option.Title
}

func (o optionItem) Description() string {
	if o.option.ID == 0 {
		return "show every screening"
	}
	return ""
}

func (o optionItem) FilterValue() string {
	return strings.ToLower(o.option.Title)
}

func buildMovieItems(rows []core.MovieRow) []list.Item {
	items := make([]list.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, movieItem{row: row})
	}
	return items
}

func buildScreeningItems(rows []core.ScreeningRow) []list.Item {
	items := make([]list.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, screeningItem{row: row})
	}
	return items
}

func buildOptionItems(options []core.MovieOption) []list.Item {
	items := make([]list.Item, 0, len(options))
	for _, option := range options {
		items = append(items, optionItem{option: option})
	}
	return items
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	// Filtering goes through the coordinator projections, not the widget.
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}
