package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// When plain is set the markdown is returned untouched, for pipes and files.
func NewRenderer(plain bool) func(string) (string, error) {
	if plain {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// FormatsTable builds a markdown table of format ids and their descriptions.
func FormatsTable(ids []string, describe func(string) string) string {
	var b strings.Builder
	b.WriteString("| Format | Description |\n|---|---|\n")
	for _, id := range ids {
		fmt.Fprintf(&b, "| `%s` | %s |\n", id, escapeCell(describe(id)))
	}
	return b.String()
}

// SettingsTable builds a markdown table of training parameters, sorted by key.
func SettingsTable(title string, settings map[string]string) string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "## %s\n\n", title)
	}
	b.WriteString("| Parameter | Value |\n|---|---|\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "| `%s` | %s |\n", k, escapeCell(settings[k]))
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
