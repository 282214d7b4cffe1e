// Package ui renders terminal output for the triplog CLI, falling back
// to plain text when stdout is not a terminal.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/okian/triplog/internal/domain/types"
)

// UI holds the terminal state and provides styled output methods.
type UI struct {
	IsTTY   bool
	Width   int
	NoColor bool
}

// KV is a key-value pair for summary displays.
type KV struct {
	Key   string
	Value string
}

// New creates a UI for stdout. NO_COLOR disables styling.
func New() *UI {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	width := 80
	if isTTY {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}
	return &UI{
		IsTTY:   isTTY,
		Width:   width,
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

// SetNoColor disables colors.
func (u *UI) SetNoColor(noColor bool) {
	u.NoColor = noColor
}

func (u *UI) shouldStyle() bool {
	return u.IsTTY && !u.NoColor
}

// Header renders a bordered header box.
func (u *UI) Header(title string) string {
	if !u.shouldStyle() {
		return fmt.Sprintf("=== %s ===", title)
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(0, 2).
		Render(title)
}

// KeyValue renders a key-value pair.
func (u *UI) KeyValue(key, value string) string {
	if !u.shouldStyle() {
		return fmt.Sprintf("%-12s %s", key+":", value)
	}
	keyStyle := lipgloss.NewStyle().Foreground(ColorMuted).Width(14)
	return "  " + keyStyle.Render(key) + " " + lipgloss.NewStyle().Bold(true).Render(value)
}

// Success renders a success message.
func (u *UI) Success(msg string) string {
	if !u.shouldStyle() {
		return "[OK] " + msg
	}
	return StyleSuccess.Render(SymbolSuccess+" ") + msg
}

// Error renders an error message.
func (u *UI) Error(msg string) string {
	if !u.shouldStyle() {
		return "[FAILED] " + msg
	}
	return StyleError.Render(SymbolError + " " + msg)
}

// Warning renders a warning message.
func (u *UI) Warning(msg string) string {
	if !u.shouldStyle() {
		return "[WARN] " + msg
	}
	return StyleWarning.Render(SymbolWarning + " " + msg)
}

// Muted renders dim text.
func (u *UI) Muted(msg string) string {
	if !u.shouldStyle() {
		return msg
	}
	return StyleMuted.Render(msg)
}

// SummaryBox renders a titled block of key-value pairs.
func (u *UI) SummaryBox(title string, items []KV) string {
	if !u.shouldStyle() {
		var sb strings.Builder
		fmt.Fprintf(&sb, "\n=== %s ===\n", title)
		for _, item := range items {
			fmt.Fprintf(&sb, "%-14s %s\n", item.Key+":", item.Value)
		}
		return sb.String()
	}

	maxKeyWidth := 0
	for _, item := range items {
		maxKeyWidth = max(maxKeyWidth, len(item.Key))
	}
	keyStyle := lipgloss.NewStyle().Foreground(ColorMuted).Width(maxKeyWidth + 2)
	valueStyle := lipgloss.NewStyle().Bold(true)

	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "  "+keyStyle.Render(item.Key)+" "+valueStyle.Render(item.Value))
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)
	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorSuccess).
		Padding(0, 1)
	return "\n" + titleStyle.Render("  "+title) + "\n" + boxStyle.Render(strings.Join(lines, "\n"))
}

// EventRow renders one scheduled event. layout formats the fire time.
func (u *UI) EventRow(e types.UpcomingEvent, layout string) string {
	when := e.FireTime.Format(layout)
	name := e.Venue
	if name == "" {
		name = e.VenueID
	}
	note := ""
	if e.Pushed {
		note = " (pushed for transit)"
	}

	if !u.shouldStyle() {
		return fmt.Sprintf("  %s  %-9s %s%s", when, e.Kind, name, note)
	}

	var symbol string
	switch e.Kind {
	case "checkin":
		symbol = StyleSuccess.Render(SymbolCheckin)
	case "checkout":
		symbol = StylePrimary.Render(SymbolCheckout)
	default:
		symbol = StyleMuted.Render(SymbolPending)
		name = StyleMuted.Render("reschedule")
	}
	kind := lipgloss.NewStyle().Width(9).Render(e.Kind)
	return fmt.Sprintf("  %s %s %s %s%s", symbol, StyleMuted.Render(when), kind, name, StyleWarning.Render(note))
}
