// ABOUTME: huh form theme shared by the login, course, and lesson forms
// ABOUTME: Maps the app palette onto huh's focused and blurred field styles

package styles

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// FormTheme returns the huh theme used by every form in the app
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	t.Group.Title = fg(Primary).Bold(true).MarginBottom(1)
	t.Group.Description = fg(Muted).MarginBottom(1)

	f := &t.Focused
	f.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(Primary)
	f.Title = fg(Accent).Bold(true)
	f.Description = fg(Muted)
	f.ErrorIndicator = fg(Danger).SetString(" *")
	f.ErrorMessage = fg(Danger)

	f.SelectSelector = fg(Primary).SetString("› ")
	f.Option = fg(Text)
	f.SelectedOption = fg(Primary).Bold(true)
	f.NextIndicator = fg(Primary).MarginLeft(1).SetString("→")
	f.PrevIndicator = fg(Primary).MarginRight(1).SetString("←")

	f.TextInput.Cursor = fg(Accent)
	f.TextInput.Placeholder = fg(Surface)
	f.TextInput.Prompt = fg(Primary)
	f.TextInput.Text = fg(Text)

	button := lipgloss.NewStyle().Padding(0, 2).MarginRight(1)
	f.FocusedButton = button.Foreground(lipgloss.Color("#0B1120")).Background(Primary).Bold(true)
	f.BlurredButton = button.Foreground(Muted).Background(Surface)

	// Blurred fields keep the layout but drop the accent colors
	t.Blurred = t.Focused
	b := &t.Blurred
	b.Base = f.Base.BorderStyle(lipgloss.HiddenBorder())
	b.Title = fg(Muted)
	b.SelectSelector = fg(Muted).SetString("  ")
	b.Option = fg(Muted)
	b.TextInput.Text = fg(Muted)

	return t
}
