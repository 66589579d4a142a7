// ABOUTME: Icon system with Nerd Font detection and Unicode fallback
// ABOUTME: Names the glyphs used for roles, course content, and completion state

package icons

import (
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// nerdFontTerminals ship or commonly run with a patched font
var nerdFontTerminals = []string{"iterm.app", "alacritty", "wezterm", "kitty", "ghostty"}

// HasNerdFonts reports whether icons should use Nerd Font glyphs.
// PROGRESS_NERD_FONTS=1|0 forces the choice; otherwise the terminal
// is sniffed once from TERM and TERM_PROGRAM.
var HasNerdFonts = sync.OnceValue(func() bool {
	if env := os.Getenv("PROGRESS_NERD_FONTS"); env != "" {
		on, err := strconv.ParseBool(env)
		return err == nil && on
	}
	term := strings.ToLower(os.Getenv("TERM") + " " + os.Getenv("TERM_PROGRAM"))
	return slices.ContainsFunc(nerdFontTerminals, func(t string) bool {
		return strings.Contains(term, t)
	})
})

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

// Icon definitions - Nerd Font codepoints with Unicode fallbacks
var (
	// People
	Student = Icon{"󰑴", "☺"} // nf-md-school
	Mentor  = Icon{"󰆋", "✎"} // nf-md-account_tie
	Users   = Icon{"󰡉", "⚇"} // nf-md-account_group

	// Content
	Course   = Icon{"󰂺", "▤"} // nf-md-book_open_variant
	Lesson   = Icon{"󰈙", "▪"} // nf-md-file_document
	Video    = Icon{"󰕧", "▶"} // nf-md-video
	PDF      = Icon{"󰈦", "▧"} // nf-md-file_pdf_box
	Slides   = Icon{"󰈧", "▦"} // nf-md-file_powerpoint
	Document = Icon{"󰈬", "▥"} // nf-md-file_word

	// Status indicators
	CheckOK  = Icon{"", "✓"} // nf-oct-check_circle
	Pending  = Icon{"󰔟", "…"} // nf-md-timer_sand
	Critical = Icon{"", "✗"} // nf-oct-x_circle
	Info     = Icon{"", "ℹ"} // nf-oct-info
	Circle   = Icon{"", "○"} // nf-oct-circle

	// Charts
	Chart = Icon{"󰄭", "▁"} // nf-md-chart_line
	Gauge = Icon{"󰓅", "◐"} // nf-md-gauge

	// Actions
	Refresh = Icon{"󰑓", "↻"} // nf-md-refresh
	Add     = Icon{"󰐕", "+"} // nf-md-plus
	Delete  = Icon{"󰆴", "−"} // nf-md-delete
	Back    = Icon{"󰁍", "←"} // nf-md-arrow_left
	Quit    = Icon{"󰗼", "×"} // nf-md-exit_to_app
	Logout  = Icon{"󰍃", "⏏"} // nf-md-logout
	Login   = Icon{"󰍂", "→"} // nf-md-login

	// Application
	App = Icon{"󰑴", "◈"} // nf-md-school
)
