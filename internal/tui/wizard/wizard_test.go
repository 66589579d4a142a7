// ABOUTME: Tests for the new-lesson wizard
// ABOUTME: Validates defaults, step transitions, input collection, and validation

package wizard

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/course-progress/internal/models"
)

func TestWizardDefaults(t *testing.T) {
	w := New(4)

	if w.input.Order != 4 {
		t.Errorf("expected default order 4, got %d", w.input.Order)
	}
	if w.order != "4" {
		t.Errorf("expected order field 4, got %q", w.order)
	}
	if w.lessonType != models.LessonVideo {
		t.Errorf("expected video default, got %s", w.lessonType)
	}
	if w.Step() != 1 {
		t.Errorf("expected step 1, got %d", w.Step())
	}
}

func TestWizardNegativeOrderClamped(t *testing.T) {
	if w := New(-3); w.input.Order != 0 {
		t.Errorf("expected order 0, got %d", w.input.Order)
	}
}

func TestWizardAdvanceCollectsInput(t *testing.T) {
	w := New(1)

	w.title = "  Channels  "
	w.description = "Unbuffered and buffered"
	w.advanceStep()
	if w.Step() != 2 {
		t.Fatalf("expected step 2, got %d", w.Step())
	}

	w.lessonType = models.LessonPDF
	w.duration = "25"
	w.advanceStep()
	if w.Step() != 3 {
		t.Fatalf("expected step 3, got %d", w.Step())
	}

	w.order = "7"
	_, cmd := w.advanceStep()
	if cmd == nil {
		t.Fatal("expected completion command")
	}
	msg, ok := cmd().(CompleteMsg)
	if !ok {
		t.Fatalf("expected CompleteMsg, got %T", cmd())
	}

	in := msg.Input
	if in.Title != "Channels" {
		t.Errorf("expected trimmed title, got %q", in.Title)
	}
	if in.Type != models.LessonPDF {
		t.Errorf("expected PDF, got %s", in.Type)
	}
	if in.Duration == nil || *in.Duration != 25 {
		t.Errorf("expected duration 25, got %v", in.Duration)
	}
	if in.Order != 7 {
		t.Errorf("expected order 7, got %d", in.Order)
	}
}

func TestWizardEmptyDurationIsNil(t *testing.T) {
	w := New(1)
	w.title = "Intro"
	w.advanceStep()
	w.duration = ""
	w.advanceStep()

	if w.GetInput().Duration != nil {
		t.Errorf("expected nil duration, got %v", *w.GetInput().Duration)
	}
}

func TestWizardInvalidInputRestarts(t *testing.T) {
	w := New(1)
	w.title = "   "
	w.advanceStep()
	w.advanceStep()
	_, cmd := w.advanceStep()

	if w.Step() != 1 {
		t.Errorf("expected restart at step 1, got %d", w.Step())
	}
	if w.err == "" {
		t.Error("expected validation error")
	}
	if cmd != nil {
		if _, ok := cmd().(CompleteMsg); ok {
			t.Error("invalid input must not complete")
		}
	}
}

func TestWizardEscCancels(t *testing.T) {
	w := New(1)
	_, cmd := w.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected cancel command")
	}
	if _, ok := cmd().(CancelledMsg); !ok {
		t.Errorf("expected CancelledMsg, got %T", cmd())
	}
}

func TestValidators(t *testing.T) {
	tests := []struct {
		in       string
		optional bool
		ok       bool
	}{
		{"0", false, true},
		{"12", false, true},
		{"-1", false, false},
		{"abc", false, false},
		{"", false, false},
		{"", true, true},
		{" 5 ", true, true},
		{"x", true, false},
	}

	for _, tc := range tests {
		fn := validateNonNegative
		if tc.optional {
			fn = validateOptionalNonNegative
		}
		if err := fn(tc.in); (err == nil) != tc.ok {
			t.Errorf("validate(%q, optional=%v) err=%v, want ok=%v", tc.in, tc.optional, err, tc.ok)
		}
	}
}

func TestRenderProgressWidth(t *testing.T) {
	for _, width := range []int{40, 80, 120} {
		w := New(1)
		w.SetWidth(width)
		want := max(60, width-1)
		for i, line := range strings.Split(w.renderProgress(), "\n") {
			if got := lipgloss.Width(line); got != want {
				t.Errorf("width %d line %d: got %d, want %d", width, i, got, want)
			}
		}
	}
}
