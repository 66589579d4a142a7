// ABOUTME: Enrollment approval shared by the mentor dashboard and course views
// ABOUTME: Renders enrollment rows and runs approve/reject requests

package mentor

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/markalston/course-progress/internal/models"
	"github.com/markalston/course-progress/internal/tui/nav"
	"github.com/markalston/course-progress/internal/tui/widgets"
)

// Approver transitions enrollment requests
type Approver interface {
	ApproveEnrollment(ctx context.Context, id string) (*models.Enrollment, error)
	RejectEnrollment(ctx context.Context, id string) (*models.Enrollment, error)
}

type decidedMsg struct {
	enrollment models.Enrollment
	approved   bool
}

// decide approves or rejects e
func decide(ctx context.Context, api Approver, e models.Enrollment, approve bool) tea.Cmd {
	return func() tea.Msg {
		var (
			updated *models.Enrollment
			err     error
		)
		if approve {
			updated, err = api.ApproveEnrollment(ctx, e.ID)
		} else {
			updated, err = api.RejectEnrollment(ctx, e.ID)
		}
		if err != nil {
			return nav.Fail(fmt.Errorf("failed to update enrollment: %w", err))
		}
		if updated == nil {
			updated = &e
		}
		return decidedMsg{enrollment: *updated, approved: approve}
	}
}

// replaceEnrollment swaps the entry with the same ID
func replaceEnrollment(list []models.Enrollment, e models.Enrollment) []models.Enrollment {
	for i := range list {
		if list[i].ID == e.ID {
			list[i] = e
		}
	}
	return list
}

// removeEnrollment drops the entry with id
func removeEnrollment(list []models.Enrollment, id string) []models.Enrollment {
	out := list[:0]
	for _, e := range list {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

func enrollmentLine(e models.Enrollment, course string) string {
	line := widgets.EnrollmentBadge(e.Status) + " student " + shortID(e.StudentID)
	if course != "" {
		line += " · " + course
	}
	if !e.RequestedAt.IsZero() {
		line += " · requested " + humanize.Time(e.RequestedAt.Time)
	}
	return line
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}
