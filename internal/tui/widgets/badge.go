// ABOUTME: Status badge widgets for enrollments, roles, and lesson types
// ABOUTME: Provides colored inline badges and status indicators

package widgets

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/course-progress/internal/models"
	"github.com/markalston/course-progress/internal/tui/icons"
	"github.com/markalston/course-progress/internal/tui/styles"
)

// StatusLevel represents the severity of a status
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
)

// badgeColors holds the background and text color per level
var badgeColors = map[StatusLevel][2]lipgloss.Color{
	StatusOK:       {styles.Secondary, "#052E16"},
	StatusWarning:  {styles.Warning, "#1C1917"},
	StatusCritical: {styles.Danger, "#FFFFFF"},
	StatusInfo:     {styles.Info, "#082F49"},
	StatusNeutral:  {styles.Surface, styles.Text},
}

// Badge renders a colored status badge
func Badge(text string, level StatusLevel) string {
	c, ok := badgeColors[level]
	if !ok {
		c = badgeColors[StatusNeutral]
	}
	return lipgloss.NewStyle().
		Background(c[0]).
		Foreground(c[1]).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// EnrollmentLevel maps an enrollment status to a badge level
func EnrollmentLevel(status models.EnrollmentStatus) StatusLevel {
	switch status {
	case models.EnrollmentApproved:
		return StatusOK
	case models.EnrollmentPending:
		return StatusWarning
	case models.EnrollmentRejected:
		return StatusCritical
	default:
		return StatusNeutral
	}
}

// EnrollmentBadge renders an enrollment status badge
func EnrollmentBadge(status models.EnrollmentStatus) string {
	return Badge(string(status), EnrollmentLevel(status))
}

// RoleBadge renders the signed-in user's role
func RoleBadge(role models.Role) string {
	icon := icons.Student
	if role == models.RoleMentor {
		icon = icons.Mentor
	}
	return Badge(icon.String()+" "+role.Label(), StatusInfo)
}

// LessonTypeIcon returns the icon for a lesson's material type
func LessonTypeIcon(t models.LessonType) icons.Icon {
	switch t {
	case models.LessonVideo:
		return icons.Video
	case models.LessonPDF:
		return icons.PDF
	case models.LessonPPT:
		return icons.Slides
	case models.LessonDocument:
		return icons.Document
	default:
		return icons.Lesson
	}
}

// CompletionIndicator renders a check for done lessons and a circle otherwise
func CompletionIndicator(done bool) string {
	if done {
		return lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
	}
	return lipgloss.NewStyle().Foreground(styles.Muted).Render(icons.Circle.String())
}
