// ABOUTME: Courses command for the progress CLI
// ABOUTME: Lists enrolled courses for students and owned courses for mentors

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/markalston/course-progress/internal/analytics"
	"github.com/markalston/course-progress/internal/models"
	"github.com/spf13/cobra"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List your courses",
	Long: `List courses for the signed-in user. Students see every course they asked
to join with its enrollment status and progress. Mentors see the courses
they own.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runCourses(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(coursesCmd)
}

// runCourses lists courses for the signed-in role and returns exit code
func runCourses(ctx context.Context, w io.Writer) int {
	e, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer e.close()

	user, err := e.requireUser(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	switch user.Role {
	case models.RoleMentor:
		var courses []models.Course
		err = e.call(ctx, func() error {
			var err error
			courses, err = e.client.MyCourses(ctx)
			return err
		})
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		if IsJSONOutput() {
			if !emitJSON(w, courses) {
				return 2
			}
		} else {
			fmt.Fprintln(w, formatMentorCourses(courses))
		}

	default:
		var courses []models.CourseWithProgress
		err = e.call(ctx, func() error {
			var err error
			courses, err = analytics.AllEnrolledCourses(ctx, e.client)
			return err
		})
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		if IsJSONOutput() {
			if !emitJSON(w, courses) {
				return 2
			}
		} else {
			fmt.Fprintln(w, formatStudentCourses(courses))
		}
	}
	return 0
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))).
		Headers(headers...)
}

// formatStudentCourses renders enrolled courses as a table
func formatStudentCourses(courses []models.CourseWithProgress) string {
	if len(courses) == 0 {
		return "You have not enrolled in any courses yet."
	}
	t := newTable("Course", "Status", "Progress", "Lessons")
	for _, c := range courses {
		status := "-"
		if c.Enrollment != nil {
			status = strings.ToLower(string(c.Enrollment.Status))
		}
		lessons := "-"
		if c.Progress != nil && c.Progress.TotalLessons > 0 {
			lessons = fmt.Sprintf("%d/%d", c.Progress.CompletedLessons, c.Progress.TotalLessons)
		}
		t.Row(c.Title, status, fmt.Sprintf("%.0f%%", c.CompletionPercentage()), lessons)
	}
	return t.String()
}

// formatMentorCourses renders owned courses as a table
func formatMentorCourses(courses []models.Course) string {
	if len(courses) == 0 {
		return "You have not created any courses yet."
	}
	t := newTable("Course", "Created", "ID")
	for _, c := range courses {
		created := "-"
		if !c.CreatedAt.IsZero() {
			created = humanize.Time(c.CreatedAt.Time)
		}
		t.Row(c.Title, created, c.ID)
	}
	return t.String()
}
