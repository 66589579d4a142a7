// ABOUTME: Stats command for the progress CLI
// ABOUTME: Prints the student's completion analytics across approved courses

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/markalston/course-progress/internal/analytics"
	"github.com/markalston/course-progress/internal/models"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show course completion analytics",
	Long: `Show completion analytics for the signed-in student: enrolled and approved
course counts, overall completion, and courses grouped as Completed,
In Progress, and Not Started.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runStats(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// runStats builds the analytics report and returns exit code
func runStats(ctx context.Context, w io.Writer) int {
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
	if user.Role != models.RoleStudent {
		fmt.Fprintln(w, "Error: analytics are only available to students")
		return 2
	}

	var report analytics.Report
	err = e.call(ctx, func() error {
		var err error
		report, err = analytics.Build(ctx, e.client, analytics.DefaultConcurrency)
		return err
	})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		if !emitJSON(w, report) {
			return 2
		}
	} else {
		fmt.Fprintln(w, formatStatsHuman(report))
	}
	return 0
}

// formatStatsHuman formats the report for human readability
func formatStatsHuman(r analytics.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Enrolled courses: %d\n", r.Enrolled)
	fmt.Fprintf(&sb, "Approved courses: %d\n", r.Approved)
	fmt.Fprintf(&sb, "Overall progress: %.1f%%", r.Overall)

	if r.Approved == 0 {
		sb.WriteString("\n\nNo approved courses yet.")
	}
	for _, g := range r.Groups {
		fmt.Fprintf(&sb, "\n\n%s (%d)", g.Bucket, len(g.Courses))
		for _, c := range g.Courses {
			fmt.Fprintf(&sb, "\n  %-40s %5.1f%%", c.Title, c.CompletionPercentage())
			if c.Progress != nil && c.Progress.TotalLessons > 0 {
				fmt.Fprintf(&sb, "  %d/%d lessons", c.Progress.CompletedLessons, c.Progress.TotalLessons)
			}
		}
	}
	return sb.String()
}
