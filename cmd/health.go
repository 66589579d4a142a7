// ABOUTME: Health command for the progress CLI
// ABOUTME: Checks backend connectivity and prints the service details

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/markalston/course-progress/internal/client"
	"github.com/markalston/course-progress/internal/models"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend connectivity",
	Long:  `Check connectivity to the course progress backend and show its service details.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runHealth(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth executes the health check and returns exit code
func runHealth(ctx context.Context, w io.Writer) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	c := client.New(cfg.APIURL, client.WithTimeout(cfg.HTTPTimeout))

	details, err := c.Health(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatHealthJSON(cfg.APIURL, details))
	} else {
		fmt.Fprintln(w, formatHealthHuman(cfg.APIURL, details))
	}

	return 0
}

// formatHealthHuman formats service details for human readability
func formatHealthHuman(url string, details models.ServiceDetails) string {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Backend:      %s\nStatus:       reachable", url)
	for _, k := range keys {
		fmt.Fprintf(&sb, "\n%-13s %s", k+":", formatDetail(details[k]))
	}
	return sb.String()
}

// formatDetail renders nested values compactly
func formatDetail(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case map[string]any, []any:
		data, _ := json.Marshal(v)
		return string(data)
	default:
		return fmt.Sprint(v)
	}
}

// formatHealthJSON formats service details as JSON
func formatHealthJSON(url string, details models.ServiceDetails) string {
	output := map[string]interface{}{
		"backend": url,
		"service": details,
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
