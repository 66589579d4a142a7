// ABOUTME: Root command for the progress CLI
// ABOUTME: Handles global flags and launches the terminal UI by default

package cmd

import (
	"strings"

	"github.com/markalston/course-progress/internal/config"
	"github.com/markalston/course-progress/internal/tui"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	configDir  string
	jsonOutput bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "progress",
	Short: "Terminal client for the course progress platform",
	Long: `progress is a terminal client for the course progress platform.

Run without a subcommand to open the interactive UI. Students browse and
enroll in courses, mark lessons complete, and review analytics. Mentors
create courses and lessons and approve enrollment requests.

Environment Variables:
  PROGRESS_API_URL        Backend API URL (default: http://localhost:5001)
  PROGRESS_CONFIG_DIR     Directory for session, recent logins, and logs
  PROGRESS_HOME           Home screen for signed-out users: landing or login
  PROGRESS_HTTP_TIMEOUT   Request timeout in seconds (default: 30)
  PROGRESS_TOKEN_LEEWAY   Refresh access tokens this many seconds early (default: 30)
  LOG_LEVEL, LOG_FORMAT   Log file verbosity and format (text or json)`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.close()
		return tui.Run(e.session, e.client, e.cfg)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides PROGRESS_API_URL)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Config directory (overrides PROGRESS_CONFIG_DIR)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// loadConfig reads the environment and applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = strings.TrimRight(apiURL, "/")
	}
	if configDir != "" {
		cfg.ConfigDir = configDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}
