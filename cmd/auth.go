// ABOUTME: Login, signup, logout, and whoami commands
// ABOUTME: Drive the same session manager the terminal UI uses

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/markalston/course-progress/internal/models"
	"github.com/markalston/course-progress/internal/route"
	"github.com/markalston/course-progress/internal/tui/recentlogins"
	"github.com/markalston/course-progress/internal/validation"
	"github.com/spf13/cobra"
)

var (
	authEmail    string
	authPassword string
	authRole     string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Long: `Sign in with email, password, and role. The session is stored in the
config directory and shared with the terminal UI.

When --password is omitted the password is read from the first line of stdin.`,
	Run: func(cmd *cobra.Command, args []string) {
		runAuthCommand(cmd, false)
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and sign in",
	Long: `Create a student or mentor account and sign in with it.

When --password is omitted the password is read from the first line of stdin.`,
	Run: func(cmd *cobra.Command, args []string) {
		runAuthCommand(cmd, true)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runLogout(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Long:  `Show the signed-in user. Exits 1 when nobody is signed in.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runWhoami(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, signupCmd} {
		c.Flags().StringVarP(&authEmail, "email", "e", "", "Account email")
		c.Flags().StringVarP(&authPassword, "password", "p", "", "Account password (read from stdin when omitted)")
		c.Flags().StringVarP(&authRole, "role", "r", "student", "Account role: student or mentor")
		_ = c.MarkFlagRequired("email")
		rootCmd.AddCommand(c)
	}
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runAuthCommand(cmd *cobra.Command, signup bool) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	exitCode := runAuth(ctx, os.Stdout, cmd.InOrStdin(), signup)
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// authResult is the JSON shape printed after login or signup
type authResult struct {
	User      models.User `json:"user"`
	Dashboard route.Path  `json:"dashboard"`
}

// runAuth signs in or signs up and returns exit code
func runAuth(ctx context.Context, w io.Writer, in io.Reader, signup bool) int {
	role, err := models.ParseRole(authRole)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	email := strings.TrimSpace(authEmail)
	if err := validation.Email(email); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	password := authPassword
	if password == "" {
		password, err = readPassword(in)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}
	if err := validation.Password(password); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	e, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer e.close()

	e.session.Start(ctx)
	authenticate := e.session.Login
	if signup {
		authenticate = e.session.Signup
	}
	dashboard, err := authenticate(ctx, email, password, role)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if err := recentlogins.New(e.cfg.ConfigDir).Add(email, role); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to remember login: %v\n", err)
	}

	user := e.session.CurrentUser()
	if user == nil {
		fmt.Fprintln(w, "Error: session was not established")
		return 2
	}

	if IsJSONOutput() {
		if !emitJSON(w, authResult{User: *user, Dashboard: dashboard}) {
			return 2
		}
		return 0
	}
	verb := "Signed in"
	if signup {
		verb = "Account created. Signed in"
	}
	fmt.Fprintf(w, "%s as %s (%s)\n", verb, user.Email, user.Role.Label())
	return 0
}

// readPassword reads the first line of in
func readPassword(in io.Reader) (string, error) {
	if in == nil {
		return "", fmt.Errorf("password is required")
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// runLogout clears the stored session and returns exit code
func runLogout(ctx context.Context, w io.Writer) int {
	e, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer e.close()

	e.session.Start(ctx)
	wasSignedIn := e.session.CurrentUser() != nil
	e.session.Logout()

	if IsJSONOutput() {
		if !emitJSON(w, map[string]bool{"signed_out": wasSignedIn}) {
			return 2
		}
		return 0
	}
	if wasSignedIn {
		fmt.Fprintln(w, "Signed out")
	} else {
		fmt.Fprintln(w, "Not signed in")
	}
	return 0
}

// runWhoami prints the signed-in user and returns exit code
func runWhoami(ctx context.Context, w io.Writer) int {
	e, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer e.close()

	e.session.Start(ctx)
	user := e.session.CurrentUser()

	if IsJSONOutput() {
		out := map[string]any{"authenticated": user != nil}
		if user != nil {
			out["user"] = user
			out["token_expired"] = e.store.AccessTokenExpired(0)
		}
		if !emitJSON(w, out) {
			return 2
		}
	} else if user == nil {
		fmt.Fprintln(w, "Not signed in")
	} else {
		fmt.Fprintln(w, formatWhoamiHuman(user, e.store.AccessTokenExpired(0)))
	}

	if user == nil {
		return 1
	}
	return 0
}

// formatWhoamiHuman formats the user for human readability
func formatWhoamiHuman(user *models.User, tokenExpired bool) string {
	token := "valid"
	if tokenExpired {
		token = "expired (refreshed on next request)"
	}
	since := "unknown"
	if !user.CreatedAt.IsZero() {
		since = humanize.Time(user.CreatedAt.Time)
	}
	return fmt.Sprintf(`Email:        %s
Role:         %s
User ID:      %s
Member since: %s
Access token: %s`, user.Email, user.Role.Label(), user.ID, since, token)
}
