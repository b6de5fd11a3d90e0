package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/jobtrack/internal/errors"
	"github.com/manav03panchal/jobtrack/internal/output"
	"github.com/manav03panchal/jobtrack/internal/remote"
	"github.com/manav03panchal/jobtrack/internal/session"
)

// Session command flags.
var (
	loginFlagServer string
	loginFlagToken  string
)

// loginCmd represents the login command.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to a JobTrack server",
	Long: `Sign in to a JobTrack server with an access token.

While signed in, applications, events and problems are read from and written
to the server. The daily goal stays on this machine. Local data is kept and
comes back after 'jobtrack logout'.

Examples:
  jobtrack login --server https://jobs.example.com --token eyJhbGciOi...`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

// logoutCmd represents the logout command.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and go back to local data",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

// whoamiCmd represents the whoami command.
var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"session"},
	Short:   "Show where records are stored",
	Args:    cobra.NoArgs,
	RunE:    runWhoami,
}

func init() {
	loginCmd.Flags().StringVarP(&loginFlagServer, "server", "s", "", "Server URL")
	loginCmd.Flags().StringVarP(&loginFlagToken, "token", "t", "", "Access token from 'jobtrack token'")
	loginCmd.MarkFlagRequired("server")
	loginCmd.MarkFlagRequired("token")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	s, err := session.New(loginFlagServer, loginFlagToken)
	if err != nil {
		return err
	}

	client, err := remote.NewClient(cmd.Context(), s.Server, s.Token, app.HTTPTimeout())
	if err != nil {
		return err
	}
	if _, err := remote.Applications(client).Load(cmd.Context()); err != nil {
		if errors.Is(err, errors.ErrUnauthorized) {
			return errors.NewUserError("The server rejected the token",
				"Check that the token was minted with the server's JWT secret")
		}
		return err
	}

	if err := session.Save(app.DB, s); err != nil {
		return saveError(err)
	}
	app.Session = s

	return printSession(s, "Logged in to "+s.Server+" as "+s.User)
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := session.Clear(app.DB); err != nil {
		return saveError(err)
	}
	app.Session = nil

	if app.IsJSON() {
		return app.Formatter.JSON(output.SessionResponse{Authenticated: false})
	}
	app.CLIFormatter().Success("Logged out, using local data")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	s := app.Session
	if !app.Authenticated() {
		if app.IsJSON() {
			return app.Formatter.JSON(output.SessionResponse{Authenticated: false})
		}
		cli := app.CLIFormatter()
		if s != nil {
			cli.Warning("The token for " + s.Server + " has expired, using local data")
			return nil
		}
		cli.Println("Not logged in, using local data in " + app.DB.Path())
		return nil
	}
	return printSession(s, "Logged in to "+s.Server+" as "+s.User)
}

func printSession(s *session.Session, message string) error {
	resp := output.SessionResponse{Authenticated: true, Server: s.Server, User: s.User}
	expires := s.ExpiresAt()
	if !expires.IsZero() {
		resp.ExpiresAt = expires.Format(time.RFC3339)
	}

	switch {
	case app.IsJSON():
		return app.Formatter.JSON(resp)
	case app.IsPlain():
		app.Formatter.Println(s.User)
		return nil
	}
	cli := app.CLIFormatter()
	cli.Success(message)
	if !expires.IsZero() {
		cli.Muted("Token expires " + output.FormatDue(expires, now()))
	}
	return nil
}
