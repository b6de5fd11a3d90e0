package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/jobtrack/internal/auth"
	"github.com/manav03panchal/jobtrack/internal/config"
)

// Token command flags.
var (
	tokenFlagUser string
	tokenFlagTTL  string
)

// tokenCmd represents the token command.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an API access token",
	Long: `Mint a bearer token for one user, signed with JOBTRACK_JWT_SECRET.

Run this on the server host and hand the token to 'jobtrack login'.

Examples:
  jobtrack token --user alice
  jobtrack token --user alice --ttl 24h
  jobtrack token --user ci --ttl 0`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVarP(&tokenFlagUser, "user", "u", "", "User id (token subject)")
	tokenCmd.Flags().StringVar(&tokenFlagTTL, "ttl", "", "Token lifetime, 0 for no expiry (default $JOBTRACK_TOKEN_TTL or 720h)")
	tokenCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	ttl := config.Global.Server.TokenTTL
	if tokenFlagTTL != "" {
		d, err := parseTTL(tokenFlagTTL)
		if err != nil {
			return err
		}
		ttl = d
	}

	token, err := auth.Issue(config.Global.Server.JWTSecret, tokenFlagUser, ttl)
	if err != nil {
		return err
	}
	cmd.Println(token)
	return nil
}
