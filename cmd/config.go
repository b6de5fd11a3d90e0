package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/jobtrack/internal/config"
	"github.com/manav03panchal/jobtrack/internal/logging"
	"github.com/manav03panchal/jobtrack/internal/output"
)

// ConfigResponse is the JSON output of the config command.
type ConfigResponse struct {
	Database    string   `json:"database"`
	HTTPTimeout string   `json:"http_timeout"`
	ServerAddr  string   `json:"server_addr"`
	DatabaseURL string   `json:"database_url,omitempty"`
	JWTSecret   string   `json:"jwt_secret,omitempty"`
	CORSOrigins []string `json:"cors_origins"`
	TokenTTL    string   `json:"token_ttl"`
}

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"cfg", "env"},
	Short:   "Show the effective configuration",
	Long: `Show the configuration after defaults, .env and environment variables.

Secrets are masked.

Environment:
  JOBTRACK_DATABASE      Local database directory, or :memory:
  JOBTRACK_HTTP_TIMEOUT  Timeout of one API call (e.g. 15s)
  JOBTRACK_SERVER_ADDR   API server listen address
  JOBTRACK_DATABASE_URL  API server PostgreSQL DSN
  JOBTRACK_JWT_SECRET    API token signing secret
  JOBTRACK_CORS_ORIGINS  Comma separated browser origins
  JOBTRACK_TOKEN_TTL     Lifetime of minted tokens

Examples:
  jobtrack config
  jobtrack config --format json`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	c := config.Global
	resp := ConfigResponse{
		Database:    c.Storage.Path,
		HTTPTimeout: c.HTTP.Timeout.String(),
		ServerAddr:  c.Server.Addr,
		DatabaseURL: logging.MaskDSN(c.Server.DatabaseURL),
		JWTSecret:   logging.MaskToken(c.Server.JWTSecret),
		CORSOrigins: c.Server.CORSOrigins,
		TokenTTL:    c.Server.TokenTTL.String(),
	}
	if c.Storage.InMemory {
		resp.Database = config.MemoryDatabase
	}
	if flagDatabase != "" {
		resp.Database = flagDatabase
	}
	if resp.CORSOrigins == nil {
		resp.CORSOrigins = []string{}
	}

	f := &output.Formatter{Writer: cmd.OutOrStdout(), Format: output.ParseFormat(flagFormat)}
	if f.Format == output.FormatJSON {
		return f.JSON(resp)
	}

	origins := "any"
	if len(resp.CORSOrigins) > 0 {
		origins = strings.Join(resp.CORSOrigins, ", ")
	}
	rows := []output.TableRow{
		{Columns: []string{"database", resp.Database}},
		{Columns: []string{"http timeout", resp.HTTPTimeout}},
		{Columns: []string{"server addr", resp.ServerAddr}},
		{Columns: []string{"database url", orUnset(resp.DatabaseURL)}},
		{Columns: []string{"jwt secret", orUnset(resp.JWTSecret)}},
		{Columns: []string{"cors origins", origins}},
		{Columns: []string{"token ttl", resp.TokenTTL}},
	}
	f.ColorMode = output.ParseColorMode(flagColor)
	output.NewCLIFormatter(f).PrintTable([]string{"SETTING", "VALUE"}, rows)
	return nil
}

func orUnset(v string) string {
	if v == "" {
		return "(unset)"
	}
	return v
}
