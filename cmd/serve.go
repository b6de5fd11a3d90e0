package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/jobtrack/internal/config"
	"github.com/manav03panchal/jobtrack/internal/logging"
	"github.com/manav03panchal/jobtrack/internal/server"
)

var serveFlagAddr string

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JobTrack API server",
	Long: `Run the HTTP API that signed-in clients sync with.

Records are stored in PostgreSQL when JOBTRACK_DATABASE_URL is set and in
memory otherwise. JOBTRACK_JWT_SECRET must be set; clients authenticate with
tokens minted by 'jobtrack token'.

Examples:
  JOBTRACK_JWT_SECRET=... jobtrack serve
  jobtrack serve --addr 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlagAddr, "addr", "", "Listen address (default $JOBTRACK_SERVER_ADDR or :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logging.Init(serveLogConfig(flagDebug))

	cfg := config.Global.Server
	addr := cfg.Addr
	if serveFlagAddr != "" {
		addr = serveFlagAddr
	}

	repos := server.NewMemoryRepositories()
	if cfg.DatabaseURL != "" {
		db, err := server.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		repos = server.NewGormRepositories(db)
		logging.Info("using postgres", "dsn", logging.MaskDSN(cfg.DatabaseURL))
	} else {
		logging.Warn("JOBTRACK_DATABASE_URL not set, records are kept in memory")
	}

	srv, err := server.New(server.Config{
		Addr:        addr,
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
	}, repos)
	if err != nil {
		return err
	}

	cmd.Printf("JobTrack API listening on %s\n", srv.Addr())
	return srv.Run(cmd.Context())
}

// serveLogConfig keeps request logs visible; the CLI default only shows warnings.
func serveLogConfig(debug bool) logging.Config {
	if debug {
		return logging.DebugConfig()
	}
	return logging.ServerConfig()
}
