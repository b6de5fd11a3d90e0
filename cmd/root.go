// Package cmd provides the CLI commands for JobTrack.
//
// This software is a derivative work based on Zeit (https://github.com/mrusme/zeit)
// Original work copyright (c) マリウス (mrusme)
// Modifications copyright (c) Manav Panchal
//
// Licensed under the SEGV License, Version 1.0
// See LICENSE file for full license text.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/jobtrack/internal/config"
	"github.com/manav03panchal/jobtrack/internal/errors"
	"github.com/manav03panchal/jobtrack/internal/logging"
	"github.com/manav03panchal/jobtrack/internal/output"
	"github.com/manav03panchal/jobtrack/internal/runtime"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagFormat   string
	flagColor    string
	flagDebug    bool
	flagDatabase string
)

// app is the shared runtime context.
var app *runtime.Context

// skipRuntime lists commands that never touch local storage.
var skipRuntime = map[string]bool{
	"completion": true,
	"help":       true,
	"version":    true,
	"serve":      true,
	"token":      true,
	"config":     true,
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "jobtrack",
	Short: "Track job applications, interviews and practice problems",
	Long: `JobTrack keeps your job search in one place: applications grouped by
company, interview events with their action items, and a daily practice goal.

Everything is stored locally until you log in to a JobTrack server.

Examples:
  jobtrack app add Acme "Backend Engineer" --date "last friday"
  jobtrack event add Acme "Backend Engineer" --step "Phone Screen" --date "tomorrow 3pm"
  jobtrack event item add 1f3c "Send availability" --deadline +2d
  jobtrack problem add "Two Sum" --difficulty easy
  jobtrack export`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
		config.Global.ReloadFromEnv()

		if flagDebug {
			logging.Init(logging.DebugConfig())
		} else {
			logging.Init(logging.DefaultConfig())
		}
		cmd.SetContext(logging.WithRequestID(cmd.Context(), logging.GenerateRequestID()))

		// Skip initialization for commands without local state (but allow __complete for dynamic completions)
		if skipRuntime[cmd.Name()] {
			return nil
		}

		opts := runtime.DefaultOptions()
		opts.Format = output.ParseFormat(flagFormat)
		opts.ColorMode = output.ParseColorMode(flagColor)
		opts.Debug = flagDebug
		if flagDatabase != "" {
			opts.DBPath = flagDatabase
			opts.InMemory = flagDatabase == config.MemoryDatabase
		}

		var err error
		app, err = runtime.New(opts)
		if err != nil {
			return err
		}
		app.Formatter.Writer = cmd.OutOrStdout()
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeApp()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: show the overview
		return runOverview(cmd, args)
	},
}

func closeApp() error {
	if app == nil {
		return nil
	}
	err := app.Close()
	app = nil
	return err
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		report(rootCmd, err)
	}
	closeApp()
	return err
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagDatabase, "db", "",
		"Local database directory, or :memory: (default $JOBTRACK_DATABASE or the XDG data dir)")

	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("jobtrack %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
		cmd.Println("")
		cmd.Println("Based on Zeit (https://github.com/mrusme/zeit)")
		cmd.Println("Licensed under SEGV License v1.0")
	},
}

// report prints an error in the selected output format.
func report(cmd *cobra.Command, err error) {
	if flagFormat == "json" {
		f := &output.Formatter{Writer: cmd.OutOrStdout()}
		output.NewJSONFormatter(f).PrintError("error", err.Error(),
			errors.Classify(err).String(), runtime.GetSuggestion(err))
		return
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Error: "+runtime.FormatError(err))
}
