package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/jobtrack/internal/errors"
	"github.com/manav03panchal/jobtrack/internal/output"
	"github.com/manav03panchal/jobtrack/internal/runtime"
	"github.com/manav03panchal/jobtrack/internal/transfer"
)

// Transfer command flags.
var (
	exportFlagOutput string
	importFlagDryRun bool
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:     "export",
	Aliases: []string{"backup", "dump"},
	Short:   "Write all local data to a backup file",
	Long: `Write every locally stored collection and the daily goal to a
versioned JSON backup file.

Without -o the file is named jobtrack-data-YYYY-MM-DD.json and written to
the current directory. Use -o - to write to stdout.

Examples:
  jobtrack export
  jobtrack export -o ~/backups/jobs.json
  jobtrack export -o - | gzip > jobs.json.gz`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

// importCmd represents the import command.
var importCmd = &cobra.Command{
	Use:     "import FILE",
	Aliases: []string{"restore"},
	Short:   "Restore data from a backup file",
	Long: `Restore data from a file written by 'jobtrack export'.

The whole file is checked before anything is written. Collections present in
the file replace the local ones; collections missing from it are kept.
Use - to read from stdin.

Examples:
  jobtrack import jobtrack-data-2024-05-15.json
  jobtrack import --dry-run backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFlagOutput, "output", "o", "", "Output file (- for stdout)")
	importCmd.Flags().BoolVar(&importFlagDryRun, "dry-run", false, "Validate the file without writing")

	rootCmd.AddCommand(exportCmd, importCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	doc, err := transfer.Export(cmd.Context(), app.DB)
	if err != nil {
		return err
	}

	if exportFlagOutput == "-" {
		return doc.Encode(cmd.OutOrStdout())
	}

	path := exportFlagOutput
	if path == "" {
		path = transfer.FileName(now())
	}
	f, err := os.Create(path)
	if err != nil {
		return runtime.WrapDiskFullError(err, "export", path)
	}
	if err := doc.Encode(f); err != nil {
		f.Close()
		return runtime.WrapDiskFullError(err, "export", path)
	}
	if err := f.Close(); err != nil {
		return runtime.WrapDiskFullError(err, "export", path)
	}

	switch {
	case app.IsJSON():
		return app.Formatter.JSON(output.ExportResponse{Status: "exported", Path: path})
	case app.IsPlain():
		app.Formatter.Println(path)
		return nil
	}
	app.CLIFormatter().Success("Exported to " + path)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return errors.NewUserErrorWithField("file", args[0], "Cannot open backup file",
				"Check the path, or use - to read from stdin")
		}
		defer f.Close()
		r = f
	}

	if importFlagDryRun {
		doc, err := transfer.DecodeDocument(r)
		if err != nil {
			return err
		}
		summary, err := transfer.Validate(doc)
		if err != nil {
			return err
		}
		if app.IsJSON() {
			return app.Formatter.JSON(output.ImportResponse{
				Status: "valid",
				Result: &transfer.Result{Summary: summary},
			})
		}
		app.CLIFormatter().Success("Backup is valid: " + describeSummary(summary))
		return nil
	}

	result, err := transfer.Import(cmd.Context(), app.DB, r)
	if err != nil {
		return err
	}

	switch {
	case app.IsJSON():
		return app.Formatter.JSON(output.ImportResponse{Status: "imported", Result: result})
	case app.IsPlain():
		app.Formatter.Println(strings.Join(result.Keys, "\n"))
		return nil
	}
	cli := app.CLIFormatter()
	cli.Success("Imported " + describeSummary(result.Summary))
	if app.Authenticated() {
		cli.Warning("You are logged in: imported records stay local until you log out")
	}
	return nil
}

func describeSummary(s *transfer.Summary) string {
	var parts []string
	if s.Applications != nil {
		parts = append(parts, fmt.Sprintf("%d applications", *s.Applications))
	}
	if s.Events != nil {
		parts = append(parts, fmt.Sprintf("%d events", *s.Events))
	}
	if s.Problems != nil {
		parts = append(parts, fmt.Sprintf("%d problems", *s.Problems))
	}
	if s.DailyGoal != nil {
		parts = append(parts, fmt.Sprintf("daily goal %d", *s.DailyGoal))
	}
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, ", ")
}
