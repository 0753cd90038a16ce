package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sqlbatch",
	Short: "GO-separated SQL batch runner",
	Long: `sqlbatch splits multi-batch SQL scripts on GO separator lines (the
SQL Server client-tool convention, also honored for PostgreSQL scripts) and
executes each batch sequentially against the target database.

A separator line is GO on its own line, optionally followed by a count:
"GO 5" executes the preceding batch five times.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Database connection failed
  13 - SQL execution failed`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	// -h is taken by --host on subcommands, so help keeps only its long form.
	rootCmd.PersistentFlags().Bool("help", false, "Help for sqlbatch")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
