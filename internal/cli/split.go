package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/sqlbatch/internal/fileprovider"
	"github.com/vvka-141/sqlbatch/internal/splitter"
)

var splitCmd = &cobra.Command{
	Use:   "split <file>",
	Short: "Split a SQL script on GO separators and print the batches",
	Long: `Split reads the script, splits it on GO separator lines, and prints
the resulting batches to stdout without executing anything. "GO N" repeats
the preceding batch N times in the output, exactly as run would execute it.

Use "-" to read the script from stdin.

Examples:
  sqlbatch split ./seed.sql
  sqlbatch split ./seed.sql --count
  cat seed.sql | sqlbatch split -`,
	Args: cobra.ExactArgs(1),
	RunE: runSplit,
}

var splitCountOnly bool

func init() {
	rootCmd.AddCommand(splitCmd)

	splitCmd.Flags().BoolVar(&splitCountOnly, "count", false,
		"Print only the number of batches")
}

func runSplit(cmd *cobra.Command, args []string) error {
	script, err := readScript(args[0])
	if err != nil {
		return err
	}

	batches := splitter.Split(script)

	if splitCountOnly {
		fmt.Fprintln(cmd.OutOrStdout(), len(batches))
		return nil
	}

	out := cmd.OutOrStdout()
	for i, batch := range batches {
		fmt.Fprintf(out, "-- batch %d of %d\n", i+1, len(batches))
		fmt.Fprint(out, batch)
	}
	return nil
}

func readScript(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	files := fileprovider.NewOSProvider()
	script, err := files.ReadAllText(path)
	if err != nil {
		return "", fmt.Errorf("failed to read script %s: %w", path, err)
	}
	return script, nil
}
