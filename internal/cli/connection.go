package cli

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/vvka-141/sqlbatch/internal/config"
	"github.com/vvka-141/sqlbatch/internal/db"
	"github.com/vvka-141/sqlbatch/pkg/sqlbatch"
)

// connectionStringFromEnv returns the first non-empty connection string from
// SQLBATCH_CONNECTION_STRING or DATABASE_URL environment variables.
func connectionStringFromEnv() string {
	if s := os.Getenv("SQLBATCH_CONNECTION_STRING"); s != "" {
		return s
	}
	return os.Getenv("DATABASE_URL")
}

// resolveConnection consolidates connection resolution for the run command.
// It handles the connection string flag, granular flags, Azure flags, and
// environment variables, then falls back to an interactive password prompt
// when no password source produced one.
func resolveConnection(
	connStringFlag string,
	granularFlags *db.GranularConnFlags,
	azureFlags *db.AzureFlags,
	projectConfig *config.ProjectConfig,
	verbose bool,
) (*sqlbatch.ConnectionConfig, error) {
	connString := connStringFlag
	if connString == "" {
		connString = connectionStringFromEnv()
	}

	envVars := db.LoadFromEnvironment()

	connConfig, err := db.ResolveConnectionParams(
		connString,
		granularFlags,
		azureFlags,
		envVars,
		projectConfig,
	)
	if err != nil {
		return nil, err
	}

	if connConfig.Password == "" && connConfig.AuthMethod == sqlbatch.AuthMethodStandard {
		password, err := promptPassword(connConfig, verbose)
		if err != nil {
			return nil, err
		}
		connConfig.Password = password
	}

	return connConfig, nil
}

// promptPassword asks for the password on the terminal without echo. On a
// non-interactive stdin it returns an empty password so trust-based and
// passwordless setups still work.
func promptPassword(cfg *sqlbatch.ConnectionConfig, verbose bool) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		if verbose {
			fmt.Fprintln(os.Stderr, "[VERBOSE] No password source and stdin is not a terminal, continuing without password")
		}
		return "", nil
	}

	fmt.Fprintf(os.Stderr, "Password for %s@%s:%d: ", cfg.Username, cfg.Host, cfg.Port)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}
