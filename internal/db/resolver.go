package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vvka-141/sqlbatch/internal/config"
	"github.com/vvka-141/sqlbatch/pkg/sqlbatch"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-h, -p, -U, -d) and
// add --driver and --encrypt for SQL Server targets.
//
// Note: Password is NOT included as a CLI flag for security reasons.
// Use one of these methods instead:
//  1. $PGPASSWORD / $SQLCMDPASSWORD environment variable
//  2. Connection string with embedded password
//  3. The interactive prompt
type GranularConnFlags struct {
	Driver   string
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
	Encrypt  string
}

// IsEmpty returns true if no connection-related granular flags were provided.
// The database flag is excluded because it can override the database named
// in a connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" &&
		g.SSLMode == "" && g.Encrypt == ""
}

// AzureFlags represents Azure Entra ID CLI flags.
// These override the corresponding AZURE_* environment variables.
// Note: Client secret is NOT included as a CLI flag for security reasons.
// Use AZURE_CLIENT_SECRET environment variable instead.
type AzureFlags struct {
	TenantID string // Overrides AZURE_TENANT_ID
	ClientID string // Overrides AZURE_CLIENT_ID
}

// IsEmpty returns true if no Azure flags were provided.
func (a *AzureFlags) IsEmpty() bool {
	return a == nil || (a.TenantID == "" && a.ClientID == "")
}

// EnvVars represents the environment variables the resolver consults.
// The PG* family follows libpq conventions; SQLCMDPASSWORD follows the
// sqlcmd convention for the SQL Server password.
type EnvVars struct {
	PGHOST          string
	PGPORT          string
	PGUSER          string
	PGPASSWORD      string
	PGDATABASE      string
	PGSSLMODE       string
	SQLCMDPASSWORD  string
	DATABASE_URL    string

	// Azure Entra ID environment variables (Azure SDK standard names)
	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string
}

// LoadFromEnvironment loads the resolver's environment variables.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:              os.Getenv("PGHOST"),
		PGPORT:              os.Getenv("PGPORT"),
		PGUSER:              os.Getenv("PGUSER"),
		PGPASSWORD:          os.Getenv("PGPASSWORD"),
		PGDATABASE:          os.Getenv("PGDATABASE"),
		PGSSLMODE:           os.Getenv("PGSSLMODE"),
		SQLCMDPASSWORD:      os.Getenv("SQLCMDPASSWORD"),
		DATABASE_URL:        os.Getenv("DATABASE_URL"),
		AZURE_TENANT_ID:     os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:     os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET: os.Getenv("AZURE_CLIENT_SECRET"),
	}
}

// ResolveConnectionParams resolves connection parameters using precedence:
//
//  1. Connection string flag (--connection) - if provided, parse and use directly
//  2. Granular flags (--driver, -h, -p, -U, -d) - if any provided, build from flags
//  3. Environment variables (PGHOST etc. for postgres; DATABASE_URL for either engine)
//  4. sqlbatch.yaml project config
//  5. Defaults (postgres, localhost, driver's conventional port)
//
// If Azure flags are provided OR Azure environment variables are set, the
// AuthMethod switches to Entra ID and the credentials are attached. CLI
// flags take precedence over environment variables.
//
// Returns an error if BOTH --connection AND granular connection flags are
// provided; mixing the two is ambiguous.
func ResolveConnectionParams(
	connStringFlag string,
	granularFlags *GranularConnFlags,
	azureFlags *AzureFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*sqlbatch.ConnectionConfig, error) {
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if azureFlags == nil {
		azureFlags = &AzureFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}

	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, fmt.Errorf(
			"cannot specify both --connection and granular flags (-h, -p, -U)\n" +
				"Choose one approach:\n" +
				"  1. Connection string: --connection \"postgres://user@localhost:5432/mydb\"\n" +
				"  2. Granular flags: --driver sqlserver -h localhost -p 1433 -U sa -d mydb\n" +
				"  3. Environment variables: export PGHOST=localhost PGPORT=5432 PGUSER=myuser",
		)
	}

	var cfg *sqlbatch.ConnectionConfig
	var err error

	switch {
	case connStringFlag != "":
		cfg, err = resolveFromConnectionString(connStringFlag, granularFlags, envVars)
	case granularFlags.IsEmpty() && envVars.DATABASE_URL != "":
		cfg, err = resolveFromConnectionString(envVars.DATABASE_URL, granularFlags, envVars)
	default:
		cfg, err = resolveFromGranularParams(granularFlags, envVars, projectConfig)
	}

	if err != nil {
		return nil, err
	}

	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}
	applyAzureAuth(cfg, azureFlags, envVars, &pc)

	return cfg, nil
}

// resolveFromConnectionString parses a connection URL and applies the
// database override and environment fallbacks.
func resolveFromConnectionString(
	connStr string,
	flags *GranularConnFlags,
	envVars *EnvVars,
) (*sqlbatch.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}

	// -d overrides the database named in the URL
	if flags.Database != "" {
		cfg.Database = flags.Database
	}

	if cfg.Driver == sqlbatch.DriverPostgres {
		if cfg.SSLMode == "" && envVars.PGSSLMODE != "" {
			cfg.SSLMode = envVars.PGSSLMODE
		}
		if cfg.Password == "" {
			cfg.Password = envVars.PGPASSWORD
		}
	} else if cfg.Password == "" {
		cfg.Password = envVars.SQLCMDPASSWORD
	}

	return cfg, nil
}

// resolveFromGranularParams builds a ConnectionConfig from granular flags,
// environment variables, and the project config, in that precedence order.
func resolveFromGranularParams(
	flags *GranularConnFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*sqlbatch.ConnectionConfig, error) {
	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	driver := sqlbatch.Driver(flags.Driver)
	if driver == "" {
		driver = sqlbatch.Driver(pc.Driver)
	}
	if driver == "" {
		driver = sqlbatch.DriverPostgres
	}
	if !driver.IsValid() {
		return nil, fmt.Errorf("unknown driver %q (expected %q or %q): %w",
			driver, sqlbatch.DriverPostgres, sqlbatch.DriverSQLServer, sqlbatch.ErrUnsupportedDriver)
	}

	authMethod, err := parseAuthMethod(pc.AuthMethod)
	if err != nil {
		return nil, err
	}

	cfg := &sqlbatch.ConnectionConfig{
		Driver:           driver,
		AuthMethod:       authMethod,
		AdditionalParams: make(map[string]string),
		AWSRegion:        pc.AWSRegion,
		GoogleInstance:   pc.GoogleInstance,
	}

	isPostgres := driver == sqlbatch.DriverPostgres

	// Host: flag > PGHOST (postgres) > sqlbatch.yaml > default
	cfg.Host = flags.Host
	if cfg.Host == "" && isPostgres {
		cfg.Host = envVars.PGHOST
	}
	if cfg.Host == "" {
		cfg.Host = pc.Host
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}

	// Port: flag > PGPORT (postgres) > sqlbatch.yaml > driver default
	if flags.Port != 0 {
		cfg.Port = flags.Port
	} else if isPostgres && envVars.PGPORT != "" {
		port, err := strconv.Atoi(envVars.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value '%s': must be an integer", envVars.PGPORT)
		}
		cfg.Port = port
	} else if pc.Port != 0 {
		cfg.Port = pc.Port
	} else {
		cfg.Port = cfg.DefaultPort()
	}

	// Username: flag > PGUSER (postgres) > sqlbatch.yaml > current OS user
	cfg.Username = flags.Username
	if cfg.Username == "" && isPostgres {
		cfg.Username = envVars.PGUSER
	}
	if cfg.Username == "" {
		cfg.Username = pc.Username
	}
	if cfg.Username == "" {
		if currentUser := os.Getenv("USER"); currentUser != "" {
			cfg.Username = currentUser
		} else if currentUser := os.Getenv("USERNAME"); currentUser != "" {
			cfg.Username = currentUser
		}
	}

	if isPostgres {
		cfg.Password = envVars.PGPASSWORD
	} else {
		cfg.Password = envVars.SQLCMDPASSWORD
	}

	// Database: flag > PGDATABASE (postgres) > sqlbatch.yaml
	cfg.Database = flags.Database
	if cfg.Database == "" && isPostgres {
		cfg.Database = envVars.PGDATABASE
	}
	if cfg.Database == "" {
		cfg.Database = pc.Database
	}

	if isPostgres {
		// SSLMode: flag > PGSSLMODE > sqlbatch.yaml > default
		cfg.SSLMode = flags.SSLMode
		if cfg.SSLMode == "" {
			cfg.SSLMode = envVars.PGSSLMODE
		}
		if cfg.SSLMode == "" {
			cfg.SSLMode = pc.SSLMode
		}
		if cfg.SSLMode == "" {
			cfg.SSLMode = "prefer"
		}
	} else {
		cfg.Encrypt = flags.Encrypt
		if cfg.Encrypt == "" {
			cfg.Encrypt = pc.Encrypt
		}
	}

	return cfg, nil
}

// parseAuthMethod maps the sqlbatch.yaml auth_method string to an AuthMethod.
// An empty string means standard username/password authentication.
func parseAuthMethod(s string) (sqlbatch.AuthMethod, error) {
	switch s {
	case "", "standard":
		return sqlbatch.AuthMethodStandard, nil
	case "aws-iam":
		return sqlbatch.AuthMethodAWSIAM, nil
	case "google-iam":
		return sqlbatch.AuthMethodGoogleIAM, nil
	case "azure-entra-id":
		return sqlbatch.AuthMethodAzureEntraID, nil
	default:
		return sqlbatch.AuthMethodStandard, fmt.Errorf(
			"unknown auth_method %q in %s (expected standard, aws-iam, google-iam, or azure-entra-id): %w",
			s, config.ConfigFileName, sqlbatch.ErrInvalidConfig)
	}
}

// applyAzureAuth sets Azure Entra ID authentication on the config if
// credentials are available. Precedence: CLI flags > environment variables >
// sqlbatch.yaml.
func applyAzureAuth(cfg *sqlbatch.ConnectionConfig, flags *AzureFlags, env *EnvVars, pc *config.ConnectionConfig) {
	tenantID := flags.TenantID
	if tenantID == "" {
		tenantID = env.AZURE_TENANT_ID
	}
	if tenantID == "" {
		tenantID = pc.AzureTenantID
	}

	clientID := flags.ClientID
	if clientID == "" {
		clientID = env.AZURE_CLIENT_ID
	}
	if clientID == "" {
		clientID = pc.AzureClientID
	}

	// Client secret only comes from env var (no flag for security)
	clientSecret := env.AZURE_CLIENT_SECRET

	if tenantID != "" || clientID != "" {
		cfg.AuthMethod = sqlbatch.AuthMethodAzureEntraID
		cfg.AzureTenantID = tenantID
		cfg.AzureClientID = clientID
		cfg.AzureClientSecret = clientSecret
	}
}
