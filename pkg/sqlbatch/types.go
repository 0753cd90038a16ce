package sqlbatch

import (
	"errors"
	"fmt"
	"time"
)

// Driver identifies the database engine a script is executed against.
type Driver string

const (
	// DriverPostgres executes batches through a pgx connection pool.
	DriverPostgres Driver = "postgres"

	// DriverSQLServer executes batches through database/sql with the
	// go-mssqldb driver. This is the engine whose client tools define
	// the GO separator convention.
	DriverSQLServer Driver = "sqlserver"
)

// IsValid returns true if the Driver is a known value.
func (d Driver) IsValid() bool {
	return d == DriverPostgres || d == DriverSQLServer
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard    AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                        // AWS IAM Database Authentication (postgres only)
	AuthMethodGoogleIAM                     // Google Cloud SQL IAM (postgres only)
	AuthMethodAzureEntraID                  // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

// ConnectionConfig represents resolved connection parameters.
type ConnectionConfig struct {
	Driver   Driver
	Host     string
	Port     int
	Database string
	Username string
	Password string

	// SSLMode applies to postgres connections (disable, require, verify-full, ...).
	SSLMode string

	// Encrypt applies to sqlserver connections (disable, false, true).
	Encrypt string

	// AuthMethod indicates the authentication mechanism to use.
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// AWSRegion is required for AWS IAM authentication (e.g., "us-west-2").
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name
	// (project:region:instance), required for Google IAM authentication.
	GoogleInstance string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID).
	// If all three are provided, Service Principal authentication is used.
	// If none are provided, the DefaultAzureCredential chain is used.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// Validate checks if the ConnectionConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *ConnectionConfig) Validate() error {
	var errs []error

	if !c.Driver.IsValid() {
		errs = append(errs, fmt.Errorf("driver %q is not supported: %w", c.Driver, ErrInvalidConfig))
	}

	if c.Host == "" && c.GoogleInstance == "" {
		errs = append(errs, fmt.Errorf("Host is required: %w", ErrInvalidConfig))
	}

	if c.Database == "" {
		errs = append(errs, fmt.Errorf("Database is required: %w", ErrInvalidConfig))
	}

	if !c.AuthMethod.IsValid() {
		errs = append(errs, fmt.Errorf("auth method %v is not supported: %w", c.AuthMethod, ErrInvalidConfig))
	}

	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d is out of range: %w", c.Port, ErrInvalidConfig))
	}

	if c.ConnectTimeout < 0 {
		errs = append(errs, fmt.Errorf("connect timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// DefaultPort returns the conventional port for the configured driver.
func (c *ConnectionConfig) DefaultPort() int {
	if c.Driver == DriverSQLServer {
		return DefaultSQLServerPort
	}
	return DefaultPostgresPort
}

// RunConfig contains all parameters needed to execute a script run.
type RunConfig struct {
	// ScriptPath is the path of the SQL script file to execute.
	// Either ScriptPath or SourceDir must be set.
	ScriptPath string

	// SourceDir is a directory whose .sql files are executed in lexical
	// name order. Either ScriptPath or SourceDir must be set.
	SourceDir string

	// Connection holds the resolved connection parameters.
	Connection *ConnectionConfig

	// Parameters are key-value pairs made available to typed parameter
	// construction by the caller.
	Parameters map[string]string

	// Timeout is the global timeout for the entire run (0 = no timeout).
	Timeout time.Duration

	// Verbose enables detailed logging.
	Verbose bool
}

// Validate checks if the RunConfig has all required fields and valid values.
func (c *RunConfig) Validate() error {
	var errs []error

	if c.ScriptPath == "" && c.SourceDir == "" {
		errs = append(errs, fmt.Errorf("either ScriptPath or SourceDir is required: %w", ErrInvalidConfig))
	}

	if c.ScriptPath != "" && c.SourceDir != "" {
		errs = append(errs, fmt.Errorf("ScriptPath and SourceDir are mutually exclusive: %w", ErrInvalidConfig))
	}

	if c.Connection == nil {
		errs = append(errs, fmt.Errorf("Connection is required: %w", ErrInvalidConfig))
	} else if err := c.Connection.Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}
