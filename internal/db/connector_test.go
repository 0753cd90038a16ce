package db

import (
	"errors"
	"strings"
	"testing"

	"github.com/vvka-141/sqlbatch/pkg/sqlbatch"
)

func standardConfig(driver sqlbatch.Driver) *sqlbatch.ConnectionConfig {
	return &sqlbatch.ConnectionConfig{
		Driver:   driver,
		Host:     "localhost",
		Port:     5432,
		Database: "mydb",
		Username: "u",
		Password: "p",
	}
}

func TestNewConnector_Standard(t *testing.T) {
	for _, driver := range []sqlbatch.Driver{sqlbatch.DriverPostgres, sqlbatch.DriverSQLServer} {
		t.Run(string(driver), func(t *testing.T) {
			connector, err := NewConnector(standardConfig(driver))
			if err != nil {
				t.Fatalf("NewConnector failed: %v", err)
			}
			if _, ok := connector.(*StandardConnector); !ok {
				t.Errorf("Connector type = %T, want *StandardConnector", connector)
			}
		})
	}
}

func TestNewConnector_AWSIAM(t *testing.T) {
	cfg := standardConfig(sqlbatch.DriverPostgres)
	cfg.AuthMethod = sqlbatch.AuthMethodAWSIAM
	cfg.AWSRegion = "us-west-2"

	connector, err := NewConnector(cfg)
	if err != nil {
		t.Fatalf("NewConnector failed: %v", err)
	}
	if _, ok := connector.(*TokenBasedConnector); !ok {
		t.Errorf("Connector type = %T, want *TokenBasedConnector", connector)
	}
}

func TestNewConnector_AWSIAM_RequiresPostgres(t *testing.T) {
	cfg := standardConfig(sqlbatch.DriverSQLServer)
	cfg.AuthMethod = sqlbatch.AuthMethodAWSIAM
	cfg.AWSRegion = "us-west-2"

	_, err := NewConnector(cfg)
	if !errors.Is(err, sqlbatch.ErrUnsupportedAuthMethod) {
		t.Errorf("Expected ErrUnsupportedAuthMethod, got %v", err)
	}
}

func TestNewConnector_AWSIAM_RequiresRegion(t *testing.T) {
	cfg := standardConfig(sqlbatch.DriverPostgres)
	cfg.AuthMethod = sqlbatch.AuthMethodAWSIAM

	if _, err := NewConnector(cfg); err == nil {
		t.Fatal("Expected error for missing region, got nil")
	}
}

func TestNewConnector_GoogleIAM(t *testing.T) {
	cfg := standardConfig(sqlbatch.DriverPostgres)
	cfg.AuthMethod = sqlbatch.AuthMethodGoogleIAM
	cfg.GoogleInstance = "project:region:instance"

	connector, err := NewConnector(cfg)
	if err != nil {
		t.Fatalf("NewConnector failed: %v", err)
	}
	if _, ok := connector.(*GoogleCloudSQLConnector); !ok {
		t.Errorf("Connector type = %T, want *GoogleCloudSQLConnector", connector)
	}
}

func TestNewConnector_GoogleIAM_RequiresInstance(t *testing.T) {
	cfg := standardConfig(sqlbatch.DriverPostgres)
	cfg.AuthMethod = sqlbatch.AuthMethodGoogleIAM

	if _, err := NewConnector(cfg); err == nil {
		t.Fatal("Expected error for missing instance, got nil")
	}
}

func TestNewConnector_GoogleIAM_RequiresPostgres(t *testing.T) {
	cfg := standardConfig(sqlbatch.DriverSQLServer)
	cfg.AuthMethod = sqlbatch.AuthMethodGoogleIAM
	cfg.GoogleInstance = "project:region:instance"

	_, err := NewConnector(cfg)
	if !errors.Is(err, sqlbatch.ErrUnsupportedAuthMethod) {
		t.Errorf("Expected ErrUnsupportedAuthMethod, got %v", err)
	}
}

func TestNewConnector_AzureServicePrincipal(t *testing.T) {
	for _, driver := range []sqlbatch.Driver{sqlbatch.DriverPostgres, sqlbatch.DriverSQLServer} {
		t.Run(string(driver), func(t *testing.T) {
			cfg := standardConfig(driver)
			cfg.AuthMethod = sqlbatch.AuthMethodAzureEntraID
			cfg.AzureTenantID = "tenant"
			cfg.AzureClientID = "client"
			cfg.AzureClientSecret = "secret"

			connector, err := NewConnector(cfg)
			if err != nil {
				t.Fatalf("NewConnector failed: %v", err)
			}
			if _, ok := connector.(*TokenBasedConnector); !ok {
				t.Errorf("Connector type = %T, want *TokenBasedConnector", connector)
			}
		})
	}
}

func TestNewConnector_UnsupportedAuthMethod(t *testing.T) {
	cfg := standardConfig(sqlbatch.DriverPostgres)
	cfg.AuthMethod = sqlbatch.AuthMethod(99)

	_, err := NewConnector(cfg)
	if !errors.Is(err, sqlbatch.ErrUnsupportedAuthMethod) {
		t.Errorf("Expected ErrUnsupportedAuthMethod, got %v", err)
	}
}

func TestAzureScopeForDriver(t *testing.T) {
	if got := AzureScopeForDriver(sqlbatch.DriverPostgres); got != AzurePostgresScope {
		t.Errorf("Postgres scope = %q, want %q", got, AzurePostgresScope)
	}
	if got := AzureScopeForDriver(sqlbatch.DriverSQLServer); got != AzureSQLScope {
		t.Errorf("SQL Server scope = %q, want %q", got, AzureSQLScope)
	}
}

func TestWrapConnectionError(t *testing.T) {
	cfg := standardConfig(sqlbatch.DriverPostgres)

	tests := []struct {
		name     string
		err      error
		wantHint string
	}{
		{
			name:     "connection refused",
			err:      errors.New("dial tcp 127.0.0.1:5432: connection refused"),
			wantHint: "connection refused to localhost:5432",
		},
		{
			name:     "no such host",
			err:      errors.New("lookup badhost: no such host"),
			wantHint: `cannot resolve host "localhost"`,
		},
		{
			name:     "password auth failed",
			err:      errors.New("FATAL: password authentication failed for user"),
			wantHint: `authentication failed for database "mydb"`,
		},
		{
			name:     "mssql login failed",
			err:      errors.New("mssql: Login failed for user 'sa'"),
			wantHint: `authentication failed for database "mydb"`,
		},
		{
			name:     "database does not exist",
			err:      errors.New(`FATAL: database "mydb" does not exist`),
			wantHint: `database "mydb" does not exist`,
		},
		{
			name:     "timeout",
			err:      errors.New("dial tcp: i/o timeout"),
			wantHint: "connection timed out",
		},
		{
			name:     "unknown error passes through",
			err:      errors.New("something odd"),
			wantHint: "failed to connect to database",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := wrapConnectionError(tt.err, cfg)
			if !strings.Contains(wrapped.Error(), tt.wantHint) {
				t.Errorf("Wrapped error missing %q:\n%v", tt.wantHint, wrapped)
			}
			if !errors.Is(wrapped, tt.err) {
				t.Error("Wrapped error must preserve the original via errors.Is")
			}
		})
	}
}
