package db

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/vvka-141/sqlbatch/pkg/sqlbatch"
)

// BuildDSN converts a ConnectionConfig into the connection string its driver
// expects: a keyword/value DSN for postgres, a sqlserver:// URL for mssql.
func BuildDSN(config *sqlbatch.ConnectionConfig) (string, error) {
	switch config.Driver {
	case sqlbatch.DriverPostgres:
		return buildPostgresDSN(config), nil
	case sqlbatch.DriverSQLServer:
		return buildSQLServerDSN(config), nil
	default:
		return "", fmt.Errorf("driver %q: %w", config.Driver, sqlbatch.ErrUnsupportedDriver)
	}
}

// RedactedDSN returns the DSN with the password replaced, for logging.
func RedactedDSN(config *sqlbatch.ConnectionConfig) string {
	if config.Password == "" {
		dsn, _ := BuildDSN(config)
		return dsn
	}

	redacted := *config
	redacted.Password = "*****"
	dsn, _ := BuildDSN(&redacted)
	return dsn
}

// buildPostgresDSN builds a libpq keyword/value DSN, the format pgx parses
// natively. Keys are emitted in a fixed order so the output is deterministic.
func buildPostgresDSN(config *sqlbatch.ConnectionConfig) string {
	var parts []string

	add := func(key, value string) {
		if value != "" {
			parts = append(parts, key+"="+quotePostgresValue(value))
		}
	}

	add("host", config.Host)
	if config.Port > 0 {
		add("port", strconv.Itoa(config.Port))
	}
	add("dbname", config.Database)
	add("user", config.Username)
	add("password", config.Password)
	add("sslmode", config.SSLMode)
	add("application_name", config.AppName)
	if config.ConnectTimeout > 0 {
		add("connect_timeout", strconv.Itoa(int(config.ConnectTimeout.Seconds())))
	}

	keys := make([]string, 0, len(config.AdditionalParams))
	for key := range config.AdditionalParams {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		add(key, config.AdditionalParams[key])
	}

	return strings.Join(parts, " ")
}

// quotePostgresValue single-quotes values containing spaces or quote
// characters, per libpq keyword/value syntax.
func quotePostgresValue(value string) string {
	if !strings.ContainsAny(value, " '\\") {
		return value
	}
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	return "'" + escaped + "'"
}

// buildSQLServerDSN builds a sqlserver:// URL, the format go-mssqldb
// recommends for values containing special characters.
func buildSQLServerDSN(config *sqlbatch.ConnectionConfig) string {
	u := &url.URL{
		Scheme: "sqlserver",
		Host:   config.Host,
	}
	if config.Port > 0 {
		u.Host = fmt.Sprintf("%s:%d", config.Host, config.Port)
	}

	if config.Username != "" {
		if config.Password != "" {
			u.User = url.UserPassword(config.Username, config.Password)
		} else {
			u.User = url.User(config.Username)
		}
	}

	query := url.Values{}
	if config.Database != "" {
		query.Set("database", config.Database)
	}
	if config.Encrypt != "" {
		query.Set("encrypt", config.Encrypt)
	}
	if config.AppName != "" {
		query.Set("app name", config.AppName)
	}
	if config.ConnectTimeout > 0 {
		query.Set("connection timeout", strconv.Itoa(int(config.ConnectTimeout.Seconds())))
	}

	for key, value := range config.AdditionalParams {
		query.Set(key, value)
	}

	u.RawQuery = query.Encode()
	return u.String()
}
