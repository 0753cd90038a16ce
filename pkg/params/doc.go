// Package params parses script parameters from CLI flags and .env files,
// and builds typed SQL parameters for batch execution.
//
// CLI parameters arrive as "key=value" strings via --param flags; .env
// content follows the usual dotenv rules (comments, quoting). The typed
// builders produce sql.Named arguments with driver-appropriate values,
// so scripts that reference @name parameters receive correctly typed
// values on SQL Server.
package params
