// Package runner executes split SQL scripts against a database.
//
// A ScriptRunner consumes the splitter, a file provider, and a command
// executor: scripts are split on GO separator lines, then each batch is
// executed sequentially, awaiting the result before the next batch is sent.
// Transient failures retry per batch; any other failure stops the run and
// propagates with the batch position and a truncated preview of the SQL.
//
// Each run carries a RunID surfaced in verbose logs and the RunResult, so
// log lines from concurrent runs can be told apart.
package runner
