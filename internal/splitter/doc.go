// Package splitter turns a multi-batch SQL script into the ordered list of
// commands to execute against a connection.
//
// The GO separator is a client-tool directive, not SQL syntax: the server
// never sees it, so a script must be split client-side and each batch sent
// as its own command. A separator line may carry a positive repeat count
// (GO 3), in which case the preceding batch is emitted that many times.
package splitter
