package splitter

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// lineContinuation matches a trailing backslash immediately followed by a
	// newline. These are collapsed (deleted), not replaced with whitespace.
	lineContinuation = regexp.MustCompile(`\\\r?\n`)

	// separator matches a GO directive line: optional leading blanks, GO,
	// optionally followed by blanks and a repeat count, anchored to the line.
	// The line terminator is consumed with the separator so batch text does
	// not accumulate stray leading newlines.
	separator = regexp.MustCompile(`(?im)^[ \t]*GO(?:[ \t]+\d+)?[ \t]*(?:\r?\n|$)`)

	digits = regexp.MustCompile(`\d+`)
)

// Split parses a script containing zero or more GO batch separators into the
// ordered sequence of commands to execute. Batches preserve source order; a
// batch followed by "GO N" appears N times consecutively in the result.
//
// Splitting is purely syntactic: content is passed through unmodified except
// for the removal of line-continuation sequences. Whitespace-only segments
// are dropped. A script with no GO lines yields a single command. The
// function never fails and is safe for concurrent use.
//
// A separator whose trailing text contains no digits keeps the default
// repeat count of 1; this mirrors the silent fallback of the original
// tooling rather than rejecting the line.
func Split(script string) []string {
	script = lineContinuation.ReplaceAllString(script, "")

	// Equivalent of a capturing split: an alternating sequence of
	// [content, separator, content, separator, ...], so separators sit at
	// the odd indices.
	pieces := splitKeepingSeparators(script)

	var commands []string
	for i, piece := range pieces {
		if i%2 == 1 {
			continue
		}
		if strings.TrimSpace(piece) == "" || hasGOPrefix(piece) {
			continue
		}

		count := 1
		if i+1 < len(pieces) {
			count = repeatCount(pieces[i+1])
		}

		text := piece
		if i == len(pieces)-1 && !strings.HasSuffix(text, "\n") {
			// Scripts not terminated by an explicit final GO still get a
			// newline-terminated last batch.
			text += "\n"
		}

		for j := 0; j < count; j++ {
			commands = append(commands, text)
		}
	}

	return commands
}

// splitKeepingSeparators splits script on separator matches, keeping the
// matched separator text as its own element between content elements.
func splitKeepingSeparators(script string) []string {
	matches := separator.FindAllStringIndex(script, -1)
	if len(matches) == 0 {
		return []string{script}
	}

	pieces := make([]string, 0, 2*len(matches)+1)
	prev := 0
	for _, m := range matches {
		pieces = append(pieces, script[prev:m[0]], script[m[0]:m[1]])
		prev = m[1]
	}
	pieces = append(pieces, script[prev:])

	return pieces
}

// hasGOPrefix reports whether a content piece begins with the letters GO.
// Such pieces are dropped. The check is on the raw piece, not a trimmed one:
// an indented first line is content, whatever word it starts with.
func hasGOPrefix(piece string) bool {
	return len(piece) >= 2 && strings.EqualFold(piece[:2], "GO")
}

// repeatCount extracts the repeat count from a GO separator. A separator
// without digits keeps the default count of 1.
func repeatCount(sep string) int {
	match := digits.FindString(sep)
	if match == "" {
		return 1
	}

	n, err := strconv.Atoi(match)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
