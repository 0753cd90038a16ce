package params

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

// ParseEnvFile parses the content of a --params-file into session
// parameters. The format is plain dotenv: one KEY=VALUE per line, # starts a
// comment, blank lines are ignored, whitespace around = is trimmed, and a
// value may be wrapped in single or double quotes to preserve its edges.
//
// Variable expansion and multiline values are not supported; a params file
// carries literal values only. Parsing stops at the first malformed line so
// a typo does not silently drop half a file.
func ParseEnvFile(content []byte) (map[string]string, error) {
	result := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(content))
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Only the first = separates key from value.
		eqIndex := strings.Index(line, "=")
		if eqIndex == -1 {
			return nil, fmt.Errorf("line %d: invalid format, expected KEY=VALUE", lineNum)
		}

		key := strings.TrimSpace(line[:eqIndex])
		value := strings.TrimSpace(line[eqIndex+1:])

		if key == "" {
			return nil, fmt.Errorf("line %d: empty key", lineNum)
		}

		// Strip one matching pair of surrounding quotes.
		if len(value) >= 2 {
			if (strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"")) ||
				(strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'")) {
				value = value[1 : len(value)-1]
			}
		}

		result[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading content: %w", err)
	}

	return result, nil
}
