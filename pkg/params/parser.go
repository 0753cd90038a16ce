package params

import (
	"fmt"
	"strings"
)

// ParseKeyValuePairs converts repeated --param "key=value" arguments into a
// map of session parameters. Values may contain further = characters; only
// the first one separates key from value.
//
// Example:
//
//	params, err := ParseKeyValuePairs([]string{"env=prod", "region=us-west"})
//	// Returns: map[string]string{"env": "prod", "region": "us-west"}
func ParseKeyValuePairs(pairs []string) (map[string]string, error) {
	result := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("parameter %q is not in key=value format (example: --param env=prod)", pair)
		}

		if key == "" {
			return nil, fmt.Errorf("parameter has empty key: %q", pair)
		}

		result[key] = value
	}

	return result, nil
}
