// Package interpolation expands ${VAR} and ${VAR:default} references in
// configuration values from the process environment.
package interpolation

import (
	"errors"
	"fmt"
	"os"
	"regexp"
)

// Matches ${VAR_NAME} and ${VAR_NAME:default}; the colon is captured so an
// empty default can be told apart from no default.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:)?([^}]*)\}`)

// ExpandEnvVars replaces every ${VAR_NAME} or ${VAR_NAME:default_value}
// reference in input with the value from the environment. A missing variable
// resolves to its default when one is given (including the empty default in
// ${VAR:}); a missing variable without a default is an error. All missing
// variables are reported together.
func ExpandEnvVars(input string) (string, error) {
	if input == "" {
		return "", nil
	}

	var missing []error
	result := envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		expanded, err := expandReference(match)
		if err != nil {
			missing = append(missing, err)
			return match
		}
		return expanded
	})

	return result, errors.Join(missing...)
}

// expandReference resolves a single ${...} match against the environment.
func expandReference(match string) (string, error) {
	submatches := envVarPattern.FindStringSubmatch(match)
	// submatches: [full_match, varName, colon, defaultValue]
	varName := submatches[1]
	hasDefault := submatches[2] == ":"
	defaultValue := submatches[3]

	if value, exists := os.LookupEnv(varName); exists {
		return value, nil
	}

	if hasDefault {
		return defaultValue, nil
	}

	return "", fmt.Errorf("environment variable not defined: %s", varName)
}
