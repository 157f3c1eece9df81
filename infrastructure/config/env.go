package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Config and catalog files may reference environment variables with the
// bracketed forms below. Bare $VAR is left untouched so dollar signs in
// free text never expand by accident.
//
//   - ${VAR}          expands to the value of VAR, empty when unset
//   - ${VAR:-default} expands to VAR or "default" when unset or empty
//   - ${VAR:?message} fails the load when VAR is unset or empty
var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*|:\?[^}]*)?\}`)

// Expand expands environment variable references in input. With strict
// set, plain ${VAR} references to unset variables are an error instead
// of expanding to the empty string.
func Expand(input string, strict bool) (string, error) {
	var missing []string

	result := envPattern.ReplaceAllStringFunc(input, func(match string) string {
		inner := match[2 : len(match)-1]
		name, modifier, _ := strings.Cut(inner, ":")

		value, exists := os.LookupEnv(name)
		switch {
		case strings.HasPrefix(modifier, "-"):
			if !exists || value == "" {
				return modifier[1:]
			}
		case strings.HasPrefix(modifier, "?"):
			if !exists || value == "" {
				missing = append(missing, fmt.Sprintf("%s: %s", name, modifier[1:]))
				return match
			}
		default:
			if !exists {
				if strict {
					missing = append(missing, name)
				}
				return ""
			}
		}
		return value
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingEnvVar, strings.Join(missing, ", "))
	}
	return result, nil
}
