package main

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

const maxSuggestions = 3

// suggest returns up to three known names closest to query.
func suggest(query string, known []string) []string {
	matches := fuzzy.Find(query, known)
	var out []string
	for _, match := range matches {
		out = append(out, match.Str)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// unknownName builds the error for a file that is not at the expected stage.
func unknownName(kind, name string, known []string) error {
	if hints := suggest(strings.TrimSuffix(name, ".yaml"), known); len(hints) > 0 {
		return fmt.Errorf("%s %q not found (did you mean %s?)", kind, name, strings.Join(hints, ", "))
	}
	if len(known) > 0 {
		return fmt.Errorf("%s %q not found (available: %s)", kind, name, strings.Join(known, ", "))
	}
	return fmt.Errorf("%s %q not found", kind, name)
}
