package sqlgen

import (
	"fmt"
	"regexp"
)

// ClauseKind identifies which clause a fragment was drawn from, so that a
// rejected fragment produces an attributable error.
type ClauseKind string

const (
	ClauseWhere    ClauseKind = "WHERE"
	ClauseHaving   ClauseKind = "HAVING"
	ClauseJoinOn   ClauseKind = "JOIN ON"
	ClauseRawField ClauseKind = "raw field"
)

// dangerousPatterns is the fixed denylist applied to free-text SQL fragments.
// It is defense-in-depth, not a substitute for parameterization: legitimate
// `?` placeholders always pass, and authorship of configs is still a trust
// boundary. Keyword matching is case-insensitive on word boundaries so that
// column names like "updated_at" are not rejected.
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`;`),
	regexp.MustCompile(`--`),
	regexp.MustCompile(`/\*`),
	regexp.MustCompile(`\*/`),
	regexp.MustCompile(`(?i)\b(union|drop|delete|insert|update|exec|execute|sleep|benchmark|load_file)\b`),
	regexp.MustCompile(`(?i)\binto\s+(outfile|dumpfile)\b`),
}

// CheckFragment validates one free-text SQL fragment against the denylist.
// A match is fatal for the whole compile call: no partial SQL is produced.
func CheckFragment(kind ClauseKind, fragment string) error {
	for _, p := range dangerousPatterns {
		if p.MatchString(fragment) {
			return fmt.Errorf("Invalid %s clause: potentially dangerous pattern detected", kind)
		}
	}
	return nil
}
