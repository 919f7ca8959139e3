// Package classify tags commits whose messages mention errors or fixes.
package classify

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// DefaultKeywords is the default error/fix vocabulary. It can be overridden
// through configuration; matching is case-insensitive on word boundaries.
var DefaultKeywords = []string{
	"fix", "bug", "error", "fail", "failed", "failure", "exception",
	"panic", "hotfix", "issue", "revert", "patch", "defect", "fatal",
	"crash", "broken", "regress", "regression",
}

// Delimiter joins matched tags for storage in commits.error_tags.
const Delimiter = ","

// Classifier matches a fixed keyword vocabulary against commit messages.
// It is pure and safe for concurrent use.
type Classifier struct {
	re *regexp.Regexp
}

// New builds a Classifier for the given vocabulary. An empty slice falls
// back to DefaultKeywords.
func New(keywords []string) (*Classifier, error) {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}

	quoted := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(kw))
	}
	if len(quoted) == 0 {
		return nil, fmt.Errorf("keyword vocabulary is empty")
	}
	// Longer keywords first so "regression" is not reported as "regress".
	sort.SliceStable(quoted, func(i, j int) bool {
		return len(quoted[i]) > len(quoted[j])
	})

	re, err := regexp.Compile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	if err != nil {
		return nil, fmt.Errorf("could not compile keyword pattern: %w", err)
	}
	return &Classifier{re: re}, nil
}

// Classify reports whether the message matches any configured keyword and
// returns the matched tags, lowercased, deduplicated, in first-match order.
// Absence of a match is a valid result, not an error.
func (c *Classifier) Classify(message string) (bool, []string) {
	matches := c.re.FindAllString(message, -1)
	if len(matches) == 0 {
		return false, nil
	}

	seen := make(map[string]struct{}, len(matches))
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.ToLower(m)
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		tags = append(tags, m)
	}
	return true, tags
}

// JoinTags renders tags for storage, using the configured delimiter.
func JoinTags(tags []string) string {
	return strings.Join(tags, Delimiter)
}
