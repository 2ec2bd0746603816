// Package sanitize strips markup from text that comes from storage before it
// reaches a page. Pages escape on output as well; this keeps stored HTML
// from ever being interpreted, even by a careless template.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared strict policy, initializing it on first call.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// PlainText removes every HTML element from input and returns unescaped
// plain text, trimmed of surrounding whitespace. The result must still be
// escaped when written into HTML.
func PlainText(input string) string {
	if input == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(getPolicy().Sanitize(input)))
}
