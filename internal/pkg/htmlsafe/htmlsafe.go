// Package htmlsafe strips or filters user-supplied HTML.
package htmlsafe

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict = bluemonday.StrictPolicy()
	ugc    = newUGCPolicy()
)

func newUGCPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre", "span")
	p.RequireNoFollowOnLinks(true)
	return p
}

// Text removes all markup and returns plain text, trimmed.
// Entities produced by the policy are decoded so the result is stored as typed.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// UGC keeps safe formatting markup and drops scripts, handlers and unsafe URLs.
func UGC(s string) string {
	return ugc.Sanitize(s)
}
