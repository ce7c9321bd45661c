package sanitize

import "regexp"

// Best-effort, case-insensitive patterns for markup that could execute if a
// metadata string were ever rendered as HTML.
var (
	scriptBlockRe = regexp.MustCompile(`(?is)<script\b.*?</script\s*>`)
	scriptTagRe   = regexp.MustCompile(`(?i)</?script\b[^>]*>?`)
	jsSchemeRe    = regexp.MustCompile(`(?i)javascript:`)
	eventAttrRe   = regexp.MustCompile(`(?i)on\w+\s*=`)
)

// FilterText removes script blocks, stray script tags, javascript: schemes
// and inline event-handler attributes from s. Patterns are applied until the
// string stops changing, so removals cannot splice a new match together.
func FilterText(s string) string {
	for {
		out := scriptBlockRe.ReplaceAllString(s, "")
		out = scriptTagRe.ReplaceAllString(out, "")
		out = jsSchemeRe.ReplaceAllString(out, "")
		out = eventAttrRe.ReplaceAllString(out, "")
		if out == s {
			return out
		}
		s = out
	}
}
