package parser

import (
	"encoding/json"
	"regexp"
)

// jsonSpan matches from the first '{' (or '[') to the last '}' (or ']') in the
// text. It is greedy on purpose and does not balance brackets, so a reply
// holding two separate JSON values yields one span that fails to parse.
var jsonSpan = regexp.MustCompile(`(\{[\s\S]*\}|\[[\s\S]*\])`)

// ExtractJSON returns the first JSON object or array embedded in text,
// rewritten by Canonicalize. It reports false when no candidate span exists
// or the span is not valid JSON; that is an expected outcome, not an error.
func ExtractJSON(text string) (json.RawMessage, bool) {
	m := jsonSpan.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	span := m[1]
	if !json.Valid([]byte(span)) {
		return nil, false
	}
	out, err := Canonicalize([]byte(span))
	if err != nil {
		return nil, false
	}
	return out, true
}
