package chat

import "regexp"

const (
	PhoneMarker  = "[PHONE REMOVED]"
	LinkMarker   = "[LINK REMOVED]"
	EmailMarker  = "[EMAIL REMOVED]"
	HandleMarker = "[HANDLE REMOVED]"
)

type redaction struct {
	pattern *regexp.Regexp
	marker  string
}

// Applied in order; an earlier category consumes text before later ones see it.
var redactions = []redaction{
	{regexp.MustCompile(`(\+?\d{1,3}[\s.-]?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{3,4}`), PhoneMarker},
	{regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+|\b[a-z0-9-]+(?:\.[a-z0-9-]+)*\.(?:com|net|org|io|co|me|app|dev|ly|gg|tv|uk|us|biz|info|ke)\b(?:/\S*)?`), LinkMarker},
	{regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`), EmailMarker},
	{regexp.MustCompile(`@[A-Za-z0-9_.]{2,}`), HandleMarker},
}

// Redact masks phone numbers, links, emails and social handles in chat text.
// Markers contain no digits, dots or @, so redacting twice changes nothing.
func Redact(text string) string {
	for _, r := range redactions {
		text = r.pattern.ReplaceAllLiteralString(text, r.marker)
	}
	return text
}
