package tools

import (
	"io"
	"strings"
	"unicode"
)

func DrainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}

// SafeFilePart keeps letters, digits, '-' and '_', replacing everything else
// with '_'. Returns fallback when nothing usable is left.
func SafeFilePart(s, fallback string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	res := strings.Trim(b.String(), "_")
	if res == "" {
		return fallback
	}

	return res
}
