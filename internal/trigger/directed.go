package trigger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseDirected reports whether body addresses nick, i.e. starts with the nick
// (case-insensitively) followed by ',', ':', whitespace or nothing at all.
// The returned text has the nick and separators stripped.
func ParseDirected(body, nick string) (string, bool) {
	if nick == "" {
		return "", false
	}

	want := utf8.RuneCountInString(nick)
	end, n := 0, 0
	for end < len(body) && n < want {
		_, size := utf8.DecodeRuneInString(body[end:])
		end += size
		n++
	}
	if n < want || !strings.EqualFold(body[:end], nick) {
		return "", false
	}

	rest := body[end:]
	if rest != "" {
		r, _ := utf8.DecodeRuneInString(rest)
		if r != ',' && r != ':' && !unicode.IsSpace(r) {
			return "", false
		}
	}

	rest = strings.TrimLeftFunc(rest, func(r rune) bool {
		return r == ',' || r == ':' || unicode.IsSpace(r)
	})
	return strings.TrimSpace(rest), true
}
