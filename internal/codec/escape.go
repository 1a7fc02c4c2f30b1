package codec

import "strings"

// Values are written one per line and lists are joined with '|', so both separators, the escape
// character itself and line breaks are backslash-escaped. Attribute keys also escape ':'.
var (
	valueEscaper = strings.NewReplacer(`\`, `\\`, "|", `\|`, "\n", `\n`, "\r", `\r`)
	keyEscaper   = strings.NewReplacer(`\`, `\\`, "|", `\|`, "\n", `\n`, "\r", `\r`, ":", `\:`)
)

func escape(s string) string {
	return valueEscaper.Replace(s)
}

func escapeKey(s string) string {
	return keyEscaper.Replace(s)
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// split cuts s at every unescaped sep, at most n parts when n > 0. The parts keep their escapes.
func split(s string, sep byte, n int) []string {
	if s == "" {
		return nil
	}

	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case sep:
			if n > 0 && len(parts) == n-1 {
				continue
			}
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func joinList(values []string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = escape(v)
	}
	return strings.Join(escaped, "|")
}

func splitList(s string) []string {
	parts := split(s, '|', 0)
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		values = append(values, unescape(p))
	}
	if len(values) == 0 {
		return nil
	}
	return values
}
