package script

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrSyntax    = errors.New("syntax error")
	ErrUndefined = errors.New("undefined variable")
)

// token is a word of a script line. Quotes group words and are dropped; key=value pairs keep the
// key unquoted.
type token struct {
	key   string
	value string
	pair  bool
}

// text is the token as written, minus quotes.
func (t token) text() string {
	if t.pair {
		return t.key + "=" + t.value
	}
	return t.value
}

// tokenize splits a line on blanks, honoring double quotes. Inside quotes a backslash escapes the
// next character.
func tokenize(line string) ([]token, error) {
	var (
		tokens  []token
		b       strings.Builder
		key     string
		pair    bool
		quoted  bool
		started bool
	)

	flush := func() {
		if started {
			tokens = append(tokens, token{key: key, value: b.String(), pair: pair})
		}
		b.Reset()
		key, pair, started = "", false, false
	}

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quoted && c == '\\' && i+1 < len(line):
			i++
			b.WriteByte(line[i])
		case c == '"':
			quoted = !quoted
			started = true
		case quoted:
			b.WriteByte(c)
		case c == ' ' || c == '\t':
			flush()
		case c == '=' && !pair:
			key, pair, started = b.String(), true, true
			b.Reset()
		default:
			b.WriteByte(c)
			started = true
		}
	}
	if quoted {
		return nil, fmt.Errorf("%w: unterminated quote", ErrSyntax)
	}
	flush()
	return tokens, nil
}

var reference = regexp.MustCompile(`\$\{([^}]*)\}`)

// expand replaces each ${name} in s with the value of the variable.
func expand(s string, vars map[string]string) (string, error) {
	var err error
	out := reference.ReplaceAllStringFunc(s, func(ref string) string {
		name := ref[2 : len(ref)-1]
		v, ok := vars[name]
		if !ok && err == nil {
			err = fmt.Errorf("%w: %s", ErrUndefined, name)
		}
		return v
	})
	return out, err
}
