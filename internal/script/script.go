// Package script interprets acceptance scripts: one command per line, with expectations on the
// output or on the error message of each command.
//
//	# comment
//	criarUsuario login=jpsauve senha=sauve nome="Jacques Sauve"
//	s=abrirSessao login=jpsauve senha=sauve
//	expect "Jacques Sauve" getAtributoUsuario login=jpsauve atributo=nome
//	expectError "Sessão inválida." lerRecado id=nope
//	echo ${s}
//	quit
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/jackut/internal/dispatch"
	"github.com/sidereusnuntius/jackut/internal/service"
)

// Executor runs a single command.
type Executor interface {
	Execute(name string, args dispatch.Args) (string, error)
}

type Failure struct {
	Script  string
	Line    int
	Message string
}

func (f Failure) String() string {
	return fmt.Sprintf("%s:%d: %s", f.Script, f.Line, f.Message)
}

type Result struct {
	Commands int
	Failures []Failure
}

func (r Result) Passed() bool {
	return len(r.Failures) == 0
}

type Interpreter struct {
	// Trace, if set, writes the output of commands that have no expectation attached.
	Trace bool

	exec Executor
	out  io.Writer
	vars map[string]string
}

// New returns an interpreter writing echo output to out. Variables persist across the scripts it
// runs.
func New(exec Executor, out io.Writer) *Interpreter {
	return &Interpreter{exec: exec, out: out, vars: make(map[string]string)}
}

// Run executes a script to its end or to a quit line. Failed expectations are collected in the
// result; the returned error is reserved for read failures and persistence failures, after which
// running further commands is pointless.
func (in *Interpreter) Run(name string, r io.Reader) (Result, error) {
	var res Result
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		quit, err := in.line(line, &res)
		if errors.Is(err, service.ErrPersistence) {
			return res, fmt.Errorf("%s:%d: %w", name, n, err)
		}
		if err != nil {
			res.Failures = append(res.Failures, Failure{Script: name, Line: n, Message: err.Error()})
			log.Debug().Str("script", name).Int("line", n).Err(err).Msg("expectation failed")
		}
		if quit {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return res, fmt.Errorf("reading %s: %w", name, err)
	}

	log.Debug().
		Str("script", name).
		Int("commands", res.Commands).
		Int("failures", len(res.Failures)).
		Msg("script finished")
	return res, nil
}

func (in *Interpreter) line(line string, res *Result) (quit bool, err error) {
	tokens, err := tokenize(line)
	if err != nil || len(tokens) == 0 {
		return false, err
	}
	for i := range tokens {
		if tokens[i].value, err = expand(tokens[i].value, in.vars); err != nil {
			return false, err
		}
	}

	head := tokens[0]
	switch {
	case head.pair:
		// name=command args...
		if head.value == "" {
			return false, fmt.Errorf("%w: missing command for %s", ErrSyntax, head.key)
		}
		res.Commands++
		out, err := in.call(head.value, tokens[1:])
		if err != nil {
			return false, fmt.Errorf("unexpected error: %w", err)
		}
		in.vars[head.key] = out
	case head.value == "quit":
		return true, nil
	case head.value == "echo":
		words := make([]string, 0, len(tokens)-1)
		for _, t := range tokens[1:] {
			words = append(words, t.text())
		}
		fmt.Fprintln(in.out, strings.Join(words, " "))
	case head.value == "expect":
		if len(tokens) < 3 {
			return false, fmt.Errorf("%w: expect needs a value and a command", ErrSyntax)
		}
		res.Commands++
		want := tokens[1].text()
		out, err := in.call(tokens[2].value, tokens[3:])
		if err != nil {
			return false, fmt.Errorf("expected <%s>, but got error <%w>", want, err)
		}
		if out != want {
			return false, fmt.Errorf("expected <%s>, but was <%s>", want, out)
		}
	case head.value == "expectError":
		if len(tokens) < 3 {
			return false, fmt.Errorf("%w: expectError needs a message and a command", ErrSyntax)
		}
		res.Commands++
		want := tokens[1].text()
		_, err := in.call(tokens[2].value, tokens[3:])
		if err == nil {
			return false, fmt.Errorf("expected error <%s>, but no error occurred", want)
		}
		if errors.Is(err, service.ErrPersistence) {
			return false, err
		}
		if err.Error() != want {
			return false, fmt.Errorf("expected error <%s>, but was <%w>", want, err)
		}
	default:
		res.Commands++
		out, err := in.call(head.value, tokens[1:])
		if err != nil {
			return false, fmt.Errorf("unexpected error: %w", err)
		}
		if in.Trace && out != "" {
			fmt.Fprintln(in.out, out)
		}
	}
	return false, nil
}

func (in *Interpreter) call(name string, tokens []token) (string, error) {
	args := make(dispatch.Args, len(tokens))
	for _, t := range tokens {
		if !t.pair {
			return "", fmt.Errorf("%w: argument %q is not key=value", ErrSyntax, t.value)
		}
		args[t.key] = t.value
	}
	return in.exec.Execute(name, args)
}
