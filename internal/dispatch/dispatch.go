// Package dispatch runs the textual command vocabulary of Jackut against the service. Commands take
// named string arguments and return their result rendered as text; failures carry the message
// shown to the user.
package dispatch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/jackut/internal/domain"
	"github.com/sidereusnuntius/jackut/internal/service"
	"github.com/sidereusnuntius/jackut/internal/session"
)

var ErrUnknownCommand = errors.New("unknown command")

// Args holds the named arguments of a command. Missing arguments read as empty strings.
type Args map[string]string

// Error is a failed command. Its message is the one shown to the user; the underlying service or
// session error is kept for errors.Is.
type Error struct {
	Command string
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

type Dispatcher struct {
	svc      service.Service
	sessions *session.Manager
}

func New(svc service.Service, sessions *session.Manager) *Dispatcher {
	return &Dispatcher{svc: svc, sessions: sessions}
}

type command struct {
	run func(d *Dispatcher, a Args) (string, error)
	// target names the argument holding the other account, used to render enemy conflicts.
	target string
	// notFound is shown when the service reports ErrNotFound.
	notFound string
	// self is shown when the command targets the caller.
	self string
	// duplicate is shown when the service reports ErrDuplicateName.
	duplicate string
	// empty is shown when the service reports ErrEmptyQueue.
	empty string
}

// Execute runs the named command. Persistence failures are returned unchanged; every other
// failure is an *Error.
func (d *Dispatcher) Execute(name string, a Args) (string, error) {
	c, ok := commands[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	out, err := c.run(d, a)
	if err == nil {
		return out, nil
	}
	if errors.Is(err, service.ErrPersistence) {
		return "", err
	}

	msg := d.message(c, a, err)
	log.Debug().Str("command", name).Err(err).Str("message", msg).Msg("command failed")
	return "", &Error{Command: name, Message: msg, Err: err}
}

func (d *Dispatcher) message(c command, a Args, err error) string {
	switch {
	case errors.Is(err, session.ErrNoSession):
		return msgUserNotFound
	case errors.Is(err, session.ErrInvalidSession):
		return msgInvalidSession
	case errors.Is(err, service.ErrNotFound):
		if c.notFound != "" {
			return c.notFound
		}
		return msgUserNotFound
	case errors.Is(err, service.ErrSelfRelation):
		return c.self
	case errors.Is(err, service.ErrDuplicateName):
		return c.duplicate
	case errors.Is(err, service.ErrEmptyQueue):
		return c.empty
	case errors.Is(err, service.ErrEnemyConflict):
		name, nameErr := d.svc.GetAttribute(a[c.target], domain.NameAttribute)
		if nameErr != nil {
			name = a[c.target]
		}
		return fmt.Sprintf(msgEnemy, name)
	}

	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.message
		}
	}
	return err.Error()
}

// login resolves the caller's session. Scripts name the session argument either id or sessao.
func (d *Dispatcher) login(a Args) (string, error) {
	token, ok := a["id"]
	if !ok {
		token = a["sessao"]
	}
	return d.sessions.Resolve(token)
}

func renderList(values []string) string {
	return "{" + strings.Join(values, ",") + "}"
}

func renderBool(b bool) string {
	return strconv.FormatBool(b)
}
