package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const (
	MaxLoginLen     = 64
	MaxAttributeLen = 128
)

var (
	ErrLogin         = errors.New("invalid login")
	ErrPassword      = errors.New("invalid password")
	ErrAttribute     = errors.New("invalid attribute")
	ErrCommunityName = errors.New("invalid community name")
	ErrDescription   = errors.New("invalid description")
)

func SignUp(login, password string) error {
	return errors.Join(Login(login), Password(password))
}

// Login rejects colons, since notes are stored as "sender:text", and any whitespace or control
// character.
func Login(login string) error {
	switch l := len(login); {
	case l == 0:
		return fmt.Errorf("%w: empty login", ErrLogin)
	case l > MaxLoginLen:
		return fmt.Errorf("%w: login too long; max %d characters", ErrLogin, MaxLoginLen)
	}

	if i := strings.IndexFunc(login, func(r rune) bool {
		return r == ':' || unicode.IsSpace(r) || unicode.IsControl(r)
	}); i >= 0 {
		return fmt.Errorf("%w: forbidden character %q", ErrLogin, login[i])
	}
	return nil
}

// Password only rejects the empty string; passwords are stored and compared as given.
func Password(password string) error {
	if password == "" {
		return fmt.Errorf("%w: empty password", ErrPassword)
	}
	return nil
}

func Attribute(name string) error {
	if l := len(name); l == 0 {
		return fmt.Errorf("%w: empty attribute name", ErrAttribute)
	} else if l > MaxAttributeLen {
		return fmt.Errorf("%w: attribute name too long; max %d characters", ErrAttribute, MaxAttributeLen)
	}
	return nil
}

func Community(name, description string) error {
	var errs []error
	if name == "" {
		errs = append(errs, fmt.Errorf("%w: empty name", ErrCommunityName))
	}
	if description == "" {
		errs = append(errs, fmt.Errorf("%w: empty description", ErrDescription))
	}
	return errors.Join(errs...)
}
