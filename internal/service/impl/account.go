package impl

import (
	"fmt"

	"github.com/sidereusnuntius/jackut/internal/domain"
	"github.com/sidereusnuntius/jackut/internal/service"
	"github.com/sidereusnuntius/jackut/internal/validate"
)

func (s *AppService) CreateAccount(login, password, name string) error {
	if err := validate.SignUp(login, password); err != nil {
		return fmt.Errorf("%w: %w", service.ErrInvalidArgument, err)
	}

	return s.update("create account", func(n *network) error {
		if _, ok := n.accounts[login]; ok {
			return fmt.Errorf("%w: account %s", service.ErrDuplicateName, login)
		}
		n.accounts[login] = &account{
			login:      login,
			password:   password,
			name:       name,
			attributes: make(map[string]string),
		}
		return nil
	})
}

// Authenticate compares passwords verbatim; they are opaque strings.
func (s *AppService) Authenticate(login, password string) error {
	return s.view(func(n *network) error {
		a, ok := n.accounts[login]
		if !ok || password == "" || a.password != password {
			return service.ErrInvalidCredentials
		}
		return nil
	})
}

func (s *AppService) RemoveAccount(login string) error {
	return s.update("remove account", func(n *network) error {
		if _, err := n.account(login); err != nil {
			return err
		}
		n.remove(login)
		return nil
	})
}

func (s *AppService) GetAttribute(login, attribute string) (value string, err error) {
	err = s.view(func(n *network) error {
		a, err := n.account(login)
		if err != nil {
			return err
		}
		if attribute == domain.NameAttribute {
			value = a.name
			return nil
		}

		v, ok := a.attributes[attribute]
		if !ok {
			return fmt.Errorf("%w: %s", service.ErrAttributeNotSet, attribute)
		}
		value = v
		return nil
	})
	return
}

// SetAttribute sets a profile attribute; setting "nome" renames the account.
func (s *AppService) SetAttribute(login, attribute, value string) error {
	if err := validate.Attribute(attribute); err != nil {
		return fmt.Errorf("%w: %w", service.ErrInvalidArgument, err)
	}

	return s.update("set attribute", func(n *network) error {
		a, err := n.account(login)
		if err != nil {
			return err
		}
		if attribute == domain.NameAttribute {
			a.name = value
		} else {
			a.attributes[attribute] = value
		}
		return nil
	})
}
