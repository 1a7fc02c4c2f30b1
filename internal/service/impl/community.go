package impl

import (
	"fmt"

	"github.com/sidereusnuntius/jackut/internal/domain"
	"github.com/sidereusnuntius/jackut/internal/service"
	"github.com/sidereusnuntius/jackut/internal/validate"
)

func (s *AppService) CreateCommunity(owner, name, description string) error {
	if err := validate.Community(name, description); err != nil {
		return fmt.Errorf("%w: %w", service.ErrInvalidArgument, err)
	}

	return s.update("create community", func(n *network) error {
		if _, err := n.account(owner); err != nil {
			return err
		}
		if _, ok := n.communities[name]; ok {
			return fmt.Errorf("%w: community %s", service.ErrDuplicateName, name)
		}

		n.communities[name] = &community{name: name, description: description, owner: owner}
		n.members.add(owner, name)
		return nil
	})
}

func (s *AppService) JoinCommunity(login, name string) error {
	return s.update("join community", func(n *network) error {
		if _, err := n.account(login); err != nil {
			return err
		}
		if _, err := n.community(name); err != nil {
			return err
		}
		if !n.members.add(login, name) {
			return fmt.Errorf("%w: %s in %s", service.ErrAlreadyMember, login, name)
		}
		return nil
	})
}

// Broadcast delivers an independent copy of text to each member, the sender included when a
// member.
func (s *AppService) Broadcast(sender, name, text string) error {
	return s.update("broadcast", func(n *network) error {
		if _, err := n.account(sender); err != nil {
			return err
		}
		if _, err := n.community(name); err != nil {
			return err
		}

		for _, login := range n.members.to(name) {
			a := n.accounts[login]
			a.broadcasts = append(a.broadcasts, domain.Broadcast{From: sender, Text: text})
		}
		return nil
	})
}

func (s *AppService) ListMembers(name string) ([]string, error) {
	return s.list(func(n *network) ([]string, error) {
		if _, err := n.community(name); err != nil {
			return nil, err
		}
		return n.members.to(name), nil
	})
}

func (s *AppService) ListCommunities(login string) ([]string, error) {
	return s.list(func(n *network) ([]string, error) {
		if _, err := n.account(login); err != nil {
			return nil, err
		}
		return n.members.from(login), nil
	})
}

func (s *AppService) CommunityOwner(name string) (owner string, err error) {
	err = s.view(func(n *network) error {
		c, err := n.community(name)
		if err == nil {
			owner = c.owner
		}
		return err
	})
	return
}

func (s *AppService) CommunityDescription(name string) (description string, err error) {
	err = s.view(func(n *network) error {
		c, err := n.community(name)
		if err == nil {
			description = c.description
		}
		return err
	})
	return
}
