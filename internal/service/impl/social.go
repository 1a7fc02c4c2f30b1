package impl

import (
	"fmt"

	"github.com/sidereusnuntius/jackut/internal/domain"
	"github.com/sidereusnuntius/jackut/internal/service"
)

const crushNote = "%s é seu paquera - Recado do Jackut."

// RequestFriendship records an invitation from login to target. If target had already invited
// login, the invitation is consumed instead and both become friends.
func (s *AppService) RequestFriendship(login, target string) (status service.FriendshipStatus, err error) {
	err = s.update("request friendship", func(n *network) error {
		a, b, err := n.pair(login, target)
		if err != nil {
			return err
		}
		if err = n.friendly(a, b); err != nil {
			return err
		}
		if n.friends.has(login, target) {
			return fmt.Errorf("%w: %s", service.ErrAlreadyFriends, target)
		}

		if n.invitations.has(target, login) {
			n.invitations.remove(target, login)
			n.invitations.remove(login, target)
			n.friends.add(login, target)
			n.friends.add(target, login)
			status = service.Completed
			return nil
		}

		if !n.invitations.add(login, target) {
			return fmt.Errorf("%w: %s", service.ErrInvitationAlreadySent, target)
		}
		status = service.Pending
		return nil
	})
	return
}

func (s *AppService) AreFriends(login, other string) bool {
	return s.has(func(n *network) bool {
		return n.friends.has(login, other) && n.friends.has(other, login)
	})
}

func (s *AppService) ListFriends(login string) ([]string, error) {
	return s.list(func(n *network) ([]string, error) {
		if _, err := n.account(login); err != nil {
			return nil, err
		}
		return n.friends.from(login), nil
	})
}

func (s *AppService) ListInvitations(login string) ([]string, error) {
	return s.list(func(n *network) ([]string, error) {
		if _, err := n.account(login); err != nil {
			return nil, err
		}
		return n.invitations.to(login), nil
	})
}

// AddEnemy is one-way: target is not told and need not reciprocate. Any friendship or pending
// invitation between the two is dissolved, since enemies cannot hold either.
func (s *AppService) AddEnemy(login, target string) error {
	return s.update("add enemy", func(n *network) error {
		if _, _, err := n.pair(login, target); err != nil {
			return err
		}
		if !n.enemies.add(login, target) {
			return fmt.Errorf("%w: %s", service.ErrAlreadyEnemy, target)
		}

		n.friends.remove(login, target)
		n.friends.remove(target, login)
		n.invitations.remove(login, target)
		n.invitations.remove(target, login)
		return nil
	})
}

func (s *AppService) IsEnemy(login, target string) bool {
	return s.has(func(n *network) bool {
		return n.enemies.has(login, target)
	})
}

func (s *AppService) ListEnemies(login string) ([]string, error) {
	return s.list(func(n *network) ([]string, error) {
		if _, err := n.account(login); err != nil {
			return nil, err
		}
		return n.enemies.from(login), nil
	})
}

// AddIdol makes login a fan of idol. The fan side is the same edge seen from the idol.
func (s *AppService) AddIdol(login, idol string) error {
	return s.update("add idol", func(n *network) error {
		a, b, err := n.pair(login, idol)
		if err != nil {
			return err
		}
		if err = n.friendly(a, b); err != nil {
			return err
		}
		if !n.idols.add(login, idol) {
			return fmt.Errorf("%w: %s", service.ErrAlreadyIdolized, idol)
		}
		return nil
	})
}

func (s *AppService) IsFan(login, idol string) bool {
	return s.has(func(n *network) bool {
		return n.idols.has(login, idol)
	})
}

func (s *AppService) ListFans(login string) ([]string, error) {
	return s.list(func(n *network) ([]string, error) {
		if _, err := n.account(login); err != nil {
			return nil, err
		}
		return n.idols.to(login), nil
	})
}

func (s *AppService) ListIdols(login string) ([]string, error) {
	return s.list(func(n *network) ([]string, error) {
		if _, err := n.account(login); err != nil {
			return nil, err
		}
		return n.idols.from(login), nil
	})
}

// AddCrush records the crush; the announcement goes out only when the second half of a mutual
// crush is added, so each side is notified exactly once.
func (s *AppService) AddCrush(login, target string) error {
	return s.update("add crush", func(n *network) error {
		a, b, err := n.pair(login, target)
		if err != nil {
			return err
		}
		if err = n.friendly(a, b); err != nil {
			return err
		}
		if !n.crushes.add(login, target) {
			return fmt.Errorf("%w: %s", service.ErrAlreadyCrushed, target)
		}

		if n.crushes.has(target, login) {
			a.notes = append(a.notes, domain.Note{Text: fmt.Sprintf(crushNote, b.name)})
			b.notes = append(b.notes, domain.Note{Text: fmt.Sprintf(crushNote, a.name)})
		}
		return nil
	})
}

func (s *AppService) IsCrush(login, target string) bool {
	return s.has(func(n *network) bool {
		return n.crushes.has(login, target)
	})
}

func (s *AppService) ListCrushes(login string) ([]string, error) {
	return s.list(func(n *network) ([]string, error) {
		if _, err := n.account(login); err != nil {
			return nil, err
		}
		return n.crushes.from(login), nil
	})
}
