package impl

import (
	"fmt"
	"maps"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/jackut/internal/domain"
	"github.com/sidereusnuntius/jackut/internal/service"
)

type account struct {
	login      string
	password   string
	name       string
	attributes map[string]string
	notes      []domain.Note
	broadcasts []domain.Broadcast
}

type community struct {
	name        string
	description string
	owner       string
}

// network is the whole in-memory graph. Every relation is keyed by login, except members, which
// points from a login to a community name.
type network struct {
	accounts    map[string]*account
	communities map[string]*community

	// friends always holds both directions of a friendship.
	friends *relation
	// invitations points from the inviter to the invitee.
	invitations *relation
	enemies     *relation
	// idols points from the fan to the idol.
	idols   *relation
	crushes *relation
	members *relation
}

func newNetwork() *network {
	return &network{
		accounts:    make(map[string]*account),
		communities: make(map[string]*community),
		friends:     newRelation(),
		invitations: newRelation(),
		enemies:     newRelation(),
		idols:       newRelation(),
		crushes:     newRelation(),
		members:     newRelation(),
	}
}

func (n *network) clone() *network {
	c := &network{
		accounts:    make(map[string]*account, len(n.accounts)),
		communities: make(map[string]*community, len(n.communities)),
		friends:     n.friends.clone(),
		invitations: n.invitations.clone(),
		enemies:     n.enemies.clone(),
		idols:       n.idols.clone(),
		crushes:     n.crushes.clone(),
		members:     n.members.clone(),
	}
	for login, a := range n.accounts {
		cp := *a
		cp.attributes = maps.Clone(a.attributes)
		cp.notes = slices.Clone(a.notes)
		cp.broadcasts = slices.Clone(a.broadcasts)
		c.accounts[login] = &cp
	}
	for name, com := range n.communities {
		cp := *com
		c.communities[name] = &cp
	}
	return c
}

func (n *network) account(login string) (*account, error) {
	a, ok := n.accounts[login]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", service.ErrNotFound, login)
	}
	return a, nil
}

func (n *network) community(name string) (*community, error) {
	c, ok := n.communities[name]
	if !ok {
		return nil, fmt.Errorf("%w: community %s", service.ErrNotFound, name)
	}
	return c, nil
}

// pair looks up both ends of a relation and rejects self relations.
func (n *network) pair(login, target string) (a, b *account, err error) {
	if a, err = n.account(login); err != nil {
		return
	}
	if b, err = n.account(target); err != nil {
		return
	}
	if login == target {
		err = fmt.Errorf("%w: %s", service.ErrSelfRelation, login)
	}
	return
}

// hostile reports whether either account considers the other an enemy.
func (n *network) hostile(a, b string) bool {
	return n.enemies.has(a, b) || n.enemies.has(b, a)
}

// friendly fails with ErrEnemyConflict when the accounts are enemies in either direction.
func (n *network) friendly(a, b *account) error {
	if n.hostile(a.login, b.login) {
		return fmt.Errorf("%w: %s", service.ErrEnemyConflict, b.login)
	}
	return nil
}

// remove deletes login and everything attributable to it.
func (n *network) remove(login string) {
	for _, a := range n.accounts {
		a.notes = slices.DeleteFunc(a.notes, func(m domain.Note) bool { return m.From == login })
		a.broadcasts = slices.DeleteFunc(a.broadcasts, func(m domain.Broadcast) bool { return m.From == login })
	}

	for name, c := range n.communities {
		if c.owner == login {
			n.members.dropTo(name)
			delete(n.communities, name)
		}
	}
	n.members.dropFrom(login)

	for _, r := range []*relation{n.friends, n.invitations, n.enemies, n.idols, n.crushes} {
		r.drop(login)
	}
	delete(n.accounts, login)
}

func (n *network) snapshot() domain.Snapshot {
	s := domain.Snapshot{
		Accounts:    make([]domain.Account, 0, len(n.accounts)),
		Communities: make([]domain.Community, 0, len(n.communities)),
	}

	for _, login := range slices.Sorted(maps.Keys(n.accounts)) {
		a := n.accounts[login]
		s.Accounts = append(s.Accounts, domain.Account{
			Login:           a.login,
			Password:        a.password,
			Name:            a.name,
			Attributes:      maps.Clone(a.attributes),
			Notes:           slices.Clone(a.notes),
			Broadcasts:      slices.Clone(a.broadcasts),
			Friends:         n.friends.from(login),
			InvitesSent:     n.invitations.from(login),
			InvitesReceived: n.invitations.to(login),
			Communities:     n.members.from(login),
			Idols:           n.idols.from(login),
			Crushes:         n.crushes.from(login),
			Enemies:         n.enemies.from(login),
			Fans:            n.idols.to(login),
		})
	}

	for _, name := range slices.Sorted(maps.Keys(n.communities)) {
		c := n.communities[name]
		s.Communities = append(s.Communities, domain.Community{
			Name:        c.name,
			Description: c.description,
			Owner:       c.owner,
			Members:     n.members.to(name),
		})
	}
	return s
}

// fromSnapshot rebuilds a network. Both ends of each relation are stored, so an edge is restored
// when either end mentions it; edges to unknown logins or communities are dropped.
func fromSnapshot(s domain.Snapshot) *network {
	n := newNetwork()
	for _, a := range s.Accounts {
		attrs := maps.Clone(a.Attributes)
		if attrs == nil {
			attrs = make(map[string]string)
		}
		n.accounts[a.Login] = &account{
			login:      a.Login,
			password:   a.Password,
			name:       a.Name,
			attributes: attrs,
			notes:      slices.Clone(a.Notes),
			broadcasts: slices.Clone(a.Broadcasts),
		}
	}

	for _, c := range s.Communities {
		if _, ok := n.accounts[c.Owner]; !ok {
			log.Warn().Str("community", c.Name).Str("owner", c.Owner).Msg("dropping community of unknown owner")
			continue
		}
		n.communities[c.Name] = &community{name: c.Name, description: c.Description, owner: c.Owner}
		n.members.add(c.Owner, c.Name)
		for _, m := range c.Members {
			n.restore(n.members, m, c.Name)
		}
	}

	for _, a := range s.Accounts {
		l := a.Login
		for _, f := range a.Friends {
			n.restore(n.friends, l, f)
			n.restore(n.friends, f, l)
		}
		for _, to := range a.InvitesSent {
			n.restore(n.invitations, l, to)
		}
		for _, from := range a.InvitesReceived {
			n.restore(n.invitations, from, l)
		}
		for _, c := range a.Communities {
			n.restore(n.members, l, c)
		}
		for _, i := range a.Idols {
			n.restore(n.idols, l, i)
		}
		for _, f := range a.Fans {
			n.restore(n.idols, f, l)
		}
		for _, c := range a.Crushes {
			n.restore(n.crushes, l, c)
		}
		for _, e := range a.Enemies {
			n.restore(n.enemies, l, e)
		}
	}
	return n
}

func (n *network) restore(r *relation, from, to string) {
	if r != n.members && from == to {
		return
	}
	if _, ok := n.accounts[from]; !ok {
		log.Warn().Str("login", from).Msg("dropping relation of unknown account")
		return
	}

	var known bool
	if r == n.members {
		_, known = n.communities[to]
	} else {
		_, known = n.accounts[to]
	}
	if !known {
		log.Warn().Str("login", from).Str("target", to).Msg("dropping relation to unknown target")
		return
	}
	r.add(from, to)
}
