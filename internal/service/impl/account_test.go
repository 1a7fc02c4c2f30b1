package impl

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sidereusnuntius/jackut/internal/service"
)

func TestCreateAccount(t *testing.T) {
	s := open(t, t.TempDir())
	must(t, s.CreateAccount("maria", "pass", "Maria"))

	cases := []struct {
		name     string
		login    string
		password string
		expect   error
	}{
		{"Duplicate", "maria", "other", service.ErrDuplicateName},
		{"EmptyLogin", "", "pass", service.ErrInvalidArgument},
		{"EmptyPassword", "joao", "", service.ErrInvalidArgument},
		{"ColonInLogin", "jo:ao", "pass", service.ErrInvalidArgument},
		{"SpaceInLogin", "jo ao", "pass", service.ErrInvalidArgument},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			expectErr(t, s.CreateAccount(c.login, c.password, "x"), c.expect)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	s := open(t, t.TempDir())
	must(t, s.CreateAccount("maria", "pass", "Maria"))

	must(t, s.Authenticate("maria", "pass"))

	cases := []struct {
		name     string
		login    string
		password string
	}{
		{"WrongPassword", "maria", "wrong"},
		{"EmptyPassword", "maria", ""},
		{"UnknownLogin", "ghost", "pass"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			expectErr(t, s.Authenticate(c.login, c.password), service.ErrInvalidCredentials)
		})
	}
}

func TestAttributes(t *testing.T) {
	s := open(t, t.TempDir())
	must(t, s.CreateAccount("maria", "pass", "Maria"))

	name, err := s.GetAttribute("maria", "nome")
	must(t, err)
	if name != "Maria" {
		t.Errorf("expected nome to be the display name, got %q", name)
	}

	if _, err = s.GetAttribute("maria", "cidade"); !errors.Is(err, service.ErrAttributeNotSet) {
		t.Errorf("expected %q, got %v", service.ErrAttributeNotSet, err)
	}

	must(t, s.SetAttribute("maria", "cidade", "Maceió"))
	must(t, s.SetAttribute("maria", "cidade", "Recife"))
	city, err := s.GetAttribute("maria", "cidade")
	must(t, err)
	if city != "Recife" {
		t.Errorf("expected the last value to win, got %q", city)
	}

	must(t, s.SetAttribute("maria", "nome", "Maria Silva"))
	name, err = s.GetAttribute("maria", "nome")
	must(t, err)
	if name != "Maria Silva" {
		t.Errorf("expected rename, got %q", name)
	}

	expectErr(t, s.SetAttribute("maria", "", "x"), service.ErrInvalidArgument)
	expectErr(t, s.SetAttribute("ghost", "cidade", "x"), service.ErrNotFound)
	_, err = s.GetAttribute("ghost", "nome")
	expectErr(t, err, service.ErrNotFound)
}

func TestRemoveAccount(t *testing.T) {
	dir := t.TempDir()
	s := open(t, dir)
	seed(t, s, "maria", "joao", "ana")

	_, err := s.RequestFriendship("maria", "joao")
	must(t, err)
	_, err = s.RequestFriendship("joao", "maria")
	must(t, err)
	_, err = s.RequestFriendship("maria", "ana")
	must(t, err)
	must(t, s.AddIdol("ana", "maria"))
	must(t, s.AddCrush("maria", "ana"))
	must(t, s.AddIdol("maria", "ana"))
	must(t, s.AddCrush("joao", "maria"))
	must(t, s.AddEnemy("joao", "maria"))
	must(t, s.CreateCommunity("maria", "ufal", "Universidade"))
	must(t, s.CreateCommunity("joao", "ic", "Instituto"))
	must(t, s.JoinCommunity("ana", "ufal"))
	must(t, s.JoinCommunity("maria", "ic"))
	must(t, s.JoinCommunity("ana", "ic"))
	must(t, s.SendNote("maria", "ana", "de maria"))
	must(t, s.SendNote("joao", "ana", "de joao"))
	must(t, s.Broadcast("maria", "ic", "aviso de maria"))
	must(t, s.Broadcast("joao", "ic", "aviso de joao"))

	must(t, s.RemoveAccount("maria"))
	expectErr(t, s.RemoveAccount("maria"), service.ErrNotFound)

	r := open(t, dir)
	if diff := cmp.Diff(s.net.snapshot(), r.net.snapshot(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("reloaded network differs:\n%s", diff)
	}

	if _, err := s.GetAttribute("maria", "nome"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected maria to be gone, got %v", err)
	}
	if _, err := s.ListMembers("ufal"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected the community owned by maria to be gone, got %v", err)
	}

	lists := []struct {
		name   string
		list   func(string) ([]string, error)
		login  string
		expect []string
	}{
		{"FriendsOfJoao", s.ListFriends, "joao", nil},
		{"InvitationsOfAna", s.ListInvitations, "ana", nil},
		{"IdolsOfAna", s.ListIdols, "ana", nil},
		{"EnemiesOfJoao", s.ListEnemies, "joao", nil},
		{"FansOfAna", s.ListFans, "ana", nil},
		{"CrushesOfJoao", s.ListCrushes, "joao", nil},
		{"CommunitiesOfAna", s.ListCommunities, "ana", []string{"ic"}},
		{"MembersOfIc", s.ListMembers, "ic", []string{"ana", "joao"}},
	}
	for _, c := range lists {
		t.Run(c.name, func(t *testing.T) {
			got, err := c.list(c.login)
			must(t, err)
			if diff := cmp.Diff(c.expect, got, cmpopts.EquateEmpty()); diff != "" {
				t.Error(diff)
			}
		})
	}

	// only what joao sent is left for ana
	note, err := s.ReadNote("ana")
	must(t, err)
	if note != "de joao" {
		t.Errorf("expected %q, got %q", "de joao", note)
	}
	msg, err := s.ReadBroadcast("ana")
	must(t, err)
	if msg != "aviso de joao" {
		t.Errorf("expected %q, got %q", "aviso de joao", msg)
	}
}
