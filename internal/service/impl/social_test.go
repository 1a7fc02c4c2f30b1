package impl

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sidereusnuntius/jackut/internal/service"
)

func TestFriendship(t *testing.T) {
	s := open(t, t.TempDir())
	seed(t, s, "maria", "joao")

	status, err := s.RequestFriendship("maria", "joao")
	must(t, err)
	if status != service.Pending {
		t.Errorf("expected first request to be %s, got %s", service.Pending, status)
	}
	if s.AreFriends("maria", "joao") {
		t.Error("a pending invitation must not make them friends")
	}

	invites, err := s.ListInvitations("joao")
	must(t, err)
	if diff := cmp.Diff([]string{"maria"}, invites); diff != "" {
		t.Error(diff)
	}

	_, err = s.RequestFriendship("maria", "joao")
	expectErr(t, err, service.ErrInvitationAlreadySent)

	status, err = s.RequestFriendship("joao", "maria")
	must(t, err)
	if status != service.Completed {
		t.Errorf("expected reciprocated request to be %s, got %s", service.Completed, status)
	}
	if !s.AreFriends("maria", "joao") || !s.AreFriends("joao", "maria") {
		t.Error("expected friendship to hold in both directions")
	}

	invites, err = s.ListInvitations("joao")
	must(t, err)
	if len(invites) != 0 {
		t.Errorf("expected the invitation to be consumed, got %v", invites)
	}

	_, err = s.RequestFriendship("joao", "maria")
	expectErr(t, err, service.ErrAlreadyFriends)
	_, err = s.RequestFriendship("maria", "joao")
	expectErr(t, err, service.ErrAlreadyFriends)
}

func TestRequestFriendshipErrors(t *testing.T) {
	s := open(t, t.TempDir())
	seed(t, s, "maria", "joao", "ana")
	must(t, s.AddEnemy("ana", "maria"))

	cases := []struct {
		name   string
		login  string
		target string
		expect error
	}{
		{"UnknownTarget", "maria", "ghost", service.ErrNotFound},
		{"UnknownLogin", "ghost", "maria", service.ErrNotFound},
		{"Self", "maria", "maria", service.ErrSelfRelation},
		{"TargetIsEnemyOfLogin", "ana", "maria", service.ErrEnemyConflict},
		{"LoginIsEnemyOfTarget", "maria", "ana", service.ErrEnemyConflict},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := s.RequestFriendship(c.login, c.target)
			expectErr(t, err, c.expect)
		})
	}
}

func TestListFriendsOrder(t *testing.T) {
	s := open(t, t.TempDir())
	seed(t, s, "maria", "pedro", "ana", "joao")

	for _, f := range []string{"pedro", "ana", "joao"} {
		_, err := s.RequestFriendship("maria", f)
		must(t, err)
		_, err = s.RequestFriendship(f, "maria")
		must(t, err)
	}

	friends, err := s.ListFriends("maria")
	must(t, err)
	if diff := cmp.Diff([]string{"ana", "joao", "pedro"}, friends); diff != "" {
		t.Error(diff)
	}

	friends, err = s.ListFriends("ana")
	must(t, err)
	if diff := cmp.Diff([]string{"maria"}, friends); diff != "" {
		t.Error(diff)
	}

	_, err = s.ListFriends("ghost")
	expectErr(t, err, service.ErrNotFound)
}

func TestAreFriendsUnknownAccount(t *testing.T) {
	s := open(t, t.TempDir())
	seed(t, s, "maria")
	if s.AreFriends("maria", "ghost") || s.AreFriends("ghost", "maria") {
		t.Error("expected unknown accounts never to be friends")
	}
}

func TestAddEnemy(t *testing.T) {
	s := open(t, t.TempDir())
	seed(t, s, "maria", "joao", "ana")

	_, err := s.RequestFriendship("maria", "joao")
	must(t, err)
	_, err = s.RequestFriendship("joao", "maria")
	must(t, err)
	_, err = s.RequestFriendship("ana", "maria")
	must(t, err)

	must(t, s.AddEnemy("maria", "joao"))
	must(t, s.AddEnemy("maria", "ana"))

	if s.AreFriends("maria", "joao") {
		t.Error("expected enmity to dissolve the friendship")
	}
	invites, err := s.ListInvitations("maria")
	must(t, err)
	if len(invites) != 0 {
		t.Errorf("expected enmity to drop pending invitations, got %v", invites)
	}

	if !s.IsEnemy("maria", "joao") {
		t.Error("expected joao to be an enemy of maria")
	}
	if s.IsEnemy("joao", "maria") {
		t.Error("enmity must be one-way")
	}

	enemies, err := s.ListEnemies("maria")
	must(t, err)
	if diff := cmp.Diff([]string{"ana", "joao"}, enemies); diff != "" {
		t.Error(diff)
	}

	expectErr(t, s.AddEnemy("maria", "joao"), service.ErrAlreadyEnemy)
	expectErr(t, s.AddEnemy("maria", "maria"), service.ErrSelfRelation)
	expectErr(t, s.AddEnemy("maria", "ghost"), service.ErrNotFound)

	// the target of the enmity is blocked as well
	_, err = s.RequestFriendship("joao", "maria")
	expectErr(t, err, service.ErrEnemyConflict)
	expectErr(t, s.SendNote("joao", "maria", "oi"), service.ErrEnemyConflict)
	expectErr(t, s.AddIdol("joao", "maria"), service.ErrEnemyConflict)
	expectErr(t, s.AddCrush("joao", "maria"), service.ErrEnemyConflict)
}

func TestIdols(t *testing.T) {
	s := open(t, t.TempDir())
	seed(t, s, "maria", "joao", "ana")

	must(t, s.AddIdol("maria", "joao"))
	must(t, s.AddIdol("ana", "joao"))
	must(t, s.AddIdol("maria", "ana"))

	if !s.IsFan("maria", "joao") {
		t.Error("expected maria to be a fan of joao")
	}
	if s.IsFan("joao", "maria") {
		t.Error("fandom must be one-way")
	}

	cases := []struct {
		name   string
		list   func(string) ([]string, error)
		login  string
		expect []string
	}{
		{"FansOfJoao", s.ListFans, "joao", []string{"ana", "maria"}},
		{"FansOfMaria", s.ListFans, "maria", nil},
		{"IdolsOfMaria", s.ListIdols, "maria", []string{"ana", "joao"}},
		{"IdolsOfJoao", s.ListIdols, "joao", nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := c.list(c.login)
			must(t, err)
			if diff := cmp.Diff(c.expect, got, cmpopts.EquateEmpty()); diff != "" {
				t.Error(diff)
			}
		})
	}

	expectErr(t, s.AddIdol("maria", "joao"), service.ErrAlreadyIdolized)
	expectErr(t, s.AddIdol("maria", "maria"), service.ErrSelfRelation)
	expectErr(t, s.AddIdol("maria", "ghost"), service.ErrNotFound)
}

func TestMutualCrush(t *testing.T) {
	s := open(t, t.TempDir())
	seed(t, s, "maria", "joao")
	must(t, s.SetAttribute("maria", "nome", "Maria"))
	must(t, s.SetAttribute("joao", "nome", "João"))

	must(t, s.AddCrush("maria", "joao"))
	if _, err := s.ReadNote("joao"); !errors.Is(err, service.ErrEmptyQueue) {
		t.Errorf("a one-sided crush must stay secret, got %v", err)
	}
	if !s.IsCrush("maria", "joao") || s.IsCrush("joao", "maria") {
		t.Error("expected only maria to have a crush")
	}

	must(t, s.AddCrush("joao", "maria"))
	expectErr(t, s.AddCrush("joao", "maria"), service.ErrAlreadyCrushed)
	expectErr(t, s.AddCrush("maria", "joao"), service.ErrAlreadyCrushed)

	cases := []struct {
		login  string
		expect string
	}{
		{"maria", "João é seu paquera - Recado do Jackut."},
		{"joao", "Maria é seu paquera - Recado do Jackut."},
	}

	for _, c := range cases {
		t.Run(c.login, func(t *testing.T) {
			note, err := s.ReadNote(c.login)
			must(t, err)
			if note != c.expect {
				t.Errorf("expected note %q, got %q", c.expect, note)
			}
			if _, err = s.ReadNote(c.login); !errors.Is(err, service.ErrEmptyQueue) {
				t.Errorf("expected exactly one announcement, got %v", err)
			}
		})
	}

	crushes, err := s.ListCrushes("maria")
	must(t, err)
	if diff := cmp.Diff([]string{"joao"}, crushes); diff != "" {
		t.Error(diff)
	}
}

func TestCrushErrors(t *testing.T) {
	s := open(t, t.TempDir())
	seed(t, s, "maria")

	expectErr(t, s.AddCrush("maria", "maria"), service.ErrSelfRelation)
	expectErr(t, s.AddCrush("maria", "ghost"), service.ErrNotFound)
	_, err := s.ListCrushes("ghost")
	expectErr(t, err, service.ErrNotFound)
}
