package impl

import (
	"errors"
	"testing"

	"github.com/sidereusnuntius/jackut/internal/service"
)

func TestNotes(t *testing.T) {
	s := open(t, t.TempDir())
	seed(t, s, "maria", "joao")

	_, err := s.RequestFriendship("maria", "joao")
	must(t, err)
	_, err = s.RequestFriendship("joao", "maria")
	must(t, err)

	must(t, s.SendNote("maria", "joao", "oi"))
	must(t, s.SendNote("maria", "joao", "tudo bem?"))

	for _, expect := range []string{"oi", "tudo bem?"} {
		got, err := s.ReadNote("joao")
		must(t, err)
		if got != expect {
			t.Errorf("expected %q, got %q", expect, got)
		}
	}

	if _, err = s.ReadNote("joao"); !errors.Is(err, service.ErrEmptyQueue) {
		t.Errorf("expected %q, got %v", service.ErrEmptyQueue, err)
	}
}

func TestSendNoteErrors(t *testing.T) {
	s := open(t, t.TempDir())
	seed(t, s, "maria", "joao")

	cases := []struct {
		name   string
		from   string
		to     string
		expect error
	}{
		{"UnknownRecipient", "maria", "ghost", service.ErrNotFound},
		{"UnknownSender", "ghost", "maria", service.ErrNotFound},
		{"Self", "maria", "maria", service.ErrSelfRelation},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			expectErr(t, s.SendNote(c.from, c.to, "oi"), c.expect)
		})
	}

	// friendship is not required
	must(t, s.SendNote("maria", "joao", "oi"))

	_, err := s.ReadNote("ghost")
	expectErr(t, err, service.ErrNotFound)
	_, err = s.ReadBroadcast("ghost")
	expectErr(t, err, service.ErrNotFound)
}

func TestNoteTextWithSeparators(t *testing.T) {
	dir := t.TempDir()
	s := open(t, dir)
	seed(t, s, "maria", "joao")

	text := "linha 1\nlinha 2: com | barra \\ e dois pontos"
	must(t, s.SendNote("maria", "joao", text))

	got, err := open(t, dir).ReadNote("joao")
	must(t, err)
	if got != text {
		t.Errorf("expected %q, got %q", text, got)
	}
}
