package impl

import (
	"fmt"

	"github.com/sidereusnuntius/jackut/internal/domain"
	"github.com/sidereusnuntius/jackut/internal/service"
)

func (s *AppService) SendNote(from, to, text string) error {
	return s.update("send note", func(n *network) error {
		a, b, err := n.pair(from, to)
		if err != nil {
			return err
		}
		if err = n.friendly(a, b); err != nil {
			return err
		}
		b.notes = append(b.notes, domain.Note{From: from, Text: text})
		return nil
	})
}

// ReadNote pops the oldest note, without its sender.
func (s *AppService) ReadNote(login string) (text string, err error) {
	err = s.update("read note", func(n *network) error {
		a, err := n.account(login)
		if err != nil {
			return err
		}
		if len(a.notes) == 0 {
			return fmt.Errorf("%w: notes of %s", service.ErrEmptyQueue, login)
		}
		text = a.notes[0].Text
		a.notes = a.notes[1:]
		return nil
	})
	if err != nil {
		return "", err
	}
	return
}

func (s *AppService) ReadBroadcast(login string) (text string, err error) {
	err = s.update("read broadcast", func(n *network) error {
		a, err := n.account(login)
		if err != nil {
			return err
		}
		if len(a.broadcasts) == 0 {
			return fmt.Errorf("%w: community messages of %s", service.ErrEmptyQueue, login)
		}
		text = a.broadcasts[0].Text
		a.broadcasts = a.broadcasts[1:]
		return nil
	})
	if err != nil {
		return "", err
	}
	return
}
