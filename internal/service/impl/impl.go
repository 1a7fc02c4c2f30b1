package impl

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/jackut/internal/codec"
	"github.com/sidereusnuntius/jackut/internal/config"
	"github.com/sidereusnuntius/jackut/internal/service"
	"github.com/sidereusnuntius/jackut/internal/state"
	"github.com/sidereusnuntius/jackut/internal/storage"
)

type AppService struct {
	Config  config.Configuration
	Storage storage.Storage
	codec   *codec.Codec

	// mu guards net. Operations span several accounts at once, so a single lock covers the
	// whole network.
	mu  sync.RWMutex
	net *network
}

// New loads the network persisted in the state's storage.
func New(state *state.State) (*AppService, error) {
	c, err := codec.New(state.Config.Charset)
	if err != nil {
		return nil, err
	}

	s := &AppService{
		Config:  state.Config,
		Storage: state.Storage,
		codec:   c,
	}

	if err = s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

var _ service.Service = (*AppService)(nil)

func (s *AppService) load() error {
	docs := make(codec.Documents, len(codec.DocumentNames))
	for _, name := range codec.DocumentNames {
		content, err := s.Storage.Open(name)
		if errors.Is(err, storage.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: reading %s: %w", service.ErrPersistence, name, err)
		}
		docs[name] = content
	}

	snap, err := s.codec.Decode(docs)
	if err != nil {
		return fmt.Errorf("%w: %w", service.ErrPersistence, err)
	}

	s.net = fromSnapshot(snap)
	log.Info().
		Int("accounts", len(s.net.accounts)).
		Int("communities", len(s.net.communities)).
		Msg("network loaded")
	return nil
}

// update applies f to a copy of the network and persists the copy; only when both succeed does
// the copy replace the current network.
func (s *AppService) update(op string, f func(n *network) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.net.clone()
	if err := f(next); err != nil {
		log.Debug().Str("op", op).Err(err).Msg("operation rejected")
		return err
	}

	if err := s.flush(next); err != nil {
		log.Error().Str("op", op).Err(err).Msg("operation not applied")
		return err
	}

	s.net = next
	log.Debug().Str("op", op).Msg("operation applied")
	return nil
}

func (s *AppService) view(f func(n *network) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return f(s.net)
}

// flush writes every document of n. When a write fails, the documents already replaced are
// rewritten from the current network, so storage never holds a change that was not applied.
func (s *AppService) flush(n *network) error {
	snap := n.snapshot()
	docs, err := s.codec.Encode(snap)
	if errors.Is(err, codec.ErrUnrepresentable) {
		return fmt.Errorf("%w: %w", service.ErrInvalidArgument, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", service.ErrPersistence, err)
	}

	if err = s.codec.Verify(docs, snap); err != nil {
		return fmt.Errorf("%w: %w", service.ErrPersistence, err)
	}

	for i, name := range codec.DocumentNames {
		if err = s.Storage.Replace(name, bytes.NewReader(docs[name])); err != nil {
			s.rewrite(codec.DocumentNames[:i])
			return fmt.Errorf("%w: writing %s: %w", service.ErrPersistence, name, err)
		}
	}
	return nil
}

// rewrite replaces the named documents from the committed network.
func (s *AppService) rewrite(names []string) {
	if len(names) == 0 {
		return
	}

	docs, err := s.codec.Encode(s.net.snapshot())
	if err != nil {
		log.Error().Err(err).Msg("cannot encode committed network for restore")
		return
	}
	for _, name := range names {
		if err = s.Storage.Replace(name, bytes.NewReader(docs[name])); err != nil {
			log.Error().Err(err).Str("document", name).Msg("restore failed, storage diverges from memory")
			continue
		}
		log.Warn().Str("document", name).Msg("document restored after failed flush")
	}
}

func (s *AppService) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, name := range codec.DocumentNames {
		err := s.Storage.Delete(name)
		if err != nil && !errors.Is(err, storage.ErrNotExist) {
			s.rewrite(codec.DocumentNames[:i])
			return fmt.Errorf("%w: deleting %s: %w", service.ErrPersistence, name, err)
		}
	}

	s.net = newNetwork()
	log.Info().Msg("network reset")
	return nil
}

// list runs a read-only query returning logins or community names.
func (s *AppService) list(f func(n *network) ([]string, error)) (result []string, err error) {
	err = s.view(func(n *network) error {
		result, err = f(n)
		return err
	})
	return
}

// has runs a read-only boolean query; unknown accounts yield false.
func (s *AppService) has(f func(n *network) bool) (ok bool) {
	s.view(func(n *network) error {
		ok = f(n)
		return nil
	})
	return
}
