package filestore

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"codeberg.org/gruf/go-mutexes"
	"github.com/natefinch/atomic"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/jackut/internal/storage"
)

type FileStore struct {
	Root  string
	locks mutexes.MutexMap
}

func New(root string) (fs storage.Storage, err error) {
	fs = &FileStore{
		Root: root,
	}

	info, err := os.Stat(root)
	if err == nil {
		if !info.IsDir() {
			log.Error().Str("root", root).Msg("not a directory")
			err = storage.ErrNotDir
		}
		return
	}

	if errors.Is(err, os.ErrNotExist) {
		err = os.MkdirAll(root, os.ModePerm)
	}

	if err != nil {
		log.Error().Err(err).Msg("internal error when setting up storage")
		err = storage.ErrInternal
	}

	return
}

func (s *FileStore) Open(name string) (content []byte, err error) {
	unlock := s.locks.RLock(name)
	defer unlock()

	path := filepath.Join(s.Root, name)
	content, err = os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = storage.ErrNotExist
		} else {
			log.Error().Err(err).Msg("failed to read file " + path)
			err = storage.ErrInternal
		}
	}
	return
}

func (s *FileStore) Delete(name string) error {
	unlock := s.locks.Lock(name)
	defer unlock()

	path := filepath.Join(s.Root, name)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return storage.ErrNotExist
		}
		log.Error().Err(err).Msg("file deletion error")
		return storage.ErrInternal
	}

	return nil
}

// Replace writes content to a temporary file in the same directory and renames it over the
// document, so a crash never leaves a truncated file behind.
func (s *FileStore) Replace(name string, content io.Reader) error {
	unlock := s.locks.Lock(name)
	defer unlock()

	path := filepath.Join(s.Root, name)
	if err := atomic.WriteFile(path, content); err != nil {
		log.Error().Err(err).Msg("failed to replace file " + path)
		return storage.ErrWrite
	}

	return nil
}
