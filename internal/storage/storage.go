package storage

import (
	"errors"
	"io"
)

var (
	ErrNotDir   = errors.New("given root is not a directory")
	ErrInternal = errors.New("internal error")
	ErrWrite    = errors.New("failed to write document")
	ErrNotExist = errors.New("document does not exist")
)

// Storage keeps named documents. Replace must be atomic: a reader sees either the previous
// content or the new one, never a partial write.
type Storage interface {
	Open(name string) ([]byte, error)
	Replace(name string, content io.Reader) error
	Delete(name string) error
}
