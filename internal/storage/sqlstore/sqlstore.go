// Package sqlstore keeps documents as rows of a SQLite table, for deployments that would rather
// back up a single database file than a directory.
package sqlstore

import (
	"database/sql"
	"errors"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/jackut/internal/storage"
)

type SQLStore struct {
	db *sql.DB
}

// New expects the documents table to exist; see initialization.SetupDB.
func New(d *sql.DB) storage.Storage {
	return &SQLStore{db: d}
}

func (s *SQLStore) Open(name string) (content []byte, err error) {
	row := s.db.QueryRow("SELECT content FROM documents WHERE name = ?", name)
	err = row.Scan(&content)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		err = storage.ErrNotExist
	case err != nil:
		log.Error().Err(err).Str("document", name).Msg("failed to read document")
		err = storage.ErrInternal
	}
	return
}

// Replace upserts the whole document in a single statement.
func (s *SQLStore) Replace(name string, content io.Reader) error {
	data, err := io.ReadAll(content)
	if err != nil {
		log.Error().Err(err).Msg("failed to copy from reader")
		return storage.ErrInternal
	}
	if data == nil {
		data = []byte{}
	}

	_, err = s.db.Exec(`INSERT INTO documents(name, content, updated_at)
			VALUES (?, ?, strftime('%s', 'now'))
			ON CONFLICT(name) DO UPDATE SET
				content = excluded.content,
				updated_at = excluded.updated_at`,
		name, data)
	if err != nil {
		log.Error().Err(err).Str("document", name).Msg("upsert failed")
		return storage.ErrWrite
	}
	return nil
}

func (s *SQLStore) Delete(name string) error {
	res, err := s.db.Exec("DELETE FROM documents WHERE name = ?", name)
	if err != nil {
		log.Error().Err(err).Str("document", name).Msg("document deletion error")
		return storage.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		log.Error().Err(err).Msg("unable to count deleted rows")
		return storage.ErrInternal
	}
	if n == 0 {
		return storage.ErrNotExist
	}
	return nil
}
