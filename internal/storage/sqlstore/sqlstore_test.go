package sqlstore_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sidereusnuntius/jackut/internal/initialization"
	"github.com/sidereusnuntius/jackut/internal/storage"
	"github.com/sidereusnuntius/jackut/internal/storage/sqlstore"
)

var store storage.Storage

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "sqlstore")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temporary directory: %s", err)
		os.Exit(1)
	}

	d, err := initialization.OpenDB("file:" + filepath.Join(dir, "test.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open connection: %s", err)
		os.Exit(1)
	}

	if err = initialization.SetupDB(d, "../../../migrations", "test"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run migrations: %s", err)
		os.Exit(1)
	}
	store = sqlstore.New(d)

	code := m.Run()

	d.Close()
	os.RemoveAll(dir)
	os.Exit(code)
}

func TestReplaceAndOpen(t *testing.T) {
	cases := []struct {
		name    string
		doc     string
		content string
	}{
		{"insert", "usuarios.txt", "USUARIO\nlogin=maria\nFIM\n"},
		{"update", "usuarios.txt", "USUARIO\nlogin=joao\nFIM\n"},
		{"empty document", "mensagens.txt", ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := store.Replace(c.doc, strings.NewReader(c.content)); err != nil {
				t.Fatalf("unexpected error: %s", err)
			}

			got, err := store.Open(c.doc)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if string(got) != c.content {
				t.Errorf("expected \"%s\", got \"%s\"", c.content, got)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	if err := store.Replace("comunidades.txt", strings.NewReader("COMUNIDADE\nFIM\n")); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if err := store.Delete("comunidades.txt"); err != nil {
		t.Errorf("unexpected error: %s", err)
	}

	if _, err := store.Open("comunidades.txt"); !errors.Is(err, storage.ErrNotExist) {
		t.Errorf("expected %s after deletion, got %v", storage.ErrNotExist, err)
	}

	if err := store.Delete("comunidades.txt"); !errors.Is(err, storage.ErrNotExist) {
		t.Errorf("expected %s, got %v", storage.ErrNotExist, err)
	}
}

func TestSetupIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	d, err := initialization.OpenDB("file:" + filepath.Join(dir, "again.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	for i := 0; i < 2; i++ {
		if err := initialization.SetupDB(d, "../../../migrations", "again"); err != nil {
			t.Fatalf("run %d: unexpected error: %s", i+1, err)
		}
	}
}
