package cli

import (
	"path/filepath"

	"github.com/dmitrijs2005/odsregistry/internal/filex"
)

const tokenFileName = "token"

// tokenStore persists the bearer token between invocations.
type tokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

type fileTokenStore struct {
	path string
}

func newFileTokenStore(dir string) *fileTokenStore {
	return &fileTokenStore{path: filepath.Join(dir, tokenFileName)}
}

func (s *fileTokenStore) Load() (string, error) {
	return filex.ReadTrimmed(s.path)
}

func (s *fileTokenStore) Save(token string) error {
	return filex.WritePrivate(s.path, []byte(token))
}

func (s *fileTokenStore) Clear() error {
	return filex.RemoveIfExists(s.path)
}
