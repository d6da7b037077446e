package storage

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/spf13/afero"

	"github.com/jhoicas/invoicing-api/internal/application/usecase"
)

// LocalStorage guarda los archivos bajo un directorio raíz; la app los sirve en publicURL.
type LocalStorage struct {
	fs        afero.Fs
	publicURL string
}

var _ usecase.FileStorage = (*LocalStorage)(nil)

// NewLocalStorage crea el almacenamiento confinado a root.
func NewLocalStorage(root, publicURL string) *LocalStorage {
	return NewLocalStorageFs(afero.NewBasePathFs(afero.NewOsFs(), root), publicURL)
}

// NewLocalStorageFs usa un afero.Fs arbitrario (p. ej. en memoria en tests).
func NewLocalStorageFs(fs afero.Fs, publicURL string) *LocalStorage {
	return &LocalStorage{fs: fs, publicURL: publicURL}
}

func (s *LocalStorage) Exists(_ context.Context, key string) (bool, error) {
	k, err := cleanKey(key)
	if err != nil {
		return false, err
	}
	return afero.Exists(s.fs, k)
}

func (s *LocalStorage) MakeDir(_ context.Context, dir string) error {
	k, err := cleanKey(dir)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(k, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir %s: %w", k, err)
	}
	return nil
}

func (s *LocalStorage) Put(_ context.Context, key string, content []byte, _ string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	if dir := path.Dir(k); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("storage: mkdir %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(s.fs, k, content, 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", k, err)
	}
	return nil
}

// Delete borra el archivo; si no existe no es error.
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(k); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete %s: %w", k, err)
	}
	return nil
}

func (s *LocalStorage) URL(key string) string {
	return joinURL(s.publicURL, key)
}
