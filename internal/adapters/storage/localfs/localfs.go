package localfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/phenrril/tiendaropa/internal/domain"
)

// URLPrefix es la ruta pública bajo la que se sirven las imágenes.
const URLPrefix = "/uploads/"

type Storage struct{ dir string }

func New(dir string) *Storage { return &Storage{dir: dir} }

func (s *Storage) Dir() string { return s.dir }

// SaveImage guarda data como <uuid>_<nombre saneado> y devuelve /uploads/<archivo>.
func (s *Storage) SaveImage(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", domain.NewValidationError("image", "Image file is empty")
	}
	if ct := http.DetectContentType(data); !strings.HasPrefix(ct, "image/") {
		return "", domain.NewValidationError("image", "Only image uploads are allowed (got %s)", ct)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", err
	}
	name := uuid.NewString() + "_" + sanitizeFileName(filename)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0644); err != nil {
		return "", err
	}
	return URLPrefix + name, nil
}

// trashDir guarda las imágenes apartadas mientras una transacción no confirma.
const trashDir = ".trash"

func (s *Storage) fileName(path string) (string, error) {
	name := strings.TrimPrefix(path, URLPrefix)
	if name == path || name == "" || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid image path %q", path)
	}
	return name, nil
}

// Delete borra la imagen. Un archivo inexistente no es error.
func (s *Storage) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := s.fileName(path)
	if err != nil {
		return err
	}
	return removeIfExists(filepath.Join(s.dir, name))
}

// Trash mueve la imagen a .trash; Restore la devuelve y Purge la borra.
func (s *Storage) Trash(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := s.fileName(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(s.dir, trashDir), 0755); err != nil {
		return err
	}
	return renameIfExists(filepath.Join(s.dir, name), filepath.Join(s.dir, trashDir, name))
}

func (s *Storage) Restore(_ context.Context, path string) error {
	name, err := s.fileName(path)
	if err != nil {
		return err
	}
	return renameIfExists(filepath.Join(s.dir, trashDir, name), filepath.Join(s.dir, name))
}

func (s *Storage) Purge(_ context.Context, path string) error {
	name, err := s.fileName(path)
	if err != nil {
		return err
	}
	return removeIfExists(filepath.Join(s.dir, trashDir, name))
}

func removeIfExists(file string) error {
	err := os.Remove(file)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func renameIfExists(from, to string) error {
	err := os.Rename(from, to)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func sanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "" || name == "." || name == "/" {
		return "image.jpg"
	}
	mapped := strings.Map(func(r rune) rune {
		if r == '.' || r == '-' || r == '_' || unicode.IsDigit(r) || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return r
		}
		return '-'
	}, name)
	for strings.Contains(mapped, "--") {
		mapped = strings.ReplaceAll(mapped, "--", "-")
	}
	mapped = strings.Trim(mapped, "-.")
	if mapped == "" {
		return "image.jpg"
	}
	return mapped
}
