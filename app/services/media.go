package services

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// MediaStore keeps uploaded post images below a root directory. Stored
// images are addressed by their slash separated path relative to the root.
type MediaStore struct {
	root string
}

func NewMediaStore(root string) *MediaStore {
	return &MediaStore{root: root}
}

func (m *MediaStore) Root() string {
	return m.root
}

// SavePostImage copies src to a fresh file under posts/ and returns its
// relative path. The original name only contributes its extension.
func (m *MediaStore) SavePostImage(filename string, src io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExtensions[ext] {
		return "", errors.Wrapf(ErrUnsupportedImage, "%q", filename)
	}

	rel := path.Join("posts", uuid.New().String()+ext)
	dst := filepath.Join(m.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", errors.Wrap(err, "failed to create media directory")
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", errors.Wrap(err, "failed to create image file")
	}
	defer f.Close()

	if _, err := io.Copy(f, src); err != nil {
		os.Remove(dst)
		return "", errors.Wrap(err, "failed to write image")
	}
	return rel, nil
}

// Remove deletes a stored image. Missing files are ignored.
func (m *MediaStore) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	err := os.Remove(filepath.Join(m.root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
