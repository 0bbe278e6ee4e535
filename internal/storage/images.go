package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Upload subdirectories under the image store root.
const (
	KindTweets      = "tweets"
	KindProfilePics = "profile_pics"
)

// ImageStore persists uploaded images on the local filesystem under a
// configured root directory. Only a filename is ever handed back to the
// database layer; each stored name carries a uuid prefix so uploads that
// share an original filename cannot overwrite each other.
type ImageStore struct {
	root string
}

func NewImageStore(root string) *ImageStore {
	return &ImageStore{root: root}
}

// MaxStoredNameLen bounds stored filenames to the size of the image columns
// in the database.
const MaxStoredNameLen = 80

// UniqueName sanitizes the client-supplied filename and prefixes it with a
// fresh uuid. The sanitized part is truncated, keeping its extension, so the
// stored name always fits the database columns.
func (s *ImageStore) UniqueName(original string) string {
	sanitized := SanitizeFilename(original)

	// uuid (36) plus separator.
	max := MaxStoredNameLen - 37
	if len(sanitized) > max {
		ext := filepath.Ext(sanitized)
		if len(ext) > 12 {
			ext = ""
		}
		sanitized = sanitized[:max-len(ext)] + ext
	}

	return uuid.NewString() + "_" + sanitized
}

// Save writes the image bytes under the given kind subdirectory, creating
// it if necessary.
func (s *ImageStore) Save(kind, name string, src io.Reader) error {
	dir := filepath.Join(s.root, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}
	return nil
}

// Remove deletes a stored image. Removing a missing file is not an error.
func (s *ImageStore) Remove(kind, name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, kind, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image file: %w", err)
	}
	return nil
}

// Path returns the on-disk location of a stored image.
func (s *ImageStore) Path(kind, name string) string {
	return filepath.Join(s.root, kind, name)
}

// SanitizeFilename strips any path components and replaces characters
// outside [a-zA-Z0-9._-] with underscores.
func SanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == ".." || base == "/" {
		return "upload"
	}

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	out := b.String()
	if strings.Trim(out, "._-") == "" {
		return "upload"
	}
	return out
}
