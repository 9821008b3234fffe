package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	apperrors "social_network/pkg/errors"
	"social_network/pkg/logger"
)

// Public folders uploaded files are served from.
const (
	FolderGroup = "groupFile"
	FolderChat  = "chatFile"
)

// MediaService stores uploaded files on local disk as
// "<fieldname>-<unix millis><ext>" and hands back their public path.
type MediaService interface {
	Save(folder, fieldName, originalName string, r io.Reader) (string, error)
	// Remove deletes the file behind a public path. Missing files are not an error.
	Remove(publicPath string) error
}

type mediaService struct {
	root string
	now  func() time.Time
	log  logger.Logger
}

func NewMediaService(root string, log logger.Logger) MediaService {
	return &mediaService{root: root, now: time.Now, log: log}
}

func (s *mediaService) Save(folder, fieldName, originalName string, r io.Reader) (string, error) {
	if !knownFolder(folder) {
		return "", fmt.Errorf("%w: unknown upload folder %q", apperrors.ErrBadRequest, folder)
	}
	fieldName = sanitizeSegment(fieldName)
	if fieldName == "" {
		return "", fmt.Errorf("%w: upload field name is required", apperrors.ErrBadRequest)
	}

	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.log.Error("Failed to create upload directory", "error", err, "dir", dir)
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	stamp := s.now().UnixMilli()

	var (
		f    *os.File
		name string
		err  error
	)
	// same millisecond uploads of one field move the stamp forward
	for attempt := 0; attempt < 100; attempt++ {
		name = fmt.Sprintf("%s-%d%s", fieldName, stamp+int64(attempt), ext)
		f, err = os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if !errors.Is(err, os.ErrExist) {
			break
		}
	}
	if err != nil {
		s.log.Error("Failed to create upload file", "error", err, "name", name)
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(f.Name())
		s.log.Error("Failed to write upload file", "error", err, "name", name)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	return path.Join("/", folder, name), nil
}

func (s *mediaService) Remove(publicPath string) error {
	folder, name, ok := splitPublicPath(publicPath)
	if !ok {
		s.log.Warn("Refusing to remove file outside upload folders", "path", publicPath)
		return nil
	}

	err := os.Remove(filepath.Join(s.root, folder, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Error("Failed to remove upload file", "error", err, "path", publicPath)
		return fmt.Errorf("failed to remove upload file: %w", err)
	}
	return nil
}

func knownFolder(folder string) bool {
	return folder == FolderGroup || folder == FolderChat
}

// splitPublicPath accepts "/groupFile/name.ext" style paths only.
func splitPublicPath(publicPath string) (string, string, bool) {
	clean := path.Clean("/" + strings.TrimSpace(publicPath))
	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")
	if len(parts) != 2 || !knownFolder(parts[0]) {
		return "", "", false
	}
	if parts[1] == "" || parts[1] == "." || parts[1] == ".." {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func sanitizeSegment(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return -1
	}, s)
}
