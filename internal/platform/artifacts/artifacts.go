// Package artifacts owns per-session files: uploads and exported decks.
// Every session gets a local working directory; published decks are served
// either from that directory or from a bucket.
package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yungbote/udl-lesson-backend/internal/platform/gcp"
	"github.com/yungbote/udl-lesson-backend/internal/platform/logger"
)

var ErrInvalidName = errors.New("invalid artifact name")

type Store interface {
	// Prepare creates and returns the session's working directory.
	Prepare(sessionID string) (string, error)
	// SaveUpload stores an uploaded file as "uploaded_<name>" and returns its path.
	SaveUpload(ctx context.Context, sessionID, name string, r io.Reader) (string, error)
	// Publish makes the file at localPath downloadable and returns its URL.
	Publish(ctx context.Context, sessionID, localPath string) (string, error)
	// Remove deletes everything stored for the session.
	Remove(ctx context.Context, sessionID string) error
}

// LocalStore keeps files under Root/<session_id> and serves them below
// URLPrefix.
type LocalStore struct {
	Root      string
	URLPrefix string
}

func NewLocalStore(root, urlPrefix string) *LocalStore {
	if urlPrefix == "" {
		urlPrefix = "/static/downloads"
	}
	return &LocalStore{Root: root, URLPrefix: strings.TrimRight(urlPrefix, "/")}
}

func (s *LocalStore) dir(sessionID string) (string, error) {
	if err := checkName(sessionID); err != nil {
		return "", err
	}
	return filepath.Join(s.Root, sessionID), nil
}

func (s *LocalStore) Prepare(sessionID string) (string, error) {
	dir, err := s.dir(sessionID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}
	return dir, nil
}

func (s *LocalStore) SaveUpload(_ context.Context, sessionID, name string, r io.Reader) (string, error) {
	name = filepath.Base(strings.TrimSpace(name))
	if err := checkName(name); err != nil {
		return "", err
	}
	dir, err := s.Prepare(sessionID)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(dir, "uploaded_"+name)
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close upload: %w", err)
	}
	return dst, nil
}

func (s *LocalStore) Publish(_ context.Context, sessionID, localPath string) (string, error) {
	if err := checkName(sessionID); err != nil {
		return "", err
	}
	if _, err := os.Stat(localPath); err != nil {
		return "", fmt.Errorf("publish: %w", err)
	}
	return s.URLPrefix + "/" + path.Join(sessionID, filepath.Base(localPath)), nil
}

func (s *LocalStore) Remove(_ context.Context, sessionID string) error {
	dir, err := s.dir(sessionID)
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}

// BucketStore keeps working files locally and uploads published decks to
// a bucket under Prefix/<session_id>/.
type BucketStore struct {
	*LocalStore
	log    *logger.Logger
	bucket gcp.BucketService
	prefix string
}

func NewBucketStore(local *LocalStore, bucket gcp.BucketService, prefix string, log *logger.Logger) *BucketStore {
	return &BucketStore{
		LocalStore: local,
		log:        log.With("service", "ArtifactBucketStore"),
		bucket:     bucket,
		prefix:     strings.Trim(prefix, "/"),
	}
}

func (s *BucketStore) key(sessionID, name string) string {
	return path.Join(s.prefix, sessionID, name)
}

func (s *BucketStore) Publish(ctx context.Context, sessionID, localPath string) (string, error) {
	if err := checkName(sessionID); err != nil {
		return "", err
	}
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("publish: %w", err)
	}
	defer f.Close()
	key := s.key(sessionID, filepath.Base(localPath))
	if err := s.bucket.Upload(ctx, key, f, ""); err != nil {
		return "", err
	}
	return s.bucket.PublicURL(key), nil
}

// Remove deletes the local directory and the bucket prefix; both are
// attempted even if one fails.
func (s *BucketStore) Remove(ctx context.Context, sessionID string) error {
	localErr := s.LocalStore.Remove(ctx, sessionID)
	var bucketErr error
	if localErr == nil || !errors.Is(localErr, ErrInvalidName) {
		bucketErr = s.bucket.DeletePrefix(ctx, s.key(sessionID, "")+"/")
		if bucketErr != nil {
			s.log.Warn("bucket cleanup failed", "session_id", sessionID, "error", bucketErr)
		}
	}
	return errors.Join(localErr, bucketErr)
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
