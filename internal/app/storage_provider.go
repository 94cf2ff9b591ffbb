package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/udl-lesson-backend/internal/platform/artifacts"
	"github.com/yungbote/udl-lesson-backend/internal/platform/gcp"
	"github.com/yungbote/udl-lesson-backend/internal/platform/logger"
)

const (
	ArtifactStoreLocal = "local"
	ArtifactStoreGCS   = "gcs"
)

var (
	newBucketService    = gcp.NewBucketService
	bucketConfigFromEnv = gcp.BucketConfigFromEnv
	errUnsupportedStore = errors.New("unsupported artifact store")
)

type StorageBootstrapErrorCode string

const (
	StorageBootstrapErrorInvalidStore  StorageBootstrapErrorCode = "invalid_store"
	StorageBootstrapErrorInvalidConfig StorageBootstrapErrorCode = "invalid_config"
	StorageBootstrapErrorConnectFailed StorageBootstrapErrorCode = "connect_failed"
)

type StorageBootstrapError struct {
	Code  StorageBootstrapErrorCode
	Store string
	Cause error
}

func (e *StorageBootstrapError) Error() string {
	if e == nil {
		return "artifact storage bootstrap failed"
	}
	return fmt.Sprintf("artifact storage bootstrap failed (code=%s store=%q): %v", e.Code, e.Store, e.Cause)
}

func (e *StorageBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveArtifactStore picks where session files and exported decks live.
// The returned close func releases the bucket client, if any.
func resolveArtifactStore(ctx context.Context, log *logger.Logger, cfg Config) (artifacts.Store, func() error, error) {
	noop := func() error { return nil }
	local := artifacts.NewLocalStore(cfg.DownloadsDir, cfg.DownloadsURL)

	switch cfg.ArtifactStore {
	case "", ArtifactStoreLocal:
		log.Info("Selecting artifact store", "store", ArtifactStoreLocal, "dir", cfg.DownloadsDir)
		return local, noop, nil
	case ArtifactStoreGCS:
	default:
		err := &StorageBootstrapError{
			Code:  StorageBootstrapErrorInvalidStore,
			Store: cfg.ArtifactStore,
			Cause: fmt.Errorf("%w %q (allowed: %q, %q)", errUnsupportedStore, cfg.ArtifactStore, ArtifactStoreLocal, ArtifactStoreGCS),
		}
		log.Error("Artifact store selection failed", "store", cfg.ArtifactStore, "error_code", err.Code, "error", err)
		return nil, nil, err
	}

	bucketCfg, err := bucketConfigFromEnv()
	if err != nil {
		classified := &StorageBootstrapError{Code: StorageBootstrapErrorInvalidConfig, Store: cfg.ArtifactStore, Cause: err}
		log.Error("Artifact store configuration invalid", "store", cfg.ArtifactStore, "error_code", classified.Code, "error", err)
		return nil, nil, classified
	}

	log.Info("Selecting artifact store",
		"store", ArtifactStoreGCS,
		"mode", bucketCfg.Mode,
		"bucket", bucketCfg.Bucket,
		"emulator_host", bucketCfg.EmulatorHost,
	)
	bucket, err := newBucketService(ctx, log, bucketCfg)
	if err != nil {
		classified := &StorageBootstrapError{Code: StorageBootstrapErrorConnectFailed, Store: cfg.ArtifactStore, Cause: err}
		log.Error("Artifact store bootstrap failed", "store", cfg.ArtifactStore, "error_code", classified.Code, "error", err)
		return nil, nil, classified
	}
	return artifacts.NewBucketStore(local, bucket, cfg.BucketPrefix, log), bucket.Close, nil
}
