package gcp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/yungbote/udl-lesson-backend/internal/platform/envutil"
)

type StorageMode string

const (
	StorageModeGCS         StorageMode = "gcs"
	StorageModeGCSEmulator StorageMode = "gcs_emulator"
)

// BucketConfig describes the bucket exported decks are written to.
type BucketConfig struct {
	Bucket       string
	Mode         StorageMode
	EmulatorHost string
	// CDNDomain, when set, replaces the storage host in public URLs.
	CDNDomain string
	// PublicBaseURL overrides the host used for public URLs (emulators).
	PublicBaseURL string
}

// BucketConfigFromEnv reads LESSON_GCS_BUCKET_NAME, OBJECT_STORAGE_MODE,
// STORAGE_EMULATOR_HOST, LESSON_CDN_DOMAIN and OBJECT_STORAGE_PUBLIC_BASE_URL.
// An emulator host without an explicit mode selects emulator mode.
func BucketConfigFromEnv() (BucketConfig, error) {
	cfg := BucketConfig{
		Bucket:        envutil.String("LESSON_GCS_BUCKET_NAME", ""),
		EmulatorHost:  strings.TrimRight(envutil.String("STORAGE_EMULATOR_HOST", ""), "/"),
		CDNDomain:     envutil.String("LESSON_CDN_DOMAIN", ""),
		PublicBaseURL: strings.TrimRight(envutil.String("OBJECT_STORAGE_PUBLIC_BASE_URL", ""), "/"),
	}
	switch mode := StorageMode(strings.ToLower(envutil.String("OBJECT_STORAGE_MODE", ""))); mode {
	case "":
		cfg.Mode = StorageModeGCS
		if cfg.EmulatorHost != "" {
			cfg.Mode = StorageModeGCSEmulator
		}
	case StorageModeGCS, StorageModeGCSEmulator:
		cfg.Mode = mode
	default:
		return cfg, fmt.Errorf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q)", mode, StorageModeGCS, StorageModeGCSEmulator)
	}
	return cfg, cfg.Validate()
}

func (c BucketConfig) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("missing env var LESSON_GCS_BUCKET_NAME")
	}
	if c.PublicBaseURL != "" && !absoluteURL(c.PublicBaseURL) {
		return fmt.Errorf("invalid OBJECT_STORAGE_PUBLIC_BASE_URL=%q; expected absolute URL like http://localhost:4443", c.PublicBaseURL)
	}
	switch c.Mode {
	case StorageModeGCS:
		return nil
	case StorageModeGCSEmulator:
		if !absoluteURL(c.EmulatorHost) {
			return fmt.Errorf("invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://fake-gcs:4443", c.EmulatorHost)
		}
		return nil
	default:
		return fmt.Errorf("invalid storage mode %q", c.Mode)
	}
}

func absoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
