package gcp

import (
	"testing"
)

func TestBucketConfigFromEnvDefaultsToGCS(t *testing.T) {
	t.Setenv("LESSON_GCS_BUCKET_NAME", "decks")
	t.Setenv("OBJECT_STORAGE_MODE", "")
	t.Setenv("STORAGE_EMULATOR_HOST", "")

	cfg, err := BucketConfigFromEnv()
	if err != nil {
		t.Fatalf("BucketConfigFromEnv: %v", err)
	}
	if cfg.Mode != StorageModeGCS {
		t.Fatalf("mode: want=%q got=%q", StorageModeGCS, cfg.Mode)
	}
}

func TestBucketConfigFromEnvEmulatorFallback(t *testing.T) {
	t.Setenv("LESSON_GCS_BUCKET_NAME", "decks")
	t.Setenv("OBJECT_STORAGE_MODE", "")
	t.Setenv("STORAGE_EMULATOR_HOST", "http://fake-gcs:4443/")

	cfg, err := BucketConfigFromEnv()
	if err != nil {
		t.Fatalf("BucketConfigFromEnv: %v", err)
	}
	if cfg.Mode != StorageModeGCSEmulator {
		t.Fatalf("mode: want=%q got=%q", StorageModeGCSEmulator, cfg.Mode)
	}
	if cfg.EmulatorHost != "http://fake-gcs:4443" {
		t.Fatalf("emulator host: got=%q", cfg.EmulatorHost)
	}
}

func TestBucketConfigFromEnvRejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"missing bucket":  {"LESSON_GCS_BUCKET_NAME": "", "OBJECT_STORAGE_MODE": "gcs"},
		"invalid mode":    {"LESSON_GCS_BUCKET_NAME": "decks", "OBJECT_STORAGE_MODE": "s3"},
		"emulator no url": {"LESSON_GCS_BUCKET_NAME": "decks", "OBJECT_STORAGE_MODE": "gcs_emulator", "STORAGE_EMULATOR_HOST": "fake-gcs:4443"},
		"bad public base": {"LESSON_GCS_BUCKET_NAME": "decks", "OBJECT_STORAGE_MODE": "gcs", "OBJECT_STORAGE_PUBLIC_BASE_URL": "localhost"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("STORAGE_EMULATOR_HOST", "")
			t.Setenv("OBJECT_STORAGE_PUBLIC_BASE_URL", "")
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := BucketConfigFromEnv(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestPublicURL(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		cfg  BucketConfig
		want string
	}{
		{"gcs", BucketConfig{Bucket: "decks", Mode: StorageModeGCS}, "https://storage.googleapis.com/decks/a/b.pptx"},
		{"cdn", BucketConfig{Bucket: "decks", Mode: StorageModeGCS, CDNDomain: "cdn.example.com"}, "https://cdn.example.com/a/b.pptx"},
		{"base", BucketConfig{Bucket: "decks", Mode: StorageModeGCS, PublicBaseURL: "http://localhost:4443"}, "http://localhost:4443/decks/a/b.pptx"},
		{"emulator", BucketConfig{Bucket: "decks", Mode: StorageModeGCSEmulator, EmulatorHost: "http://fake-gcs:4443"}, "http://fake-gcs:4443/storage/v1/b/decks/o/a%2Fb.pptx?alt=media"},
	}
	for _, tc := range cases {
		if got := PublicURL(tc.cfg, "/a/b.pptx"); got != tc.want {
			t.Fatalf("%s: want=%q got=%q", tc.name, tc.want, got)
		}
	}
}

func TestContentTypeForKey(t *testing.T) {
	t.Parallel()
	if got := ContentTypeForKey("Deck_final.PPTX"); got != "application/vnd.openxmlformats-officedocument.presentationml.presentation" {
		t.Fatalf("unexpected content type: %q", got)
	}
	if got := ContentTypeForKey("notes.bin"); got != "application/octet-stream" {
		t.Fatalf("unexpected content type: %q", got)
	}
}
