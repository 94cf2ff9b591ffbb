package sessionstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/udl-lesson-backend/internal/domain/lesson"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/catalog"
)

func newSession(t *testing.T) *lesson.Session {
	t.Helper()
	req := lesson.Request{
		Topic:              "Photosynthesis",
		Chapter:            "Plant Biology",
		LessonTitle:        "How Plants Make Food",
		GradeLevel:         "5",
		LearningObjectives: "Explain light reactions",
		Duration:           "45 minutes",
		ComplexityLevel:    5,
		AudienceProfile:    lesson.ProfileK12,
	}
	content, err := catalog.Default().FallbackLesson(req)
	require.NoError(t, err)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return lesson.NewSession(uuid.NewString(), req, content, t.TempDir(), now)
}

// runContract exercises the behaviour every driver must share.
func runContract(t *testing.T, store Store) {
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "missing"), ErrNotFound)

	sess := newSession(t)
	require.NoError(t, store.Put(ctx, sess))

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, sess.Request, got.Request)
	assert.Equal(t, lesson.StageBaseline, got.CurrentStage)
	assert.Equal(t, sess.Content.Slides, got.Content.Slides)

	// Mutating a returned copy must not leak into the store.
	got.Content.Slides[0].Title = "changed locally"
	again, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "changed locally", again.Content.Slides[0].Title)

	title := "Edited"
	_, err = again.EditSlide(0, lesson.SlidePatch{Title: &title}, sess.CreatedAt.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, again))

	updated, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Content.Slides[0].Title)
	require.Len(t, updated.EditHistory, 1)
	assert.Equal(t, "slide_0_edit", updated.EditHistory[0].Label)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, store.Delete(ctx, sess.ID))
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	n, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMemoryStore(t *testing.T) {
	store, err := NewStore(StoreTypeMemory)
	require.NoError(t, err)
	defer store.Close()
	runContract(t, store)
}

func TestMemoryStorePutCopies(t *testing.T) {
	store := NewMemoryStore()
	sess := newSession(t)
	require.NoError(t, store.Put(context.Background(), sess))
	sess.Content.Slides[0].Title = "after put"

	got, err := store.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "after put", got.Content.Slides[0].Title)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}
	store, err := NewStore(StoreTypeRedis,
		WithRedisClient(client),
		WithTTL(time.Minute),
		WithKeyPrefix("test_lesson_session:"+uuid.NewString()+":"),
	)
	require.NoError(t, err)
	defer store.Close()
	runContract(t, store)
}

func TestGormStoreSQLite(t *testing.T) {
	db, err := OpenGorm("sqlite", filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	store, err := NewGormStore(db)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	defer store.Close()
	runContract(t, store)
}

func TestNewStoreValidation(t *testing.T) {
	_, err := NewStore(StoreTypeRedis)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewStore(StoreTypeGorm)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewStore("etcd")
	assert.ErrorIs(t, err, ErrInvalidStoreType)
	_, err = OpenGorm("oracle", "")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
