package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/udl-lesson-backend/internal/domain/lesson"
)

type sessionRecord struct {
	ID        string         `gorm:"column:id;primaryKey;size:64"`
	Stage     string         `gorm:"column:stage;size:32;not null"`
	Topic     string         `gorm:"column:topic"`
	Payload   datatypes.JSON `gorm:"column:payload;not null"`
	CreatedAt time.Time      `gorm:"column:created_at;not null"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null;index"`
}

func (sessionRecord) TableName() string { return "lesson_sessions" }

// OpenGorm opens a database for the gorm store. driver is "postgres" or
// "sqlite".
func OpenGorm(driver, dsn string) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "postgresql":
		dial = postgres.Open(dsn)
	case "sqlite", "sqlite3":
		dial = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: unknown database driver %q", ErrInvalidConfig, driver)
	}
	db, err := gorm.Open(dial, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return db, nil
}

type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the lesson_sessions table and returns the store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&sessionRecord{}); err != nil {
		return nil, fmt.Errorf("migrate lesson_sessions: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Get(ctx context.Context, id string) (*lesson.Session, error) {
	var rec sessionRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	var sess lesson.Session
	if err := json.Unmarshal(rec.Payload, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *GormStore) Put(ctx context.Context, sess *lesson.Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	rec := sessionRecord{
		ID:        sess.ID,
		Stage:     string(sess.CurrentStage),
		Topic:     sess.Request.Topic,
		Payload:   datatypes.JSON(payload),
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"stage", "topic", "payload", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&sessionRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete session %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Count(ctx context.Context) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&sessionRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return int(n), nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
