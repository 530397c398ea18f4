// Package storage provides storage implementations for the thinware package.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jdziat/thinware/pkg/core"
	"github.com/jdziat/thinware/pkg/security"
)

// ErrInvocationNotFound is returned by Get when no record has the given id.
var ErrInvocationNotFound = errors.New("thinware: invocation not found")

// DefaultListLimit is used by List when limit is not positive.
const DefaultListLimit = 100

// GormRecorder implements core.Recorder using GORM.
type GormRecorder struct {
	db *gorm.DB
}

// NewGormRecorder creates a new GORM-backed recorder.
func NewGormRecorder(db *gorm.DB) *GormRecorder {
	return &GormRecorder{db: db}
}

// OpenSQLite opens a SQLite database with GORM's logger silenced.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// DB returns the underlying database handle.
func (s *GormRecorder) DB() *gorm.DB {
	return s.db
}

// Migrate creates the necessary tables.
func (s *GormRecorder) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&core.Invocation{})
}

// Record stores an invocation. A missing id is generated.
func (s *GormRecorder) Record(ctx context.Context, inv *core.Invocation) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	inv.Error = security.SanitizeErrorMessage(inv.Error)
	return s.db.WithContext(ctx).Create(inv).Error
}

// Get returns the invocation with the given id.
func (s *GormRecorder) Get(ctx context.Context, id string) (*core.Invocation, error) {
	var inv core.Invocation
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvocationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// List returns the most recent invocations, newest first.
func (s *GormRecorder) List(ctx context.Context, limit int) ([]core.Invocation, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	var invs []core.Invocation
	err := s.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&invs).Error
	return invs, err
}

// ListByTarget returns the most recent invocations of one target, newest first.
func (s *GormRecorder) ListByTarget(ctx context.Context, target string, limit int) ([]core.Invocation, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	var invs []core.Invocation
	err := s.db.WithContext(ctx).
		Where("target = ?", target).
		Order("started_at DESC").
		Limit(limit).
		Find(&invs).Error
	return invs, err
}

// CountByOutcome returns how many recorded invocations ended with outcome.
func (s *GormRecorder) CountByOutcome(ctx context.Context, outcome core.Outcome) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&core.Invocation{}).
		Where("outcome = ?", outcome).
		Count(&count).Error
	return count, err
}
