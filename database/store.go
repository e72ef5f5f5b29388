package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"contactus-backend/models"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ErrNotFound is returned by Get when no submission has the requested id.
var ErrNotFound = errors.New("contact submission not found")

// StorageError reports that the persistence layer failed. It is kept apart
// from validation failures so callers can answer with a generic message.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ContactQuery selects a page of submissions for the staff list.
type ContactQuery struct {
	Subject string
	Search  string
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

// Normalize clamps paging values into range.
func (q ContactQuery) Normalize() ContactQuery {
	if q.Limit <= 0 {
		q.Limit = DefaultListLimit
	}
	if q.Limit > MaxListLimit {
		q.Limit = MaxListLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	q.Subject = strings.TrimSpace(q.Subject)
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// ContactStore persists submissions. Append assigns ID and CreatedAt; stored
// rows are never updated. Implementations are safe for concurrent use.
type ContactStore interface {
	Append(ctx context.Context, sub *models.ContactSubmission) (uint64, error)
	Get(ctx context.Context, id uint64) (*models.ContactSubmission, error)
	List(ctx context.Context, q ContactQuery) ([]models.ContactSubmission, int64, error)
}

// GormStore is the SQL-backed ContactStore. The database sequence allocates ids.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

func (s *GormStore) Append(ctx context.Context, sub *models.ContactSubmission) (uint64, error) {
	sub.ID = 0
	sub.CreatedAt = s.now().UTC()
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return 0, &StorageError{Op: "append", Err: err}
	}
	return sub.ID, nil
}

func (s *GormStore) Get(ctx context.Context, id uint64) (*models.ContactSubmission, error) {
	var sub models.ContactSubmission
	err := s.db.WithContext(ctx).First(&sub, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "get", Err: err}
	}
	return &sub, nil
}

func (s *GormStore) List(ctx context.Context, q ContactQuery) ([]models.ContactSubmission, int64, error) {
	q = q.Normalize()

	var total int64
	if err := s.filtered(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, &StorageError{Op: "count", Err: err}
	}

	var subs []models.ContactSubmission
	err := s.filtered(ctx, q).
		Order("created_at DESC").
		Order("id DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&subs).Error
	if err != nil {
		return nil, 0, &StorageError{Op: "list", Err: err}
	}
	return subs, total, nil
}

func (s *GormStore) filtered(ctx context.Context, q ContactQuery) *gorm.DB {
	tx := s.db.WithContext(ctx).Model(&models.ContactSubmission{})
	if q.Subject != "" {
		tx = tx.Where("subject = ?", q.Subject)
	}
	if q.From != nil {
		tx = tx.Where("created_at >= ?", q.From.UTC())
	}
	if q.To != nil {
		tx = tx.Where("created_at < ?", q.To.UTC())
	}
	if q.Search != "" {
		like := "%" + strings.ToLower(q.Search) + "%"
		tx = tx.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(subject) LIKE ? OR LOWER(inquiry) LIKE ?",
			like, like, like, like,
		)
	}
	return tx
}
