package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/avereen/studylog/internal/models"
	apperrors "github.com/avereen/studylog/pkg/errors"
	"github.com/avereen/studylog/pkg/metrics"
)

// ErrRecordNotFound covers both a missing record and a record owned by a
// different account; callers cannot distinguish the two.
var ErrRecordNotFound = apperrors.New("RECORD_NOT_FOUND", "Study record not found", http.StatusNotFound)

// RecordOption customises the RecordService.
type RecordOption func(*RecordService)

// WithRecordClock injects a custom time source.
func WithRecordClock(clock func() time.Time) RecordOption {
	return func(s *RecordService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// CreateRecordInput describes the fields accepted when logging a session.
// Subject and hours are stored as submitted.
type CreateRecordInput struct {
	Subject string
	Hours   float64
}

// RecordList bundles an account's records with their hour total.
type RecordList struct {
	Records    []models.StudyRecord
	TotalHours float64
}

// RecordService manages the study record lifecycle, always scoped to one account.
type RecordService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRecordService constructs a RecordService instance.
func NewRecordService(db *gorm.DB, opts ...RecordOption) (*RecordService, error) {
	if db == nil {
		return nil, errors.New("record service: db is required")
	}

	service := &RecordService{
		db:  db,
		now: time.Now,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// Create logs a study session for the owning account, timestamped with the
// UTC server clock.
func (s *RecordService) Create(ctx context.Context, accountID string, input CreateRecordInput) (*models.StudyRecord, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, errors.New("record service: account id is required")
	}

	record := &models.StudyRecord{
		Subject:    input.Subject,
		Hours:      input.Hours,
		RecordedAt: s.now().UTC(),
		AccountID:  accountID,
	}

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("record service: create record: %w", err)
	}

	metrics.StudyRecordsCreated.Inc()

	return record, nil
}

// List returns the account's own records, newest first, with the hour total.
// Records belonging to other accounts are never included.
func (s *RecordService) List(ctx context.Context, accountID string) (*RecordList, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, errors.New("record service: account id is required")
	}

	var records []models.StudyRecord
	if err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("recorded_at DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("record service: list records: %w", err)
	}

	var total float64
	for _, record := range records {
		total += record.Hours
	}

	return &RecordList{Records: records, TotalHours: total}, nil
}

// Delete removes a record owned by the account. Deleting a missing record or
// one owned by another account changes nothing and reports not found.
func (s *RecordService) Delete(ctx context.Context, accountID, recordID string) error {
	accountID = strings.TrimSpace(accountID)
	recordID = strings.TrimSpace(recordID)
	if accountID == "" || recordID == "" {
		return ErrRecordNotFound
	}

	result := s.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", recordID, accountID).
		Delete(&models.StudyRecord{})
	if result.Error != nil {
		return fmt.Errorf("record service: delete record: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}
