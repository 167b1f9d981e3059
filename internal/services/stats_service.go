package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/avereen/studylog/internal/models"
)

// weekDays are the daily chart labels, Monday first.
var weekDays = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

const trailingWeeks = 4

// StatsOption customises the StatsService.
type StatsOption func(*StatsService)

// WithStatsClock injects a custom time source.
func WithStatsClock(clock func() time.Time) StatsOption {
	return func(s *StatsService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// SubjectTotal aggregates hours for one subject.
type SubjectTotal struct {
	Subject string  `json:"subject"`
	Hours   float64 `json:"hours"`
}

// Summary carries the three aggregate views over one account's records.
type Summary struct {
	// Daily covers the current week, Monday through Sunday. The seven
	// buckets sum to the account's raw hours for that week.
	DailyLabels []string  `json:"daily_labels"`
	DailyHours  []float64 `json:"daily_hours"`

	// Weekly covers the trailing four calendar weeks ending with the
	// current one, labelled "Jan 02 - Jan 08".
	WeeklyLabels []string  `json:"weekly_labels"`
	WeeklyHours  []float64 `json:"weekly_hours"`

	// Subjects totals hours per subject over all of the account's records.
	Subjects []SubjectTotal `json:"subjects"`
}

// StatsService computes per-account aggregate statistics. All bucketing is
// done in UTC, the zone records are stamped in, and weeks start on Monday.
type StatsService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewStatsService constructs a StatsService instance.
func NewStatsService(db *gorm.DB, opts ...StatsOption) (*StatsService, error) {
	if db == nil {
		return nil, errors.New("stats service: db is required")
	}

	service := &StatsService{
		db:  db,
		now: time.Now,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// Summary computes the daily, weekly, and subject breakdowns for one account.
func (s *StatsService) Summary(ctx context.Context, accountID string) (*Summary, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, errors.New("stats service: account id is required")
	}

	now := s.now().UTC()
	weekStart := startOfWeek(now)

	summary := &Summary{
		DailyLabels:  weekDays[:],
		DailyHours:   make([]float64, len(weekDays)),
		WeeklyLabels: make([]string, 0, trailingWeeks),
		WeeklyHours:  make([]float64, trailingWeeks),
	}

	// Daily buckets for the current week.
	weekEnd := weekStart.AddDate(0, 0, 7)
	var current []models.StudyRecord
	if err := s.db.WithContext(ctx).
		Where("account_id = ? AND recorded_at >= ? AND recorded_at < ?", accountID, weekStart, weekEnd).
		Find(&current).Error; err != nil {
		return nil, fmt.Errorf("stats service: current week: %w", err)
	}
	for _, record := range current {
		summary.DailyHours[mondayIndex(record.RecordedAt.UTC().Weekday())] += record.Hours
	}

	// Trailing four calendar-week windows, oldest first.
	windowStart := weekStart.AddDate(0, 0, -7*(trailingWeeks-1))
	for i := 0; i < trailingWeeks; i++ {
		start := windowStart.AddDate(0, 0, 7*i)
		end := start.AddDate(0, 0, 7)

		label := fmt.Sprintf("%s - %s",
			start.Format("Jan 02"),
			start.AddDate(0, 0, 6).Format("Jan 02"))
		summary.WeeklyLabels = append(summary.WeeklyLabels, label)

		var total float64
		if err := s.db.WithContext(ctx).
			Model(&models.StudyRecord{}).
			Where("account_id = ? AND recorded_at >= ? AND recorded_at < ?", accountID, start, end).
			Select("COALESCE(SUM(hours), 0)").
			Scan(&total).Error; err != nil {
			return nil, fmt.Errorf("stats service: weekly window: %w", err)
		}
		summary.WeeklyHours[i] = total
	}

	// Per-subject totals over the full history.
	if err := s.db.WithContext(ctx).
		Model(&models.StudyRecord{}).
		Where("account_id = ?", accountID).
		Select("subject, SUM(hours) AS hours").
		Group("subject").
		Order("subject").
		Scan(&summary.Subjects).Error; err != nil {
		return nil, fmt.Errorf("stats service: subject totals: %w", err)
	}

	return summary, nil
}

// startOfWeek returns midnight UTC on the Monday of t's week.
func startOfWeek(t time.Time) time.Time {
	t = t.UTC()
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.AddDate(0, 0, -mondayIndex(t.Weekday()))
}

// mondayIndex maps time.Weekday (Sunday == 0) onto Monday-first bucket
// positions (Monday == 0 ... Sunday == 6).
func mondayIndex(day time.Weekday) int {
	return (int(day) + 6) % 7
}
