package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/avereen/studylog/internal/models"
	"github.com/avereen/studylog/pkg/crypto"
	apperrors "github.com/avereen/studylog/pkg/errors"
	"github.com/avereen/studylog/pkg/logger"
	"github.com/avereen/studylog/pkg/mail"
	"github.com/avereen/studylog/pkg/metrics"
)

const loginCodeDigits = 6

var (
	// ErrAccountNotFound indicates the requested account does not exist.
	ErrAccountNotFound = apperrors.New("ACCOUNT_NOT_FOUND", "Account not found", http.StatusNotFound)
)

// AccountOption customises the AccountService.
type AccountOption func(*AccountService)

// WithAccountClock injects a custom time source.
func WithAccountClock(clock func() time.Time) AccountOption {
	return func(s *AccountService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// AccountService manages account registration and the one-time login code flow.
//
// A code stays valid until the next request overwrites it or a successful
// verification clears it; there is no expiry, no hash, and no attempt limit.
type AccountService struct {
	db     *gorm.DB
	mailer mail.Mailer
	now    func() time.Time
	log    *zap.Logger
}

// NewAccountService constructs an AccountService. The mailer may be nil, in
// which case issued codes are written to the server log instead.
func NewAccountService(db *gorm.DB, mailer mail.Mailer, opts ...AccountOption) (*AccountService, error) {
	if db == nil {
		return nil, errors.New("account service: db is required")
	}

	service := &AccountService{
		db:     db,
		mailer: mailer,
		now:    time.Now,
		log:    logger.WithModule("accounts"),
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// RequestLoginCode auto-registers the account on first contact, generates a
// fresh 6-digit code overwriting any previous one, and delivers it by email
// when SMTP is configured. Without SMTP the code is logged to the console.
func (s *AccountService) RequestLoginCode(ctx context.Context, email string) (*models.Account, error) {
	email = normaliseEmail(email)
	if email == "" {
		return nil, apperrors.NewBadRequest("email is required")
	}

	var account models.Account
	err := s.db.WithContext(ctx).Where(models.Account{Email: email}).FirstOrCreate(&account).Error
	if err != nil {
		if isUniqueConstraintError(err) {
			// Concurrent first login for the same address; fetch the winner.
			if err := s.db.WithContext(ctx).Take(&account, "email = ?", email).Error; err != nil {
				return nil, fmt.Errorf("account service: find account: %w", err)
			}
		} else {
			return nil, fmt.Errorf("account service: create account: %w", err)
		}
	}

	code, err := crypto.GenerateLoginCode(loginCodeDigits)
	if err != nil {
		return nil, fmt.Errorf("account service: generate code: %w", err)
	}

	if err := s.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", account.ID).
		Update("login_code", code).Error; err != nil {
		return nil, fmt.Errorf("account service: store code: %w", err)
	}
	account.LoginCode = &code

	s.deliverCode(ctx, email, code)

	return &account, nil
}

// VerifyLoginCode compares the submitted code with the stored one by string
// equality. On match the code is cleared and the account returned; any
// mismatch, unknown email, or absent code yields the same generic error.
func (s *AccountService) VerifyLoginCode(ctx context.Context, email, code string) (*models.Account, error) {
	email = normaliseEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCode
	}

	var account models.Account
	err := s.db.WithContext(ctx).Take(&account, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCode
	}
	if err != nil {
		return nil, fmt.Errorf("account service: find account: %w", err)
	}

	if account.LoginCode == nil || *account.LoginCode != code {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCode
	}

	if err := s.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", account.ID).
		Update("login_code", nil).Error; err != nil {
		return nil, fmt.Errorf("account service: clear code: %w", err)
	}
	account.LoginCode = nil

	metrics.AuthAttempts.WithLabelValues("success").Inc()

	return &account, nil
}

// GetByID fetches an account by its identifier.
func (s *AccountService) GetByID(ctx context.Context, id string) (*models.Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrAccountNotFound
	}

	var account models.Account
	err := s.db.WithContext(ctx).Take(&account, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("account service: find account: %w", err)
	}

	return &account, nil
}

func (s *AccountService) deliverCode(ctx context.Context, email, code string) {
	if s.mailer != nil {
		message := mail.Message{
			To:      []string{email},
			Subject: "Your studylog login code",
			Body:    fmt.Sprintf("Your one-time login code is %s.\r\n", code),
		}

		err := s.mailer.Send(ctx, message)
		if err == nil {
			metrics.LoginCodesIssued.WithLabelValues("email").Inc()
			return
		}
		if !errors.Is(err, mail.ErrSMTPDisabled) {
			s.log.Warn("login code email failed, falling back to console",
				zap.String("email", email), zap.Error(err))
		}
	}

	// Console delivery mirrors a development SMTP-less setup.
	s.log.Info("login code issued",
		zap.String("email", email),
		zap.String("code", code),
	)
	metrics.LoginCodesIssued.WithLabelValues("console").Inc()
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
