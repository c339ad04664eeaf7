// Package services contains server-side business logic. This file implements
// AdminService: authentication, password rotation and admin provisioning.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/bytonbyte/internal/common"
	"github.com/dmitrijs2005/bytonbyte/internal/dbx"
	"github.com/dmitrijs2005/bytonbyte/internal/logging"
	"github.com/dmitrijs2005/bytonbyte/internal/server/auth"
	"github.com/dmitrijs2005/bytonbyte/internal/server/metrics"
	"github.com/dmitrijs2005/bytonbyte/internal/server/models"
	"github.com/dmitrijs2005/bytonbyte/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

type AdminService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	log         logging.Logger
	metrics     *metrics.Metrics

	// dummyHash is compared against when the email is unknown so that both
	// failure paths cost one bcrypt comparison.
	dummyHash string
}

func NewAdminService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher,
	log logging.Logger, mx *metrics.Metrics) *AdminService {
	dummy, err := hasher.Hash("byton-byte-dummy-password")
	if err != nil {
		dummy = ""
	}
	return &AdminService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		log:         log.With("module", "admins"),
		metrics:     mx,
		dummyHash:   dummy,
	}
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Authenticate resolves email and password to a principal. Unknown email,
// wrong password and inactive account are indistinguishable to the caller.
func (s *AdminService) Authenticate(ctx context.Context, email, password string) (*models.Principal, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrInvalidInput)
	}

	admin, err := s.repomanager.Admins(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			s.reject(ctx, email, metrics.OutcomeUnknownEmail)
			return nil, common.ErrInvalidCredentials
		}
		s.observe(metrics.OutcomeError)
		s.log.Error(ctx, "credential lookup failed", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if !s.hasher.Verify(password, admin.PasswordHash) {
		s.reject(ctx, email, metrics.OutcomeBadPassword)
		return nil, common.ErrInvalidCredentials
	}
	if !admin.Active {
		s.reject(ctx, email, metrics.OutcomeInactive)
		return nil, common.ErrInvalidCredentials
	}

	s.observe(metrics.OutcomeSuccess)
	s.log.Info(ctx, "admin signed in", "admin_id", admin.ID)
	return &models.Principal{ID: admin.ID, Email: admin.Email}, nil
}

// ChangePassword rotates the caller's password after re-checking the
// current one. The load and the update share a transaction.
func (s *AdminService) ChangePassword(ctx context.Context, p models.Principal, current, next, confirm string) error {
	if current == "" {
		return fmt.Errorf("%w: current password is required", common.ErrInvalidInput)
	}
	if err := validateNewPassword(next, confirm); err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Admins(tx)

		admin, err := repo.GetByEmail(ctx, NormalizeEmail(p.Email))
		if err != nil {
			return err
		}
		if !s.hasher.Verify(current, admin.PasswordHash) {
			s.log.Info(ctx, "password change rejected", "admin_id", admin.ID, "reason", "bad_current_password")
			return common.ErrInvalidCredentials
		}

		hash, err := s.hasher.Hash(next)
		if err != nil {
			return err
		}
		if err := repo.UpdatePassword(ctx, admin.ID, hash); err != nil {
			return err
		}

		s.log.Info(ctx, "password changed", "admin_id", admin.ID)
		return nil
	})
}

// ProvisionAdmin creates a new, active admin account.
func (s *AdminService) ProvisionAdmin(ctx context.Context, email, password, confirm string) (*models.AdminView, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateNewPassword(password, confirm); err != nil {
		return nil, err
	}

	repo := s.repomanager.Admins(s.db)

	_, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, fmt.Errorf("%w: an admin with this email already exists", common.ErrConflict)
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	admin, err := repo.Create(ctx, &models.Admin{Email: email, PasswordHash: hash, Active: true})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, fmt.Errorf("%w: an admin with this email already exists", common.ErrConflict)
		}
		return nil, err
	}

	s.log.Info(ctx, "admin provisioned", "admin_id", admin.ID)
	v := admin.View()
	return &v, nil
}

// SetActive enables or disables an admin account.
func (s *AdminService) SetActive(ctx context.Context, id string, active bool) (*models.AdminView, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id is required", common.ErrInvalidInput)
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: admin %s", common.ErrorNotFound, id)
	}
	admin, err := s.repomanager.Admins(s.db).SetActive(ctx, id, active)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "admin active flag changed", "admin_id", admin.ID, "active", active)
	v := admin.View()
	return &v, nil
}

// ListAdmins returns all admins, newest first.
func (s *AdminService) ListAdmins(ctx context.Context) ([]models.AdminView, error) {
	list, err := s.repomanager.Admins(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]models.AdminView, 0, len(list))
	for _, a := range list {
		views = append(views, a.View())
	}
	return views, nil
}

func (s *AdminService) reject(ctx context.Context, email, reason string) {
	s.observe(reason)
	s.log.Info(ctx, "login rejected", "email", email, "reason", reason)
}

func (s *AdminService) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.LoginAttempts.WithLabelValues(outcome).Inc()
	}
}

func validateNewPassword(password, confirm string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", common.ErrInvalidInput)
	}
	if password != confirm {
		return fmt.Errorf("%w: passwords do not match", common.ErrInvalidInput)
	}
	if utf8.RuneCountInString(password) < common.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrInvalidInput, common.MinPasswordLength)
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrInvalidInput)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return fmt.Errorf("%w: invalid email address", common.ErrInvalidInput)
	}
	return nil
}
