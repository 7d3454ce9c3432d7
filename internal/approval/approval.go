// Package approval gates the per-role approval flags of daily entries behind
// role passwords. A successful unlock yields a Capability that callers pass
// explicitly to every approval change.
package approval

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/username/attendance-report/internal/apperr"
	"github.com/username/attendance-report/internal/config"
	"github.com/username/attendance-report/internal/model"
	"github.com/username/attendance-report/pkg/dateutil"
)

// ErrDenied is returned when a password or capability does not grant a role
var ErrDenied = errors.New("approval denied")

// Capability proves that the holder unlocked one approval role. The zero
// value grants nothing.
type Capability struct {
	role    model.Role
	granted bool
}

// Role returns the unlocked role
func (c Capability) Role() model.Role {
	return c.role
}

// Grants reports whether the capability allows changing the role's flag
func (c Capability) Grants(role model.Role) bool {
	return c.granted && c.role == role
}

// Authority checks role passwords against configured bcrypt hashes
type Authority struct {
	hashes map[model.Role][]byte
	logger *zap.Logger
}

// NewAuthority creates an Authority. Roles without a configured hash can
// never be unlocked.
func NewAuthority(cfg config.ApprovalsConfig, logger *zap.Logger) *Authority {
	hashes := make(map[model.Role][]byte, len(model.Roles))
	for role, hash := range map[model.Role]string{
		model.RoleManager:   cfg.ManagerPasswordHash,
		model.RoleDirector:  cfg.DirectorPasswordHash,
		model.RolePresident: cfg.PresidentPasswordHash,
	} {
		if hash != "" {
			hashes[role] = []byte(hash)
		}
	}
	return &Authority{hashes: hashes, logger: logger}
}

// Unlock exchanges a role password for a Capability
func (a *Authority) Unlock(role model.Role, password string) (Capability, error) {
	hash, ok := a.hashes[role]
	if !ok {
		a.logger.Warn("Approval role has no password configured", zap.String("role", string(role)))
		return Capability{}, fmt.Errorf("%w: role %s is not configured", ErrDenied, role)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		a.logger.Warn("Approval password rejected", zap.String("role", string(role)))
		return Capability{}, fmt.Errorf("%w: wrong password for %s", ErrDenied, role)
	}
	return Capability{role: role, granted: true}, nil
}

// HashPassword returns the bcrypt hash to put in the approvals config
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password is empty", apperr.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Store persists approval flags
type Store interface {
	SetApproval(ctx context.Context, key model.EntryKey, role model.Role, approved bool) error
}

// Service applies approval changes on behalf of capability holders
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a new approval Service
func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// SetApproval sets the role's flag on an entry if capability grants that role
func (s *Service) SetApproval(ctx context.Context, capability Capability, key model.EntryKey, role model.Role, approved bool) error {
	if !capability.Grants(role) {
		return fmt.Errorf("%w: capability does not grant %s", ErrDenied, role)
	}
	if key.Name == "" || key.Title == "" {
		return fmt.Errorf("%w: entry name and title are required", apperr.ErrInvalidInput)
	}
	if _, err := dateutil.ParseISODate(key.Date); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	}

	if err := s.store.SetApproval(ctx, key, role, approved); err != nil {
		return fmt.Errorf("failed to set %s approval: %w", role, err)
	}

	s.logger.Info("Approval changed",
		zap.String("entry", key.String()),
		zap.String("role", string(role)),
		zap.Bool("approved", approved))
	return nil
}
