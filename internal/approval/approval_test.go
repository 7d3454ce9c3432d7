package approval

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/username/attendance-report/internal/apperr"
	"github.com/username/attendance-report/internal/config"
	"github.com/username/attendance-report/internal/model"
)

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword() error = %v", err)
	}
	return string(h)
}

func newTestAuthority(t *testing.T) *Authority {
	t.Helper()
	return NewAuthority(config.ApprovalsConfig{
		ManagerPasswordHash:  hash(t, "kacho"),
		DirectorPasswordHash: hash(t, "bucho"),
	}, zap.NewNop())
}

type recordingStore struct {
	calls []model.Role
	err   error
}

func (s *recordingStore) SetApproval(_ context.Context, _ model.EntryKey, role model.Role, _ bool) error {
	s.calls = append(s.calls, role)
	return s.err
}

func TestAuthority_Unlock(t *testing.T) {
	auth := newTestAuthority(t)

	tests := []struct {
		name     string
		role     model.Role
		password string
		wantErr  bool
	}{
		{"manager ok", model.RoleManager, "kacho", false},
		{"director ok", model.RoleDirector, "bucho", false},
		{"wrong password", model.RoleManager, "bucho", true},
		{"role without hash", model.RolePresident, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capability, err := auth.Unlock(tt.role, tt.password)
			if tt.wantErr {
				if !errors.Is(err, ErrDenied) {
					t.Errorf("Unlock() error = %v, want ErrDenied", err)
				}
				if capability.Grants(tt.role) {
					t.Error("failed Unlock() returned a granting capability")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unlock() error = %v", err)
			}
			if !capability.Grants(tt.role) || capability.Role() != tt.role {
				t.Errorf("capability = %+v, want grant for %s", capability, tt.role)
			}
		})
	}
}

func TestService_SetApproval(t *testing.T) {
	auth := newTestAuthority(t)
	manager, err := auth.Unlock(model.RoleManager, "kacho")
	if err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	key := model.EntryKey{Name: "Alice", Date: "2025-07-01", Title: "ProjectX"}

	tests := []struct {
		name       string
		capability Capability
		key        model.EntryKey
		role       model.Role
		wantErr    error
	}{
		{"own role", manager, key, model.RoleManager, nil},
		{"other role", manager, key, model.RoleDirector, ErrDenied},
		{"zero capability", Capability{}, key, model.RoleManager, ErrDenied},
		{"bad date", manager, model.EntryKey{Name: "Alice", Date: "07/01", Title: "ProjectX"}, model.RoleManager, apperr.ErrInvalidInput},
		{"missing title", manager, model.EntryKey{Name: "Alice", Date: "2025-07-01"}, model.RoleManager, apperr.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &recordingStore{}
			svc := NewService(store, zap.NewNop())

			err := svc.SetApproval(context.Background(), tt.capability, tt.key, tt.role, true)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("SetApproval() error = %v", err)
				}
				if len(store.calls) != 1 || store.calls[0] != tt.role {
					t.Errorf("store calls = %v, want [%s]", store.calls, tt.role)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SetApproval() error = %v, want %v", err, tt.wantErr)
			}
			if len(store.calls) != 0 {
				t.Errorf("store called %d times on rejected change", len(store.calls))
			}
		})
	}
}

func TestService_SetApproval_StoreError(t *testing.T) {
	auth := newTestAuthority(t)
	director, _ := auth.Unlock(model.RoleDirector, "bucho")
	svc := NewService(&recordingStore{err: apperr.ErrNotFound}, zap.NewNop())

	key := model.EntryKey{Name: "Bob", Date: "2025-07-01", Title: "ProjectX"}
	if err := svc.SetApproval(context.Background(), director, key, model.RoleDirector, true); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("SetApproval() error = %v, want ErrNotFound", err)
	}
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("shacho")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	auth := NewAuthority(config.ApprovalsConfig{PresidentPasswordHash: h}, zap.NewNop())
	if _, err := auth.Unlock(model.RolePresident, "shacho"); err != nil {
		t.Errorf("Unlock() with generated hash error = %v", err)
	}

	if _, err := HashPassword(""); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("HashPassword(\"\") error = %v, want ErrInvalidInput", err)
	}
}
