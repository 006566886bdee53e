package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/thedevsir/fresh/internal/fresh/domain"
	"github.com/thedevsir/fresh/internal/fresh/store"
	"github.com/thedevsir/fresh/pkg/cryptox"
	"github.com/thedevsir/fresh/pkg/idx"
	"github.com/thedevsir/fresh/pkg/slogx"
)

// RootUsername is the reserved username of the seeded superuser.
const RootUsername = "root"

// BootstrapService seeds the initial root admin on first startup, so a
// fresh deployment has a way in. The root user is linked to an admin that is
// a member of the reserved root group, which short-circuits every permission
// check.
type BootstrapService struct {
	Store store.Store
}

// EnsureRoot creates the root user, its admin record and the root group
// record, unless a root user already exists. Safe to run on every startup.
func (s *BootstrapService) EnsureRoot(ctx context.Context, email, password string) error {
	l := slogx.FromContext(ctx)

	if _, err := s.Store.Users().GetUserByUsername(ctx, RootUsername); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Username:     RootUsername,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	admin := domain.Admin{
		ID:        idx.New().String(),
		Name:      domain.Name{First: "Root"},
		User:      &domain.UserLink{ID: user.ID, Username: user.Username},
		Groups:    []domain.GroupMembership{{GroupID: domain.RootGroupID, Name: "Root"}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	group := domain.AdminGroup{
		ID:        domain.RootGroupID,
		Name:      "Root",
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.AdminGroups().CreateAdminGroup(ctx, group); err != nil &&
			!errors.Is(err, store.ErrAlreadyExists) {
			return err
		}
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}
		if err := tx.Admins().CreateAdmin(ctx, admin); err != nil {
			return err
		}
		if err := tx.Admins().SetAdminGroups(ctx, admin.ID, admin.Groups); err != nil {
			return err
		}
		link := &domain.RoleLink{Kind: domain.RoleAdmin, ID: admin.ID, Name: admin.FullName()}
		return tx.Users().SetRoleLink(ctx, user.ID, domain.RoleAdmin, link)
	})
	if err != nil {
		return err
	}

	l.Info("root admin seeded", slog.String("user_id", user.ID), slog.String("admin_id", admin.ID))
	return nil
}
