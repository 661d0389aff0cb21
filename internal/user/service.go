package user

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/workspace-management/internal"
)

// Repository is the persistence boundary for user accounts. DeleteAccount removes
// the user's memberships in the same transaction, so a deleted account never keeps
// residual workspace access.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	UpdateName(ctx context.Context, id int64, name string) error
	DeleteAccount(ctx context.Context, id int64) error
}

type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, bcryptCost: bcryptCost, logger: logger}
}

func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("could not hash password", err)
	}

	u := &User{
		Email:        dto.Email,
		Name:         dto.Name,
		PasswordHash: string(hash),
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.ErrorContext(ctx, "failed to create user", "error", err)
		return nil, internal.NewStorageError("could not create user", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

func (s *Service) GetProfile(ctx context.Context, principalID int64) (*User, error) {
	if principalID == 0 {
		return nil, internal.ErrUnauthorized
	}

	u, err := s.repo.GetByID(ctx, principalID)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		return nil, internal.NewStorageError("could not load profile", err)
	}
	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, principalID int64, dto UpdateProfileDTO) error {
	if principalID == 0 {
		return internal.ErrUnauthorized
	}
	if err := dto.Validate(); err != nil {
		return err
	}

	if err := s.repo.UpdateName(ctx, principalID, dto.Name); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return appErr
		}
		return internal.NewStorageError("could not update profile", err)
	}
	return nil
}

// DeleteAccount removes the account and every membership it holds. Access to all
// workspaces ends with the same transaction.
func (s *Service) DeleteAccount(ctx context.Context, principalID int64) error {
	if principalID == 0 {
		return internal.ErrUnauthorized
	}

	if err := s.repo.DeleteAccount(ctx, principalID); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return appErr
		}
		s.logger.ErrorContext(ctx, "failed to delete account", "error", err, "user_id", principalID)
		return internal.NewStorageError("could not delete account", err)
	}

	s.logger.InfoContext(ctx, "account deleted", "user_id", principalID)
	return nil
}
