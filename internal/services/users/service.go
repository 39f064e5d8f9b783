package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	pgrepo "github.com/jagaldol/my-fitness-server/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("user not found")
)

type UserStore interface {
	FindByID(ctx context.Context, userID int64) (pgrepo.UserRecord, error)
	UpdateProfile(ctx context.Context, userID int64, patch pgrepo.UserPatch) error
}

type Profile struct {
	ID      int64
	LoginID string
	Name    string
	Height  *float64
	Weight  *float64
}

// ProfilePatch applies only its non-nil fields; a new password is
// hashed before it is stored.
type ProfilePatch struct {
	Name     *string
	Password *string
	Height   *float64
	Weight   *float64
}

type Service struct {
	users UserStore
}

func NewService(users UserStore) *Service {
	return &Service{users: users}
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (Profile, error) {
	if userID <= 0 {
		return Profile{}, ErrValidation
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("find user: %w", err)
	}

	return Profile{
		ID:      user.ID,
		LoginID: user.LoginID,
		Name:    user.Name,
		Height:  user.Height,
		Weight:  user.Weight,
	}, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, patch ProfilePatch) error {
	if userID <= 0 {
		return ErrValidation
	}
	if patch.Name == nil && patch.Password == nil && patch.Height == nil && patch.Weight == nil {
		return nil
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return ErrValidation
	}

	repoPatch := pgrepo.UserPatch{
		Name:   patch.Name,
		Height: patch.Height,
		Weight: patch.Weight,
	}

	if patch.Password != nil {
		if *patch.Password == "" {
			return ErrValidation
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		hashedStr := string(hashed)
		repoPatch.Password = &hashedStr
	}

	if err := s.users.UpdateProfile(ctx, userID, repoPatch); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("update profile: %w", err)
	}

	return nil
}
