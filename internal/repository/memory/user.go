package memory

import (
	"context"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/user"
	"github.com/google/uuid"
)

type userRepositoryImpl struct {
	s *Store
}

func NewUserRepository(s *Store) user.UserRepository {
	return &userRepositoryImpl{s: s}
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	defer r.s.lock(ctx)()

	for _, existing := range r.s.users {
		if existing.Username == newUser.Username {
			return user.User{}, user.ErrUsernameExists
		}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return user.User{}, err
	}
	now := r.s.now()
	newUser.ID = id.String()
	newUser.CreatedAt = now
	newUser.UpdatedAt = now
	r.s.users[newUser.ID] = newUser
	return newUser, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	defer r.s.lock(ctx)()

	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

// GetByUsername implements user.UserRepository.
func (r *userRepositoryImpl) GetByUsername(ctx context.Context, username string) (user.User, error) {
	defer r.s.lock(ctx)()

	for _, u := range r.s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}
