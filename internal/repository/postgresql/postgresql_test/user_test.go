package postgresql_test

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/user"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(testDB)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	created, err := repo.Create(ctx, user.User{
		Username:     "supervisor",
		PasswordHash: string(hash),
		Role:         user.RoleAdmin,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, user.RoleAdmin, created.Role)

	byName, err := repo.GetByUsername(ctx, "supervisor")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(byName.PasswordHash), []byte("password123")))

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "supervisor", byID.Username)
}

func TestUserRepository_Errors(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(testDB)

	_, err := repo.Create(ctx, user.User{Username: "dup", PasswordHash: "x", Role: user.RoleStaff})
	require.NoError(t, err)

	_, err = repo.Create(ctx, user.User{Username: "dup", PasswordHash: "y", Role: user.RoleStaff})
	assert.ErrorIs(t, err, user.ErrUsernameExists)

	_, err = repo.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
