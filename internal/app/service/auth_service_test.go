package service

import (
	"testing"
	"time"

	"github.com/ryanwills/accounts-backend/internal/app/repository"
	"github.com/ryanwills/accounts-backend/internal/db"
	"github.com/ryanwills/accounts-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret"

func setupAuthServiceTest(t *testing.T) (AuthService, repository.UserRepository) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	authService := NewAuthService(userRepo, testJWTSecret, time.Hour)

	return authService, userRepo
}

func TestAuthService_Register(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	tests := []struct {
		name     string
		email    string
		password string
		userName string
		wantErr  error
	}{
		{
			name:     "Valid registration",
			email:    "test@example.com",
			password: "password123",
			userName: "Test User",
			wantErr:  nil,
		},
		{
			name:     "Duplicate email",
			email:    "test@example.com",
			password: "password456",
			userName: "Another User",
			wantErr:  ErrEmailAlreadyExists,
		},
		{
			name:     "Duplicate email with different casing and whitespace",
			email:    "  TEST@Example.com ",
			password: "password456",
			userName: "Another User",
			wantErr:  ErrEmailAlreadyExists,
		},
		{
			name:     "Password too short",
			email:    "short@example.com",
			password: "12345",
			userName: "Short",
			wantErr:  ErrPasswordTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, token, err := authService.Register(tt.email, tt.password, tt.userName)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, "test@example.com", user.Email)
				assert.Equal(t, tt.userName, user.Name)
				assert.NotEmpty(t, token)
				assert.NotEqual(t, tt.password, user.PasswordHash)
			}
		})
	}
}

func TestAuthService_RegisterNormalizesEmail(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	user, _, err := authService.Register("  User@EXAMPLE.Com ", "password123", "Test User")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", user.Email)
}

func TestAuthService_Login(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	email := "test@example.com"
	password := "password123"
	_, _, err := authService.Register(email, password, "Test User")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "Valid login",
			email:    email,
			password: password,
			wantErr:  nil,
		},
		{
			name:     "Different casing still logs in",
			email:    "TEST@Example.COM",
			password: password,
			wantErr:  nil,
		},
		{
			name:     "Wrong password",
			email:    email,
			password: "wrongpassword",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "Non-existing user",
			email:    "notfound@example.com",
			password: password,
			wantErr:  ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, token, err := authService.Login(tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.NotEmpty(t, token)
			}
		})
	}
}

func TestAuthService_LoginTokenResolvesToUser(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	registered, _, err := authService.Register("test@example.com", "password123", "Test User")
	require.NoError(t, err)

	_, token, err := authService.Login("test@example.com", "password123")
	require.NoError(t, err)

	claims, err := util.ValidateToken(token, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, registered.Email, claims.Email)
}

func TestAuthService_GetUserByID(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	user, _, err := authService.Register("test@example.com", "password123", "Test User")
	require.NoError(t, err)

	found, err := authService.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, found.Email)

	_, err = authService.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	user, _, err := authService.Register("test@example.com", "password123", "Test User")
	require.NoError(t, err)
	other, _, err := authService.Register("other@example.com", "password123", "Other User")
	require.NoError(t, err)

	tests := []struct {
		name     string
		userID   uint
		newName  string
		newEmail string
		wantErr  error
	}{
		{
			name:    "Update name",
			userID:  user.ID,
			newName: "Renamed User",
		},
		{
			name:    "Name too short",
			userID:  user.ID,
			newName: "x",
			wantErr: ErrNameTooShort,
		},
		{
			name:     "Update email",
			userID:   user.ID,
			newEmail: "fresh@example.com",
		},
		{
			name:     "Email taken by another user",
			userID:   user.ID,
			newEmail: other.Email,
			wantErr:  ErrEmailAlreadyExists,
		},
		{
			name:     "Own email is not a conflict",
			userID:   user.ID,
			newEmail: "fresh@example.com",
		},
		{
			name:     "Invalid email shape",
			userID:   user.ID,
			newEmail: "not-an-email",
			wantErr:  ErrInvalidEmail,
		},
		{
			name:    "Unknown user",
			userID:  9999,
			newName: "Whoever",
			wantErr: ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := authService.UpdateProfile(tt.userID, tt.newName, tt.newEmail)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				if tt.newName != "" {
					assert.Equal(t, tt.newName, updated.Name)
				}
				if tt.newEmail != "" {
					assert.Equal(t, tt.newEmail, updated.Email)
				}
			}
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	user, _, err := authService.Register("test@example.com", "password123", "Test User")
	require.NoError(t, err)

	// Wrong current password
	err = authService.ChangePassword(user.ID, "wrongpassword", "newpassword1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// New password too short
	err = authService.ChangePassword(user.ID, "password123", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	// Success
	err = authService.ChangePassword(user.ID, "password123", "newpassword1")
	require.NoError(t, err)

	// Old password no longer works, new one does
	_, _, err = authService.Login("test@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = authService.Login("test@example.com", "newpassword1")
	assert.NoError(t, err)
}

func TestAuthService_DeleteAccount(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	user, _, err := authService.Register("test@example.com", "password123", "Test User")
	require.NoError(t, err)

	require.NoError(t, authService.DeleteAccount(user.ID))

	_, err = authService.GetUserByID(user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	// Deleting again reports the absence
	err = authService.DeleteAccount(user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
