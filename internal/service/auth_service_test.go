package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartbhoomi/smartbhoomi-api/internal/models"
	"github.com/smartbhoomi/smartbhoomi-api/internal/utils"
)

func TestSignUp(t *testing.T) {
	utils.InitJWT("test-secret")
	env := newTestEnv()
	ctx := context.Background()

	profile, err := env.auth.SignUp(ctx, "ravi@example.com", "secret123", "Ravi Kumar",
		models.RoleFarmer, "Nashik, Maharashtra", "123456789012")
	require.NoError(t, err)

	assert.NotEmpty(t, profile.ID)
	assert.Equal(t, models.RoleFarmer, profile.UserType)
	assert.True(t, profile.Verified) // auto-verified with Aadhaar

	// Profile is readable back.
	stored, err := env.auth.GetProfile(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", stored.Name)
	assert.Equal(t, "123456789012", stored.AadhaarNumber)

	// Credentials live outside the profile keyspace.
	creds, err := env.profileRepo.GetCredentials(ctx, "ravi@example.com")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, creds.UserID)
	assert.NotEqual(t, "secret123", creds.PasswordHash)
}

func TestSignUpValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// Aadhaar must be exactly 12 digits.
	_, err := env.auth.SignUp(ctx, "a@example.com", "secret123", "A", models.RoleFarmer, "Nashik", "12345")
	assert.ErrorIs(t, err, utils.ErrInvalidAadhaar)
	_, err = env.auth.SignUp(ctx, "a@example.com", "secret123", "A", models.RoleFarmer, "Nashik", "12345678901a")
	assert.ErrorIs(t, err, utils.ErrInvalidAadhaar)

	// Unknown role.
	_, err = env.auth.SignUp(ctx, "a@example.com", "secret123", "A", "broker", "Nashik", "123456789012")
	assert.ErrorIs(t, err, utils.ErrInvalidRole)

	// Duplicate Aadhaar across all profiles.
	_, err = env.auth.SignUp(ctx, "first@example.com", "secret123", "First", models.RoleFarmer, "Nashik", "123456789012")
	require.NoError(t, err)
	_, err = env.auth.SignUp(ctx, "second@example.com", "secret123", "Second", models.RoleConsumer, "Pune", "123456789012")
	assert.ErrorIs(t, err, utils.ErrDuplicateAadhaar)

	// Duplicate email.
	_, err = env.auth.SignUp(ctx, "first@example.com", "secret123", "Again", models.RoleConsumer, "Pune", "210987654321")
	assert.ErrorIs(t, err, utils.ErrDuplicateEmail)
}

func TestSignIn(t *testing.T) {
	utils.InitJWT("test-secret")
	env := newTestEnv()
	ctx := context.Background()

	profile, err := env.auth.SignUp(ctx, "ravi@example.com", "secret123", "Ravi Kumar",
		models.RoleFarmer, "Nashik", "123456789012")
	require.NoError(t, err)

	token, signedIn, err := env.auth.SignIn(ctx, "ravi@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, signedIn.ID)

	claims, err := utils.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, claims.UserID)
	assert.Equal(t, "ravi@example.com", claims.Email)

	// Wrong password and unknown email both fail the same way.
	_, _, err = env.auth.SignIn(ctx, "ravi@example.com", "wrong")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
	_, _, err = env.auth.SignIn(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}
