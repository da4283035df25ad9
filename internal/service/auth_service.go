package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartbhoomi/smartbhoomi-api/internal/models"
	"github.com/smartbhoomi/smartbhoomi-api/internal/repository"
	"github.com/smartbhoomi/smartbhoomi-api/internal/utils"
)

var aadhaarPattern = regexp.MustCompile(`^\d{12}$`)

// AuthService is the identity provider: it issues access tokens on sign-in
// and owns credentials, while profile data lives in the profile store.
type AuthService struct {
	profileRepo *repository.ProfileRepository
}

// NewAuthService constructs a new AuthService.
func NewAuthService(profileRepo *repository.ProfileRepository) *AuthService {
	return &AuthService{profileRepo: profileRepo}
}

// SignUp registers a new user: validates the Aadhaar number, enforces its
// uniqueness with a full profile scan (the store has no indexes), then writes
// credentials and the auto-verified profile.
func (s *AuthService) SignUp(ctx context.Context, email, password, name string, role models.Role, location, aadhaarNumber string) (*models.UserProfile, error) {
	if !aadhaarPattern.MatchString(aadhaarNumber) {
		return nil, utils.ErrInvalidAadhaar
	}
	if !role.Valid() {
		return nil, utils.ErrInvalidRole
	}

	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if profiles[i].AadhaarNumber == aadhaarNumber {
			return nil, utils.ErrDuplicateAadhaar
		}
	}

	if _, err := s.profileRepo.GetCredentials(ctx, email); err == nil {
		return nil, utils.ErrDuplicateEmail
	} else if !errors.Is(err, utils.ErrKeyNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	userID := uuid.New().String()

	creds := &models.Credentials{
		UserID:       userID,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	if err := s.profileRepo.SaveCredentials(ctx, creds); err != nil {
		return nil, err
	}

	profile := &models.UserProfile{
		ID:            userID,
		Email:         email,
		Name:          name,
		UserType:      role,
		Location:      location,
		AadhaarNumber: aadhaarNumber,
		Verified:      true, // auto-verified with Aadhaar
		CreatedAt:     now,
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", userID).Str("role", string(role)).Msg("user registered")
	return profile, nil
}

// SignIn verifies credentials and issues an access token.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, *models.UserProfile, error) {
	creds, err := s.profileRepo.GetCredentials(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrKeyNotFound) {
			return "", nil, utils.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("password verification failed")
		return "", nil, utils.ErrInvalidCredentials
	}

	profile, err := s.profileRepo.Get(ctx, creds.UserID)
	if err != nil {
		if errors.Is(err, utils.ErrKeyNotFound) {
			return "", nil, utils.ErrProfileNotFound
		}
		return "", nil, err
	}

	token, err := utils.GenerateJWT(creds.UserID, creds.Email)
	if err != nil {
		return "", nil, err
	}

	log.Info().Str("user_id", creds.UserID).Msg("sign-in successful")
	return token, profile, nil
}

// GetProfile returns the profile for an authenticated identity.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.profileRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrKeyNotFound) {
			return nil, utils.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}
