package repository

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/smartbhoomi/smartbhoomi-api/internal/models"
)

// ProfileRepository persists user profiles and auth credentials in the KV
// store. Profiles live under user_{id}; credentials under auth_{email},
// keeping identity data separate from domain data.
type ProfileRepository struct {
	store Store
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(store Store) *ProfileRepository {
	return &ProfileRepository{store: store}
}

// Save persists a profile.
func (r *ProfileRepository) Save(ctx context.Context, profile *models.UserProfile) error {
	return r.store.Set(ctx, keyUser+profile.ID, profile)
}

// Get returns the profile for an identity, or utils.ErrKeyNotFound.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.store.Get(ctx, keyUser+userID, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// List returns every stored profile. The store has no secondary indexes, so
// uniqueness checks and analytics run over this full scan.
func (r *ProfileRepository) List(ctx context.Context) ([]models.UserProfile, error) {
	raws, err := r.store.GetByPrefix(ctx, keyUser)
	if err != nil {
		return nil, err
	}

	profiles := make([]models.UserProfile, 0, len(raws))
	for _, raw := range raws {
		var p models.UserProfile
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// SaveCredentials persists an auth record keyed by lowercased email.
func (r *ProfileRepository) SaveCredentials(ctx context.Context, creds *models.Credentials) error {
	return r.store.Set(ctx, keyAuth+strings.ToLower(creds.Email), creds)
}

// GetCredentials looks up the auth record for an email.
func (r *ProfileRepository) GetCredentials(ctx context.Context, email string) (*models.Credentials, error) {
	var creds models.Credentials
	if err := r.store.Get(ctx, keyAuth+strings.ToLower(email), &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}
