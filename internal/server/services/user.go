package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/dmitrijs2005/timekeeper/internal/server/auth"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages accounts, authentication, and the preference mapping.
// Users referenced before registration are created lazily with the default
// preference bundle.
type UserService struct {
	users                       users.Repository
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewUserService(users users.Repository, jwtSecret []byte, accessTokenValidityDuration time.Duration) *UserService {
	return &UserService{
		users:                       users,
		jwtSecret:                   jwtSecret,
		accessTokenValidityDuration: accessTokenValidityDuration,
	}
}

// Register creates a user with the default preference bundle. The password
// is optional; an empty one leaves the account token-less (default-user
// mode).
func (s *UserService) Register(ctx context.Context, username string, email *string, password string) (*models.User, error) {
	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return nil, common.ErrDuplicateUsername
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	u := models.NewUser(username, email)
	u.Preferences = models.DefaultPreferences()
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}

	if err := s.users.Add(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies the credentials and issues an access token.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", err
	}
	if u.PasswordHash == "" {
		return "", common.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", common.ErrUnauthorized
	}

	return auth.GenerateToken(u.ID, s.jwtSecret, s.accessTokenValidityDuration)
}

// getOrCreate returns the user, lazily creating it with defaults when the id
// has never been seen.
func (s *UserService) getOrCreate(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	shortID := userID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	u = models.NewUser(fmt.Sprintf("User_%s", shortID), nil)
	u.ID = userID
	u.Preferences = models.DefaultPreferences()
	if err := s.users.Add(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// GetPreferences returns the user's preference mapping, creating the user
// with defaults on first access.
func (s *UserService) GetPreferences(ctx context.Context, userID string) (map[string]any, error) {
	u, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.Preferences, nil
}

// UpdatePreferences shallow-merges the given mapping into the user's
// preferences.
func (s *UserService) UpdatePreferences(ctx context.Context, userID string, prefs map[string]any) (*models.User, error) {
	u, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.UpdatePreferences(prefs)
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// SetDefaultProject records the project preselected for new entries.
func (s *UserService) SetDefaultProject(ctx context.Context, userID, projectID string) (*models.User, error) {
	return s.UpdatePreferences(ctx, userID, map[string]any{"default_project_id": projectID})
}

// ConfigureKeyboardShortcuts replaces the shortcut mapping.
func (s *UserService) ConfigureKeyboardShortcuts(ctx context.Context, userID string, shortcuts map[string]string) (*models.User, error) {
	return s.UpdatePreferences(ctx, userID, map[string]any{"keyboard_shortcuts": shortcuts})
}

// SetUIPreferences replaces the UI preference block.
func (s *UserService) SetUIPreferences(ctx context.Context, userID string, uiPrefs map[string]any) (*models.User, error) {
	return s.UpdatePreferences(ctx, userID, map[string]any{"ui_preferences": uiPrefs})
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}
