package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/moviebook/moviebook/internal/config"
	"github.com/moviebook/moviebook/internal/model"
	"github.com/moviebook/moviebook/internal/utils"
)

// UserStore is the subset of repository.UserRepo the auth service needs.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash, displayName string) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// SessionStore is the subset of repository.SessionRepo the auth service needs.
type SessionStore interface {
	Store(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	Resolve(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// AuthService manages accounts and login sessions. A session is an
// opaque random token stored hashed with an expiry; a short-lived JWT
// access token is derived from it at login and on refresh so request
// authentication does not hit the database on every call.
type AuthService struct {
	Users           UserStore
	Sessions        SessionStore
	JWTSecret       string
	AccessTTLMin    int
	SessionTTLHours int
	BcryptCost      int
}

// NewAuthService wires an AuthService from configuration and stores.
func NewAuthService(cfg config.Config, users UserStore, sessions SessionStore) *AuthService {
	return &AuthService{
		Users:           users,
		Sessions:        sessions,
		JWTSecret:       cfg.JWTSecret,
		AccessTTLMin:    cfg.AccessTTLMin,
		SessionTTLHours: cfg.SessionTTLHours,
		BcryptCost:      cfg.BcryptCost,
	}
}

// LoginResult carries everything a successful login or registration
// hands back to the web layer.
type LoginResult struct {
	User    model.User
	Session utils.SessionToken
	Access  utils.AccessToken
}

// Register creates a user with a bcrypt-hashed credential and returns
// its ID. The plaintext password is never persisted or logged. It
// returns repository.ErrEmailExists for a taken email and
// ErrWeakPassword when the password fails the minimum policy.
func (s *AuthService) Register(ctx context.Context, email, password, displayName string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = email
	}
	if len(password) < 8 {
		return 0, ErrWeakPassword
	}
	hash, err := utils.HashPassword(password, s.BcryptCost)
	if err != nil {
		return 0, err
	}
	return s.Users.Create(ctx, email, hash, displayName)
}

// Login verifies the credentials and establishes a new session. An
// unknown email and a wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return LoginResult{}, ErrInvalidCredentials
	}
	sess, err := utils.NewSessionToken(s.SessionTTLHours)
	if err != nil {
		return LoginResult{}, err
	}
	if err := s.Sessions.Store(ctx, u.ID, utils.HashSessionRaw(sess.Raw), sess.Exp); err != nil {
		return LoginResult{}, err
	}
	access, err := utils.NewAccessToken(s.JWTSecret, u.ID, s.AccessTTLMin)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{User: u, Session: sess, Access: access}, nil
}

// Logout revokes the session identified by the raw token. It is
// idempotent: revoking an unknown, expired or already-revoked token
// succeeds with no further effect.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil
	}
	return s.Sessions.RevokeByHash(ctx, utils.HashSessionRaw(rawToken))
}

// LogoutAll revokes every active session of the user (logout across
// devices).
func (s *AuthService) LogoutAll(ctx context.Context, userID uint64) error {
	return s.Sessions.RevokeAllForUser(ctx, userID)
}

// CurrentUser resolves a raw session token to the owning user ID.
// A missing, expired or revoked session returns (0, false); that is a
// normal outcome the caller must branch on, never an error.
func (s *AuthService) CurrentUser(ctx context.Context, rawToken string) (uint64, bool, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return 0, false, nil
	}
	uid, err := s.Sessions.Resolve(ctx, utils.HashSessionRaw(rawToken))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return uid, true, nil
}

// Refresh derives a fresh access token from a live session without
// rotating the session itself.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (utils.AccessToken, error) {
	uid, ok, err := s.CurrentUser(ctx, rawToken)
	if err != nil {
		return utils.AccessToken{}, err
	}
	if !ok {
		return utils.AccessToken{}, ErrInvalidCredentials
	}
	return utils.NewAccessToken(s.JWTSecret, uid, s.AccessTTLMin)
}
