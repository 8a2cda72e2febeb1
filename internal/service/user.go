package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/restaurant/internal/events"
	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/pkg/hash"
	"github.com/Skotchmaster/restaurant/pkg/logging"
	"github.com/Skotchmaster/restaurant/pkg/tokens"
)

const minPasswordLen = 6

type UserService struct {
	Repo   *repo.GormRepo
	Events events.Publisher

	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	// AllowAdminSignup lets POST /users create admin accounts.
	AllowAdminSignup bool
}

type LoginResult struct {
	User   transport.UserDTO
	Tokens tokens.Pair
}

func (s *UserService) Register(ctx context.Context, req transport.RegisterRequest) (*transport.UserDTO, error) {
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if role == models.RoleAdmin && !s.AllowAdminSignup {
		return nil, fmt.Errorf("%w: admin accounts cannot self-register", ErrValidation)
	}
	return s.create(ctx, req.Name, req.Email, req.Password, role)
}

// EnsureAdmin creates the bootstrap admin account unless the email is already registered.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	taken, err := s.Repo.EmailTaken(ctx, normalizeEmail(email))
	if err != nil || taken {
		return err
	}
	_, err = s.create(ctx, name, email, password, models.RoleAdmin)
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) create(ctx context.Context, name, email, password, role string) (*transport.UserDTO, error) {
	l := logging.FromContext(ctx).With("svc", "user.register")

	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if err := transport.ValidateVar(email, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters long", ErrValidation, minPasswordLen)
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: role must be 'user' or 'admin'", ErrValidation)
	}

	taken, err := s.Repo.EmailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: email already registered", ErrAlreadyExists)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Errorw("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		return nil, duplicate(err, "email already registered")
	}

	publish(ctx, s.Events, events.TopicUsers, user.ID.String(), events.Event{
		Type:   "user_registered",
		ID:     user.ID.String(),
		UserID: user.ID.String(),
		Data:   map[string]any{"role": user.Role},
	})

	l.Infow("register_success", "user_id", user.ID)
	dto := transport.ToUserDTO(&user)
	return &dto, nil
}

func (s *UserService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return 15 * time.Minute
}

func (s *UserService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return 7 * 24 * time.Hour
}

func (s *UserService) issue(user *models.User) (*tokens.Pair, *models.RefreshToken, error) {
	now := time.Now()
	accessExp := now.Add(s.accessTTL())
	refreshExp := now.Add(s.refreshTTL())

	access, err := tokens.SignAccessToken(user.ID.String(), user.Role, accessExp, s.AccessSecret)
	if err != nil {
		return nil, nil, err
	}
	refresh, jti, err := tokens.SignRefreshToken(user.ID.String(), refreshExp, s.RefreshSecret)
	if err != nil {
		return nil, nil, err
	}

	return &tokens.Pair{
			AccessToken:  access,
			RefreshToken: refresh,
			AccessExp:    accessExp,
			RefreshExp:   refreshExp,
		}, &models.RefreshToken{
			Token:     tokens.Sha256Hex(refresh),
			UserID:    user.ID,
			JTI:       jti,
			ExpiresAt: refreshExp.Unix(),
		}, nil
}

func (s *UserService) Login(ctx context.Context, req transport.LoginRequest) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "user.login")

	user, err := s.Repo.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warnw("login_failed", "user_id", user.ID, "reason", "bad password")
		return nil, ErrInvalidCredentials
	}

	pair, rt, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SaveRefreshToken(ctx, rt); err != nil {
		return nil, err
	}

	l.Infow("login_success", "user_id", user.ID)
	return &LoginResult{User: transport.ToUserDTO(user), Tokens: *pair}, nil
}

// Refresh rotates a refresh token. The presented token is revoked whether or not
// the caller ever uses the new pair.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*tokens.Pair, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	stored, err := s.Repo.FindRefreshByJTI(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if stored.Token != tokens.Sha256Hex(refreshToken) {
		return nil, ErrInvalidCredentials
	}

	user, err := s.Repo.GetUserByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	pair, rt, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, rt); err != nil {
		if errors.Is(err, repo.ErrTokenRevoked) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return pair, nil
}

func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	return s.Repo.RevokeRefreshToken(ctx, tokens.Sha256Hex(refreshToken))
}

func (s *UserService) GetUser(ctx context.Context, rawID string) (*transport.UserDTO, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}
	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user not found")
	}
	dto := transport.ToUserDTO(user)
	return &dto, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]transport.UserDTO, error) {
	users, err := s.Repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return transport.ToUserDTOs(users), nil
}
