package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"cosmeticpos-backend/internal/authz"
	"cosmeticpos-backend/internal/config"
	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/metrics"
	"cosmeticpos-backend/internal/repository"
)

const (
	minPasswordLength    = 6
	SuperuserUsername    = "superadmin"
	devSuperuserPassword = "admin123"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type AuthService struct {
	Deps
	Config config.Config
}

type AuthResult struct {
	AccessToken string
	User        domain.User
	ExpiresAt   time.Time
}

type LoginInput struct {
	Username string
	Password string
}

// Login checks the password of an active user and issues an access token.
func (s AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.Repos.Users.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.RecordLogin("unknown_user")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Deleted() || !user.Active || user.PasswordHash == "" {
		metrics.RecordLogin("inactive")
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		metrics.RecordLogin("bad_password")
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	user.LastLoginAt = &now
	if err := s.Repos.Users.Save(ctx, user); err != nil {
		return nil, err
	}
	metrics.RecordLogin("ok")
	s.log().Info("user logged in", "username", user.Username, "role", user.Role)
	s.audit(ctx, user, domain.LogInfo, "Login", fmt.Sprintf("%s signed in", user.Username))
	return s.issueToken(user)
}

// ParseToken validates an access token and returns its subject.
func (s AuthService) ParseToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.Config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["token_type"] != "access" {
		return "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

// CurrentUser reloads the acting user so permission edits apply at once.
func (s AuthService) CurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.Repos.Users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if user.Deleted() || !user.Active {
		return nil, ErrInvalidToken
	}
	return user, nil
}

func (s AuthService) ChangePassword(ctx context.Context, actor *domain.User, current, next string) error {
	if actor == nil {
		return ErrInvalidToken
	}
	if err := bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	updated, err := s.Repos.Users.Update(ctx, actor.ID, func(u *domain.User) error {
		u.PasswordHash = hash
		return nil
	})
	if err != nil {
		return err
	}
	if updated == nil {
		return ErrNotFound
	}
	s.audit(ctx, actor, domain.LogInfo, "Password changed", actor.Username)
	return nil
}

// EnsureSuperuser seeds the first SUPERUSER when there are no users at all.
func (s AuthService) EnsureSuperuser(ctx context.Context, password string) (*domain.User, error) {
	n, err := s.Repos.Users.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, nil
	}
	if password == "" {
		password = devSuperuserPassword
		s.log().Warn("SEED_ADMIN_PASSWORD not set, using development password", "username", SuperuserUsername)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user, err := s.Repos.Users.Create(ctx, &domain.User{
		Username:     SuperuserUsername,
		PasswordHash: hash,
		FullName:     "Super Administrator",
		Role:         domain.RoleSuperuser,
		Location:     domain.LocationColombia,
		Active:       true,
		Permissions:  authz.DefaultPermissions(domain.RoleSuperuser),
	})
	if err != nil {
		return nil, err
	}
	s.log().Info("superuser created", "username", user.Username)
	return user, nil
}

// HashPassword bcrypt-hashes a password after the length check.
func HashPassword(password string) (string, error) {
	if len(strings.TrimSpace(password)) < minPasswordLength {
		return "", invalid("password", "must have at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s AuthService) issueToken(user *domain.User) (*AuthResult, error) {
	now := time.Now()
	exp := now.Add(s.Config.AccessTokenTTL)

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        user.ID,
		"username":   user.Username,
		"role":       user.Role,
		"token_type": "access",
		"exp":        exp.Unix(),
		"iat":        now.Unix(),
	}).SignedString([]byte(s.Config.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		AccessToken: access,
		User:        *user,
		ExpiresAt:   exp,
	}, nil
}
