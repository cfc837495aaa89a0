package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"buildnchill-server/internal/dto"
	"buildnchill-server/internal/model"
	"buildnchill-server/internal/repository"
)

var (
	ErrUserExists      = errors.New("username is already taken")
	ErrInvalidUserName = errors.New("username must be 3-16 characters of letters, digits or underscore")
	ErrInvalidPassword = errors.New("invalid username/password pair")
	ErrWeakPassword    = errors.New("password must be at least 6 characters")
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrForbidden       = errors.New("admin privileges required")
)

// Minecraft name rules double as our account name rules.
var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,16}$`)

type Claims struct {
	UserID   string `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (string, error)
	Login(ctx context.Context, req *dto.LoginRequest) (string, error)
	ParseToken(token string) (*Claims, error)
	Profile(ctx context.Context, userID string) (*model.Profile, error)
	UpdatePassword(ctx context.Context, userID, newPassword string) error
	// AdminResetPassword is the privileged reset path; callers must already
	// have verified the admin role.
	AdminResetPassword(ctx context.Context, targetUserID, newPassword string) error
	ListProfiles(ctx context.Context) ([]model.Profile, error)
}

type authServiceImpl struct {
	profileRepo repository.ProfileRepository
	jwtSecret   []byte
	tokenTTL    time.Duration
	emailDomain string
}

func NewAuthService(profileRepo repository.ProfileRepository, jwtSecret string, tokenTTL time.Duration, emailDomain string) AuthService {
	return &authServiceImpl{
		profileRepo: profileRepo,
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    tokenTTL,
		emailDomain: emailDomain,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (string, error) {
	username := strings.TrimSpace(req.Username)
	if !usernameRe.MatchString(username) {
		return "", ErrInvalidUserName
	}
	if len(req.Password) < 6 {
		return "", ErrWeakPassword
	}

	exists, err := s.profileRepo.UsernameExists(ctx, username)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	profile := &model.Profile{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        strings.ToLower(username) + "@" + s.emailDomain,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return "", fmt.Errorf("create profile: %w", err)
	}

	return s.issueToken(profile)
}

func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (string, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return "", ErrInvalidPassword
	}

	profile, err := s.profileRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidPassword
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)) != nil {
		return "", ErrInvalidPassword
	}

	return s.issueToken(profile)
}

func (s *authServiceImpl) issueToken(profile *model.Profile) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   profile.ID,
		Username: profile.Username,
		Role:     profile.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *authServiceImpl) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authServiceImpl) Profile(ctx context.Context, userID string) (*model.Profile, error) {
	return s.profileRepo.FindByID(ctx, userID)
}

func (s *authServiceImpl) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.profileRepo.SetPasswordHash(ctx, userID, string(hash))
}

func (s *authServiceImpl) AdminResetPassword(ctx context.Context, targetUserID, newPassword string) error {
	return s.UpdatePassword(ctx, targetUserID, newPassword)
}

func (s *authServiceImpl) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	return s.profileRepo.List(ctx)
}
