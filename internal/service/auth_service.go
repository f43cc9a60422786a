package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lshigami/examprep/config"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenIssuer = "examprep"

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, userID uint) (*dto.UserDTO, error)
	// ParseToken validates a bearer token and returns its claims.
	ParseToken(token string) (*Claims, error)
}

type authService struct {
	userRepo repository.UserRepository
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	if cfg.Auth.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set, tokens are signed with an empty key")
	}
	ttl := cfg.Auth.TokenTTL
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &authService{
		userRepo: userRepo,
		secret:   []byte(cfg.Auth.JWTSecret),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, newError(CodeConflict, "email already registered", nil)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, dbError(err, "")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, newError(CodeInternal, "failed to hash password", err)
	}
	user := &model.User{
		Email:        email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         model.RoleStudent,
		Locale:       strings.ToLower(req.Locale),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		log.Error().Err(err).Str("email", email).Msg("Register: failed to create user")
		return nil, dbError(err, "")
	}
	return s.respond(user)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(CodeUnauthenticated, "invalid email or password", nil)
		}
		return nil, dbError(err, "")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, newError(CodeUnauthenticated, "invalid email or password", nil)
	}
	return s.respond(user)
}

func (s *authService) Me(ctx context.Context, userID uint) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(CodeUnauthenticated, "user not found", err)
		}
		return nil, dbError(err, "")
	}
	out := toUserDTO(user)
	return &out, nil
}

func (s *authService) ParseToken(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, newError(CodeUnauthenticated, "invalid token", err)
	}
	if claims.UserID == 0 {
		return nil, newError(CodeUnauthenticated, "token has no user", nil)
	}
	return claims, nil
}

func (s *authService) issue(user *model.User) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *authService) respond(user *model.User) (*dto.AuthResponse, error) {
	token, err := s.issue(user)
	if err != nil {
		return nil, newError(CodeInternal, "failed to sign token", err)
	}
	return &dto.AuthResponse{Token: token, User: toUserDTO(user)}, nil
}

func toUserDTO(u *model.User) dto.UserDTO {
	return dto.UserDTO{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, Locale: u.Locale}
}
