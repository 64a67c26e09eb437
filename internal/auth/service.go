package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/avp818/coach-hub/internal/config"
	"github.com/avp818/coach-hub/internal/storage"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrNameRequired       = errors.New("name is required")
	ErrCodeRequired       = errors.New("invite code is required")
)

// Storage is the subset of storage the auth service needs.
type Storage interface {
	storage.AccountsStorage
	GetTrainerByUserID(ctx context.Context, userID uuid.UUID) (storage.Trainer, bool, error)
	GetClientByUserID(ctx context.Context, userID uuid.UUID) (storage.Client, bool, error)
}

// Service handles registration, login and token verification.
type Service struct {
	config  *config.Config
	storage Storage
}

func NewService(cfg *config.Config, storage Storage) *Service {
	return &Service{
		config:  cfg,
		storage: storage,
	}
}

// RegisterTrainer creates a trainer account and returns an access token.
func (s *Service) RegisterTrainer(ctx context.Context, req RegisterTrainerRequest) (*AuthResponse, error) {
	acc, err := s.validateAccount(req.Email, req.Password, req.Name)
	if err != nil {
		return nil, err
	}

	user, trainer, err := s.storage.CreateTrainerAccount(ctx, acc)
	if err != nil {
		return nil, err
	}

	return s.authResponse(user, trainer.ID)
}

// RegisterClient creates a client account paired to the trainer who issued
// the invite code. Account creation and code redemption happen in one
// storage transaction, so a dead code leaves no account behind.
func (s *Service) RegisterClient(ctx context.Context, req RegisterClientRequest) (*AuthResponse, error) {
	acc, err := s.validateAccount(req.Email, req.Password, req.Name)
	if err != nil {
		return nil, err
	}

	code := strings.TrimSpace(req.InviteCode)
	if code == "" {
		return nil, ErrCodeRequired
	}

	user, client, _, err := s.storage.CreateClientAccount(ctx, acc, code, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	return s.authResponse(user, client.ID)
}

// Login verifies the credentials and returns an access token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)
	user, found, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !found {
		// Burn a bcrypt comparison anyway so the timing does not reveal
		// whether the email exists.
		bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000000000000000000000000000000000"), []byte(req.Password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	profileID, err := s.profileID(ctx, user)
	if err != nil {
		return nil, err
	}

	return s.authResponse(user, profileID)
}

func (s *Service) validateAccount(email, password, name string) (storage.NewAccount, error) {
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") || len(email) < 3 {
		return storage.NewAccount{}, ErrInvalidEmail
	}
	if len(password) < 8 {
		return storage.NewAccount{}, ErrWeakPassword
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return storage.NewAccount{}, ErrNameRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return storage.NewAccount{}, fmt.Errorf("hash password: %w", err)
	}

	return storage.NewAccount{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
	}, nil
}

func (s *Service) profileID(ctx context.Context, user storage.User) (uuid.UUID, error) {
	switch user.Role {
	case storage.RoleTrainer:
		trainer, found, err := s.storage.GetTrainerByUserID(ctx, user.ID)
		if err != nil {
			return uuid.Nil, err
		}
		if !found {
			return uuid.Nil, fmt.Errorf("trainer profile missing for user %s", user.ID)
		}
		return trainer.ID, nil
	default:
		client, found, err := s.storage.GetClientByUserID(ctx, user.ID)
		if err != nil {
			return uuid.Nil, err
		}
		if !found {
			return uuid.Nil, fmt.Errorf("client profile missing for user %s", user.ID)
		}
		return client.ID, nil
	}
}

func (s *Service) authResponse(user storage.User, profileID uuid.UUID) (*AuthResponse, error) {
	ttl := time.Duration(s.config.JWTTTLMinutes) * time.Minute
	accessToken, err := s.generateJWT(user, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to generate JWT: %w", err)
	}

	return &AuthResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(ttl.Seconds()),
		UserID:      user.ID,
		Role:        user.Role,
		ProfileID:   profileID,
	}, nil
}

func (s *Service) generateJWT(user storage.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"iss":  s.config.JWTIssuer,
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// VerifyJWT validates the token and returns the user id and role claims.
func (s *Service) VerifyJWT(tokenString string) (string, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return "", "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", "", ErrInvalidToken
	}
	role, _ := claims["role"].(string)

	return sub, role, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
