package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/user"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/logging"
)

var (
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Service struct {
	Users     user.Repository
	JWTSecret []byte
	TokenTTL  time.Duration
	Logger    logging.Logger
}

func (s *Service) SignUp(name, email, password string) (*user.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, errors.New("name, email and password are required")
	}

	if existing, err := s.Users.FindByEmail(email); err == nil && existing != nil {
		return nil, ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.Users.Save(u); err != nil {
		return nil, err
	}

	s.Logger.Info("user registered", map[string]any{"user-id": u.ID})
	return u, nil
}

func (s *Service) Login(email, password string) (string, *user.User, error) {
	u, err := s.Users.FindByEmail(email)
	if err != nil || u == nil {
		return "", nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	ttl := s.TokenTTL
	if ttl == 0 {
		ttl = time.Hour
	}

	claims := jwt.RegisteredClaims{
		Subject:   u.ID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.JWTSecret)
	if err != nil {
		return "", nil, err
	}

	return token, u, nil
}

func (s *Service) CurrentUser(id string) (*user.User, error) {
	return s.Users.FindByID(id)
}

// UpsertGoogleUser finds or creates the account bound to a Google profile.
func (s *Service) UpsertGoogleUser(googleID, name, email string) (*user.User, error) {
	if u, err := s.Users.FindByGoogleID(googleID); err == nil && u != nil {
		return u, nil
	}

	u := &user.User{
		ID:        uuid.NewString(),
		GoogleID:  googleID,
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.Users.Save(u); err != nil {
		return nil, err
	}

	s.Logger.Info("google user registered", map[string]any{"user-id": u.ID})
	return u, nil
}
