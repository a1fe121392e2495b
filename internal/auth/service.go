package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/carepulse/booking-platform/internal/users"
	"github.com/carepulse/booking-platform/pkg/logging"
)

var (
	// ErrInvalidCredentials is returned on sign-in with an unknown email or
	// a wrong password. Deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrWeakPassword is returned when the sign-up password is too short
	ErrWeakPassword = errors.New("password must be at least 8 characters")
)

// Claims are the JWT claims carried by a session token.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// SignUpRequest carries raw sign-up credentials plus the profile fields
// mapped onto the new user record.
type SignUpRequest struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// Service maps credentials to user records and issues session tokens.
type Service struct {
	users      users.Repository
	store      TokenStore
	secret     []byte
	ttl        time.Duration
	bcryptCost int
	logger     *logging.Logger
}

// NewService constructs an auth service. store may be nil, in which case
// sign-out cannot revoke tokens early and sessions last until expiry.
func NewService(repo users.Repository, store TokenStore, secret string, ttl time.Duration, bcryptCost int, logger *logging.Logger) *Service {
	if repo == nil {
		panic("auth: users repository required")
	}
	if secret == "" {
		panic("auth: jwt secret required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		users:      repo,
		store:      store,
		secret:     []byte(secret),
		ttl:        ttl,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// SignUp creates a user record from the credential profile and issues a
// session token for it.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*users.User, string, error) {
	if len(req.Password) < 8 {
		return nil, "", ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user, err := s.users.Create(ctx, &users.CreateUserRequest{
		Name:         strings.TrimSpace(req.Name),
		Role:         strings.TrimSpace(req.Role),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user signed up", "user_id", user.ID, "role", user.Role)
	return user, token, nil
}

// SignIn verifies credentials and issues a session token.
func (s *Service) SignIn(ctx context.Context, email, password string) (*users.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user signed in", "user_id", user.ID)
	return user, token, nil
}

// SignOut revokes the session identified by tokenID.
func (s *Service) SignOut(ctx context.Context, tokenID string) error {
	if s.store == nil {
		s.logger.Warn("sign-out without session store, token remains valid until expiry", "token_id", tokenID)
		return nil
	}
	return s.store.Revoke(ctx, tokenID)
}

// CurrentUser resolves the user record for an authenticated user id.
// Returns (nil, nil) when the record no longer exists.
func (s *Service) CurrentUser(ctx context.Context, userID string) (*users.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Service) issueToken(ctx context.Context, user *users.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Role: user.Role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}

	if s.store != nil {
		if err := s.store.Save(ctx, claims.ID, user.ID, s.ttl); err != nil {
			return "", err
		}
	}
	return token, nil
}
