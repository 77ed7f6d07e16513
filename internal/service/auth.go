package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/templui/datanexus/internal/apperr"
	"github.com/templui/datanexus/internal/config"
	"github.com/templui/datanexus/internal/model"
	"github.com/templui/datanexus/internal/repository"
	"github.com/templui/datanexus/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer creates and checks bearer credentials.
type TokenIssuer interface {
	Issue(user *model.User) (string, error)
	Verify(token string) (*model.PublicUser, error)
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthService struct {
	userRepository repository.UserRepository
	tokens         TokenIssuer
}

func NewAuthService(userRepository repository.UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		tokens:         tokens,
	}
}

// NewTokenIssuer returns the issuer for the configured strategy.
func NewTokenIssuer(strategy, jwtSecret string, jwtExpiry time.Duration) TokenIssuer {
	if strategy == config.AuthStrategyOpaque {
		return &OpaqueTokens{}
	}
	return &JWTTokens{secret: []byte(jwtSecret), expiry: jwtExpiry, now: time.Now}
}

// Login checks the credentials against the user list and issues a token.
// Usernames match case-insensitively after trimming.
func (s *AuthService) Login(req *LoginRequest) (string, *model.PublicUser, error) {
	err := validation.Struct(req)
	if err != nil {
		return "", nil, apperr.Validation("Username and password are required.")
	}

	users, err := s.userRepository.All()
	if err != nil {
		return "", nil, fmt.Errorf("failed to load users: %w", err)
	}

	username := normalizeUsername(req.Username)
	for i := range users {
		user := &users[i]
		if normalizeUsername(user.Username) != username || !s.passwordMatches(user, req.Password) {
			continue
		}

		token, err := s.tokens.Issue(user)
		if err != nil {
			return "", nil, fmt.Errorf("failed to issue token: %w", err)
		}

		public := user.Public()
		slog.Info("user logged in", "username", public.Username, "role", public.Role)
		return token, &public, nil
	}

	return "", nil, apperr.Unauthorized("Invalid credentials.")
}

// Verify resolves a bearer token to the identity it was issued for.
func (s *AuthService) Verify(token string) (*model.PublicUser, error) {
	return s.tokens.Verify(token)
}

func (s *AuthService) passwordMatches(user *model.User, password string) bool {
	if user.Password == "" {
		return false
	}
	if user.HasPasswordHash() {
		return s.ComparePassword(password, user.Password) == nil
	}
	return user.Password == password
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// JWTTokens issues HS256 tokens carrying username and role.
type JWTTokens struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func (t *JWTTokens) Issue(user *model.User) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"username": user.Username,
		"role":     user.EffectiveRole(),
		"iat":      now.Unix(),
		"exp":      now.Add(t.expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(t.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (t *JWTTokens) Verify(tokenString string) (*model.PublicUser, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Wrap(apperr.ErrUnauthorized, err, "Session expired.")
		}
		return nil, apperr.Wrap(apperr.ErrUnauthorized, err, "Invalid token.")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperr.Unauthorized("Invalid token.")
	}

	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if username == "" {
		return nil, apperr.Unauthorized("Invalid token.")
	}

	return &model.PublicUser{Username: username, Role: role}, nil
}

// OpaqueTokens issues random hex strings. Nothing records them, so Verify
// rejects every token and admin routes stay closed under this strategy.
type OpaqueTokens struct{}

func (t *OpaqueTokens) Issue(user *model.User) (string, error) {
	random := make([]byte, 16)
	_, err := rand.Read(random)
	if err != nil {
		return "", err
	}

	seed := fmt.Sprintf("%s:%d:%s", user.Username, time.Now().UnixNano(), hex.EncodeToString(random))
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:]), nil
}

func (t *OpaqueTokens) Verify(string) (*model.PublicUser, error) {
	return nil, apperr.Unauthorized("Invalid token.")
}
