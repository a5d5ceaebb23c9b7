package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// User roles carried in token claims
const (
	RoleInstructor  = "instructor"
	RoleParticipant = "participant"
)

// UserClaims are the JWT claims for both instructors and participants.
type UserClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService issues and validates instructor and participant tokens.
type AuthService struct {
	instructorUsername string
	instructorPassword string
	instructorHash     string
	instructorID       primitive.ObjectID
	jwtSecret          []byte
}

// NewAuthService creates an auth service. When passwordHash is set it takes
// precedence over the plain password.
func NewAuthService(username, password, passwordHash, secret string) *AuthService {
	return &AuthService{
		instructorUsername: username,
		instructorPassword: password,
		instructorHash:     passwordHash,
		instructorID:       primitive.NewObjectID(),
		jwtSecret:          []byte(secret),
	}
}

// Login validates instructor credentials and returns a signed token plus the
// instructor's user id.
func (s *AuthService) Login(username, password string) (string, string, error) {
	if username != s.instructorUsername {
		return "", "", ErrInvalidCredentials
	}
	if s.instructorHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(s.instructorHash), []byte(password)) != nil {
			return "", "", ErrInvalidCredentials
		}
	} else if password != s.instructorPassword {
		return "", "", ErrInvalidCredentials
	}

	token, err := s.sign(s.instructorID.Hex(), RoleInstructor, 0)
	if err != nil {
		return "", "", err
	}
	return token, s.instructorID.Hex(), nil
}

// GuestToken issues a participant token with a fresh user id, valid for one
// day of sessions.
func (s *AuthService) GuestToken() (string, string, error) {
	userID := primitive.NewObjectID().Hex()
	token, err := s.sign(userID, RoleParticipant, 24*time.Hour)
	if err != nil {
		return "", "", err
	}
	return token, userID, nil
}

func (s *AuthService) sign(userID, role string, ttl time.Duration) (string, error) {
	claims := &UserClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken validates a JWT and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
